package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Playlist names are unique per owner, compared lowercased.
type Playlist struct {
	Base
	Name        string    `gorm:"size:100;not null;uniqueIndex:idx_playlists_owner_name,priority:2" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_playlists_owner_name,priority:1" json:"owner"`
}

func (p *Playlist) BeforeSave(tx *gorm.DB) error {
	p.Name = strings.ToLower(strings.TrimSpace(p.Name))
	return nil
}

// PlaylistVideo is one ordered entry of a playlist. A video appears at most once.
type PlaylistVideo struct {
	Base
	PlaylistID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_videos_entry,priority:1" json:"playlist"`
	VideoID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_videos_entry,priority:2;index" json:"video"`
	Position   int64     `gorm:"not null" json:"position"`
}
