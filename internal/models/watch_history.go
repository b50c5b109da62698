package models

import "github.com/google/uuid"

// WatchHistoryEntry records that a user watched a video. Position keeps
// insertion order and the unique index suppresses duplicates.
type WatchHistoryEntry struct {
	Base
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watch_history_entry,priority:1" json:"user"`
	VideoID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watch_history_entry,priority:2;index" json:"video"`
	Position int64     `gorm:"not null" json:"position"`
}
