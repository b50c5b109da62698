package models

import "github.com/google/uuid"

type Video struct {
	Base
	VideoFile   string    `gorm:"not null" json:"videoFile"`
	VideoFileID string    `gorm:"size:255" json:"-"`
	Thumbnail   string    `gorm:"not null" json:"thumbnail"`
	ThumbnailID string    `gorm:"size:255" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Duration    float64   `json:"duration"`
	Views       int64     `gorm:"not null;default:0" json:"views"`
	IsPublished bool      `gorm:"not null;default:true;index" json:"isPublished"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner"`
}
