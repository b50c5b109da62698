package models

import "github.com/google/uuid"

type Comment struct {
	Base
	Content string    `gorm:"type:text;not null" json:"content"`
	VideoID uuid.UUID `gorm:"type:uuid;not null;index" json:"video"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner"`
}

// Tweet is a short community post on a channel.
type Tweet struct {
	Base
	Content string    `gorm:"type:text;not null" json:"content"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner"`
}
