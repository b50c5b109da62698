package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/models"
	"gorm.io/gorm"
)

// first loads the row with id or returns missing.
func first[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, missing *Error) (*T, error) {
	var row T
	if err := db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err, missing)
	}
	return &row, nil
}

func requireOwner(owner, actor uuid.UUID) error {
	if owner != actor {
		return ErrNotOwner
	}
	return nil
}

func ensureExists(ctx context.Context, db *gorm.DB, model interface{}, id uuid.UUID, missing *Error) error {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return missing
	}
	return nil
}

func ensureUser(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return ensureExists(ctx, db, &models.User{}, id, ErrUserNotFound)
}
