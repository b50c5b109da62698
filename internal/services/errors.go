package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds. Every error returned by a service that a client can act on
// wraps exactly one of these.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrPermission   = errors.New("permission denied")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a client-facing failure with a message safe to show.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func validationf(format string, args ...interface{}) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

var (
	ErrUserExists         = newError(ErrConflict, "user with email or username already exists")
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid user credentials")
	ErrInvalidToken       = newError(ErrUnauthorized, "invalid or expired refresh token")
	ErrUserNotFound       = newError(ErrNotFound, "user does not exist")
	ErrAvatarRequired     = newError(ErrValidation, "avatar file is required")
	ErrWrongPassword      = newError(ErrValidation, "invalid old password")

	ErrVideoNotFound    = newError(ErrNotFound, "video not found")
	ErrCommentNotFound  = newError(ErrNotFound, "comment not found")
	ErrTweetNotFound    = newError(ErrNotFound, "tweet not found")
	ErrPlaylistNotFound = newError(ErrNotFound, "playlist not found")
	ErrChannelNotFound  = newError(ErrNotFound, "channel does not exist")
	ErrNotInHistory     = newError(ErrNotFound, "video is not in watch history")
	ErrNotInPlaylist    = newError(ErrNotFound, "video is not in playlist")

	ErrNotOwner      = newError(ErrPermission, "you are not allowed to modify this resource")
	ErrSelfSubscribe = newError(ErrPermission, "you cannot subscribe to your own channel")

	ErrAlreadyInHistory  = newError(ErrConflict, "video already in watch history")
	ErrAlreadyInPlaylist = newError(ErrConflict, "video already in playlist")
	ErrPlaylistExists    = newError(ErrConflict, "playlist with this name already exists")
)

// notFound maps a missing row to target and passes other errors through.
func notFound(err error, target *Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

// conflict maps a unique index violation to target.
func conflict(err error, target *Error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return target
	}
	return err
}
