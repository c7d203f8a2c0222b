package services

import "errors"

var (
	// ErrFavoriteNotFound means a favorite lookup named a date the user
	// never bookmarked, usually a stale or tampered token
	ErrFavoriteNotFound = errors.New("favorite not found")
	// ErrPersistence wraps any failure of the backing store
	ErrPersistence = errors.New("persistence unavailable")
	// ErrUnauthorized means the caller is not the administrator
	ErrUnauthorized = errors.New("unauthorized")
)
