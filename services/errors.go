package services

import "errors"

// Sentinel errors handlers translate into HTTP status codes.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrProfileExists     = errors.New("profile already exists")
	ErrTrackNotFound     = errors.New("track not found")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrAlreadyCompleted  = errors.New("challenge already completed")
)
