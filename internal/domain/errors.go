package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrAuthRequired indicates a private source was requested without a token
	ErrAuthRequired = errors.New("source is private and no token is configured")

	// ErrAllSourcesFailed indicates every configured source fell back
	ErrAllSourcesFailed = errors.New("all sources failed to synchronize")
)
