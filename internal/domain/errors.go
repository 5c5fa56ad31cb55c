package domain

import "errors"

// Sentinel errors for the application.
var (
	// ErrStoreUnavailable means the store is not initialized and could not be.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrNotFound is returned by services that require an entity to exist.
	// Plain lookups report absence as a nil result instead.
	ErrNotFound = errors.New("resource not found")
	// ErrPlatformUnsupported is returned by every operation on hosts without
	// local storage.
	ErrPlatformUnsupported = errors.New("operation not supported on this platform")
	ErrAssetCopy           = errors.New("asset copy failed")
	ErrValidation          = errors.New("invalid input")
	ErrShareExpired        = errors.New("share expired")
	ErrAnalysisUnavailable = errors.New("analysis unavailable")
)
