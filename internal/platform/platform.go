// Package platform selects the storage backend for the current host.
package platform

import (
	"log/slog"

	"mediwallet/internal/domain"
)

// Capabilities describes what the host can do.
type Capabilities struct {
	LocalStorage bool
}

// NativeBuilder constructs the backend for hosts with local storage.
type NativeBuilder func() (domain.Backend, error)

// Resolve returns the native backend when the host has local storage and
// Unsupported otherwise.
func Resolve(caps Capabilities, buildNative NativeBuilder, logger *slog.Logger) (domain.Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !caps.LocalStorage {
		logger.Info("local storage unavailable, using unsupported backend")
		return Unsupported{}, nil
	}
	return buildNative()
}

// IsUnsupported reports whether b is the no-storage backend.
func IsUnsupported(b domain.Backend) bool {
	_, ok := b.(Unsupported)
	return ok
}
