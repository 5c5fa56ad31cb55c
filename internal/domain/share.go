package domain

import (
	"fmt"
	"time"
)

// MaxShareDuration is the longest a share may stay valid.
const MaxShareDuration = 48 * time.Hour

// ValidateShareExpiry checks that expiresAt lies in (now, now+max].
func ValidateShareExpiry(now, expiresAt time.Time, max time.Duration) error {
	if max <= 0 || max > MaxShareDuration {
		max = MaxShareDuration
	}
	if !expiresAt.After(now) {
		return fmt.Errorf("%w: share expiry must be in the future", ErrValidation)
	}
	if expiresAt.Sub(now) > max {
		return fmt.Errorf("%w: share expiry must be within %s", ErrValidation, max)
	}
	return nil
}
