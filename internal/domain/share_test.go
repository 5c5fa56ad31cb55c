package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mediwallet/internal/domain"
)

func TestValidateShareExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expires time.Time
		max     time.Duration
		wantErr bool
	}{
		{"OneDay", now.Add(24 * time.Hour), domain.MaxShareDuration, false},
		{"ExactlyMax", now.Add(48 * time.Hour), domain.MaxShareDuration, false},
		{"BeyondMax", now.Add(49 * time.Hour), domain.MaxShareDuration, true},
		{"Now", now, domain.MaxShareDuration, true},
		{"Past", now.Add(-time.Minute), domain.MaxShareDuration, true},
		{"ShorterConfiguredMax", now.Add(13 * time.Hour), 12 * time.Hour, true},
		{"OversizedMaxIsClamped", now.Add(72 * time.Hour), 96 * time.Hour, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.ValidateShareExpiry(now, tc.expires, tc.max)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShareIsExpired(t *testing.T) {
	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &domain.TestResultShare{ExpiresAt: expires}

	assert.False(t, s.IsExpired(expires.Add(-time.Nanosecond)))
	assert.True(t, s.IsExpired(expires))
	assert.True(t, s.IsExpired(expires.Add(time.Hour)))
}

func TestUserSettingsFallbacks(t *testing.T) {
	legacy := "sk-legacy"
	s := &domain.UserSettings{UserName: "alice", OpenAIAPIKey: &legacy}

	assert.Equal(t, "alice", s.AddressingID())
	assert.Equal(t, domain.ProviderOpenAI, s.Provider())
	assert.Equal(t, "sk-legacy", s.EffectiveAPIKey())

	key, provider := "g-key", domain.ProviderGoogle
	s.UserID = "u-1"
	s.AIAPIKey = &key
	s.AIProvider = &provider
	assert.Equal(t, "u-1", s.AddressingID())
	assert.Equal(t, domain.ProviderGoogle, s.Provider())
	assert.Equal(t, "g-key", s.EffectiveAPIKey())

	var none *domain.UserSettings
	assert.Empty(t, none.AddressingID())
	assert.Empty(t, none.EffectiveAPIKey())
}

func TestTimeLayoutSortsLexically(t *testing.T) {
	a := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := a.Add(500 * time.Millisecond)

	assert.Less(t, domain.FormatTime(a), domain.FormatTime(b))

	parsed, err := domain.ParseTime(domain.FormatTime(b))
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(b))

	legacy, err := domain.ParseTime("2025-06-01T10:00:00.123Z")
	assert.NoError(t, err)
	assert.Equal(t, 123*time.Millisecond, time.Duration(legacy.Nanosecond()))
}
