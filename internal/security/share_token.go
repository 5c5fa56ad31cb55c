package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mediwallet/internal/domain"
)

const shareAudience = "mediwallet-share"

// ShareTokens signs and verifies share links. A token names one share and
// expires together with it.
type ShareTokens struct {
	secret []byte
	now    func() time.Time
}

func NewShareTokens(secret string, now func() time.Time) *ShareTokens {
	if now == nil {
		now = time.Now
	}
	return &ShareTokens{secret: []byte(secret), now: now}
}

// Issue creates a token for shareID valid until expiresAt.
func (t *ShareTokens) Issue(shareID int64, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(shareID, 10),
		Audience:  jwt.ClaimStrings{shareAudience},
		IssuedAt:  jwt.NewNumericDate(t.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign share token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns the share ID it names.
func (t *ShareTokens) Parse(tokenStr string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	},
		jwt.WithAudience(shareAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return 0, domain.ErrShareExpired
	}
	if err != nil {
		return 0, fmt.Errorf("%w: invalid share token: %v", domain.ErrValidation, err)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid share token subject", domain.ErrValidation)
	}
	return id, nil
}
