package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"mediwallet/internal/domain"
)

// TokenIssuer signs and verifies share links.
type TokenIssuer interface {
	Issue(shareID int64, expiresAt time.Time) (string, error)
	Parse(token string) (int64, error)
}

type ShareService struct {
	shares      domain.ShareRepository
	records     domain.TestResultRepository
	tokens      TokenIssuer
	maxDuration time.Duration
	logger      *slog.Logger

	Now func() time.Time
}

func NewShareService(
	shares domain.ShareRepository,
	records domain.TestResultRepository,
	tokens TokenIssuer,
	maxDuration time.Duration,
	logger *slog.Logger,
) *ShareService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShareService{
		shares:      shares,
		records:     records,
		tokens:      tokens,
		maxDuration: maxDuration,
		logger:      logger,
		Now:         time.Now,
	}
}

// Create grants a recipient access to one test result until in.ExpiresAt,
// which must lie within the maximum share duration from now.
func (s *ShareService) Create(ctx context.Context, in domain.NewShare) (*domain.ShareLink, error) {
	now := s.Now().UTC()
	name := strings.TrimSpace(in.RecipientName)
	if name == "" {
		return nil, fmt.Errorf("%w: recipient name is required", domain.ErrValidation)
	}
	if err := domain.ValidateShareExpiry(now, in.ExpiresAt, s.maxDuration); err != nil {
		return nil, err
	}

	tr, err := s.records.GetByID(ctx, in.TestResultID)
	if err != nil {
		return nil, fmt.Errorf("get test result: %w", err)
	}
	if tr == nil {
		return nil, fmt.Errorf("%w: test result %d", domain.ErrNotFound, in.TestResultID)
	}

	share := &domain.TestResultShare{
		TestResultID:  in.TestResultID,
		RecipientName: name,
		ExpiresAt:     in.ExpiresAt.UTC(),
		CreatedAt:     now,
	}
	if in.RecipientEmail != nil {
		if email := strings.TrimSpace(*in.RecipientEmail); email != "" {
			share.RecipientEmail = &email
		}
	}
	if err := s.shares.Create(ctx, share); err != nil {
		return nil, fmt.Errorf("create share: %w", err)
	}

	token, err := s.tokens.Issue(share.ID, share.ExpiresAt)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("share created", "id", share.ID, "test_result_id", share.TestResultID, "expires_at", share.ExpiresAt)
	return &domain.ShareLink{Share: share, Token: token}, nil
}

// List returns the shares of a test result with their validity as of now.
func (s *ShareService) List(ctx context.Context, testResultID int64) ([]*domain.ShareStatus, error) {
	shares, err := s.shares.ListForTestResult(ctx, testResultID)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	now := s.Now()
	return lo.Map(shares, func(sh *domain.TestResultShare, _ int) *domain.ShareStatus {
		return &domain.ShareStatus{TestResultShare: sh, Active: !sh.IsExpired(now)}
	}), nil
}

// Open resolves a share token to the shared test result. Validity is
// checked against the stored expiry at the time of the call.
func (s *ShareService) Open(ctx context.Context, token string) (*domain.SharedTestResult, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	share, err := s.shares.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get share: %w", err)
	}
	if share == nil {
		return nil, fmt.Errorf("%w: share %d", domain.ErrNotFound, id)
	}
	if share.IsExpired(s.Now()) {
		return nil, domain.ErrShareExpired
	}

	tr, err := s.records.GetByID(ctx, share.TestResultID)
	if err != nil {
		return nil, fmt.Errorf("get test result: %w", err)
	}
	if tr == nil {
		return nil, fmt.Errorf("%w: test result %d", domain.ErrNotFound, share.TestResultID)
	}
	return &domain.SharedTestResult{Share: share, TestResult: tr}, nil
}
