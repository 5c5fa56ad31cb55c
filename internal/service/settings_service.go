package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediwallet/internal/domain"
)

type SettingsService struct {
	settings domain.SettingsRepository

	Now   func() time.Time
	NewID func() string
}

func NewSettingsService(settings domain.SettingsRepository) *SettingsService {
	return &SettingsService{
		settings: settings,
		Now:      time.Now,
		NewID:    func() string { return uuid.NewString() },
	}
}

// Get returns nil without error when nothing was saved yet.
func (s *SettingsService) Get(ctx context.Context) (*domain.UserSettings, error) {
	return s.settings.Get(ctx)
}

// Save merges p into the stored settings. The user ID is assigned on the
// first save and never changes afterwards. A stored row without one keeps
// its name-based address.
func (s *SettingsService) Save(ctx context.Context, p domain.UserSettingsPatch) (*domain.UserSettings, error) {
	saved, err := s.settings.Save(ctx, func(current *domain.UserSettings) (*domain.UserSettings, error) {
		return s.merge(current, p)
	})
	if err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return saved, nil
}

func (s *SettingsService) merge(current *domain.UserSettings, p domain.UserSettingsPatch) (*domain.UserSettings, error) {
	now := s.Now().UTC()
	next := &domain.UserSettings{CreatedAt: now}
	if current != nil {
		cp := *current
		next = &cp
	}

	if strings.TrimSpace(next.UserID) == "" {
		switch {
		case p.UserID != nil && strings.TrimSpace(*p.UserID) != "":
			next.UserID = strings.TrimSpace(*p.UserID)
		case current.AddressingID() != "":
			// Rows written without an ID are addressed by name; keep that address.
			next.UserID = current.AddressingID()
		default:
			next.UserID = s.NewID()
		}
	}

	if p.UserName != nil {
		next.UserName = strings.TrimSpace(*p.UserName)
	}
	if p.DoctorName != nil {
		next.DoctorName = strings.TrimSpace(*p.DoctorName)
	}
	setOptional(&next.UserPhone, p.UserPhone)
	setOptional(&next.UserEmail, p.UserEmail)
	setOptional(&next.UserAddress, p.UserAddress)
	setOptional(&next.UserDateOfBirth, p.UserDateOfBirth)
	setOptional(&next.InsuranceCompany, p.InsuranceCompany)
	setOptional(&next.InsuranceNumber, p.InsuranceNumber)
	setOptional(&next.DoctorPhone, p.DoctorPhone)
	setOptional(&next.DoctorEmail, p.DoctorEmail)
	setOptional(&next.DoctorAddress, p.DoctorAddress)
	setOptional(&next.OpenAIAPIKey, p.OpenAIAPIKey)
	setOptional(&next.AIProvider, p.AIProvider)
	setOptional(&next.AIAPIKey, p.AIAPIKey)

	if next.UserName == "" {
		return nil, fmt.Errorf("%w: user name is required", domain.ErrValidation)
	}
	if next.DoctorName == "" {
		return nil, fmt.Errorf("%w: doctor name is required", domain.ErrValidation)
	}
	if next.AIProvider != nil && !domain.KnownProvider(*next.AIProvider) {
		return nil, fmt.Errorf("%w: unknown ai provider %q", domain.ErrValidation, *next.AIProvider)
	}

	next.UpdatedAt = now
	return next, nil
}

// setOptional applies a patch value. Blank clears the field.
func setOptional(dst **string, v *string) {
	if v == nil {
		return
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		*dst = nil
		return
	}
	*dst = &trimmed
}
