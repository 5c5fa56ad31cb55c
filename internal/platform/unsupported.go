package platform

import (
	"context"
	"io"

	"mediwallet/internal/domain"
)

// Unsupported is the backend for hosts without local storage. Initialize
// and Close succeed; every other operation fails with
// domain.ErrPlatformUnsupported.
type Unsupported struct{}

var _ domain.Backend = Unsupported{}

func (Unsupported) Initialize(context.Context) error { return nil }
func (Unsupported) Close() error                     { return nil }

func (Unsupported) SaveImage(context.Context, string) (string, error) {
	return "", domain.ErrPlatformUnsupported
}

func (Unsupported) SaveImageFrom(context.Context, io.Reader, string) (string, error) {
	return "", domain.ErrPlatformUnsupported
}

func (Unsupported) AddTestResult(context.Context, domain.NewTestResult) (int64, error) {
	return 0, domain.ErrPlatformUnsupported
}

func (Unsupported) AddTestResultWithImage(context.Context, domain.NewTestResult, domain.ImageSource) (int64, string, error) {
	return 0, "", domain.ErrPlatformUnsupported
}

func (Unsupported) GetAllTestResults(context.Context) ([]*domain.TestResult, error) {
	return nil, domain.ErrPlatformUnsupported
}

func (Unsupported) GetTestResultByID(context.Context, int64) (*domain.TestResult, error) {
	return nil, domain.ErrPlatformUnsupported
}

func (Unsupported) UpdateTestResult(context.Context, int64, domain.TestResultUpdate) error {
	return domain.ErrPlatformUnsupported
}

func (Unsupported) DeleteTestResult(context.Context, int64) error {
	return domain.ErrPlatformUnsupported
}

func (Unsupported) OpenTestResultImage(context.Context, int64) (*domain.ImageFile, error) {
	return nil, domain.ErrPlatformUnsupported
}

func (Unsupported) GetDatabaseStats(context.Context) (*domain.DatabaseStats, error) {
	return nil, domain.ErrPlatformUnsupported
}

func (Unsupported) GetUserSettings(context.Context) (*domain.UserSettings, error) {
	return nil, domain.ErrPlatformUnsupported
}

func (Unsupported) SaveUserSettings(context.Context, domain.UserSettingsPatch) (*domain.UserSettings, error) {
	return nil, domain.ErrPlatformUnsupported
}

func (Unsupported) SendMessage(context.Context, string, string, string) (*domain.ChatMessage, error) {
	return nil, domain.ErrPlatformUnsupported
}

func (Unsupported) GetMessages(context.Context, string, string) ([]*domain.ChatMessage, error) {
	return nil, domain.ErrPlatformUnsupported
}

func (Unsupported) MarkAsRead(context.Context, string, string) error {
	return domain.ErrPlatformUnsupported
}

func (Unsupported) GetConversations(context.Context, string) ([]*domain.ChatConversation, error) {
	return nil, domain.ErrPlatformUnsupported
}

func (Unsupported) CreateShare(context.Context, domain.NewShare) (*domain.ShareLink, error) {
	return nil, domain.ErrPlatformUnsupported
}

func (Unsupported) ListShares(context.Context, int64) ([]*domain.ShareStatus, error) {
	return nil, domain.ErrPlatformUnsupported
}

func (Unsupported) OpenShare(context.Context, string) (*domain.SharedTestResult, error) {
	return nil, domain.ErrPlatformUnsupported
}

func (Unsupported) AnalyzeTestResult(context.Context, int64, bool) (string, error) {
	return "", domain.ErrPlatformUnsupported
}
