package domain

import (
	"context"
	"io"
)

// TestResultRepository defines persistence operations for test results.
type TestResultRepository interface {
	Create(ctx context.Context, r *TestResult) error
	List(ctx context.Context) ([]*TestResult, error)
	GetByID(ctx context.Context, id int64) (*TestResult, error)
	Update(ctx context.Context, id int64, u TestResultUpdate) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// SettingsMergeFunc turns the current settings row (nil if none exists) into
// the row to be written.
type SettingsMergeFunc func(current *UserSettings) (*UserSettings, error)

// SettingsRepository defines persistence operations for the settings singleton.
type SettingsRepository interface {
	Get(ctx context.Context) (*UserSettings, error)
	// Save reads, merges and writes the row inside a single transaction.
	Save(ctx context.Context, merge SettingsMergeFunc) (*UserSettings, error)
}

// MessageRepository defines persistence operations for chat messages.
type MessageRepository interface {
	Create(ctx context.Context, m *ChatMessage) error
	ListBetween(ctx context.Context, userA, userB string) ([]*ChatMessage, error)
	ListForUser(ctx context.Context, userID string) ([]*ChatMessage, error)
	MarkAsRead(ctx context.Context, fromUserID, toUserID string) (int64, error)
}

// ShareRepository defines persistence operations for test result shares.
type ShareRepository interface {
	Create(ctx context.Context, s *TestResultShare) error
	GetByID(ctx context.Context, id int64) (*TestResultShare, error)
	ListForTestResult(ctx context.Context, testResultID int64) ([]*TestResultShare, error)
}

// Backend is everything the application surfaces need from local storage.
// It has a working implementation and one for hosts without local storage.
type Backend interface {
	Initialize(ctx context.Context) error
	Close() error

	SaveImage(ctx context.Context, sourcePath string) (string, error)
	SaveImageFrom(ctx context.Context, r io.Reader, ext string) (string, error)
	AddTestResult(ctx context.Context, in NewTestResult) (int64, error)
	// AddTestResultWithImage stores the image and creates the record owning
	// it; the stored image is removed if the record cannot be created.
	AddTestResultWithImage(ctx context.Context, in NewTestResult, src ImageSource) (int64, string, error)
	GetAllTestResults(ctx context.Context) ([]*TestResult, error)
	GetTestResultByID(ctx context.Context, id int64) (*TestResult, error)
	UpdateTestResult(ctx context.Context, id int64, u TestResultUpdate) error
	DeleteTestResult(ctx context.Context, id int64) error
	OpenTestResultImage(ctx context.Context, id int64) (*ImageFile, error)
	GetDatabaseStats(ctx context.Context) (*DatabaseStats, error)

	GetUserSettings(ctx context.Context) (*UserSettings, error)
	SaveUserSettings(ctx context.Context, p UserSettingsPatch) (*UserSettings, error)

	SendMessage(ctx context.Context, senderID, receiverID, text string) (*ChatMessage, error)
	GetMessages(ctx context.Context, userA, userB string) ([]*ChatMessage, error)
	MarkAsRead(ctx context.Context, fromUserID, toUserID string) error
	GetConversations(ctx context.Context, userID string) ([]*ChatConversation, error)

	CreateShare(ctx context.Context, in NewShare) (*ShareLink, error)
	ListShares(ctx context.Context, testResultID int64) ([]*ShareStatus, error)
	OpenShare(ctx context.Context, token string) (*SharedTestResult, error)

	AnalyzeTestResult(ctx context.Context, id int64, save bool) (string, error)
}
