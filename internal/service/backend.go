package service

import (
	"context"
	"io"

	"mediwallet/internal/domain"
)

// Lifecycle is the database handle owned by a backend.
type Lifecycle interface {
	Initialize(ctx context.Context) error
	Close() error
}

// Native is the backend for hosts with local storage.
type Native struct {
	conn     Lifecycle
	Records  *RecordService
	Settings *SettingsService
	Messages *MessageService
	Shares   *ShareService
	Analysis *AnalysisService
}

var _ domain.Backend = (*Native)(nil)

func NewNative(
	conn Lifecycle,
	records *RecordService,
	settings *SettingsService,
	messages *MessageService,
	shares *ShareService,
	analysis *AnalysisService,
) *Native {
	return &Native{
		conn:     conn,
		Records:  records,
		Settings: settings,
		Messages: messages,
		Shares:   shares,
		Analysis: analysis,
	}
}

func (n *Native) Initialize(ctx context.Context) error { return n.conn.Initialize(ctx) }
func (n *Native) Close() error                         { return n.conn.Close() }

func (n *Native) SaveImage(ctx context.Context, sourcePath string) (string, error) {
	return n.Records.SaveImage(ctx, sourcePath)
}

func (n *Native) SaveImageFrom(ctx context.Context, r io.Reader, ext string) (string, error) {
	return n.Records.SaveImageFrom(ctx, r, ext)
}

func (n *Native) AddTestResult(ctx context.Context, in domain.NewTestResult) (int64, error) {
	return n.Records.Add(ctx, in)
}

func (n *Native) AddTestResultWithImage(ctx context.Context, in domain.NewTestResult, src domain.ImageSource) (int64, string, error) {
	return n.Records.AddWithImage(ctx, in, src)
}

func (n *Native) GetAllTestResults(ctx context.Context) ([]*domain.TestResult, error) {
	return n.Records.List(ctx)
}

func (n *Native) GetTestResultByID(ctx context.Context, id int64) (*domain.TestResult, error) {
	return n.Records.Get(ctx, id)
}

func (n *Native) UpdateTestResult(ctx context.Context, id int64, u domain.TestResultUpdate) error {
	return n.Records.Update(ctx, id, u)
}

func (n *Native) DeleteTestResult(ctx context.Context, id int64) error {
	return n.Records.Delete(ctx, id)
}

func (n *Native) OpenTestResultImage(ctx context.Context, id int64) (*domain.ImageFile, error) {
	return n.Records.OpenImage(ctx, id)
}

func (n *Native) GetDatabaseStats(ctx context.Context) (*domain.DatabaseStats, error) {
	return n.Records.Stats(ctx)
}

func (n *Native) GetUserSettings(ctx context.Context) (*domain.UserSettings, error) {
	return n.Settings.Get(ctx)
}

func (n *Native) SaveUserSettings(ctx context.Context, p domain.UserSettingsPatch) (*domain.UserSettings, error) {
	return n.Settings.Save(ctx, p)
}

func (n *Native) SendMessage(ctx context.Context, senderID, receiverID, text string) (*domain.ChatMessage, error) {
	return n.Messages.Send(ctx, senderID, receiverID, text)
}

func (n *Native) GetMessages(ctx context.Context, userA, userB string) ([]*domain.ChatMessage, error) {
	return n.Messages.Messages(ctx, userA, userB)
}

func (n *Native) MarkAsRead(ctx context.Context, fromUserID, toUserID string) error {
	return n.Messages.MarkAsRead(ctx, fromUserID, toUserID)
}

func (n *Native) GetConversations(ctx context.Context, userID string) ([]*domain.ChatConversation, error) {
	return n.Messages.Conversations(ctx, userID)
}

func (n *Native) CreateShare(ctx context.Context, in domain.NewShare) (*domain.ShareLink, error) {
	return n.Shares.Create(ctx, in)
}

func (n *Native) ListShares(ctx context.Context, testResultID int64) ([]*domain.ShareStatus, error) {
	return n.Shares.List(ctx, testResultID)
}

func (n *Native) OpenShare(ctx context.Context, token string) (*domain.SharedTestResult, error) {
	return n.Shares.Open(ctx, token)
}

func (n *Native) AnalyzeTestResult(ctx context.Context, id int64, save bool) (string, error) {
	return n.Analysis.Analyze(ctx, id, save)
}
