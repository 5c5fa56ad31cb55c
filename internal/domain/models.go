package domain

import (
	"io"
	"strings"
	"time"
)

// TimeLayout is the on-disk timestamp format. Fixed-width nanoseconds keep
// lexical and chronological order identical so ORDER BY on TEXT columns works.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t in TimeLayout (UTC).
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a stored timestamp. RFC 3339 values written by older
// clients are accepted as well.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// TestResult is a captured test image plus its classification and notes.
type TestResult struct {
	ID           int64     `db:"id" json:"id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	TestType     string    `db:"test_type" json:"test_type"`
	ImagePath    string    `db:"image_path" json:"image_path"`
	Results      *string   `db:"results" json:"results,omitempty"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	AnalyzedData *string   `db:"analyzed_data" json:"analyzed_data,omitempty"`
}

// NewTestResult is the input for creating a TestResult.
type NewTestResult struct {
	TestType     string  `json:"test_type"`
	ImagePath    string  `json:"image_path"`
	Results      *string `json:"results,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	AnalyzedData *string `json:"analyzed_data,omitempty"`
}

// ImageSource names the image a new test result is created with: either a
// file on disk or a stream with its file extension.
type ImageSource struct {
	Path   string
	Reader io.Reader
	Ext    string
}

// TestResultUpdate carries a partial update. Nil fields are left untouched.
// ID and CreatedAt are deliberately absent.
type TestResultUpdate struct {
	TestType     *string `json:"test_type,omitempty"`
	Results      *string `json:"results,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	AnalyzedData *string `json:"analyzed_data,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u TestResultUpdate) IsEmpty() bool {
	return u.TestType == nil && u.Results == nil && u.Notes == nil && u.AnalyzedData == nil
}

// DatabaseStats summarises stored records and asset usage.
type DatabaseStats struct {
	TotalTests int   `json:"total_tests"`
	TotalSize  int64 `json:"total_size"`
}

// ImageFile is an opened stored asset.
type ImageFile struct {
	Name    string
	ModTime time.Time
	Content io.ReadSeekCloser
}

// AI providers accepted in UserSettings.AIProvider.
const (
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
	ProviderAnthropic = "anthropic"
	ProviderMistral   = "mistral"
)

// DefaultProvider is used when settings carry no provider.
const DefaultProvider = ProviderOpenAI

// KnownProvider reports whether p names a supported AI provider.
func KnownProvider(p string) bool {
	switch p {
	case ProviderOpenAI, ProviderGoogle, ProviderAnthropic, ProviderMistral:
		return true
	}
	return false
}

// UserSettings is the singleton profile of the local user.
type UserSettings struct {
	ID               int64     `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"user_id"`
	UserName         string    `db:"user_name" json:"user_name"`
	UserPhone        *string   `db:"user_phone" json:"user_phone,omitempty"`
	UserEmail        *string   `db:"user_email" json:"user_email,omitempty"`
	UserAddress      *string   `db:"user_address" json:"user_address,omitempty"`
	UserDateOfBirth  *string   `db:"user_date_of_birth" json:"user_date_of_birth,omitempty"`
	InsuranceCompany *string   `db:"insurance_company" json:"insurance_company,omitempty"`
	InsuranceNumber  *string   `db:"insurance_number" json:"insurance_number,omitempty"`
	DoctorName       string    `db:"doctor_name" json:"doctor_name"`
	DoctorPhone      *string   `db:"doctor_phone" json:"doctor_phone,omitempty"`
	DoctorEmail      *string   `db:"doctor_email" json:"doctor_email,omitempty"`
	DoctorAddress    *string   `db:"doctor_address" json:"doctor_address,omitempty"`
	OpenAIAPIKey     *string   `db:"openai_api_key" json:"-"`
	AIProvider       *string   `db:"ai_provider" json:"ai_provider,omitempty"`
	AIAPIKey         *string   `db:"ai_api_key" json:"-"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// AddressingID returns the ID other users address messages to. Records
// saved before user IDs existed fall back to the display name.
func (s *UserSettings) AddressingID() string {
	if s == nil {
		return ""
	}
	if id := strings.TrimSpace(s.UserID); id != "" {
		return id
	}
	return strings.TrimSpace(s.UserName)
}

// Provider returns the configured AI provider or DefaultProvider.
func (s *UserSettings) Provider() string {
	if s != nil && s.AIProvider != nil && *s.AIProvider != "" {
		return *s.AIProvider
	}
	return DefaultProvider
}

// EffectiveAPIKey returns the provider key, falling back to the legacy
// single-provider OpenAI key.
func (s *UserSettings) EffectiveAPIKey() string {
	if s == nil {
		return ""
	}
	if s.AIAPIKey != nil && *s.AIAPIKey != "" {
		return *s.AIAPIKey
	}
	if s.OpenAIAPIKey != nil {
		return *s.OpenAIAPIKey
	}
	return ""
}

// UserSettingsPatch is a partial settings update. Nil leaves a field as is,
// a pointer to "" clears an optional field.
type UserSettingsPatch struct {
	UserID           *string `json:"user_id,omitempty"`
	UserName         *string `json:"user_name,omitempty"`
	UserPhone        *string `json:"user_phone,omitempty"`
	UserEmail        *string `json:"user_email,omitempty"`
	UserAddress      *string `json:"user_address,omitempty"`
	UserDateOfBirth  *string `json:"user_date_of_birth,omitempty"`
	InsuranceCompany *string `json:"insurance_company,omitempty"`
	InsuranceNumber  *string `json:"insurance_number,omitempty"`
	DoctorName       *string `json:"doctor_name,omitempty"`
	DoctorPhone      *string `json:"doctor_phone,omitempty"`
	DoctorEmail      *string `json:"doctor_email,omitempty"`
	DoctorAddress    *string `json:"doctor_address,omitempty"`
	OpenAIAPIKey     *string `json:"openai_api_key,omitempty"`
	AIProvider       *string `json:"ai_provider,omitempty"`
	AIAPIKey         *string `json:"ai_api_key,omitempty"`
}

// ChatMessage is one direct message between two users.
type ChatMessage struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   string    `db:"sender_id" json:"sender_id"`
	ReceiverID string    `db:"receiver_id" json:"receiver_id"`
	Message    string    `db:"message" json:"message"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	Read       bool      `db:"read" json:"read"`
}

// Counterpart returns the participant that is not userID.
func (m *ChatMessage) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// ChatConversation is derived from ChatMessage rows on every read.
type ChatConversation struct {
	UserID          string    `json:"user_id"`
	UserName        string    `json:"user_name"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int       `json:"unread_count"`
}

// TestResultShare grants a named recipient access to one test result until
// ExpiresAt.
type TestResultShare struct {
	ID             int64     `db:"id" json:"id"`
	TestResultID   int64     `db:"test_result_id" json:"test_result_id"`
	RecipientName  string    `db:"recipient_name" json:"recipient_name"`
	RecipientEmail *string   `db:"recipient_email" json:"recipient_email,omitempty"`
	ExpiresAt      time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// IsExpired reports whether the share is no longer valid at now.
func (s *TestResultShare) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// NewShare is the input for creating a share.
type NewShare struct {
	TestResultID   int64     `json:"test_result_id"`
	RecipientName  string    `json:"recipient_name"`
	RecipientEmail *string   `json:"recipient_email,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// ShareLink is a created share plus the signed token handed to the recipient.
type ShareLink struct {
	Share *TestResultShare `json:"share"`
	Token string           `json:"token"`
}

// ShareStatus is a share with its validity evaluated at read time.
type ShareStatus struct {
	*TestResultShare
	Active bool `json:"active"`
}

// SharedTestResult is what a share recipient gets to see.
type SharedTestResult struct {
	Share      *TestResultShare `json:"share"`
	TestResult *TestResult      `json:"test_result"`
}
