package service_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mediwallet/internal/analysis"
	"mediwallet/internal/assets"
	"mediwallet/internal/domain"
	"mediwallet/internal/service"
	"mediwallet/internal/store/sqlite"
)

func TestAnalysisService(t *testing.T) {
	ctx := context.Background()
	conn := newSQLite(t)
	images := assets.NewManager(t.TempDir())
	records := service.NewRecordService(sqlite.NewTestResultRepo(conn), images, nil)
	settingsRepo := sqlite.NewSettingsRepo(conn)
	settings := service.NewSettingsService(settingsRepo)

	_, err := settings.Save(ctx, domain.UserSettingsPatch{
		UserName:     strPtr("Alice"),
		DoctorName:   strPtr("Dr. B"),
		OpenAIAPIKey: strPtr("legacy-key"),
	})
	require.NoError(t, err)

	path, err := images.SaveImageFrom(ctx, strings.NewReader("jpeg bytes"), ".jpg")
	require.NoError(t, err)
	id, err := records.Add(ctx, domain.NewTestResult{TestType: "blood", ImagePath: path})
	require.NoError(t, err)

	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", ctx, mock.MatchedBy(func(r analysis.Request) bool {
		return r.Provider == domain.ProviderOpenAI && r.APIKey == "legacy-key" &&
			r.TestType == "blood" && string(r.Image) == "jpeg bytes"
	})).Return("Hemoglobin normal", nil)

	svc := service.NewAnalysisService(records, settingsRepo, analyzer)

	text, err := svc.Analyze(ctx, id, false)
	require.NoError(t, err)
	assert.Equal(t, "Hemoglobin normal", text)
	tr, err := records.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, tr.AnalyzedData)

	_, err = svc.Analyze(ctx, id, true)
	require.NoError(t, err)
	tr, err = records.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, tr.AnalyzedData)
	assert.Equal(t, "Hemoglobin normal", *tr.AnalyzedData)

	_, err = svc.Analyze(ctx, id+100, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalysisServiceRejectsOversizedImage(t *testing.T) {
	ctx := context.Background()
	conn := newSQLite(t)
	images := assets.NewManager(t.TempDir())
	records := service.NewRecordService(sqlite.NewTestResultRepo(conn), images, nil)

	big := bytes.Repeat([]byte{0xff}, 20<<20+1)
	id, _, err := records.AddWithImage(ctx, domain.NewTestResult{TestType: "mri"}, domain.ImageSource{Reader: bytes.NewReader(big), Ext: ".jpg"})
	require.NoError(t, err)

	analyzer := new(MockAnalyzer)
	svc := service.NewAnalysisService(records, sqlite.NewSettingsRepo(conn), analyzer)

	_, err = svc.Analyze(ctx, id, false)
	assert.ErrorIs(t, err, domain.ErrValidation)
	analyzer.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}
