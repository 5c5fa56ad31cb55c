package service

import (
	"context"
	"fmt"
	"io"

	"mediwallet/internal/analysis"
	"mediwallet/internal/domain"
)

// Analyzer turns an image into provider text.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (string, error)
}

// maxImageBytes bounds what is read into memory for a provider request.
const maxImageBytes = 20 << 20

type AnalysisService struct {
	records  *RecordService
	settings domain.SettingsRepository
	analyzer Analyzer
}

func NewAnalysisService(records *RecordService, settings domain.SettingsRepository, analyzer Analyzer) *AnalysisService {
	return &AnalysisService{records: records, settings: settings, analyzer: analyzer}
}

// Analyze sends the image of test result id to the configured provider. With
// save set, the returned text is stored as the result's analyzed data.
func (s *AnalysisService) Analyze(ctx context.Context, id int64, save bool) (string, error) {
	tr, err := s.records.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if tr == nil {
		return "", fmt.Errorf("%w: test result %d", domain.ErrNotFound, id)
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("get settings: %w", err)
	}

	img, err := s.records.OpenImage(ctx, id)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	data, err := io.ReadAll(io.LimitReader(img.Content, maxImageBytes+1))
	img.Content.Close()
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return "", fmt.Errorf("%w: image exceeds %d bytes", domain.ErrValidation, maxImageBytes)
	}

	text, err := s.analyzer.Analyze(ctx, analysis.Request{
		Provider: settings.Provider(),
		APIKey:   settings.EffectiveAPIKey(),
		TestType: tr.TestType,
		Image:    data,
	})
	if err != nil {
		return "", err
	}
	if save {
		if err := s.records.Update(ctx, id, domain.TestResultUpdate{AnalyzedData: &text}); err != nil {
			return "", err
		}
	}
	return text, nil
}
