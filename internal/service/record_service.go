package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"mediwallet/internal/domain"
)

// ImageStore is the asset storage used by the record services.
type ImageStore interface {
	SaveImage(ctx context.Context, sourcePath string) (string, error)
	SaveImageFrom(ctx context.Context, r io.Reader, ext string) (string, error)
	Delete(ctx context.Context, path string) error
	TotalSize() int64
	Open(path string) (*domain.ImageFile, error)
}

type RecordService struct {
	records domain.TestResultRepository
	images  ImageStore
	logger  *slog.Logger

	Now func() time.Time
}

func NewRecordService(records domain.TestResultRepository, images ImageStore, logger *slog.Logger) *RecordService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordService{records: records, images: images, logger: logger, Now: time.Now}
}

func (s *RecordService) SaveImage(ctx context.Context, sourcePath string) (string, error) {
	return s.images.SaveImage(ctx, sourcePath)
}

func (s *RecordService) SaveImageFrom(ctx context.Context, r io.Reader, ext string) (string, error) {
	return s.images.SaveImageFrom(ctx, r, ext)
}

func (s *RecordService) Add(ctx context.Context, in domain.NewTestResult) (int64, error) {
	testType := strings.TrimSpace(in.TestType)
	imagePath := strings.TrimSpace(in.ImagePath)
	if testType == "" {
		return 0, fmt.Errorf("%w: test type is required", domain.ErrValidation)
	}
	if imagePath == "" {
		return 0, fmt.Errorf("%w: image path is required", domain.ErrValidation)
	}

	tr := &domain.TestResult{
		CreatedAt:    s.Now().UTC(),
		TestType:     testType,
		ImagePath:    imagePath,
		Results:      in.Results,
		Notes:        in.Notes,
		AnalyzedData: in.AnalyzedData,
	}
	if err := s.records.Create(ctx, tr); err != nil {
		return 0, fmt.Errorf("add test result: %w", err)
	}
	s.logger.Debug("test result added", "id", tr.ID, "type", tr.TestType)
	return tr.ID, nil
}

// List returns all test results, newest first.
// AddWithImage stores the image from src and creates the test result that
// owns it. The stored image is deleted again when the row cannot be written.
func (s *RecordService) AddWithImage(ctx context.Context, in domain.NewTestResult, src domain.ImageSource) (int64, string, error) {
	if strings.TrimSpace(in.TestType) == "" {
		return 0, "", fmt.Errorf("%w: test type is required", domain.ErrValidation)
	}

	var (
		path string
		err  error
	)
	if src.Reader != nil {
		path, err = s.images.SaveImageFrom(ctx, src.Reader, src.Ext)
	} else {
		path, err = s.images.SaveImage(ctx, src.Path)
	}
	if err != nil {
		return 0, "", err
	}

	in.ImagePath = path
	id, err := s.Add(ctx, in)
	if err != nil {
		if derr := s.images.Delete(context.WithoutCancel(ctx), path); derr != nil {
			s.logger.Warn("could not remove image of failed test result", "path", path, "error", derr)
		}
		return 0, "", err
	}
	return id, path, nil
}

func (s *RecordService) List(ctx context.Context) ([]*domain.TestResult, error) {
	return s.records.List(ctx)
}

// Get returns nil without error when id does not exist.
func (s *RecordService) Get(ctx context.Context, id int64) (*domain.TestResult, error) {
	return s.records.GetByID(ctx, id)
}

func (s *RecordService) Update(ctx context.Context, id int64, u domain.TestResultUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	if u.TestType != nil {
		tt := strings.TrimSpace(*u.TestType)
		if tt == "" {
			return fmt.Errorf("%w: test type cannot be empty", domain.ErrValidation)
		}
		u.TestType = &tt
	}
	if err := s.records.Update(ctx, id, u); err != nil {
		return fmt.Errorf("update test result: %w", err)
	}
	return nil
}

// Delete removes the image asset and then the row. Missing rows and missing
// assets are not errors.
func (s *RecordService) Delete(ctx context.Context, id int64) error {
	tr, err := s.records.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get test result: %w", err)
	}
	if tr == nil {
		return nil
	}
	if err := s.images.Delete(ctx, tr.ImagePath); err != nil {
		s.logger.Warn("could not delete test image", "id", id, "path", tr.ImagePath, "error", err)
	}
	if err := s.records.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete test result: %w", err)
	}
	s.logger.Debug("test result deleted", "id", id)
	return nil
}

// OpenImage opens the stored image of test result id.
func (s *RecordService) OpenImage(ctx context.Context, id int64) (*domain.ImageFile, error) {
	tr, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, domain.ErrNotFound
	}
	return s.images.Open(tr.ImagePath)
}

func (s *RecordService) Stats(ctx context.Context) (*domain.DatabaseStats, error) {
	count, err := s.records.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count test results: %w", err)
	}
	return &domain.DatabaseStats{TotalTests: count, TotalSize: s.images.TotalSize()}, nil
}
