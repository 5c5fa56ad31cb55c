package service_test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"mediwallet/internal/analysis"
	"mediwallet/internal/domain"
)

type MockTestResultRepo struct {
	mock.Mock
}

func (m *MockTestResultRepo) Create(ctx context.Context, tr *domain.TestResult) error {
	args := m.Called(ctx, tr)
	return args.Error(0)
}

func (m *MockTestResultRepo) List(ctx context.Context) ([]*domain.TestResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TestResult), args.Error(1)
}

func (m *MockTestResultRepo) GetByID(ctx context.Context, id int64) (*domain.TestResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TestResult), args.Error(1)
}

func (m *MockTestResultRepo) Update(ctx context.Context, id int64, u domain.TestResultUpdate) error {
	args := m.Called(ctx, id, u)
	return args.Error(0)
}

func (m *MockTestResultRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTestResultRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) SaveImage(ctx context.Context, sourcePath string) (string, error) {
	args := m.Called(ctx, sourcePath)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) SaveImageFrom(ctx context.Context, r io.Reader, ext string) (string, error) {
	args := m.Called(ctx, r, ext)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockImageStore) TotalSize() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

func (m *MockImageStore) Open(path string) (*domain.ImageFile, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImageFile), args.Error(1)
}

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, req analysis.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }
