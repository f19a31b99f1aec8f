package handlers_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/SscSPs/payslip_portal/internal/core/domain"
	portssvc "github.com/SscSPs/payslip_portal/internal/core/ports/services"
	"github.com/SscSPs/payslip_portal/internal/dto"
	"github.com/SscSPs/payslip_portal/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

// --- Mock BatchProcessorService ---
type MockBatchProcessorService struct {
	mock.Mock
}

func (m *MockBatchProcessorService) ProcessBatch(ctx context.Context, batchID string) (*domain.BatchResult, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchResult), args.Error(1)
}

func (m *MockBatchProcessorService) ProcessSingleRecord(ctx context.Context, record domain.SalaryRecord) (string, error) {
	args := m.Called(ctx, record)
	return args.String(0), args.Error(1)
}

func (m *MockBatchProcessorService) RetryFailed(ctx context.Context, batchID string) (*domain.RetryResult, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RetryResult), args.Error(1)
}

func (m *MockBatchProcessorService) GetBatchProgress(ctx context.Context, batchID string) (*domain.BatchProgress, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchProgress), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.BatchProcessorSvcFacade = (*MockBatchProcessorService)(nil)

// --- Mock SalaryService ---
type MockSalaryService struct {
	mock.Mock
}

func (m *MockSalaryService) UploadSalaryFile(ctx context.Context, req dto.UploadSalaryRequest, file io.Reader, uploaderID string) (*domain.IngestionResult, error) {
	args := m.Called(ctx, req, file, uploaderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestionResult), args.Error(1)
}

func (m *MockSalaryService) ListSalaryRecords(ctx context.Context, params dto.ListSalaryRecordsParams) (*dto.ListSalaryRecordsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListSalaryRecordsResponse), args.Error(1)
}

func (m *MockSalaryService) ListBatches(ctx context.Context, uploaderID string) ([]domain.BatchSummary, error) {
	args := m.Called(ctx, uploaderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchSummary), args.Error(1)
}

func (m *MockSalaryService) DeleteBatch(ctx context.Context, batchID string) (int64, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).(int64), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.SalarySvcFacade = (*MockSalaryService)(nil)

// generateTestToken signs an access token the way the token service does.
func generateTestToken(t *testing.T, userID string, role domain.UserRole) string {
	token, _, err := utils.GenerateJWT(utils.TokenSubject{
		UserID:   userID,
		Role:     string(role),
		Username: "tester",
		Email:    "tester@example.com",
	}, testJWTSecret, time.Hour, "payslip-portal-test")
	require.NoError(t, err, "Failed to sign test token")
	return token
}
