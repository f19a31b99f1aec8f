package services_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/payslip_portal/internal/core/domain"
	portsrepo "github.com/SscSPs/payslip_portal/internal/core/ports/repositories"
	"github.com/SscSPs/payslip_portal/internal/platform/config"
	"github.com/stretchr/testify/mock"
)

// MockSalaryRecordRepository is a mock type for the SalaryRecordRepositoryFacade interface
type MockSalaryRecordRepository struct {
	mock.Mock
}

// --- Implement mock methods for SalaryRecordRepositoryFacade ---

func (m *MockSalaryRecordRepository) FindRecordsByBatch(ctx context.Context, batchID string) ([]domain.SalaryRecord, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SalaryRecord), args.Error(1)
}

func (m *MockSalaryRecordRepository) FindRecordsByStatuses(ctx context.Context, batchID string, statuses []domain.RecordStatus) ([]domain.SalaryRecord, error) {
	args := m.Called(ctx, batchID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SalaryRecord), args.Error(1)
}

func (m *MockSalaryRecordRepository) ListRecords(ctx context.Context, filter portsrepo.SalaryRecordFilter) ([]domain.SalaryRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SalaryRecord), args.Error(1)
}

func (m *MockSalaryRecordRepository) ListBatchSummaries(ctx context.Context, uploadedBy string) ([]domain.BatchSummary, error) {
	args := m.Called(ctx, uploadedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchSummary), args.Error(1)
}

func (m *MockSalaryRecordRepository) SaveRecords(ctx context.Context, records []domain.SalaryRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockSalaryRecordRepository) UpdateRecordStatus(ctx context.Context, recordID string, update domain.RecordStatusUpdate) error {
	args := m.Called(ctx, recordID, update)
	return args.Error(0)
}

func (m *MockSalaryRecordRepository) UpdateBatchStatus(ctx context.Context, batchID string, update domain.BatchStatusUpdate) error {
	args := m.Called(ctx, batchID, update)
	return args.Error(0)
}

func (m *MockSalaryRecordRepository) DeleteBatch(ctx context.Context, batchID string) (int64, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).(int64), args.Error(1)
}

// MockRenderer is a mock type for the DocumentRenderer interface
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, record domain.SalaryRecord) (*domain.RenderedDocument, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RenderedDocument), args.Error(1)
}

// MockDelivery is a mock type for the DeliveryChannel interface
type MockDelivery struct {
	mock.Mock
}

func (m *MockDelivery) Deliver(ctx context.Context, record domain.SalaryRecord, doc domain.RenderedDocument) (string, error) {
	args := m.Called(ctx, record, doc)
	return args.String(0), args.Error(1)
}

// MockLocker is a mock type for the BatchLocker interface
type MockLocker struct {
	mock.Mock
	released int
}

func (m *MockLocker) Acquire(ctx context.Context, batchID string) (func(), error) {
	args := m.Called(ctx, batchID)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() { m.released++ }, nil
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string, updatedAt time.Time) error {
	args := m.Called(ctx, userID, passwordHash, updatedAt)
	return args.Error(0)
}

// MockSpreadsheetParser is a mock type for the SpreadsheetParser interface
type MockSpreadsheetParser struct {
	mock.Mock
}

func (m *MockSpreadsheetParser) Parse(r io.Reader, ext string) ([]domain.SalaryRecord, error) {
	args := m.Called(r, ext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SalaryRecord), args.Error(1)
}

func (m *MockSpreadsheetParser) Supports(ext string) bool {
	return m.Called(ext).Bool(0)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                  "test-secret",
		JWTExpiryDuration:          time.Hour,
		JWTIssuer:                  "payslip-portal-test",
		RefreshTokenSecret:         "test-refresh-secret",
		RefreshTokenExpiryDuration: 24 * time.Hour,
	}
}
