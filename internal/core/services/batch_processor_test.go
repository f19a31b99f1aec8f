package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/payslip_portal/internal/apperrors"
	"github.com/SscSPs/payslip_portal/internal/core/domain"
	portssvc "github.com/SscSPs/payslip_portal/internal/core/ports/services"
	"github.com/SscSPs/payslip_portal/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const successMessage = "Salary slip processed and sent successfully"

// --- Test Suite Setup ---

type BatchProcessorTestSuite struct {
	suite.Suite
	mockRepo     *MockSalaryRecordRepository
	mockRenderer *MockRenderer
	mockDelivery *MockDelivery
	mockLocker   *MockLocker
	service      portssvc.BatchProcessorSvcFacade
	now          time.Time
	batchID      string
}

func (suite *BatchProcessorTestSuite) SetupTest() {
	suite.mockRepo = new(MockSalaryRecordRepository)
	suite.mockRenderer = new(MockRenderer)
	suite.mockDelivery = new(MockDelivery)
	suite.mockLocker = new(MockLocker)
	suite.now = time.Date(2025, time.March, 31, 10, 0, 0, 0, time.UTC)
	suite.batchID = uuid.NewString()
	suite.service = services.NewBatchProcessorService(
		suite.mockRepo,
		suite.mockRenderer,
		suite.mockDelivery,
		services.WithBatchLocker(suite.mockLocker),
		services.WithClock(func() time.Time { return suite.now }),
	)
}

func (suite *BatchProcessorTestSuite) makeRecords(n int) []domain.SalaryRecord {
	records := make([]domain.SalaryRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, domain.SalaryRecord{
			RecordID:    uuid.NewString(),
			BatchID:     suite.batchID,
			RowIndex:    i,
			EmployeeID:  fmt.Sprintf("E%03d", i+1),
			Name:        fmt.Sprintf("Employee %d", i+1),
			Email:       fmt.Sprintf("e%d@example.com", i+1),
			BasicSalary: decimal.NewFromInt(5000),
			NetSalary:   decimal.NewFromInt(4500),
			Month:       "March",
			Year:        2025,
			Status:      domain.RecordPending,
		})
	}
	return records
}

func docFor(r domain.SalaryRecord) *domain.RenderedDocument {
	name := fmt.Sprintf("salary_slip_%s_%s_%d.pdf", r.EmployeeID, r.Month, r.Year)
	return &domain.RenderedDocument{Path: "/tmp/pdfs/" + name, FileName: name}
}

func (suite *BatchProcessorTestSuite) expectLock() {
	suite.mockLocker.On("Acquire", mock.Anything, suite.batchID).Return(nil).Once()
}

func (suite *BatchProcessorTestSuite) expectRecordStatus(recordID string, status domain.RecordStatus, message string) {
	suite.mockRepo.On("UpdateRecordStatus", mock.Anything, recordID, domain.RecordStatusUpdate{
		Status:      status,
		Message:     message,
		ProcessedAt: suite.now,
	}).Return(nil).Once()
}

func batchStatusIs(status domain.BatchStatus) interface{} {
	return mock.MatchedBy(func(u domain.BatchStatusUpdate) bool { return u.Status == status })
}

// --- ProcessBatch ---

func (suite *BatchProcessorTestSuite) TestProcessBatch_AllSucceed() {
	ctx := context.Background()
	records := suite.makeRecords(3)

	suite.expectLock()
	suite.mockRepo.On("FindRecordsByBatch", mock.Anything, suite.batchID).Return(records, nil).Once()
	suite.mockRepo.On("UpdateBatchStatus", mock.Anything, suite.batchID, mock.MatchedBy(func(u domain.BatchStatusUpdate) bool {
		return u.Status == domain.BatchProcessing &&
			u.RecordStatus != nil && *u.RecordStatus == domain.RecordProcessing &&
			u.UpdatedAt.Equal(suite.now)
	})).Return(nil).Once()

	var delivered []string
	for _, r := range records {
		doc := docFor(r)
		suite.mockRenderer.On("Render", mock.Anything, r).Return(doc, nil).Once()
		suite.mockDelivery.On("Deliver", mock.Anything, r, *doc).
			Run(func(args mock.Arguments) {
				delivered = append(delivered, args.Get(1).(domain.SalaryRecord).EmployeeID)
			}).
			Return("Email sent successfully to "+r.Email, nil).Once()
		suite.expectRecordStatus(r.RecordID, domain.RecordCompleted, successMessage)
	}

	suite.mockRepo.On("UpdateBatchStatus", mock.Anything, suite.batchID, mock.MatchedBy(func(u domain.BatchStatusUpdate) bool {
		res, ok := u.Details.(domain.BatchResult)
		return u.Status == domain.BatchCompleted && u.RecordStatus == nil &&
			ok && res.Total == 3 && res.Successful == 3 && res.Failed == 0
	})).Return(nil).Once()

	result, err := suite.service.ProcessBatch(ctx, suite.batchID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(3, result.Total)
	suite.Equal(3, result.Successful)
	suite.Equal(0, result.Failed)
	suite.NotNil(result.Errors)
	suite.Empty(result.Errors)
	suite.Equal([]string{"E001", "E002", "E003"}, delivered)
	suite.Equal(1, suite.mockLocker.released)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockRenderer.AssertExpectations(suite.T())
	suite.mockDelivery.AssertExpectations(suite.T())
	suite.mockLocker.AssertExpectations(suite.T())
}

func (suite *BatchProcessorTestSuite) TestProcessBatch_MixedFailures() {
	ctx := context.Background()
	records := suite.makeRecords(3)
	ok, renderFails, deliveryFails := records[0], records[1], records[2]

	suite.expectLock()
	suite.mockRepo.On("FindRecordsByBatch", mock.Anything, suite.batchID).Return(records, nil).Once()
	suite.mockRepo.On("UpdateBatchStatus", mock.Anything, suite.batchID, batchStatusIs(domain.BatchProcessing)).Return(nil).Once()

	suite.mockRenderer.On("Render", mock.Anything, ok).Return(docFor(ok), nil).Once()
	suite.mockDelivery.On("Deliver", mock.Anything, ok, *docFor(ok)).Return("sent", nil).Once()
	suite.expectRecordStatus(ok.RecordID, domain.RecordCompleted, successMessage)

	suite.mockRenderer.On("Render", mock.Anything, renderFails).Return(nil, errors.New("disk full")).Once()
	suite.expectRecordStatus(renderFails.RecordID, domain.RecordPDFFailed, "disk full")

	suite.mockRenderer.On("Render", mock.Anything, deliveryFails).Return(docFor(deliveryFails), nil).Once()
	suite.mockDelivery.On("Deliver", mock.Anything, deliveryFails, *docFor(deliveryFails)).
		Return("", errors.New("error sending email: 550 mailbox unavailable")).Once()
	suite.expectRecordStatus(deliveryFails.RecordID, domain.RecordEmailFailed, "error sending email: 550 mailbox unavailable")

	suite.mockRepo.On("UpdateBatchStatus", mock.Anything, suite.batchID, mock.MatchedBy(func(u domain.BatchStatusUpdate) bool {
		res, ok := u.Details.(domain.BatchResult)
		return u.Status == domain.BatchPartiallyCompleted && ok && res.Failed == 2 && len(res.Errors) == 2
	})).Return(nil).Once()

	result, err := suite.service.ProcessBatch(ctx, suite.batchID)

	suite.Require().NoError(err)
	suite.Equal(3, result.Total)
	suite.Equal(1, result.Successful)
	suite.Equal(2, result.Failed)
	suite.Equal(result.Total, result.Successful+result.Failed)
	suite.Equal([]domain.RecordError{
		{EmployeeID: "E002", Name: "Employee 2", Error: "disk full"},
		{EmployeeID: "E003", Name: "Employee 3", Error: "error sending email: 550 mailbox unavailable"},
	}, result.Errors)

	// Delivery is never attempted for a record that failed to render.
	suite.mockDelivery.AssertNotCalled(suite.T(), "Deliver", mock.Anything, renderFails, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockRenderer.AssertExpectations(suite.T())
	suite.mockDelivery.AssertExpectations(suite.T())
}

func (suite *BatchProcessorTestSuite) TestProcessBatch_RendererPanicIsRecordFailure() {
	ctx := context.Background()
	records := suite.makeRecords(2)

	suite.expectLock()
	suite.mockRepo.On("FindRecordsByBatch", mock.Anything, suite.batchID).Return(records, nil).Once()
	suite.mockRepo.On("UpdateBatchStatus", mock.Anything, suite.batchID, batchStatusIs(domain.BatchProcessing)).Return(nil).Once()

	suite.mockRenderer.On("Render", mock.Anything, records[0]).Panic("font missing").Once()
	suite.expectRecordStatus(records[0].RecordID, domain.RecordProcessingFailed, "font missing")

	suite.mockRenderer.On("Render", mock.Anything, records[1]).Return(docFor(records[1]), nil).Once()
	suite.mockDelivery.On("Deliver", mock.Anything, records[1], *docFor(records[1])).Return("sent", nil).Once()
	suite.expectRecordStatus(records[1].RecordID, domain.RecordCompleted, successMessage)

	suite.mockRepo.On("UpdateBatchStatus", mock.Anything, suite.batchID, batchStatusIs(domain.BatchPartiallyCompleted)).Return(nil).Once()

	result, err := suite.service.ProcessBatch(ctx, suite.batchID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Successful)
	suite.Equal(1, result.Failed)
	suite.Equal("error processing record: font missing", result.Errors[0].Error)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *BatchProcessorTestSuite) TestProcessBatch_EmptyDocumentIsProcessingFailure() {
	ctx := context.Background()
	records := suite.makeRecords(1)

	suite.expectLock()
	suite.mockRepo.On("FindRecordsByBatch", mock.Anything, suite.batchID).Return(records, nil).Once()
	suite.mockRepo.On("UpdateBatchStatus", mock.Anything, suite.batchID, batchStatusIs(domain.BatchProcessing)).Return(nil).Once()
	suite.mockRenderer.On("Render", mock.Anything, records[0]).Return(&domain.RenderedDocument{}, nil).Once()
	suite.expectRecordStatus(records[0].RecordID, domain.RecordProcessingFailed, "renderer returned no document")
	suite.mockRepo.On("UpdateBatchStatus", mock.Anything, suite.batchID, batchStatusIs(domain.BatchPartiallyCompleted)).Return(nil).Once()

	result, err := suite.service.ProcessBatch(ctx, suite.batchID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Failed)
	suite.mockDelivery.AssertNotCalled(suite.T(), "Deliver", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *BatchProcessorTestSuite) TestProcessBatch_StatusWriteFailuresAreSwallowed() {
	ctx := context.Background()
	records := suite.makeRecords(2)

	suite.expectLock()
	suite.mockRepo.On("FindRecordsByBatch", mock.Anything, suite.batchID).Return(records, nil).Once()
	suite.mockRepo.On("UpdateBatchStatus", mock.Anything, suite.batchID, mock.Anything).Return(errors.New("connection reset")).Twice()
	suite.mockRepo.On("UpdateRecordStatus", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection reset")).Twice()
	for _, r := range records {
		suite.mockRenderer.On("Render", mock.Anything, r).Return(docFor(r), nil).Once()
		suite.mockDelivery.On("Deliver", mock.Anything, r, *docFor(r)).Return("sent", nil).Once()
	}

	result, err := suite.service.ProcessBatch(ctx, suite.batchID)

	suite.Require().NoError(err)
	suite.Equal(2, result.Successful)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockDelivery.AssertExpectations(suite.T())
}

func (suite *BatchProcessorTestSuite) TestProcessBatch_StatusWritePanicIsSwallowed() {
	ctx := context.Background()
	records := suite.makeRecords(1)

	suite.expectLock()
	suite.mockRepo.On("FindRecordsByBatch", mock.Anything, suite.batchID).Return(records, nil).Once()
	suite.mockRepo.On("UpdateBatchStatus", mock.Anything, suite.batchID, mock.Anything).Return(nil).Twice()
	suite.mockRenderer.On("Render", mock.Anything, records[0]).Return(docFor(records[0]), nil).Once()
	suite.mockDelivery.On("Deliver", mock.Anything, records[0], *docFor(records[0])).Return("sent", nil).Once()
	suite.mockRepo.On("UpdateRecordStatus", mock.Anything, records[0].RecordID, mock.Anything).Panic("driver bug").Once()

	result, err := suite.service.ProcessBatch(ctx, suite.batchID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Successful)
	suite.Equal(0, result.Failed)
}

func (suite *BatchProcessorTestSuite) TestProcessBatch_LoadFailureMarksBatchFailed() {
	ctx := context.Background()
	loadErr := errors.New("connection refused")

	suite.expectLock()
	suite.mockRepo.On("FindRecordsByBatch", mock.Anything, suite.batchID).Return(nil, loadErr).Once()
	suite.mockRepo.On("UpdateBatchStatus", mock.Anything, suite.batchID, mock.MatchedBy(func(u domain.BatchStatusUpdate) bool {
		return u.Status == domain.BatchFailed && u.Details == "connection refused" && u.RecordStatus == nil
	})).Return(nil).Once()

	result, err := suite.service.ProcessBatch(ctx, suite.batchID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrBatchFatal)
	suite.ErrorIs(err, loadErr)
	suite.Contains(err.Error(), "error processing batch: connection refused")
	suite.mockRenderer.AssertNotCalled(suite.T(), "Render", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.Equal(1, suite.mockLocker.released)
}

func (suite *BatchProcessorTestSuite) TestProcessBatch_LoadFailureSurvivesFailedStatusWriteError() {
	ctx := context.Background()
	loadErr := errors.New("connection refused")

	suite.expectLock()
	suite.mockRepo.On("FindRecordsByBatch", mock.Anything, suite.batchID).Return(nil, loadErr).Once()
	suite.mockRepo.On("UpdateBatchStatus", mock.Anything, suite.batchID, batchStatusIs(domain.BatchFailed)).
		Return(errors.New("store unavailable")).Once()

	result, err := suite.service.ProcessBatch(ctx, suite.batchID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrBatchFatal)
	suite.ErrorIs(err, loadErr)
	suite.Contains(err.Error(), "error processing batch")
	suite.NotContains(err.Error(), "store unavailable")
	suite.mockRepo.AssertExpectations(suite.T())
	suite.Equal(1, suite.mockLocker.released)
}

func (suite *BatchProcessorTestSuite) TestProcessBatch_LoadFailureSurvivesFailedStatusWritePanic() {
	ctx := context.Background()
	loadErr := errors.New("connection refused")

	suite.expectLock()
	suite.mockRepo.On("FindRecordsByBatch", mock.Anything, suite.batchID).Return(nil, loadErr).Once()
	suite.mockRepo.On("UpdateBatchStatus", mock.Anything, suite.batchID, batchStatusIs(domain.BatchFailed)).
		Panic("pool closed").Once()

	var (
		result *domain.BatchResult
		err    error
	)
	suite.NotPanics(func() {
		result, err = suite.service.ProcessBatch(ctx, suite.batchID)
	})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrBatchFatal)
	suite.Contains(err.Error(), "error processing batch: connection refused")
	suite.Equal(1, suite.mockLocker.released)
}

func (suite *BatchProcessorTestSuite) TestProcessBatch_UnknownBatch() {
	ctx := context.Background()

	suite.expectLock()
	suite.mockRepo.On("FindRecordsByBatch", mock.Anything, suite.batchID).Return([]domain.SalaryRecord{}, nil).Once()

	result, err := suite.service.ProcessBatch(ctx, suite.batchID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateBatchStatus", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateRecordStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BatchProcessorTestSuite) TestProcessBatch_LockedBatch() {
	ctx := context.Background()
	suite.mockLocker.On("Acquire", mock.Anything, suite.batchID).Return(apperrors.ErrConflict).Once()

	result, err := suite.service.ProcessBatch(ctx, suite.batchID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindRecordsByBatch", mock.Anything, mock.Anything)
}

func (suite *BatchProcessorTestSuite) TestProcessBatch_IgnoresCallerCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	records := suite.makeRecords(1)

	suite.expectLock()
	suite.mockRepo.On("FindRecordsByBatch", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), suite.batchID).
		Return(records, nil).Once()
	suite.mockRepo.On("UpdateBatchStatus", mock.Anything, suite.batchID, mock.Anything).Return(nil).Twice()
	suite.mockRenderer.On("Render", mock.Anything, records[0]).Return(docFor(records[0]), nil).Once()
	suite.mockDelivery.On("Deliver", mock.Anything, records[0], *docFor(records[0])).Return("sent", nil).Once()
	suite.expectRecordStatus(records[0].RecordID, domain.RecordCompleted, successMessage)

	result, err := suite.service.ProcessBatch(ctx, suite.batchID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Successful)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- RetryFailed ---

func (suite *BatchProcessorTestSuite) TestRetryFailed_NothingToRetry() {
	ctx := context.Background()

	suite.expectLock()
	suite.mockRepo.On("FindRecordsByStatuses", mock.Anything, suite.batchID, domain.RetryableStatuses).
		Return([]domain.SalaryRecord{}, nil).Once()

	result, err := suite.service.RetryFailed(ctx, suite.batchID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.True(result.NothingToRetry)
	suite.Equal("No failed records to retry", result.Message)
	suite.Equal(0, result.TotalRetried)
	suite.mockRenderer.AssertNotCalled(suite.T(), "Render", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateBatchStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BatchProcessorTestSuite) TestRetryFailed_ReprocessesFailedOnly() {
	ctx := context.Background()
	failed := suite.makeRecords(2)
	failed[0].Status = domain.RecordPDFFailed
	failed[1].Status = domain.RecordEmailFailed

	suite.expectLock()
	suite.mockRepo.On("FindRecordsByStatuses", mock.Anything, suite.batchID, domain.RetryableStatuses).Return(failed, nil).Once()

	suite.mockRenderer.On("Render", mock.Anything, failed[0]).Return(docFor(failed[0]), nil).Once()
	suite.mockDelivery.On("Deliver", mock.Anything, failed[0], *docFor(failed[0])).Return("sent", nil).Once()
	suite.expectRecordStatus(failed[0].RecordID, domain.RecordCompleted, successMessage)

	suite.mockRenderer.On("Render", mock.Anything, failed[1]).Return(docFor(failed[1]), nil).Once()
	suite.mockDelivery.On("Deliver", mock.Anything, failed[1], *docFor(failed[1])).Return("", errors.New("smtp timeout")).Once()
	suite.expectRecordStatus(failed[1].RecordID, domain.RecordEmailFailed, "smtp timeout")

	result, err := suite.service.RetryFailed(ctx, suite.batchID)

	suite.Require().NoError(err)
	suite.False(result.NothingToRetry)
	suite.Equal(2, result.TotalRetried)
	suite.Equal(1, result.Successful)
	suite.Equal(1, result.Failed)
	suite.Equal("smtp timeout", result.Errors[0].Error)
	suite.Equal("E002", result.Errors[0].EmployeeID)
	// Retry never rewrites the batch label.
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateBatchStatus", mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.Equal(1, suite.mockLocker.released)
}

func (suite *BatchProcessorTestSuite) TestRetryFailed_SecondRunAfterFullSuccessHasNothingToRetry() {
	ctx := context.Background()
	failed := suite.makeRecords(1)
	failed[0].Status = domain.RecordPDFFailed

	suite.mockLocker.On("Acquire", mock.Anything, suite.batchID).Return(nil).Twice()
	suite.mockRepo.On("FindRecordsByStatuses", mock.Anything, suite.batchID, domain.RetryableStatuses).Return(failed, nil).Once()
	suite.mockRenderer.On("Render", mock.Anything, failed[0]).Return(docFor(failed[0]), nil).Once()
	suite.mockDelivery.On("Deliver", mock.Anything, failed[0], *docFor(failed[0])).Return("sent", nil).Once()
	suite.expectRecordStatus(failed[0].RecordID, domain.RecordCompleted, successMessage)

	first, err := suite.service.RetryFailed(ctx, suite.batchID)
	suite.Require().NoError(err)
	suite.False(first.NothingToRetry)
	suite.Equal(1, first.TotalRetried)
	suite.Equal(1, first.Successful)
	suite.Equal(0, first.Failed)

	// The record is completed now, so the store no longer returns it.
	suite.mockRepo.On("FindRecordsByStatuses", mock.Anything, suite.batchID, domain.RetryableStatuses).
		Return([]domain.SalaryRecord{}, nil).Once()

	second, err := suite.service.RetryFailed(ctx, suite.batchID)
	suite.Require().NoError(err)
	suite.True(second.NothingToRetry)
	suite.Equal("No failed records to retry", second.Message)
	suite.Equal(0, second.TotalRetried)

	suite.mockRenderer.AssertNumberOfCalls(suite.T(), "Render", 1)
	suite.mockDelivery.AssertNumberOfCalls(suite.T(), "Deliver", 1)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "UpdateRecordStatus", 1)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.Equal(2, suite.mockLocker.released)
}

func (suite *BatchProcessorTestSuite) TestRetryFailed_LoadError() {
	ctx := context.Background()

	suite.expectLock()
	suite.mockRepo.On("FindRecordsByStatuses", mock.Anything, suite.batchID, domain.RetryableStatuses).
		Return(nil, errQueryFailed).Once()

	result, err := suite.service.RetryFailed(ctx, suite.batchID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, errQueryFailed)
	suite.Contains(err.Error(), "error during retry")
}

func (suite *BatchProcessorTestSuite) TestRetryFailed_LockedBatch() {
	ctx := context.Background()
	suite.mockLocker.On("Acquire", mock.Anything, suite.batchID).Return(apperrors.ErrConflict).Once()

	result, err := suite.service.RetryFailed(ctx, suite.batchID)

	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

// --- GetBatchProgress ---

func (suite *BatchProcessorTestSuite) TestGetBatchProgress_CountsAndErrors() {
	ctx := context.Background()
	records := suite.makeRecords(3)
	partial := domain.BatchPartiallyCompleted
	for i := range records {
		records[i].BatchStatus = &partial
	}
	records[0].Status = domain.RecordCompleted
	records[0].StatusMessage = successMessage
	records[1].Status = domain.RecordPDFFailed
	records[1].StatusMessage = "disk full"
	records[2].Status = domain.RecordEmailFailed
	records[2].StatusMessage = "smtp timeout"

	suite.mockRepo.On("FindRecordsByBatch", ctx, suite.batchID).Return(records, nil).Once()

	progress, err := suite.service.GetBatchProgress(ctx, suite.batchID)

	suite.Require().NoError(err)
	suite.Equal(3, progress.TotalRecords)
	suite.Equal(33.33, progress.CompletionPercentage)
	suite.Equal(map[domain.RecordStatus]int{
		domain.RecordCompleted:   1,
		domain.RecordPDFFailed:   1,
		domain.RecordEmailFailed: 1,
	}, progress.StatusCounts)
	suite.Require().NotNil(progress.BatchStatus)
	suite.Equal(domain.BatchPartiallyCompleted, *progress.BatchStatus)
	suite.Require().Len(progress.Errors, 2)
	suite.Equal("disk full", progress.Errors[0].Message)
	suite.Equal(domain.RecordEmailFailed, progress.Errors[1].Status)
}

func (suite *BatchProcessorTestSuite) TestGetBatchProgress_PendingWithoutMessageIsNotAnError() {
	ctx := context.Background()
	records := suite.makeRecords(2)

	suite.mockRepo.On("FindRecordsByBatch", ctx, suite.batchID).Return(records, nil).Once()

	progress, err := suite.service.GetBatchProgress(ctx, suite.batchID)

	suite.Require().NoError(err)
	suite.Equal(float64(0), progress.CompletionPercentage)
	suite.Empty(progress.Errors)
	suite.Nil(progress.BatchStatus)
}

func (suite *BatchProcessorTestSuite) TestGetBatchProgress_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindRecordsByBatch", ctx, suite.batchID).Return([]domain.SalaryRecord{}, nil).Once()

	progress, err := suite.service.GetBatchProgress(ctx, suite.batchID)

	suite.Nil(progress)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *BatchProcessorTestSuite) TestProcessSingleRecord_ErrorKinds() {
	ctx := context.Background()
	record := suite.makeRecords(1)[0]

	suite.mockRenderer.On("Render", mock.Anything, record).Return(nil, errors.New("disk full")).Once()
	suite.expectRecordStatus(record.RecordID, domain.RecordPDFFailed, "disk full")

	msg, err := suite.service.ProcessSingleRecord(ctx, record)

	suite.Empty(msg)
	suite.ErrorIs(err, apperrors.ErrRenderFailed)
	suite.NotErrorIs(err, apperrors.ErrDeliveryFailed)
	var failure *apperrors.RecordFailure
	suite.Require().ErrorAs(err, &failure)
	suite.Equal("disk full", failure.Error())
}

var errQueryFailed = errors.New("query failed")

// --- Run Test Suite ---

func TestBatchProcessorTestSuite(t *testing.T) {
	suite.Run(t, new(BatchProcessorTestSuite))
}
