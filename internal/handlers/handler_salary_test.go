package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/payslip_portal/internal/apperrors"
	"github.com/SscSPs/payslip_portal/internal/core/domain"
	"github.com/SscSPs/payslip_portal/internal/dto"
	"github.com/SscSPs/payslip_portal/internal/handlers"
	"github.com/SscSPs/payslip_portal/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SalaryHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	mockSalary *MockSalaryService
	userID     string
	token      string
}

func (suite *SalaryHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockSalary = new(MockSalaryService)
	suite.userID = uuid.NewString()
	suite.token = generateTestToken(suite.T(), suite.userID, domain.RoleHRAdmin)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret))
	handlers.RegisterSalaryRoutes(v1, suite.mockSalary, 1024)
}

func (suite *SalaryHandlerTestSuite) multipartRequest(fields map[string]string, fileName string, content []byte) *http.Request {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		suite.Require().NoError(w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		suite.Require().NoError(err)
		_, err = part.Write(content)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(w.Close())

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/salary/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.token)
	return req
}

func (suite *SalaryHandlerTestSuite) TestUpload_Success() {
	content := []byte("employee_id,name\nE001,Ann\n")
	result := &domain.IngestionResult{
		BatchID:          uuid.NewString(),
		Month:            "March",
		Year:             2025,
		RecordsProcessed: 1,
		TotalNetSalary:   decimal.NewFromInt(5000),
	}
	suite.mockSalary.On("UploadSalaryFile",
		mock.Anything,
		dto.UploadSalaryRequest{Month: "March", Year: 2025, FileName: "march.csv"},
		mock.Anything,
		suite.userID,
	).Run(func(args mock.Arguments) {
		got, err := io.ReadAll(args.Get(2).(io.Reader))
		suite.NoError(err)
		suite.Equal(content, got)
	}).Return(result, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.multipartRequest(map[string]string{"month": "March", "year": "2025"}, "march.csv", content))

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.UploadSalaryResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("success", body.Status)
	suite.Equal(result.BatchID, body.Details.BatchID)
	suite.mockSalary.AssertExpectations(suite.T())
}

func (suite *SalaryHandlerTestSuite) TestUpload_MissingFile() {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.multipartRequest(map[string]string{"month": "March", "year": "2025"}, "", nil))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "No file part in the request")
	suite.mockSalary.AssertNotCalled(suite.T(), "UploadSalaryFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SalaryHandlerTestSuite) TestUpload_TooLarge() {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.multipartRequest(map[string]string{"month": "March", "year": "2025"}, "big.csv", bytes.Repeat([]byte("x"), 4096)))

	suite.Equal(http.StatusRequestEntityTooLarge, w.Code)
}

func (suite *SalaryHandlerTestSuite) TestUpload_ValidationErrorFromService() {
	suite.mockSalary.On("UploadSalaryFile", mock.Anything, mock.Anything, mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: file type not allowed, allowed types: csv, xlsx", apperrors.ErrValidation)).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.multipartRequest(map[string]string{"month": "March", "year": "2025"}, "notes.txt", []byte("hi")))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "file type not allowed")
}

func (suite *SalaryHandlerTestSuite) TestListBatches() {
	suite.mockSalary.On("ListBatches", mock.Anything, suite.userID).Return([]domain.BatchSummary{
		{BatchID: "b2", FileName: "april.xlsx", RecordCount: 4},
		{BatchID: "b1", FileName: "march.xlsx", RecordCount: 3},
	}, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/salary/batches", nil)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListBatchesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(2, body.Count)
	suite.Equal("b2", body.Data[0].BatchID)
}

func (suite *SalaryHandlerTestSuite) TestDeleteBatch_Conflict() {
	suite.mockSalary.On("DeleteBatch", mock.Anything, "b1").
		Return(int64(0), fmt.Errorf("batch b1 is being processed: %w", apperrors.ErrConflict)).Once()

	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/salary/salary-data/b1", nil)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *SalaryHandlerTestSuite) TestDeleteBatch_Success() {
	suite.mockSalary.On("DeleteBatch", mock.Anything, "b1").Return(int64(3), nil).Once()

	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/salary/salary-data/b1", nil)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.DeleteBatchResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(int64(3), body.RecordsDeleted)
}

func TestSalaryHandler(t *testing.T) {
	suite.Run(t, new(SalaryHandlerTestSuite))
}
