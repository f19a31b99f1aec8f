package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/payslip_portal/internal/core/ports/services"
	"github.com/SscSPs/payslip_portal/internal/dto"
	"github.com/SscSPs/payslip_portal/internal/middleware"
	"github.com/gin-gonic/gin"
)

// salaryHandler handles upload and listing of salary batches.
type salaryHandler struct {
	salaryService  portssvc.SalarySvcFacade
	maxUploadBytes int64
}

func newSalaryHandler(ss portssvc.SalarySvcFacade, maxUploadBytes int64) *salaryHandler {
	return &salaryHandler{
		salaryService:  ss,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterSalaryRoutes registers the salary data routes on an authenticated group.
func RegisterSalaryRoutes(rg *gin.RouterGroup, salaryService portssvc.SalarySvcFacade, maxUploadBytes int64) {
	h := newSalaryHandler(salaryService, maxUploadBytes)

	salary := rg.Group("/salary")
	{
		salary.POST("/upload", h.uploadSalaryFile)
		salary.GET("/salary-data", h.listSalaryData)
		salary.GET("/batches", h.listBatches)
		salary.DELETE("/salary-data/:batchID", h.deleteBatch)
	}
}

// uploadSalaryFile godoc
// @Summary Upload a salary spreadsheet
// @Description Stores an xlsx or csv file of salary rows as a new pending batch
// @Tags salary
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Salary spreadsheet"
// @Param month formData string true "Pay month"
// @Param year formData int true "Pay year"
// @Success 201 {object} dto.UploadSalaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /salary/upload [post]
func (h *salaryHandler) uploadSalaryFile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Status: "error", Message: "Unauthorized"})
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Status: "error", Message: "Uploaded file is too large"})
			return
		}
		badRequest(c, "No file part in the request")
		return
	}
	if fileHeader.Filename == "" {
		badRequest(c, "No file selected")
		return
	}

	var req dto.UploadSalaryRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid form data: "+err.Error())
		return
	}
	req.FileName = fileHeader.Filename

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.salaryService.UploadSalaryFile(c.Request.Context(), req, file, userID)
	if err != nil {
		respondError(c, err, "Error processing the request")
		return
	}

	logger.Info("Salary file uploaded", slog.String("batch_id", result.BatchID), slog.Int("records", result.RecordsProcessed))
	c.JSON(http.StatusCreated, dto.UploadSalaryResponse{
		Status:  "success",
		Message: "Salary data processed and stored successfully",
		Details: *result,
	})
}

// listSalaryData godoc
// @Summary List salary records
// @Description Lists stored salary records filtered by batch, month and year
// @Tags salary
// @Produce json
// @Param batch_id query string false "Batch ID"
// @Param month query string false "Pay month"
// @Param year query int false "Pay year"
// @Param limit query int false "Page size" default(100)
// @Param next_token query string false "Token from the previous page"
// @Success 200 {object} dto.ListSalaryRecordsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /salary/salary-data [get]
func (h *salaryHandler) listSalaryData(c *gin.Context) {
	var params dto.ListSalaryRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	resp, err := h.salaryService.ListSalaryRecords(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Error retrieving salary data")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listBatches godoc
// @Summary List uploaded batches
// @Description Summarizes the batches uploaded by the current user, newest first
// @Tags salary
// @Produce json
// @Success 200 {object} dto.ListBatchesResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /salary/batches [get]
func (h *salaryHandler) listBatches(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Status: "error", Message: "Unauthorized"})
		return
	}

	batches, err := h.salaryService.ListBatches(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Error retrieving batch data")
		return
	}
	c.JSON(http.StatusOK, dto.ListBatchesResponse{Status: "success", Count: len(batches), Data: batches})
}

// deleteBatch godoc
// @Summary Delete a batch
// @Description Removes every salary record of a batch
// @Tags salary
// @Produce json
// @Param batchID path string true "Batch ID"
// @Success 200 {object} dto.DeleteBatchResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Batch is being processed"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /salary/salary-data/{batchID} [delete]
func (h *salaryHandler) deleteBatch(c *gin.Context) {
	batchID := c.Param("batchID")

	deleted, err := h.salaryService.DeleteBatch(c.Request.Context(), batchID)
	if err != nil {
		respondError(c, err, "Error deleting batch")
		return
	}
	c.JSON(http.StatusOK, dto.DeleteBatchResponse{
		Status:         "success",
		Message:        "Batch deleted successfully",
		RecordsDeleted: deleted,
	})
}
