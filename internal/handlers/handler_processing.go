package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/payslip_portal/internal/core/ports/services"
	"github.com/SscSPs/payslip_portal/internal/dto"
	"github.com/SscSPs/payslip_portal/internal/middleware"
	"github.com/SscSPs/payslip_portal/internal/utils"
	"github.com/gin-gonic/gin"
)

// processingHandler exposes slip generation and delivery for a batch.
type processingHandler struct {
	processor     portssvc.BatchProcessorSvcFacade
	posthogClient *utils.PosthogClientWrapper
}

func newProcessingHandler(p portssvc.BatchProcessorSvcFacade, posthogClient *utils.PosthogClientWrapper) *processingHandler {
	return &processingHandler{processor: p, posthogClient: posthogClient}
}

// RegisterProcessingRoutes registers the batch processing routes.
func RegisterProcessingRoutes(rg *gin.RouterGroup, processor portssvc.BatchProcessorSvcFacade, posthogClient *utils.PosthogClientWrapper) {
	h := newProcessingHandler(processor, posthogClient)

	process := rg.Group("/process")
	{
		process.POST("/generate-and-send/:batchID", h.generateAndSend)
		process.GET("/status/:batchID", h.getStatus)
		process.POST("/retry/:batchID", h.retryFailed)
	}
}

// generateAndSend godoc
// @Summary Generate and email salary slips
// @Description Renders and emails a slip for every record of the batch. Individual failures are reported in the results.
// @Tags process
// @Produce json
// @Param batchID path string true "Batch ID"
// @Success 200 {object} dto.ProcessBatchResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Batch is already being processed"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /process/generate-and-send/{batchID} [post]
func (h *processingHandler) generateAndSend(c *gin.Context) {
	batchID := c.Param("batchID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("batch_id", batchID))

	result, err := h.processor.ProcessBatch(c.Request.Context(), batchID)
	if err != nil {
		respondError(c, err, "Error processing request")
		return
	}

	logger.Info("Batch processed", slog.Int("successful", result.Successful), slog.Int("failed", result.Failed))
	middleware.PosthogEvent(c, h.posthogClient, "batch_processed", map[string]any{
		"batch_id":   batchID,
		"total":      result.Total,
		"successful": result.Successful,
		"failed":     result.Failed,
	})

	c.JSON(http.StatusOK, dto.ProcessBatchResponse{
		Status:  "success",
		Message: "Batch processing completed",
		Results: *result,
	})
}

// getStatus godoc
// @Summary Batch processing status
// @Description Counts the records of a batch by status and lists the ones with problems
// @Tags process
// @Produce json
// @Param batchID path string true "Batch ID"
// @Success 200 {object} dto.BatchStatusResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /process/status/{batchID} [get]
func (h *processingHandler) getStatus(c *gin.Context) {
	progress, err := h.processor.GetBatchProgress(c.Request.Context(), c.Param("batchID"))
	if err != nil {
		respondError(c, err, "Error retrieving status")
		return
	}
	c.JSON(http.StatusOK, dto.BatchStatusResponse{Status: "success", BatchProgress: *progress})
}

// retryFailed godoc
// @Summary Retry failed records
// @Description Re-processes only the records of a batch that previously failed
// @Tags process
// @Produce json
// @Param batchID path string true "Batch ID"
// @Success 200 {object} dto.RetryBatchResponse
// @Failure 409 {object} dto.ErrorResponse "Batch is already being processed"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /process/retry/{batchID} [post]
func (h *processingHandler) retryFailed(c *gin.Context) {
	batchID := c.Param("batchID")

	result, err := h.processor.RetryFailed(c.Request.Context(), batchID)
	if err != nil {
		respondError(c, err, "Error retrying batch")
		return
	}

	if result.NothingToRetry {
		c.JSON(http.StatusOK, dto.RetryBatchResponse{Status: "success", Message: result.Message})
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "batch_retried", map[string]any{
		"batch_id":   batchID,
		"retried":    result.TotalRetried,
		"successful": result.Successful,
		"failed":     result.Failed,
	})
	c.JSON(http.StatusOK, dto.RetryBatchResponse{Status: "success", Message: result.Message, Results: result})
}
