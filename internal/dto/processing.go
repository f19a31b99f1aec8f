package dto

import "github.com/SscSPs/payslip_portal/internal/core/domain"

// ProcessBatchResponse is returned once a batch has been fully walked.
type ProcessBatchResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Results domain.BatchResult `json:"results"`
}

// RetryBatchResponse is returned after retrying the failed records of a batch.
type RetryBatchResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Results *domain.RetryResult `json:"results,omitempty"`
}

// BatchStatusResponse wraps the progress of a batch.
type BatchStatusResponse struct {
	Status string `json:"status"`
	domain.BatchProgress
}

// ErrorResponse is the error body used by every handler.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MessageResponse is a bare status/message acknowledgement.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
