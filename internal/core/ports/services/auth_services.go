package services

import (
	"context"
	"time"

	"github.com/SscSPs/payslip_portal/internal/core/domain"
)

// TokenSvcFacade issues and verifies the JWTs used by the HTTP layer.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	// ValidateRefreshToken parses a refresh token and returns the still-active user it belongs to.
	ValidateRefreshToken(ctx context.Context, refreshToken string) (*domain.User, error)
}
