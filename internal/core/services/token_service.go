package services

import (
	"context"
	"fmt"

	"github.com/StarGiftLabs/star_gifting_app/internal/apperrors"
	portssvc "github.com/StarGiftLabs/star_gifting_app/internal/core/ports/services"
	"github.com/StarGiftLabs/star_gifting_app/internal/middleware"
	"github.com/StarGiftLabs/star_gifting_app/internal/utils"
	"github.com/StarGiftLabs/star_gifting_app/pkg/config"
)

// operatorSubject is the token subject for the single operator identity.
const operatorSubject = "operator"

type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates the operator token service.
func NewTokenService(cfg *config.Config) portssvc.TokenSvc {
	return &tokenService{cfg: cfg}
}

var _ portssvc.TokenSvc = (*tokenService)(nil)

func (s *tokenService) Login(ctx context.Context, password string) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.cfg.OperatorPasswordHash == "" {
		return "", fmt.Errorf("%w: operator login is not configured", apperrors.ErrValidation)
	}
	if !utils.CheckPasswordHash(password, s.cfg.OperatorPasswordHash) {
		logger.Warn("Operator login rejected")
		return "", fmt.Errorf("%w: invalid credentials", apperrors.ErrValidation)
	}

	token, err := utils.GenerateJWT(operatorSubject, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	logger.Info("Operator logged in")
	return token, nil
}
