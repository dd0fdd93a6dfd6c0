package service

import (
	"context"
	"os"
	"time"

	"ai-frontdesk-be/internal/dto"
	"ai-frontdesk-be/internal/pkg/logger"
	"ai-frontdesk-be/internal/repository/specification"
	"ai-frontdesk-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *authService) Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	supervisor, err := uow.SupervisorRepository().FindOne(ctx, specification.ByEmail{Email: request.Email})
	if err != nil {
		s.logger.Error("AuthService", "Failed to look up supervisor", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	if supervisor == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(supervisor.PasswordHash), []byte(request.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"supervisor_id": supervisor.Id.String(),
		"email":         supervisor.Email,
		"exp":           time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		s.logger.Error("AuthService", "Failed to sign token", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	s.logger.Info("AuthService", "Supervisor logged in", map[string]interface{}{"email": supervisor.Email})

	return &dto.LoginResponse{
		Token:    signed,
		FullName: supervisor.FullName,
	}, nil
}
