package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/auth"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
	apperrors "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/pkg/util/errorutil"
)

const invalidCredentials = "invalid email or password"

// AuthService coordinates registration and login flows.
type AuthService struct {
	directory *DirectoryService
	tokenMgr  *auth.TokenManager
	throttle  auth.LoginThrottle
	logger    *zap.Logger
}

// AuthDependencies encapsulates collaborators for auth service.
type AuthDependencies struct {
	Directory *DirectoryService
	Tokens    *auth.TokenManager
	// Throttle is optional; nil disables login rate limiting.
	Throttle auth.LoginThrottle
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		directory: deps.Directory,
		tokenMgr:  deps.Tokens,
		throttle:  deps.Throttle,
		logger:    logger,
	}
}

// TokenManager exposes the token manager for the HTTP middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// RegisterStudent creates a student account and signs it in.
func (s *AuthService) RegisterStudent(ctx context.Context, input RegisterStudentInput) (*domain.Session, error) {
	user, err := s.directory.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login verifies credentials through the given portal. Unknown emails and
// wrong passwords return the same error.
func (s *AuthService) Login(ctx context.Context, email, password string, portal domain.Portal) (*domain.Session, error) {
	email = domain.NormalizeEmail(email)
	key := string(portal) + ":" + email

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, key)
		if err != nil {
			s.logger.Warn("login throttle unavailable", zap.Error(err))
		} else if !allowed {
			return nil, apperrors.NewTooManyRequests("too many login attempts, try again later")
		}
	}

	user, found, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found {
		auth.CompareDummy(password)
		return nil, apperrors.NewUnauthorized(invalidCredentials)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized(invalidCredentials)
	}
	if !portal.Admits(user.Role) {
		return nil, apperrors.NewUnauthorized(invalidCredentials)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, key); err != nil {
			s.logger.Warn("reset login throttle", zap.Error(err))
		}
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*domain.Session, error) {
	token, expiresAt, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	safe := user.Clone()
	safe.PasswordHash = ""
	return &domain.Session{Token: token, ExpiresAt: expiresAt, User: safe}, nil
}
