package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/bw-lms-api/internal/dto"
	"github.com/noah-isme/bw-lms-api/internal/models"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	User    *models.User
	Session *models.Session
	// Rotated is set when this request replaced the session token.
	Rotated *models.Session
}

// Token returns the token the client should hold after this request.
func (p *Principal) Token() string {
	if p.Rotated != nil {
		return p.Rotated.Token
	}
	return p.Session.Token
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	User    *models.User
	Session *models.Session
}

// AuthService provides authentication use cases.
type AuthService struct {
	users       *UserService
	sessions    *SessionService
	credentials *CredentialService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users *UserService, sessions *SessionService, credentials *CredentialService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{users: users, sessions: sessions, credentials: credentials, metrics: metrics, validator: validate, logger: logger}
}

// Login verifies credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing credentials")
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			s.credentials.Burn(req.Password)
			s.metrics.RecordLogin(false)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.credentials.Verify(req.Password, user.Password) {
		s.metrics.RecordLogin(false)
		return nil, appErrors.ErrInvalidCredentials
	}

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordLogin(true)
	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return &LoginResult{User: user, Session: session}, nil
}

// Authenticate resolves a token to its user and opportunistically rotates it.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	session, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			_ = s.sessions.Delete(ctx, token)
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists")
		}
		return nil, err
	}

	principal := &Principal{User: user, Session: session}
	rotated, err := s.sessions.Rotate(ctx, session)
	switch {
	case errors.Is(err, appErrors.ErrUnauthorized):
		return nil, err
	case err != nil:
		s.logger.Warn("session rotation failed", zap.String("user_id", user.ID), zap.Error(err))
	case rotated != nil:
		principal.Rotated = rotated
		s.metrics.RecordSessionRotation()
	}
	return principal, nil
}

// Logout deletes the session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// SetPassword is the self-service mandatory password reset.
func (s *AuthService) SetPassword(ctx context.Context, user *models.User, req dto.SetPasswordRequest) error {
	if err := s.users.ResetCredential(ctx, user.ID, req.Password); err != nil {
		return err
	}
	user.MustResetPassword = false
	return nil
}
