// Package auth implements login, registration and profile completion on
// top of the API client and the session manager.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lvyanru/triagectl/internal/cli/client"
	"github.com/lvyanru/triagectl/internal/cli/mask"
	"github.com/lvyanru/triagectl/internal/cli/session"
	"github.com/lvyanru/triagectl/internal/cli/types"
	"github.com/lvyanru/triagectl/internal/domain"
)

// MinPasswordLength is the backend's minimum password length
const MinPasswordLength = 8

// Validation messages
const (
	MsgLoginFieldsRequired    = "Por favor, preencha todos os campos."
	MsgRegisterFieldsRequired = "Por favor, preencha todos os campos obrigatórios."
	MsgLicenseRequired        = "CRM é obrigatório para médicos."
	MsgPasswordMismatch       = "As senhas não coincidem."
	MsgPasswordTooShort       = "A senha deve ter pelo menos 8 caracteres."
)

// Backend is the subset of the API client used by the service
type Backend interface {
	Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error)
	SavePatientDetails(ctx context.Context, req *types.PatientDetails) error
}

// Service is the auth/session gate
type Service struct {
	backend Backend
	session *session.Manager
	logger  *slog.Logger
}

// NewService creates an auth service
func NewService(backend Backend, sess *session.Manager, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{backend: backend, session: sess, logger: logger}
}

// Login authenticates and stores token and user as a unit
func (s *Service) Login(ctx context.Context, req types.LoginRequest) (*types.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, domain.NewValidationError(MsgLoginFieldsRequired)
	}

	resp, err := s.backend.Login(ctx, &req)
	if err != nil {
		return nil, MapError(err, loginErrors)
	}
	if err := s.store(resp); err != nil {
		return nil, err
	}

	s.logger.Info("login succeeded", "user_id", resp.User.ID, "role", resp.User.Role)
	return resp.User, nil
}

// Register validates the form locally, normalizes it and creates the
// account. The returned session is stored on success.
func (s *Service) Register(ctx context.Context, req types.RegisterRequest) (*types.User, error) {
	payload, err := NormalizeRegister(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.backend.Register(ctx, payload)
	if err != nil {
		return nil, MapError(err, registerErrors)
	}
	if err := s.store(resp); err != nil {
		return nil, err
	}

	s.logger.Info("registration succeeded", "user_id", resp.User.ID, "role", resp.User.Role)
	return resp.User, nil
}

// NormalizeRegister applies the local registration rules in order and
// returns the payload to send
func NormalizeRegister(req types.RegisterRequest) (*types.RegisterRequest, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, domain.NewValidationError(MsgRegisterFieldsRequired)
	}

	role := req.Role
	if role == "" {
		role = types.RolePatient
	}
	license := mask.TrimLicense(req.License)
	if role == types.RoleDoctor && license == "" {
		return nil, domain.NewValidationError(MsgLicenseRequired)
	}
	if req.Password != req.ConfirmPassword {
		return nil, domain.NewValidationError(MsgPasswordMismatch)
	}
	if len([]rune(req.Password)) < MinPasswordLength {
		return nil, domain.NewValidationError(MsgPasswordTooShort)
	}

	payload := &types.RegisterRequest{
		Name:       name,
		Email:      email,
		Password:   req.Password,
		Role:       role,
		Identifier: mask.CPF(req.Identifier),
		Phone:      mask.Phone(req.Phone),
	}
	if role == types.RoleDoctor {
		payload.License = license
	}
	return payload, nil
}

// SavePatientDetails completes the patient profile. Blank text fields are
// not sent.
func (s *Service) SavePatientDetails(ctx context.Context, details types.PatientDetails) error {
	if !s.session.IsLoggedIn() {
		return domain.NewNotAuthenticatedError()
	}

	payload := &types.PatientDetails{
		Age:       details.Age,
		BloodType: strings.TrimSpace(details.BloodType),
		Allergy:   strings.TrimSpace(details.Allergy),
	}
	if err := s.backend.SavePatientDetails(ctx, payload); err != nil {
		return MapError(err, profileErrors)
	}

	s.logger.Info("patient details saved")
	return nil
}

// Logout removes the stored session
func (s *Service) Logout() error {
	return s.session.Clear()
}

// IsLoggedIn reports whether a token is stored
func (s *Service) IsLoggedIn() bool {
	return s.session.IsLoggedIn()
}

// IsDoctor reports whether the stored user is a doctor
func (s *Service) IsDoctor() bool {
	return s.session.IsDoctor()
}

// CurrentUser returns the cached user, nil when logged out
func (s *Service) CurrentUser() *types.User {
	return s.session.User()
}

// Token returns the stored bearer token
func (s *Service) Token() string {
	return s.session.Token()
}

// TokenInfo is what can be read from the token without the signing key
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry in the past
func (i *TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// TokenClaims decodes the stored token payload without verifying it.
// Opaque (non-JWT) tokens yield an error; they are still valid sessions.
func (s *Service) TokenClaims() (*TokenInfo, error) {
	token := s.session.Token()
	if token == "" {
		return nil, domain.NewNotAuthenticatedError()
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("token is not a JWT: %w", err)
	}

	info := &TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}

func (s *Service) store(resp *types.AuthResponse) error {
	if resp == nil || resp.Token == "" || resp.User == nil {
		return domain.NewBackendError(0, "Resposta inválida do servidor.")
	}
	if err := s.session.Save(resp.Token, resp.User); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// MapError converts a client error into a domain error using table
func MapError(err error, table ErrorTable) error {
	if domain.IsSessionExpired(err) {
		return err
	}

	var respErr *client.ResponseError
	if errors.As(err, &respErr) {
		return domain.NewBackendError(respErr.StatusCode, table.Message(respErr.Body))
	}
	return fmt.Errorf("%s: %w", table.Fallback, err)
}
