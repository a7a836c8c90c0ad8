// Package triage holds the intake conversation and the pre-triage
// services backed by the API.
package triage

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lvyanru/triagectl/internal/cli/auth"
	"github.com/lvyanru/triagectl/internal/cli/types"
	"github.com/lvyanru/triagectl/internal/domain"
)

var preTriageErrors = auth.ErrorTable{
	Fields:      []string{"symptoms_text", "channel", "patient", "non_field_errors"},
	DetailFirst: true,
	Fallback:    "Falha ao registrar a triagem.",
}

// Service creates pre-triage records
type Service struct {
	backend Submitter
	logger  *slog.Logger
}

// NewService creates a pre-triage service
func NewService(backend Submitter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{backend: backend, logger: logger}
}

// CreatePreTriage posts a pre-triage. The bearer token is attached by the
// client middleware.
func (s *Service) CreatePreTriage(ctx context.Context, req *types.PreTriageRequest) (*types.PreTriageResult, error) {
	if req == nil || strings.TrimSpace(req.SymptomsText) == "" {
		return nil, domain.NewValidationError("Descreva seus sintomas antes de enviar.")
	}
	if req.Channel == "" {
		req.Channel = types.ChannelWeb
	}

	res, err := s.backend.CreatePreTriage(ctx, req)
	if err != nil {
		s.logger.Error("failed to create pre-triage", "channel", req.Channel, "error", err)
		return nil, auth.MapError(err, preTriageErrors)
	}
	return res, nil
}
