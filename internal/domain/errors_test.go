package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		msg   string
	}{
		{"validation", NewValidationError("As senhas não coincidem."), IsInvalidInput, "As senhas não coincidem."},
		{"backend", NewBackendError(400, "E-mail já cadastrado."), IsBackend, "E-mail já cadastrado."},
		{"session expired", NewSessionExpiredError(), IsSessionExpired, MsgSessionExpired},
		{"not authenticated", NewNotAuthenticatedError(), IsNotAuthenticated, MsgNotAuthenticated},
		{"forbidden", NewForbiddenError("Acesso restrito."), IsForbidden, "Acesso restrito."},
		{"not found", NewNotFoundError("patient", "7"), IsNotFound, "patient '7' not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("kind check failed for %v", tt.err)
			}
			wrapped := fmt.Errorf("command failed: %w", tt.err)
			if !tt.check(wrapped) {
				t.Errorf("kind check failed through wrapping for %v", wrapped)
			}
			if got := UserMessage(wrapped); got != tt.msg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestUserMessageFallback(t *testing.T) {
	if got := UserMessage(nil); got != "" {
		t.Errorf("UserMessage(nil) = %q", got)
	}
	if got := UserMessage(errors.New("dial tcp: refused")); got != "dial tcp: refused" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestBackendStatus(t *testing.T) {
	var de *DomainError
	if !errors.As(NewBackendError(502, "x"), &de) {
		t.Fatal("expected DomainError")
	}
	if de.Status != 502 || de.Code != "BACKEND_ERROR" {
		t.Errorf("got status %d code %s", de.Status, de.Code)
	}
}
