package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvyanru/triagectl/internal/cli/client"
	"github.com/lvyanru/triagectl/internal/cli/session"
	"github.com/lvyanru/triagectl/internal/cli/types"
	"github.com/lvyanru/triagectl/internal/domain"
	"github.com/lvyanru/triagectl/pkg/logger"
)

// mockBackend implements Backend with func fields
type mockBackend struct {
	calls int

	LoginFunc              func(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	RegisterFunc           func(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error)
	SavePatientDetailsFunc func(ctx context.Context, req *types.PatientDetails) error
}

func (m *mockBackend) Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error) {
	m.calls++
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockBackend) Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error) {
	m.calls++
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockBackend) SavePatientDetails(ctx context.Context, req *types.PatientDetails) error {
	m.calls++
	if m.SavePatientDetailsFunc != nil {
		return m.SavePatientDetailsFunc(ctx, req)
	}
	return nil
}

func newTestService(t *testing.T, backend Backend) (*Service, *session.Manager) {
	t.Helper()
	sess, err := session.Open(session.NewMemoryStorage(), logger.Discard())
	require.NoError(t, err)
	return NewService(backend, sess, logger.Discard()), sess
}

func validRegister() types.RegisterRequest {
	return types.RegisterRequest{
		Name:            "Maria Silva",
		Email:           "maria@example.com",
		Password:        "segredo123",
		ConfirmPassword: "segredo123",
	}
}

func TestRegisterLocalValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *types.RegisterRequest)
		want   string
	}{
		{"missing name", func(r *types.RegisterRequest) { r.Name = "  " }, MsgRegisterFieldsRequired},
		{"missing email", func(r *types.RegisterRequest) { r.Email = "" }, MsgRegisterFieldsRequired},
		{"missing password", func(r *types.RegisterRequest) { r.Password = ""; r.ConfirmPassword = "" }, MsgRegisterFieldsRequired},
		{"doctor without license", func(r *types.RegisterRequest) { r.Role = types.RoleDoctor; r.License = " " }, MsgLicenseRequired},
		{"mismatch", func(r *types.RegisterRequest) { r.ConfirmPassword = "outra1234" }, MsgPasswordMismatch},
		{"short password", func(r *types.RegisterRequest) { r.Password = "abc"; r.ConfirmPassword = "abc" }, MsgPasswordTooShort},
		{"mismatch before length", func(r *types.RegisterRequest) { r.Password = "abc"; r.ConfirmPassword = "abd" }, MsgPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{}
			svc, sess := newTestService(t, backend)

			req := validRegister()
			tt.modify(&req)
			_, err := svc.Register(context.Background(), req)

			require.Error(t, err)
			assert.True(t, domain.IsInvalidInput(err))
			assert.Equal(t, tt.want, domain.UserMessage(err))
			assert.Zero(t, backend.calls, "no network call expected")
			assert.False(t, sess.IsLoggedIn())
		})
	}
}

func TestRegisterNormalizesPayload(t *testing.T) {
	var sent *types.RegisterRequest
	backend := &mockBackend{
		RegisterFunc: func(_ context.Context, req *types.RegisterRequest) (*types.AuthResponse, error) {
			sent = req
			return &types.AuthResponse{
				Token: "tok",
				User:  &types.User{ID: 9, Name: req.Name, Email: req.Email, Role: req.Role},
			}, nil
		},
	}
	svc, sess := newTestService(t, backend)

	req := validRegister()
	req.Identifier = "123.456.789-09 "
	req.Phone = "(31) 99999-8888 ramal 12"
	req.License = "CRM-123"
	user, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, sent)
	assert.Equal(t, types.RolePatient, sent.Role)
	assert.Equal(t, "12345678909", sent.Identifier)
	assert.Equal(t, "31999998888", sent.Phone)
	assert.Empty(t, sent.License, "license is only sent for doctors")

	assert.Equal(t, int64(9), user.ID)
	assert.Equal(t, "tok", sess.Token())
	assert.False(t, svc.IsDoctor())
}

func TestRegisterDoctorSendsLicense(t *testing.T) {
	req := validRegister()
	req.Role = types.RoleDoctor
	req.License = "  CRM/MG 12345 "

	payload, err := NormalizeRegister(req)
	require.NoError(t, err)
	assert.Equal(t, "CRM/MG 12345", payload.License)
	assert.Empty(t, payload.Identifier)
}

func TestRegisterBackendError(t *testing.T) {
	backend := &mockBackend{
		RegisterFunc: func(context.Context, *types.RegisterRequest) (*types.AuthResponse, error) {
			return nil, &client.ResponseError{
				StatusCode: http.StatusBadRequest,
				Body:       []byte(`{"email":["Já existe um usuário com este email."]}`),
			}
		},
	}
	svc, sess := newTestService(t, backend)

	_, err := svc.Register(context.Background(), validRegister())
	require.Error(t, err)
	assert.True(t, domain.IsBackend(err))
	assert.Equal(t, "Já existe um usuário com este email.", domain.UserMessage(err))
	assert.False(t, sess.IsLoggedIn())
}

func TestLogin(t *testing.T) {
	t.Run("empty fields", func(t *testing.T) {
		backend := &mockBackend{}
		svc, _ := newTestService(t, backend)

		_, err := svc.Login(context.Background(), types.LoginRequest{Email: "a@b.c"})
		assert.Equal(t, MsgLoginFieldsRequired, domain.UserMessage(err))
		assert.Zero(t, backend.calls)
	})

	t.Run("stores session", func(t *testing.T) {
		backend := &mockBackend{
			LoginFunc: func(_ context.Context, req *types.LoginRequest) (*types.AuthResponse, error) {
				assert.Equal(t, "dr@example.com", req.Email)
				return &types.AuthResponse{
					Token: "abc",
					User:  &types.User{ID: 1, Name: "Dr. House", Role: types.RoleDoctor},
				}, nil
			},
		}
		svc, _ := newTestService(t, backend)

		user, err := svc.Login(context.Background(), types.LoginRequest{Email: " dr@example.com ", Password: "x"})
		require.NoError(t, err)
		assert.Equal(t, "Dr. House", user.Name)
		assert.True(t, svc.IsLoggedIn())
		assert.True(t, svc.IsDoctor())
		assert.Equal(t, "abc", svc.Token())

		require.NoError(t, svc.Logout())
		assert.False(t, svc.IsLoggedIn())
		assert.Nil(t, svc.CurrentUser())
	})

	t.Run("invalid credentials", func(t *testing.T) {
		backend := &mockBackend{
			LoginFunc: func(context.Context, *types.LoginRequest) (*types.AuthResponse, error) {
				return nil, &client.ResponseError{StatusCode: 401, Body: []byte(`{"detail":"Credenciais inválidas"}`)}
			},
		}
		svc, _ := newTestService(t, backend)

		_, err := svc.Login(context.Background(), types.LoginRequest{Email: "a@b.c", Password: "x"})
		assert.Equal(t, "Credenciais inválidas", domain.UserMessage(err))
		assert.False(t, domain.IsSessionExpired(err))
	})

	t.Run("incomplete response", func(t *testing.T) {
		backend := &mockBackend{
			LoginFunc: func(context.Context, *types.LoginRequest) (*types.AuthResponse, error) {
				return &types.AuthResponse{Token: "abc"}, nil
			},
		}
		svc, sess := newTestService(t, backend)

		_, err := svc.Login(context.Background(), types.LoginRequest{Email: "a@b.c", Password: "x"})
		require.Error(t, err)
		assert.False(t, sess.IsLoggedIn())
	})
}

func TestSavePatientDetails(t *testing.T) {
	t.Run("requires token", func(t *testing.T) {
		backend := &mockBackend{}
		svc, _ := newTestService(t, backend)

		err := svc.SavePatientDetails(context.Background(), types.PatientDetails{})
		assert.True(t, domain.IsNotAuthenticated(err))
		assert.Equal(t, domain.MsgNotAuthenticated, domain.UserMessage(err))
		assert.Zero(t, backend.calls)
	})

	t.Run("trims fields", func(t *testing.T) {
		var sent *types.PatientDetails
		backend := &mockBackend{
			SavePatientDetailsFunc: func(_ context.Context, req *types.PatientDetails) error {
				sent = req
				return nil
			},
		}
		svc, sess := newTestService(t, backend)
		require.NoError(t, sess.Save("tok", &types.User{ID: 2, Role: types.RolePatient}))

		age := 30
		require.NoError(t, svc.SavePatientDetails(context.Background(), types.PatientDetails{
			Age:       &age,
			BloodType: " O+ ",
			Allergy:   "   ",
		}))
		require.NotNil(t, sent)
		assert.Equal(t, 30, *sent.Age)
		assert.Equal(t, "O+", sent.BloodType)
		assert.Empty(t, sent.Allergy)
	})
}

func TestSavePatientDetailsSessionExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Token inválido"}`)
	}))
	t.Cleanup(srv.Close)

	sess, err := session.Open(session.NewMemoryStorage(), logger.Discard())
	require.NoError(t, err)
	require.NoError(t, sess.Save("stale", &types.User{ID: 2, Role: types.RolePatient}))

	api, err := client.NewAPIClient(srv.URL, 5*time.Second, sess.Token, logger.Discard())
	require.NoError(t, err)
	svc := NewService(api, sess, logger.Discard())

	err = svc.SavePatientDetails(context.Background(), types.PatientDetails{Allergy: "dipirona"})
	require.Error(t, err)
	assert.True(t, domain.IsSessionExpired(err))
	assert.Equal(t, domain.MsgSessionExpired, domain.UserMessage(err))
	assert.True(t, sess.IsLoggedIn(), "a 401 does not clear the session")
}

func TestTokenClaims(t *testing.T) {
	svc, sess := newTestService(t, &mockBackend{})

	_, err := svc.TokenClaims()
	assert.True(t, domain.IsNotAuthenticated(err))

	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	}).SignedString([]byte("unknown-to-client"))
	require.NoError(t, err)
	require.NoError(t, sess.Save(signed, &types.User{ID: 42}))

	info, err := svc.TokenClaims()
	require.NoError(t, err)
	assert.Equal(t, "42", info.Subject)
	assert.True(t, info.ExpiresAt.Equal(exp))
	assert.True(t, info.Expired(time.Now()))

	require.NoError(t, sess.Save("opaque-drf-token", &types.User{ID: 42}))
	_, err = svc.TokenClaims()
	assert.Error(t, err)
}
