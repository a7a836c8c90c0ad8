package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvyanru/triagectl/internal/cli/types"
	"github.com/lvyanru/triagectl/internal/domain"
	"github.com/lvyanru/triagectl/pkg/logger"
)

type recordedRequest struct {
	Path          string
	Authorization string
	RequestID     string
	Body          map[string]interface{}
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request)
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]interface{}
	_ = json.Unmarshal(raw, &body)

	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		RequestID:     r.Header.Get("X-Request-ID"),
		Body:          body,
	})
	b.mu.Unlock()

	b.handler(w, r)
}

func (b *fakeBackend) last() recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[len(b.requests)-1]
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request), token string) (*APIClient, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{handler: handler}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	c, err := NewAPIClient(srv.URL+"/api/", 5*time.Second, func() string { return token }, logger.Discard())
	require.NoError(t, err)
	return c, backend
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://localhost:8000/api", "http://localhost:8000/api", false},
		{"http://localhost:8000/api/", "http://localhost:8000/api", false},
		{"localhost:8000", "http://localhost:8000", false},
		{"https://triagem.example.com/api", "https://triagem.example.com/api", false},
		{"http://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAPIURL(t *testing.T) {
	base := "http://localhost:8000/api"
	assert.True(t, isAPIURL(base, "http://localhost:8000/api/auth/login"))
	assert.False(t, isAPIURL(base, "http://cdn.example.com/api/auth/login"))
	assert.False(t, isAPIURL("", "http://localhost:8000/api"))
}

func TestLoginDoesNotNeedToken(t *testing.T) {
	c, backend := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"token":"jwt-abc","user":{"id":3,"name":"Ana","email":"ana@example.com","role":"doctor"}}`)
	}, "")

	resp, err := c.Login(context.Background(), &types.LoginRequest{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, int64(3), resp.User.ID)
	assert.Equal(t, types.RoleDoctor, resp.User.Role)

	got := backend.last()
	assert.Equal(t, "/api/auth/login", got.Path)
	assert.Empty(t, got.Authorization)
	assert.NotEmpty(t, got.RequestID)
	assert.Equal(t, "ana@example.com", got.Body["email"])
}

func TestTokenAttachedToAPICalls(t *testing.T) {
	c, backend := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"pre_triage_id":9,"triage_code":"TRI-ABCD1234","risk_level":"Vermelho","ai_confidence":"92.00","status":"revisao"}`)
	}, "jwt-xyz")

	res, err := c.CreatePreTriage(context.Background(), &types.PreTriageRequest{
		Channel:      types.ChannelWeb,
		SymptomsText: "Sintoma: dor no peito; Duração: 3 horas; Outros: Nenhum",
	})
	require.NoError(t, err)
	assert.Equal(t, "TRI-ABCD1234", res.TriageCode)
	assert.Equal(t, "Vermelho", res.RiskLevel)
	assert.InDelta(t, 92.0, float64(res.AIConfidence), 0.001)

	got := backend.last()
	assert.Equal(t, "/api/pre-triage/", got.Path)
	assert.Equal(t, "Bearer jwt-xyz", got.Authorization)
	assert.Equal(t, "web", got.Body["channel"])
	_, hasPatient := got.Body["patient"]
	assert.False(t, hasPatient)
}

func TestUnauthorizedBecomesSessionExpired(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Given token not valid for any token type"}`)
	}, "stale-token")

	_, err := c.ChatTriage(context.Background(), "dor de cabeça")
	require.Error(t, err)
	assert.True(t, domain.IsSessionExpired(err))
	assert.Equal(t, domain.MsgSessionExpired, domain.UserMessage(err))
}

func TestUnauthorizedWithoutTokenKeepsBackendAnswer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Credenciais inválidas"}`)
	}, "")

	_, err := c.Login(context.Background(), &types.LoginRequest{Email: "a@b.c", Password: "wrong-pass"})
	require.Error(t, err)
	assert.False(t, domain.IsSessionExpired(err))

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusUnauthorized, respErr.StatusCode)
	assert.JSONEq(t, `{"detail":"Credenciais inválidas"}`, string(respErr.Body))
}

func TestChatTriageDecodesResponse(t *testing.T) {
	c, backend := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"triage_id":1,"triage_code":"TRI-1","risk_level":"Amarelo","confidence":70.5,
			"next_action":"review","recommendation":"Aguarde avaliação","status":"revisao","message_id":12,"redirect_to_doctor":true}`)
	}, "jwt")

	res, err := c.ChatTriage(context.Background(), "febre")
	require.NoError(t, err)
	assert.Equal(t, types.NextActionReview, res.NextAction)
	assert.Equal(t, "70.5", res.Confidence.String())
	assert.True(t, res.RedirectToDoctor)
	assert.Equal(t, "febre", backend.last().Body["message"])
}

func TestSavePatientDetailsEmptyBody(t *testing.T) {
	c, backend := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, "jwt")

	age := 40
	require.NoError(t, c.SavePatientDetails(context.Background(), &types.PatientDetails{Age: &age, BloodType: "O+"}))

	got := backend.last()
	assert.Equal(t, "/api/patients/me/details/", got.Path)
	assert.Equal(t, float64(40), got.Body["age"])
	_, hasAllergy := got.Body["allergy"]
	assert.False(t, hasAllergy)
}
