package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/network/standard"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/lvyanru/triagectl/internal/cli/types"
)

// ResponseError is a non-2xx backend answer. Body is kept raw so callers
// can map field errors to a display message.
type ResponseError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

// Error implements error
func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s failed with HTTP status: %d, body: %s", e.Method, e.Path, e.StatusCode, string(e.Body))
}

// APIClient wraps Hertz Client for HTTP communication with the triage backend
type APIClient struct {
	client  *client.Client
	baseURL string
	logger  *slog.Logger
}

// NewAPIClient creates a new API client. tokens may be nil for anonymous use.
func NewAPIClient(baseURL string, dialTimeout time.Duration, tokens TokenSource, logger *slog.Logger) (*APIClient, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}

	c, err := client.NewClient(
		client.WithDialTimeout(dialTimeout),
		client.WithMaxIdleConnDuration(60*time.Second),
		client.WithDialer(standard.NewDialer()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	c.Use(LoggingMiddleware(logger), AuthMiddleware(normalized, tokens))

	return &APIClient{
		client:  c,
		baseURL: normalized,
		logger:  logger,
	}, nil
}

// BaseURL returns the normalized backend base URL
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// normalizeBaseURL ensures a scheme and removes the trailing slash, keeping
// the path (e.g. http://localhost:8000/api)
func normalizeBaseURL(base string) (string, error) {
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}

	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}

	return strings.TrimRight(fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, u.Path), "/"), nil
}

// Login performs user login
func (c *APIClient) Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error) {
	var resp types.AuthResponse
	if err := c.postJSON(ctx, endpointLogin, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. The request must already be normalized.
func (c *APIClient) Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error) {
	var resp types.AuthResponse
	if err := c.postJSON(ctx, endpointRegister, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SavePatientDetails completes the patient profile of the logged-in user
func (c *APIClient) SavePatientDetails(ctx context.Context, req *types.PatientDetails) error {
	return c.postJSON(ctx, endpointPatientDetails, req, nil)
}

// CreatePreTriage submits collected symptoms
func (c *APIClient) CreatePreTriage(ctx context.Context, req *types.PreTriageRequest) (*types.PreTriageResult, error) {
	var resp types.PreTriageResult
	if err := c.postJSON(ctx, endpointPreTriage, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChatTriage sends a free-text message to the AI triage endpoint
func (c *APIClient) ChatTriage(ctx context.Context, message string) (*types.ChatTriageResponse, error) {
	var resp types.ChatTriageResponse
	if err := c.postJSON(ctx, endpointPreTriageChat, &types.ChatTriageRequest{Message: message}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// postJSON posts body to endpoint and decodes a 2xx answer into out (if non-nil)
func (c *APIClient) postJSON(ctx context.Context, endpoint string, body, out interface{}) error {
	bodyBytes, err := sonic.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(c.baseURL + endpoint)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.Header.Set("Accept", "application/json")
	req.SetBody(bodyBytes)

	if err := c.client.Do(ctx, req, resp); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode < 200 || statusCode >= 300 {
		// resp is released on return, copy the body
		return &ResponseError{
			Method:     consts.MethodPost,
			Path:       endpoint,
			StatusCode: statusCode,
			Body:       append([]byte(nil), resp.Body()...),
		}
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
