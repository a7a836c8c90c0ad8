package client

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"

	"github.com/lvyanru/triagectl/internal/domain"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
)

// TokenSource returns the current bearer token, empty when logged out.
// It is called on every request so logins and logouts are picked up.
type TokenSource func() string

// AuthMiddleware attaches the bearer token to requests aimed at baseURL
// and rewrites 401 answers to authenticated calls into a session-expired
// error. It never clears the session itself.
func AuthMiddleware(baseURL string, tokens TokenSource) client.Middleware {
	return func(next client.Endpoint) client.Endpoint {
		return func(ctx context.Context, req *protocol.Request, resp *protocol.Response) error {
			isAPICall := isAPIURL(baseURL, req.URI().String())

			if isAPICall && tokens != nil && len(req.Header.Peek(headerAuthorization)) == 0 {
				if token := tokens(); token != "" {
					req.Header.Set(headerAuthorization, "Bearer "+token)
				}
			}
			authenticated := len(req.Header.Peek(headerAuthorization)) > 0

			if err := next(ctx, req, resp); err != nil {
				return err
			}

			if isAPICall && authenticated && resp.StatusCode() == consts.StatusUnauthorized {
				return domain.NewSessionExpiredError()
			}
			return nil
		}
	}
}

// LoggingMiddleware stamps a request ID and logs every call
func LoggingMiddleware(logger *slog.Logger) client.Middleware {
	return func(next client.Endpoint) client.Endpoint {
		return func(ctx context.Context, req *protocol.Request, resp *protocol.Response) error {
			requestID := string(req.Header.Peek(headerRequestID))
			if requestID == "" {
				requestID = uuid.New().String()
				req.Header.Set(headerRequestID, requestID)
			}

			start := time.Now()
			err := next(ctx, req, resp)

			log := logger.With(
				"request_id", requestID,
				"method", string(req.Method()),
				"path", string(req.URI().Path()),
				"duration", time.Since(start),
			)
			if err != nil {
				log.Warn("api call failed", "error", err)
				return err
			}
			log.Debug("api call", "status", resp.StatusCode())
			return nil
		}
	}
}

// isAPIURL reports whether url targets the configured backend
func isAPIURL(baseURL, url string) bool {
	if baseURL == "" {
		return false
	}
	return strings.HasPrefix(url, baseURL)
}
