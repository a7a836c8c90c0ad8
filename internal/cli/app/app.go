// Package app builds the services a command needs from the loaded
// configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lvyanru/triagectl/internal/cli/auth"
	"github.com/lvyanru/triagectl/internal/cli/client"
	"github.com/lvyanru/triagectl/internal/cli/config"
	"github.com/lvyanru/triagectl/internal/cli/session"
	"github.com/lvyanru/triagectl/internal/cli/triage"
	"github.com/lvyanru/triagectl/internal/cli/types"
	"github.com/lvyanru/triagectl/pkg/logger"
)

// App holds the per-process services
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Session *session.Manager
	Client  *client.APIClient
	Auth    *auth.Service
	Triage  *triage.Service

	logCloser io.Closer
}

// New loads configuration from configPath and wires every service
func New(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig wires every service from an already loaded configuration
func NewWithConfig(cfg *config.Config) (*App, error) {
	logCloser, err := logger.Setup(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	log := slog.Default()

	storage, err := session.NewStorage(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	sess, err := session.Open(storage, log)
	if err != nil {
		storage.Close()
		logCloser.Close()
		return nil, err
	}

	apiClient, err := client.NewAPIClient(cfg.API.BaseURL, cfg.API.DialTimeout, sess.Token, log)
	if err != nil {
		sess.Close()
		logCloser.Close()
		return nil, err
	}

	return &App{
		Config:    cfg,
		Logger:    log,
		Session:   sess,
		Client:    apiClient,
		Auth:      auth.NewService(apiClient, sess, log),
		Triage:    triage.NewService(apiClient, log),
		logCloser: logCloser,
	}, nil
}

// Context returns a context bounded by the configured request timeout
func (a *App) Context() (context.Context, context.CancelFunc) {
	ctx := logger.WithContext(context.Background(), a.Logger)
	return context.WithTimeout(ctx, a.Config.API.RequestTimeout)
}

// NewFlow creates an intake conversation bound to the session
func (a *App) NewFlow() *triage.Flow {
	return triage.NewFlow(a.Triage, a.Session, triage.FlowOptions{
		Maintenance: a.Config.Chat.Maintenance,
		WhatsAppURL: a.Config.Chat.WhatsAppURL,
		Channel:     types.Channel(a.Config.Chat.Channel),
	}, a.Logger)
}

// NewChatService creates a free-text triage conversation
func (a *App) NewChatService() *triage.ChatService {
	return triage.NewChatService(a.Client, a.Logger)
}

// Close releases the session storage and the log file
func (a *App) Close() error {
	return errors.Join(a.Session.Close(), a.logCloser.Close())
}
