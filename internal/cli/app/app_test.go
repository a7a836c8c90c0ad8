package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvyanru/triagectl/internal/cli/config"
	"github.com/lvyanru/triagectl/internal/cli/triage"
	"github.com/lvyanru/triagectl/internal/cli/types"
)

func testConfig(t *testing.T, driver string) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		API: config.APIConfig{
			BaseURL:        "http://127.0.0.1:8000/api",
			DialTimeout:    time.Second,
			RequestTimeout: 2 * time.Second,
		},
		Storage: config.StorageConfig{Driver: driver, Path: filepath.Join(dir, "session.db")},
		Log:     config.LogConfig{Level: "error", Format: "text", Output: "file", FilePath: filepath.Join(dir, "test.log")},
		Chat:    config.ChatConfig{Channel: "web", WhatsAppURL: "https://wa.me/5531999999999"},
	}
}

func TestNewWithConfig(t *testing.T) {
	a, err := NewWithConfig(testConfig(t, "memory"))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "http://127.0.0.1:8000/api", a.Client.BaseURL())
	assert.False(t, a.Auth.IsLoggedIn())
	assert.Nil(t, a.Auth.CurrentUser())

	flow := a.NewFlow()
	assert.Equal(t, triage.StateCollectingSymptom, flow.State())

	chat := a.NewChatService()
	require.Len(t, chat.Messages(), 1)
	assert.Equal(t, triage.WelcomeMessage, chat.Messages()[0].Text)
}

func TestSessionSurvivesRestart(t *testing.T) {
	cfg := testConfig(t, "sqlite")

	a, err := NewWithConfig(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Session.Save("tok-1", &types.User{ID: 3, Name: "Dra. Ana", Role: types.RoleDoctor}))
	require.NoError(t, a.Close())

	b, err := NewWithConfig(cfg)
	require.NoError(t, err)
	defer b.Close()

	assert.True(t, b.Auth.IsLoggedIn())
	assert.True(t, b.Auth.IsDoctor())
	assert.Equal(t, "tok-1", b.Auth.Token())
}

func TestContextDeadline(t *testing.T) {
	a, err := NewWithConfig(testConfig(t, "memory"))
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := a.Context()
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, time.Second)
}

func TestNewWithConfigBadDriver(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.Storage.Driver = "redis"

	_, err := NewWithConfig(cfg)
	assert.Error(t, err)
}
