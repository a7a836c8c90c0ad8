package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appDirName          = ".triagectl"
	envPrefix           = "TRIAGE"
	defaultBaseURL      = "http://localhost:8000/api"
	defaultWhatsApp     = "https://wa.me/5531999999999"
	storageDriverFile   = "file"
	storageDriverSQLite = "sqlite"
	storageDriverMemory = "memory"
)

// Config is the CLI configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Chat    ChatConfig    `mapstructure:"chat"`
}

// APIConfig backend connection settings
type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // per command context deadline
}

// StorageConfig selects where the session keys live
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // file, sqlite, memory
	Path   string `mapstructure:"path"`
}

// LogConfig logging settings
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	AddSource bool   `mapstructure:"add_source"`
}

// ChatConfig intake chat settings
type ChatConfig struct {
	TypingDelay  time.Duration `mapstructure:"typing_delay"`
	SummaryDelay time.Duration `mapstructure:"summary_delay"`
	Maintenance  bool          `mapstructure:"maintenance"`
	WhatsAppURL  string        `mapstructure:"whatsapp_url"`
	Channel      string        `mapstructure:"channel"`
}

// Dir returns the per-user state directory (~/.triagectl)
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, appDirName), nil
}

// Load loads configuration from configPath, or from config.yaml in
// ~/.triagectl, ./configs or the working directory. A missing file is not an
// error: defaults and TRIAGE_* environment variables still apply.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	setDefaults(v, dir)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("api.base_url", defaultBaseURL)
	v.SetDefault("api.dial_timeout", 10*time.Second)
	v.SetDefault("api.request_timeout", 30*time.Second)

	v.SetDefault("storage.driver", storageDriverFile)
	v.SetDefault("storage.path", filepath.Join(dir, "session.json"))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "file")
	v.SetDefault("log.file_path", filepath.Join(dir, "triagectl.log"))
	v.SetDefault("log.add_source", false)

	v.SetDefault("chat.typing_delay", 1500*time.Millisecond)
	v.SetDefault("chat.summary_delay", 2*time.Second)
	v.SetDefault("chat.maintenance", false)
	v.SetDefault("chat.whatsapp_url", defaultWhatsApp)
	v.SetDefault("chat.channel", "web")
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid api.base_url: %s", c.API.BaseURL)
	}

	switch c.Storage.Driver {
	case storageDriverFile, storageDriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for driver '%s'", c.Storage.Driver)
		}
	case storageDriverMemory:
	default:
		return fmt.Errorf("invalid storage driver: %s, must be 'file', 'sqlite' or 'memory'", c.Storage.Driver)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", c.Log.Format)
	}
	switch c.Log.Output {
	case "stdout", "stderr":
	case "file":
		if c.Log.FilePath == "" {
			return fmt.Errorf("log.file_path is required when output is 'file'")
		}
	default:
		return fmt.Errorf("invalid log output: %s", c.Log.Output)
	}

	if c.Chat.TypingDelay < 0 || c.Chat.SummaryDelay < 0 {
		return fmt.Errorf("chat delays must not be negative")
	}
	switch c.Chat.Channel {
	case "web", "whatsapp", "totem":
	default:
		return fmt.Errorf("invalid chat channel: %s", c.Chat.Channel)
	}

	return nil
}
