package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/viper"

	"github.com/artpar/dokploy-deploy/internal/core/domain"
	"github.com/artpar/dokploy-deploy/internal/core/inputs"
	"github.com/artpar/dokploy-deploy/internal/shell/actions"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds everything one run needs. It is loaded once at start.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	API    APIConfig    `mapstructure:"api"`
	GitHub GitHubConfig `mapstructure:"github"`

	// Inputs are the parsed step inputs.
	Inputs domain.Inputs `mapstructure:"-"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // actions, json or text
}

// APIConfig holds Dokploy client settings.
type APIConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	RetryMax int           `mapstructure:"retry_max"`
}

// GitHubConfig holds runner integration settings.
type GitHubConfig struct {
	// Output is the step output file. Empty selects ::set-output on stdout.
	Output string `mapstructure:"output"`
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from an optional file and the environment.
//
// Settings come from DOKPLOY_* variables (DOKPLOY_LOG_LEVEL, DOKPLOY_API_TIMEOUT)
// and GITHUB_OUTPUT. Step inputs come from INPUT_* variables as set by the
// runner (INPUT_DOCKER-IMAGE), falling back to the file's inputs section.
// Input errors are returned as joined *domain.ConfigurationError values.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "actions")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.retry_max", 2)
	v.SetDefault("github.output", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	v.SetEnvPrefix("DOKPLOY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("github.output", "GITHUB_OUTPUT"); err != nil {
		return nil, fmt.Errorf("failed to bind GITHUB_OUTPUT: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	action := actions.NewAction(io.Discard, cfg.GitHub.Output)
	in, err := inputs.Parse(inputLookup(action, v.GetStringMapString("inputs")))
	cfg.Inputs = in
	if err != nil {
		return &cfg, err
	}
	return &cfg, nil
}

// inputLookup reads step inputs from INPUT_<NAME>, falling back to file values.
func inputLookup(action *githubactions.Action, fileInputs map[string]string) inputs.Lookup {
	return func(name string) string {
		if value := action.GetInput(name); value != "" {
			return value
		}
		return fileInputs[name]
	}
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
// debug-mode forces the debug level.
func SetupLogger(cfg *Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if cfg.Inputs.DebugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = actions.NewHandler(actions.NewAction(w, cfg.GitHub.Output), opts)
	}

	return slog.New(handler)
}
