package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	LLM    LLMConfig
	Upload UploadConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// IsDevelopment reports whether the server runs in the development environment.
func (s *ServerConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LLMConfig holds settings for the remote generative model.
type LLMConfig struct {
	Provider        string `mapstructure:"provider"`
	APIKey          string `mapstructure:"api_key"`
	Model           string `mapstructure:"model"`
	Endpoint        string `mapstructure:"endpoint"`
	TimeoutSecs     int    `mapstructure:"timeout_secs"`
	MaxOutputTokens int    `mapstructure:"max_output_tokens"`
}

// Timeout returns the HTTP client timeout for model calls, defaulting to 120s.
func (l *LLMConfig) Timeout() time.Duration {
	if l.TimeoutSecs <= 0 {
		return 120 * time.Second
	}
	return time.Duration(l.TimeoutSecs) * time.Second
}

// UploadConfig holds contract upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the upload limit in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error
	if c.LLM.APIKey == "" {
		errs = append(errs, errors.New("llm api key is required (set CONTRACTLENS_LLM_API_KEY)"))
	}
	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		errs = append(errs, fmt.Errorf("upload max file size must be positive, got %d", c.Upload.MaxFileSizeMB))
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables with the CONTRACTLENS_
// prefix. A .env file in the working directory is loaded first if present;
// variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CONTRACTLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":3001")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// LLM defaults
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.timeout_secs", 120)
	v.SetDefault("llm.max_output_tokens", 0) // 0 leaves the provider default in place

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)

	v.SetDefault("cors.allowed_origins", "http://localhost:3001,http://127.0.0.1:3001")

	envBindings := map[string]string{
		"server.port":             "CONTRACTLENS_SERVER_PORT",
		"server.read_timeout":     "CONTRACTLENS_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "CONTRACTLENS_SERVER_WRITE_TIMEOUT",
		"server.environment":      "CONTRACTLENS_SERVER_ENVIRONMENT",
		"log.level":               "CONTRACTLENS_LOG_LEVEL",
		"log.format":              "CONTRACTLENS_LOG_FORMAT",
		"llm.provider":            "CONTRACTLENS_LLM_PROVIDER",
		"llm.api_key":             "CONTRACTLENS_LLM_API_KEY",
		"llm.model":               "CONTRACTLENS_LLM_MODEL",
		"llm.endpoint":            "CONTRACTLENS_LLM_ENDPOINT",
		"llm.timeout_secs":        "CONTRACTLENS_LLM_TIMEOUT_SECS",
		"llm.max_output_tokens":   "CONTRACTLENS_LLM_MAX_OUTPUT_TOKENS",
		"upload.max_file_size_mb": "CONTRACTLENS_UPLOAD_MAX_FILE_SIZE_MB",
		"cors.allowed_origins":    "CONTRACTLENS_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it unless CONTRACTLENS_SERVER_PORT is explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CONTRACTLENS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  strings.ToLower(v.GetString("log.level")),
		Format: strings.ToLower(v.GetString("log.format")),
	}
	cfg.LLM = LLMConfig{
		Provider:        strings.ToLower(v.GetString("llm.provider")),
		APIKey:          v.GetString("llm.api_key"),
		Model:           v.GetString("llm.model"),
		Endpoint:        v.GetString("llm.endpoint"),
		TimeoutSecs:     v.GetInt("llm.timeout_secs"),
		MaxOutputTokens: v.GetInt("llm.max_output_tokens"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	return cfg, nil
}
