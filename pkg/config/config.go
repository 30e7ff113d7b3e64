package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Application settings
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	Backend BackendConfig
	Gemini  GeminiConfig
	Control ControlConfig
	Output  OutputConfig
}

// Server settings
type ServerConfig struct {
	Port string
}

// Remote spreadsheet backend settings
type BackendConfig struct {
	ScriptURL          string
	RequestTimeout     time.Duration
	CacheTTL           time.Duration
	RateLimitPerSecond int
}

// Content generator settings
type GeminiConfig struct {
	APIKey         string
	Model          string
	RequestTimeout time.Duration
}

// Remote control-plane document settings
type ControlConfig struct {
	GistURL        string
	RequestTimeout time.Duration
}

// Output file settings
type OutputConfig struct {
	Dir string
}

// Logging settings
type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Backend: BackendConfig{
			ScriptURL:          getEnv("BACKEND_SCRIPT_URL", ""),
			RequestTimeout:     getDurationEnv("BACKEND_REQUEST_TIMEOUT", "30s"),
			CacheTTL:           getDurationEnv("BACKEND_CACHE_TTL", "60s"),
			RateLimitPerSecond: getIntEnv("BACKEND_RATE_LIMIT_PER_SECOND", 10),
		},
		Gemini: GeminiConfig{
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			Model:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			RequestTimeout: getDurationEnv("GEMINI_REQUEST_TIMEOUT", "30s"),
		},
		Control: ControlConfig{
			GistURL:        getEnv("CONTROL_GIST_URL", ""),
			RequestTimeout: getDurationEnv("CONTROL_REQUEST_TIMEOUT", "10s"),
		},
		Output: OutputConfig{
			Dir: getEnv("OUTPUT_DIR", defaultOutputDir()),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := os.MkdirAll(config.Output.Dir, 0o755); err != nil {
		return nil, err
	}

	return config, nil
}

// defaultOutputDir prefers a campaign folder under the user's home directory
// and falls back to a local directory.
func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "output"
	}
	return filepath.Join(home, "ads_campaign_output")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
