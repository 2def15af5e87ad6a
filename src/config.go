package bookforge

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
)

// Config carries runtime settings for the service and CLI. Environment
// variables are the primary source; an optional YAML file overlays them for
// server deployments.
type Config struct {
	Addr         string `yaml:"addr"`
	DataDir      string `yaml:"dataDir"`
	OutputDir    string `yaml:"outputDir"`
	ClaudeAPIKey string `yaml:"claudeApiKey"`
	SDWebUIURL   string `yaml:"sdWebuiUrl"`
	HordeAPIKey  string `yaml:"hordeApiKey"`
	LogLevel     string `yaml:"logLevel"`
	LogFile      string `yaml:"logFile"`
	LogPretty    bool   `yaml:"logPretty"`
	TLS          bool   `yaml:"tls"`
	CertFile     string `yaml:"certFile"`
	KeyFile      string `yaml:"keyFile"`
	RateLimit    int    `yaml:"rateLimit"`
}

// LoadConfig reads settings from the environment with defaults suitable for
// local use.
func LoadConfig() Config {
	return Config{
		Addr:         getEnv("BOOKFORGE_ADDR", ":8081"),
		DataDir:      getEnv("BOOKFORGE_DATA_DIR", "data"),
		OutputDir:    getEnv("BOOKFORGE_OUTPUT_DIR", "outputs"),
		ClaudeAPIKey: os.Getenv("CLAUDE_API_KEY"),
		SDWebUIURL:   os.Getenv("SD_WEBUI_URL"),
		HordeAPIKey:  os.Getenv("HORDE_API_KEY"),
		LogLevel:     getEnv("BOOKFORGE_LOG_LEVEL", "info"),
		LogFile:      os.Getenv("BOOKFORGE_LOG_FILE"),
		LogPretty:    getEnvBool("BOOKFORGE_LOG_PRETTY", true),
		TLS:          getEnvBool("BOOKFORGE_TLS", false),
		CertFile:     getEnv("BOOKFORGE_CERT_FILE", "certs/server.crt"),
		KeyFile:      getEnv("BOOKFORGE_KEY_FILE", "certs/server.key"),
		RateLimit:    getEnvInt("BOOKFORGE_RATE_LIMIT", 30),
	}
}

// ApplyYAML overlays settings from a YAML file onto c. A missing file is not
// an error; a malformed one is.
func (c *Config) ApplyYAML(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// ImageBackend picks the configured image client: a local SD-WebUI when its
// URL is set, the AI Horde otherwise. Nil when neither is configured.
func (c Config) ImageBackend() ImageClient {
	if c.SDWebUIURL != "" {
		return NewSDWebUIClient(c.SDWebUIURL)
	}
	if c.HordeAPIKey != "" {
		return NewHordeClient(c.HordeAPIKey)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
