package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type ProviderConfig struct {
	Type    string `toml:"type"`
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model,omitempty"`
	APIKey  string `toml:"api_key,omitempty"`
}

type WeatherConfig struct {
	BaseURL         string `toml:"base_url,omitempty"`
	APIKey          string `toml:"api_key,omitempty"`
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
}

type UserConfig struct {
	DataDirectory string         `toml:"data_directory"`
	Provider      ProviderConfig `toml:"provider"`
	Weather       WeatherConfig  `toml:"weather"`
}

type Config struct {
	DataDirectory  string
	ProviderType   string
	ProviderURL    string
	Model          string
	ProviderAPIKey string
	WeatherURL     string
	WeatherAPIKey  string
	CacheTTL       time.Duration
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("SKYCAST_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if provider := os.Getenv("SKYCAST_PROVIDER"); provider != "" {
		c.ProviderType = provider
	}
	if model := os.Getenv("SKYCAST_MODEL"); model != "" {
		c.Model = model
	}
	if host := os.Getenv("SKYCAST_OLLAMA_HOST"); host != "" && c.ProviderType == "ollama" {
		c.ProviderURL = host
	}
	if key := os.Getenv("SKYCAST_OPENAI_API_KEY"); key != "" && c.ProviderType == "openai" {
		c.ProviderAPIKey = key
	}
	if key := os.Getenv("SKYCAST_ANTHROPIC_API_KEY"); key != "" && c.ProviderType == "anthropic" {
		c.ProviderAPIKey = key
	}
	if key := os.Getenv("SKYCAST_OPENWEATHER_API_KEY"); key != "" {
		c.WeatherAPIKey = key
	}
}

func CheckDebug() bool {
	debug := os.Getenv("SKYCAST_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - debug output can contain conversation content
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (SKYCAST_DEBUG=%s) ===", os.Getenv("SKYCAST_DEBUG"))
}

func defaultConfig() *Config {
	return &Config{
		DataDirectory: "~/.local/share/skycast",
		ProviderType:  "ollama",
		ProviderURL:   "http://localhost:11434",
		Model:         "llama3.1:latest",
		WeatherURL:    "https://api.openweathermap.org/data/2.5/weather",
		CacheTTL:      10 * time.Minute,
	}
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	settingsPath := GetSettingsFilePath()
	if FileExists(settingsPath) {
		var user UserConfig
		if _, err := toml.DecodeFile(settingsPath, &user); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", settingsPath, err)
		}
		if user.DataDirectory != "" {
			cfg.DataDirectory = user.DataDirectory
		}
		if user.Provider.Type != "" {
			cfg.ProviderType = user.Provider.Type
		}
		if user.Provider.BaseURL != "" {
			cfg.ProviderURL = user.Provider.BaseURL
		}
		if user.Provider.Model != "" {
			cfg.Model = user.Provider.Model
		}
		if user.Provider.APIKey != "" {
			cfg.ProviderAPIKey = user.Provider.APIKey
		}
		if user.Weather.BaseURL != "" {
			cfg.WeatherURL = user.Weather.BaseURL
		}
		if user.Weather.APIKey != "" {
			cfg.WeatherAPIKey = user.Weather.APIKey
		}
		if user.Weather.CacheTTLMinutes > 0 {
			cfg.CacheTTL = time.Duration(user.Weather.CacheTTLMinutes) * time.Minute
		}
	}

	cfg.applyEnvOverrides()

	if err := EnsureDir(cfg.DataDir()); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// GenerateSettingsTemplate returns a commented settings.toml for first runs.
func GenerateSettingsTemplate() string {
	return `# SkyCast Configuration
# Location: ~/.config/skycast/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the weather cache and debug log are stored
data_directory = "~/.local/share/skycast"

[provider]
# Language model backend: "ollama", "openai" or "anthropic"
type = "ollama"
base_url = "http://localhost:11434"
model = "llama3.1:latest"
# api_key = ""   # required for openai/anthropic (or use SKYCAST_*_API_KEY)

[weather]
# OpenWeatherMap credentials (or use SKYCAST_OPENWEATHER_API_KEY)
# api_key = ""
cache_ttl_minutes = 10
`
}
