package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

type Config struct {
	Server struct {
		Host    string `json:"host"`
		Port    int    `json:"port"`
		Subpath string `json:"subpath"`
	} `json:"server"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	LLM struct {
		BaseURL        string  `json:"base_url"`
		Model          string  `json:"model"`
		TimeoutSeconds int     `json:"timeout_seconds"`
		Temperature    float32 `json:"temperature"`
	} `json:"llm"`
	Session struct {
		// Backend is "memory" or "redis". Empty means memory.
		Backend    string `json:"backend"`
		TTLMinutes int    `json:"ttl_minutes"`
	} `json:"session"`
	Review struct {
		Enabled bool `json:"enabled"`
	} `json:"review"`
	Tools struct {
		TimeoutSeconds int `json:"timeout_seconds"`
		SearchLimit    int `json:"search_limit"`
	} `json:"tools"`
	RocketChat struct {
		WebhookURL string `json:"webhook_url"`
	} `json:"rocketchat"`
}

// Secrets are read from the environment (or a .env file loaded by main),
// never from config.json.
type Secrets struct {
	SpotifyClientID     string
	SpotifyClientSecret string
	OpenAIAPIKey        string
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads config.json from disk (singleton)
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		// Minimal validation
		if c.LLM.Model == "" {
			cfgErr = errors.New("llm.model must be set in config")
			return
		}
		if c.Session.Backend == "redis" && c.Redis.Addr == "" {
			cfgErr = errors.New("redis.addr must be set when session.backend is redis")
			return
		}
		applyDefaults(&c)
		cfg = &c
	})
	return cfg, cfgErr
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 120
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.5
	}
	if c.Session.TTLMinutes == 0 {
		c.Session.TTLMinutes = 60
	}
	if c.Tools.TimeoutSeconds == 0 {
		c.Tools.TimeoutSeconds = 15
	}
	if c.Tools.SearchLimit == 0 {
		c.Tools.SearchLimit = 30
	}
}

// LoadSecrets pulls service credentials from the environment.
func LoadSecrets() Secrets {
	return Secrets{
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
	}
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
