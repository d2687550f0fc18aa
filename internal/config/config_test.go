package config

import (
	"os"
	"testing"
)

func TestLoadConfig_Valid(t *testing.T) {
	ResetConfigForTest()
	tmp := "test_config.json"
	raw := []byte(`{
		"server": {
			"host": "localhost",
			"port": 8080,
			"subpath": "/moodlist"
		},
		"redis": {
			"addr": "localhost:6379",
			"password": "",
			"db": 0
		},
		"llm": {
			"base_url": "http://localhost:8000/v1",
			"model": "gpt-4o-mini",
			"temperature": 0.5
		},
		"session": {
			"backend": "redis",
			"ttl_minutes": 30
		},
		"review": {
			"enabled": true
		}
	}`)
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		t.Fatalf("write tmp config: %v", err)
	}
	defer os.Remove(tmp)

	cfg, err := LoadConfig(tmp)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("llm config not loaded")
	}
	if !cfg.Review.Enabled {
		t.Errorf("review config not loaded")
	}
	if cfg.Session.TTLMinutes != 30 {
		t.Errorf("session ttl not loaded: %d", cfg.Session.TTLMinutes)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfigForTest()
	tmp := "test_defaults_config.json"
	raw := []byte(`{"llm": {"model": "gpt-4o-mini"}}`)
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		t.Fatalf("write tmp config: %v", err)
	}
	defer os.Remove(tmp)

	cfg, err := LoadConfig(tmp)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Tools.SearchLimit != 30 {
		t.Errorf("expected default search limit 30, got %d", cfg.Tools.SearchLimit)
	}
	if cfg.Tools.TimeoutSeconds != 15 {
		t.Errorf("expected default tool timeout 15, got %d", cfg.Tools.TimeoutSeconds)
	}
	if cfg.Session.TTLMinutes != 60 {
		t.Errorf("expected default session ttl 60, got %d", cfg.Session.TTLMinutes)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	ResetConfigForTest()
	_, err := LoadConfig("no_such_config.json")
	if err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	ResetConfigForTest()
	tmp := "test_invalid_config.json"
	if err := os.WriteFile(tmp, []byte(`{not json`), 0644); err != nil {
		t.Fatalf("write tmp config: %v", err)
	}
	defer os.Remove(tmp)

	_, err := LoadConfig(tmp)
	if err == nil {
		t.Errorf("expected error for invalid JSON")
	}
}

func TestLoadConfig_MissingModel(t *testing.T) {
	ResetConfigForTest()
	tmp := "test_nomodel_config.json"
	if err := os.WriteFile(tmp, []byte(`{"server": {"port": 8080}}`), 0644); err != nil {
		t.Fatalf("write tmp config: %v", err)
	}
	defer os.Remove(tmp)

	_, err := LoadConfig(tmp)
	if err == nil {
		t.Errorf("expected error for missing llm.model")
	}
}

func TestLoadConfig_RedisBackendNeedsAddr(t *testing.T) {
	ResetConfigForTest()
	tmp := "test_redisaddr_config.json"
	raw := []byte(`{"llm": {"model": "m"}, "session": {"backend": "redis"}}`)
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		t.Fatalf("write tmp config: %v", err)
	}
	defer os.Remove(tmp)

	_, err := LoadConfig(tmp)
	if err == nil {
		t.Errorf("expected error for redis backend without addr")
	}
}

func TestLoadSecrets_FromEnv(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "id123")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret456")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	s := LoadSecrets()
	if s.SpotifyClientID != "id123" || s.SpotifyClientSecret != "secret456" {
		t.Errorf("unexpected spotify secrets: %+v", s)
	}
	if s.OpenAIAPIKey != "sk-test" {
		t.Errorf("unexpected openai key: %s", s.OpenAIAPIKey)
	}
}
