package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]string{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got: %s", cfg.Port)
	}
	if cfg.FeedTimeout != 20*time.Second {
		t.Errorf("Expected default feed timeout 20s, got: %v", cfg.FeedTimeout)
	}
	if cfg.GeminiModel != "gemini-1.5-flash" {
		t.Errorf("Unexpected default model: %s", cfg.GeminiModel)
	}
	if cfg.NeuralRetryAttempts != 2 || cfg.MaxNeuralRequests != 0 {
		t.Errorf("Unexpected neural defaults: %+v", cfg)
	}
}

func TestLoad_EnvAndFlags(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_NEURAL_REQUESTS", "50")
	t.Setenv("DEBUG", "true")

	cfg, err := Load([]string{"--feed-timeout", "5s", "--gemini-api-key", "secret"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Port != "9090" || cfg.MaxNeuralRequests != 50 || !cfg.Debug {
		t.Errorf("Expected environment to apply, got: %+v", cfg)
	}
	if cfg.FeedTimeout != 5*time.Second || cfg.GeminiAPIKey != "secret" {
		t.Errorf("Expected flags to apply, got: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{Port: "8080", GinMode: "release", FeedTimeout: time.Second, NeuralRetryAttempts: 1}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid config, got: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"zero feed timeout", func(c *Config) { c.FeedTimeout = 0 }},
		{"negative budget", func(c *Config) { c.MaxNeuralRequests = -1 }},
		{"no attempts", func(c *Config) { c.NeuralRetryAttempts = 0 }},
		{"bad gin mode", func(c *Config) { c.GinMode = "verbose" }},
	}
	for _, tt := range tests {
		c := valid
		tt.mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
