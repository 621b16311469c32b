package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// ErrHelp is returned by Load when --help was requested and printed.
var ErrHelp = errors.New("help requested")

type Config struct {
	// HTTP settings
	Port    string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	GinMode string `long:"gin-mode" env:"GIN_MODE" default:"release" description:"Gin mode (debug, release, test)"`

	// RSS settings
	FeedsConfigPath string        `long:"feeds-config" env:"FEEDS_CONFIG_PATH" description:"YAML feed catalog (built-in catalog when empty)"`
	FeedTimeout     time.Duration `long:"feed-timeout" env:"FEED_TIMEOUT" default:"20s" description:"Timeout for fetching one feed"`
	UserAgent       string        `long:"user-agent" env:"USER_AGENT" description:"User agent for page requests (browser-like default when empty)"`

	// Gemini settings
	GeminiAPIKey        string        `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key; the neural summarizer is skipped without it"`
	GeminiModel         string        `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-1.5-flash" description:"Gemini model name"`
	MaxNeuralRequests   int           `long:"max-neural-requests" env:"MAX_NEURAL_REQUESTS" default:"0" description:"Neural summaries per day (0 = unlimited)"`
	NeuralRetryAttempts int           `long:"neural-retry-attempts" env:"NEURAL_RETRY_ATTEMPTS" default:"2" description:"Attempts per neural summary"`
	NeuralRetryDelay    time.Duration `long:"neural-retry-delay" env:"NEURAL_RETRY_DELAY" default:"2s" description:"Delay between neural attempts"`

	// App settings
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load reads configuration from args and the environment.
func Load(args []string) (*Config, error) {
	var cfg Config

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return &cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.FeedTimeout <= 0 {
		return fmt.Errorf("FEED_TIMEOUT must be positive")
	}
	if c.MaxNeuralRequests < 0 {
		return fmt.Errorf("MAX_NEURAL_REQUESTS must not be negative")
	}
	if c.NeuralRetryAttempts < 1 {
		return fmt.Errorf("NEURAL_RETRY_ATTEMPTS must be at least 1")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be 'debug', 'release' or 'test'")
	}
	return nil
}
