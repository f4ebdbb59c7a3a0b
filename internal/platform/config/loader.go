package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = ".config.yaml"

// Loader reads configuration from a yaml file, falling back to defaults,
// and resolves provider credentials from the environment.
type Loader struct {
	useDotEnv bool
	path      string
}

func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
		path:      defaultConfigPath,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the config file location (useful for tests).
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config      *Config
	Credentials *Credentials
	Path        string
}

// Load reads the config file when present, otherwise uses defaults, then
// resolves credentials. Credentials may be empty at this point: per-request
// validation in the gateway decides whether a provider is usable.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using system environment")
		}
	}

	cfg := DefaultConfig()
	path := ""

	if data, err := os.ReadFile(l.path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", l.path, err)
		}
		path = l.path
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return &Result{
		Config:      cfg,
		Credentials: resolveCredentials(),
		Path:        path,
	}, nil
}

func resolveCredentials() *Credentials {
	return &Credentials{
		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),
		AIStudioAPIKey:   os.Getenv("AI_STUDIO_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
	}
}

// Validate rejects configurations the server cannot start with.
func Validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.TTS.DefaultProvider == "" {
		return fmt.Errorf("default TTS provider cannot be empty")
	}
	return nil
}
