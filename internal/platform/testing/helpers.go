package testing

import (
	"testing"

	"timeline-speech-server/internal/platform/config"
	"timeline-speech-server/internal/platform/logging"
)

func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Server.IP = "127.0.0.1"
	cfg.Log.Level = "DEBUG"
	cfg.Log.Dir = t.TempDir()
	cfg.Log.File = "test.log"
	cfg.Web.Enabled = false

	return cfg
}

func SetupTestCredentials(t *testing.T) *config.Credentials {
	t.Helper()

	return &config.Credentials{
		ElevenLabsAPIKey: "test-elevenlabs-key",
		AIStudioAPIKey:   "test-ai-studio-key",
		OpenAIAPIKey:     "test-openai-key",
	}
}

func SetupTestLogger(t *testing.T) *logging.Logger {
	t.Helper()

	cfg := SetupTestConfig(t)
	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
	})

	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}

	return logger
}
