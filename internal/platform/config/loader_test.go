package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoader_Load(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, ".config.yaml")

	configContent := `
server:
  ip: "127.0.0.1"
  port: 9090
log:
  log_level: "DEBUG"
  log_dir: "/tmp/logs"
  log_file: "test.log"
tts:
  default_provider: "gemini"
  gemini:
    voice: "Aoede"
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loader := NewLoader().WithDotEnv(false).WithPath(configFile)
	result, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	cfg := result.Config
	if cfg.Server.IP != "127.0.0.1" {
		t.Errorf("expected server IP 127.0.0.1, got %s", cfg.Server.IP)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected server port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "DEBUG" {
		t.Errorf("expected log level DEBUG, got %s", cfg.Log.Level)
	}
	if cfg.TTS.DefaultProvider != "gemini" {
		t.Errorf("expected default provider gemini, got %s", cfg.TTS.DefaultProvider)
	}
	if cfg.TTS.Gemini.Voice != "Aoede" {
		t.Errorf("expected gemini voice Aoede, got %s", cfg.TTS.Gemini.Voice)
	}
	// Unset sections keep their defaults.
	if cfg.TTS.ElevenLabs.ModelID != "eleven_multilingual_v2" {
		t.Errorf("expected default elevenlabs model, got %s", cfg.TTS.ElevenLabs.ModelID)
	}
}

func TestLoader_Load_NoFile(t *testing.T) {
	loader := NewLoader().WithDotEnv(false).WithPath(filepath.Join(t.TempDir(), "missing.yaml"))

	result, err := loader.Load()
	if err != nil {
		t.Fatalf("expected defaults when file is missing, got error: %v", err)
	}
	if result.Path != "" {
		t.Errorf("expected empty path for defaults, got %s", result.Path)
	}
	if result.Config.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", result.Config.Server.Port)
	}
}

func TestLoader_Credentials(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "xi-secret")
	t.Setenv("AI_STUDIO_API_KEY", "")

	loader := NewLoader().WithDotEnv(false).WithPath(filepath.Join(t.TempDir(), "missing.yaml"))
	result, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Empty credentials are allowed at load time; the gateway rejects
	// them per request.
	if result.Credentials.ElevenLabsAPIKey != "xi-secret" {
		t.Errorf("expected elevenlabs credential from env")
	}
	if result.Credentials.AIStudioAPIKey != "" {
		t.Errorf("expected empty ai studio credential")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(cfg *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid server port",
			mutate:  func(cfg *Config) { cfg.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "empty default provider",
			mutate:  func(cfg *Config) { cfg.TTS.DefaultProvider = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
