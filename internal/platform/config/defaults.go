package config

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Web: WebConfig{
			Enabled:      true,
			StaticDir:    "web",
			AllowOrigins: []string{"*"},
		},
		TTS: TTSConfig{
			DefaultProvider: "elevenlabs",
			ElevenLabs: ElevenLabsConfig{
				BaseURL: "https://api.elevenlabs.io/v1",
				VoiceID: "onwK4e9ZLuTAKqWW03F9",
				ModelID: "eleven_multilingual_v2",
			},
			Gemini: GeminiConfig{
				BaseURL: "https://generativelanguage.googleapis.com/v1beta",
				Model:   "gemini-2.5-pro-preview-tts",
				Voice:   "Zephyr",
			},
			OpenAI: OpenAIConfig{
				Model: "tts-1",
				Voice: "alloy",
			},
			Edge: EdgeConfig{
				Voice: "tr-TR-AhmetNeural",
			},
		},
		Timeline: TimelineConfig{
			DataFile:  "data/timeline.json",
			AssetsDir: "web/assets",
		},
	}
}
