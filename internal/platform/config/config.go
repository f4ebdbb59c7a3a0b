package config

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Web      WebConfig      `yaml:"web"`
	TTS      TTSConfig      `yaml:"tts"`
	Timeline TimelineConfig `yaml:"timeline"`
}

type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type WebConfig struct {
	Enabled      bool     `yaml:"enabled"`
	StaticDir    string   `yaml:"static_dir"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type TTSConfig struct {
	DefaultProvider string           `yaml:"default_provider"`
	ElevenLabs      ElevenLabsConfig `yaml:"elevenlabs"`
	Gemini          GeminiConfig     `yaml:"gemini"`
	OpenAI          OpenAIConfig     `yaml:"openai"`
	Edge            EdgeConfig       `yaml:"edge"`
}

type ElevenLabsConfig struct {
	BaseURL string `yaml:"base_url"`
	VoiceID string `yaml:"voice_id"`
	ModelID string `yaml:"model_id"`
}

type GeminiConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Voice   string `yaml:"voice"`
}

type OpenAIConfig struct {
	Model string `yaml:"model"`
	Voice string `yaml:"voice"`
}

type EdgeConfig struct {
	Voice string `yaml:"voice"`
}

type TimelineConfig struct {
	DataFile  string `yaml:"data_file"`
	AssetsDir string `yaml:"assets_dir"`
}

// Credentials holds the per-provider secrets resolved from the environment.
// They are passed by reference into the gateway and must never appear in
// logs or response payloads.
type Credentials struct {
	ElevenLabsAPIKey string
	AIStudioAPIKey   string
	OpenAIAPIKey     string
}
