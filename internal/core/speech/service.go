// Package speech is the synthesis gateway: the single entry point that
// validates requests, resolves credentials and dispatches to a provider.
package speech

import (
	"context"

	"timeline-speech-server/internal/core/providers/tts"
	"timeline-speech-server/internal/platform/config"
	platformerrors "timeline-speech-server/internal/platform/errors"
	"timeline-speech-server/internal/platform/logging"
)

// aliases maps alternate route ids onto registered provider ids. The web
// client historically posted to /api/tts/google-ai-studio.
var aliases = map[string]string{
	"google-ai-studio": "gemini",
}

// Service is stateless across calls: every Synthesize is a pure function
// of the request, the provider set and the credentials.
type Service struct {
	providers   map[string]tts.Provider
	credentials *config.Credentials
	logger      *logging.Logger
}

// NewService instantiates every registered provider with its section of
// the platform config.
func NewService(cfg *config.Config, credentials *config.Credentials, logger *logging.Logger) (*Service, error) {
	service := &Service{
		providers:   make(map[string]tts.Provider),
		credentials: credentials,
		logger:      logger,
	}

	for _, name := range tts.Names() {
		provider, err := tts.Create(name, providerConfig(cfg, name), logger)
		if err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindBootstrap, "speech.new", "create provider "+name, err)
		}
		service.providers[name] = provider
	}

	return service, nil
}

func providerConfig(cfg *config.Config, name string) *tts.Config {
	switch name {
	case "elevenlabs":
		return &tts.Config{
			BaseURL: cfg.TTS.ElevenLabs.BaseURL,
			Voice:   cfg.TTS.ElevenLabs.VoiceID,
			Model:   cfg.TTS.ElevenLabs.ModelID,
		}
	case "gemini":
		return &tts.Config{
			BaseURL: cfg.TTS.Gemini.BaseURL,
			Model:   cfg.TTS.Gemini.Model,
			Voice:   cfg.TTS.Gemini.Voice,
		}
	case "openai":
		return &tts.Config{
			Model: cfg.TTS.OpenAI.Model,
			Voice: cfg.TTS.OpenAI.Voice,
		}
	case "edge":
		return &tts.Config{
			Voice: cfg.TTS.Edge.Voice,
		}
	default:
		return &tts.Config{}
	}
}

// Provider resolves a route id (alias-aware) to a provider.
func (s *Service) Provider(name string) (tts.Provider, bool) {
	if target, ok := aliases[name]; ok {
		name = target
	}
	provider, ok := s.providers[name]
	return provider, ok
}

// Providers lists the available provider ids.
func (s *Service) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for _, name := range tts.Names() {
		if _, ok := s.providers[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Synthesize runs the gateway pipeline: normalize and validate text,
// resolve the credential, delegate to the adapter. One attempt, no retry.
func (s *Service) Synthesize(ctx context.Context, providerName, text, voice, model string) (*tts.Audio, error) {
	const op = "speech.synthesize"

	cleaned := tts.CleanText(text)
	if cleaned == "" {
		return nil, platformerrors.New(platformerrors.KindValidation, op, "text is required")
	}

	provider, ok := s.Provider(providerName)
	if !ok {
		return nil, platformerrors.New(platformerrors.KindValidation, op, "unknown provider: "+providerName)
	}

	credential := ""
	if provider.NeedsCredential() {
		credential = s.credentialFor(provider.Name())
		if credential == "" {
			return nil, platformerrors.New(platformerrors.KindConfig, op,
				"missing credential for provider "+provider.Name())
		}
	}

	if s.logger != nil {
		s.logger.InfoTag("TTS", "%s synthesis: %q (%d chars)",
			provider.Name(), logging.Truncate(cleaned, 50), len(cleaned))
	}

	result, err := provider.Synthesize(ctx, tts.Request{
		Text:       cleaned,
		Voice:      voice,
		Model:      model,
		Credential: credential,
	})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "synthesis failed", err)
	}

	return result, nil
}

func (s *Service) credentialFor(name string) string {
	switch name {
	case "elevenlabs":
		return s.credentials.ElevenLabsAPIKey
	case "gemini":
		return s.credentials.AIStudioAPIKey
	case "openai":
		return s.credentials.OpenAIAPIKey
	default:
		return ""
	}
}
