// Package openai implements a REST speech provider over the OpenAI audio
// API. Like elevenlabs it returns one contained MP3 body per request.
package openai

import (
	"context"
	"errors"
	"io"

	goopenai "github.com/sashabaranov/go-openai"

	"timeline-speech-server/internal/core/providers/tts"
	platformerrors "timeline-speech-server/internal/platform/errors"
	"timeline-speech-server/internal/platform/logging"
)

const (
	defaultModel = string(goopenai.TTSModel1)
	defaultVoice = string(goopenai.VoiceAlloy)
)

type Provider struct {
	model  string
	voice  string
	logger *logging.Logger
}

func init() {
	tts.Register("openai", NewProvider)
}

func NewProvider(config *tts.Config, logger *logging.Logger) (tts.Provider, error) {
	provider := &Provider{
		model:  defaultModel,
		voice:  defaultVoice,
		logger: logger,
	}
	if config.Model != "" {
		provider.model = config.Model
	}
	if config.Voice != "" {
		provider.voice = config.Voice
	}
	return provider, nil
}

func (p *Provider) Name() string {
	return "openai"
}

func (p *Provider) NeedsCredential() bool {
	return true
}

func (p *Provider) Synthesize(ctx context.Context, req tts.Request) (*tts.Audio, error) {
	const op = "openai.synthesize"

	model := p.model
	if req.Model != "" {
		model = req.Model
	}
	voice := p.voice
	if req.Voice != "" {
		voice = req.Voice
	}

	client := goopenai.NewClient(req.Credential)

	resp, err := client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model: goopenai.SpeechModel(model),
		Input: req.Text,
		Voice: goopenai.SpeechVoice(voice),
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			return nil, platformerrors.Upstream(op, apiErr.Message, apiErr.HTTPStatusCode)
		}
		return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "call upstream", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "read audio body", err)
	}

	if p.logger != nil {
		p.logger.DebugTag("TTS", "openai produced %d bytes with voice %s", len(data), voice)
	}

	return &tts.Audio{
		Data:        data,
		ContentType: "audio/mpeg",
	}, nil
}
