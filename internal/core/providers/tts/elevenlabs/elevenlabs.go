// Package elevenlabs implements the single-shot REST speech provider. The
// upstream answers one request with a fully contained MP3 body.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"timeline-speech-server/internal/core/providers/tts"
	platformerrors "timeline-speech-server/internal/platform/errors"
	"timeline-speech-server/internal/platform/logging"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io/v1"
	defaultVoiceID = "onwK4e9ZLuTAKqWW03F9"
	defaultModelID = "eleven_multilingual_v2"
)

// Provider calls the ElevenLabs text-to-speech endpoint.
type Provider struct {
	client  *http.Client
	baseURL string
	voiceID string
	modelID string
	logger  *logging.Logger
}

// synthesisRequest is the upstream request body. The voice-shaping knobs
// are fixed tuning values, not caller-configurable.
type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

func init() {
	tts.Register("elevenlabs", NewProvider)
}

// NewProvider creates an ElevenLabs provider.
func NewProvider(config *tts.Config, logger *logging.Logger) (tts.Provider, error) {
	provider := &Provider{
		baseURL: defaultBaseURL,
		voiceID: defaultVoiceID,
		modelID: defaultModelID,
		logger:  logger,
	}

	if config.BaseURL != "" {
		provider.baseURL = config.BaseURL
	}
	if config.Voice != "" {
		provider.voiceID = config.Voice
	}
	if config.Model != "" {
		provider.modelID = config.Model
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	provider.client = &http.Client{Timeout: timeout}

	return provider, nil
}

func (p *Provider) Name() string {
	return "elevenlabs"
}

func (p *Provider) NeedsCredential() bool {
	return true
}

// Synthesize sends one request and returns the MP3 body as-is.
func (p *Provider) Synthesize(ctx context.Context, req tts.Request) (*tts.Audio, error) {
	const op = "elevenlabs.synthesize"

	voiceID := req.Voice
	if voiceID == "" {
		voiceID = p.voiceID
	}
	modelID := req.Model
	if modelID == "" {
		modelID = p.modelID
	}

	body := synthesisRequest{
		Text:    req.Text,
		ModelID: modelID,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.8,
			Style:           0.2,
			UseSpeakerBoost: true,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "encode request", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", p.baseURL, voiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "build request", err)
	}
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", req.Credential)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "call upstream", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if p.logger != nil {
			p.logger.ErrorTag("TTS", "elevenlabs upstream error: %d", resp.StatusCode)
		}
		return nil, platformerrors.Upstream(op,
			fmt.Sprintf("upstream status %d: %s", resp.StatusCode, string(message)),
			resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "read audio body", err)
	}

	return &tts.Audio{
		Data:        data,
		ContentType: "audio/mpeg",
	}, nil
}
