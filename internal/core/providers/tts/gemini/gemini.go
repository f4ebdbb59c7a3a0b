// Package gemini implements the streaming generative speech provider. The
// upstream answers with a finite SSE sequence of inline audio chunks,
// usually raw PCM that still needs a WAV container.
package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"timeline-speech-server/internal/core/audio"
	"timeline-speech-server/internal/core/providers/tts"
	platformerrors "timeline-speech-server/internal/platform/errors"
	"timeline-speech-server/internal/platform/logging"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-pro-preview-tts"
	defaultVoice   = "Zephyr"
)

// Provider calls the Gemini streamGenerateContent endpoint configured for
// audio-modality output.
type Provider struct {
	client  *http.Client
	baseURL string
	model   string
	voice   string
	logger  *logging.Logger
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature        float64      `json:"temperature"`
	ResponseModalities []string     `json:"responseModalities"`
	SpeechConfig       speechConfig `json:"speechConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

// streamChunk is one SSE event payload.
type streamChunk struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func init() {
	tts.Register("gemini", NewProvider)
}

// NewProvider creates a Gemini provider.
func NewProvider(config *tts.Config, logger *logging.Logger) (tts.Provider, error) {
	provider := &Provider{
		baseURL: defaultBaseURL,
		model:   defaultModel,
		voice:   defaultVoice,
		logger:  logger,
	}

	if config.BaseURL != "" {
		provider.baseURL = config.BaseURL
	}
	if config.Model != "" {
		provider.model = config.Model
	}
	if config.Voice != "" {
		provider.voice = config.Voice
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	provider.client = &http.Client{Timeout: timeout}

	return provider, nil
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) NeedsCredential() bool {
	return true
}

// Synthesize consumes the chunk stream in arrival order. Chunks already in
// a standard container are kept as-is; raw PCM chunks are wrapped with a
// WAV header derived from the chunk's own MIME type, so the concatenated
// result is a sequence of self-describing mini-containers.
func (p *Provider) Synthesize(ctx context.Context, req tts.Request) (*tts.Audio, error) {
	const op = "gemini.synthesize"

	voice := req.Voice
	if voice == "" {
		voice = p.voice
	}
	model := req.Model
	if model == "" {
		model = p.model
	}

	body := generateRequest{
		Contents: []content{
			{
				Role:  "user",
				Parts: []part{{Text: req.Text}},
			},
		},
		GenerationConfig: generationConfig{
			Temperature:        1,
			ResponseModalities: []string{"audio"},
			SpeechConfig: speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voice},
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "encode request", err)
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", p.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", req.Credential)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "call upstream", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if p.logger != nil {
			p.logger.ErrorTag("TTS", "gemini upstream error: %d", resp.StatusCode)
		}
		return nil, platformerrors.Upstream(op,
			fmt.Sprintf("upstream status %d: %s", resp.StatusCode, string(message)),
			resp.StatusCode)
	}

	var buffer bytes.Buffer
	chunks := 0

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "stream cancelled", err)
		}

		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}

		inline := firstInlineData(chunk)
		if inline == nil {
			continue
		}

		raw, err := base64.StdEncoding.DecodeString(inline.Data)
		if err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "decode audio chunk", err)
		}

		if audio.ExtensionForMime(inline.MimeType) == "wav" {
			buffer.Write(raw)
		} else {
			buffer.Write(audio.WrapPCM(raw, inline.MimeType))
		}
		chunks++
	}

	if err := scanner.Err(); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "read stream", err)
	}

	if chunks == 0 {
		return nil, platformerrors.New(platformerrors.KindNoAudio, op, "stream produced no audio")
	}

	if p.logger != nil {
		p.logger.DebugTag("TTS", "gemini produced %d chunk(s), %d bytes", chunks, buffer.Len())
	}

	return &tts.Audio{
		Data:        buffer.Bytes(),
		ContentType: "audio/wav",
	}, nil
}

func firstInlineData(chunk streamChunk) *inlineData {
	for _, candidate := range chunk.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return part.InlineData
			}
		}
	}
	return nil
}
