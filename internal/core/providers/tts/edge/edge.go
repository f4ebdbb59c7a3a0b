// Package edge implements a credential-free provider backed by the
// Microsoft Edge read-aloud service. Useful as a fallback when no paid
// provider is configured.
package edge

import (
	"context"

	"github.com/wujunwei928/edge-tts-go/edge_tts"

	"timeline-speech-server/internal/core/providers/tts"
	platformerrors "timeline-speech-server/internal/platform/errors"
	"timeline-speech-server/internal/platform/logging"
)

const defaultVoice = "tr-TR-AhmetNeural"

type Provider struct {
	voice  string
	logger *logging.Logger
}

func init() {
	tts.Register("edge", NewProvider)
}

func NewProvider(config *tts.Config, logger *logging.Logger) (tts.Provider, error) {
	provider := &Provider{
		voice:  defaultVoice,
		logger: logger,
	}
	if config.Voice != "" {
		provider.voice = config.Voice
	}
	return provider, nil
}

func (p *Provider) Name() string {
	return "edge"
}

func (p *Provider) NeedsCredential() bool {
	return false
}

func (p *Provider) Synthesize(ctx context.Context, req tts.Request) (*tts.Audio, error) {
	const op = "edge.synthesize"

	voice := req.Voice
	if voice == "" {
		voice = p.voice
	}

	communicate, err := edge_tts.NewCommunicate(req.Text, edge_tts.SetVoice(voice))
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "create communicator", err)
	}

	data, err := communicate.Stream()
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindProvider, op, "synthesis failed", err)
	}

	if len(data) == 0 {
		return nil, platformerrors.New(platformerrors.KindNoAudio, op, "stream produced no audio")
	}

	if p.logger != nil {
		p.logger.DebugTag("TTS", "edge produced %d bytes with voice %s", len(data), voice)
	}

	return &tts.Audio{
		Data:        data,
		ContentType: "audio/mpeg",
	}, nil
}
