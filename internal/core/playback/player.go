package playback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/hajimehoshi/go-mp3"
	shellwords "github.com/mattn/go-shellwords"

	"timeline-speech-server/internal/core/audio"
	"timeline-speech-server/internal/core/providers/tts"
	platformerrors "timeline-speech-server/internal/platform/errors"
	"timeline-speech-server/internal/platform/logging"
)

// Player turns synthesized audio into audible output. Play blocks until
// playback finishes or the context is cancelled; Stop interrupts an
// in-flight Play from another goroutine.
type Player interface {
	Play(ctx context.Context, audio *tts.Audio) error
	Stop() error
}

// ExecPlayer pipes WAV bytes into an external player command such as
// "aplay -q" or "ffplay -autoexit -nodisp -i -". MP3 responses are decoded
// to PCM first so one pipe format serves every provider.
type ExecPlayer struct {
	command []string
	logger  *logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewExecPlayer(command string, logger *logging.Logger) (*ExecPlayer, error) {
	args, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse player command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("player command empty")
	}
	return &ExecPlayer{command: args, logger: logger}, nil
}

func (p *ExecPlayer) Play(ctx context.Context, a *tts.Audio) error {
	const op = "playback.play"

	wav, err := toWav(a)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindPlayback, op, "prepare audio", err)
	}

	playCtx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	defer func() {
		cancel()
		p.mu.Lock()
		p.cancel = nil
		p.mu.Unlock()
	}()

	cmd := exec.CommandContext(playCtx, p.command[0], p.command[1:]...)
	cmd.Stdin = bytes.NewReader(wav)

	if p.logger != nil {
		p.logger.DebugTag("Playback", "piping %d bytes into %s", len(wav), p.command[0])
	}

	if err := cmd.Run(); err != nil {
		if playCtx.Err() != nil {
			// Interrupted by Stop or context cancel, not a failure.
			return nil
		}
		return platformerrors.Wrap(platformerrors.KindPlayback, op, "player command failed", err)
	}
	return nil
}

func (p *ExecPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	return nil
}

// toWav normalizes gateway output into a single WAV byte stream for the
// pipe. WAV passes through; MP3 is decoded with go-mp3, which always
// yields 16-bit stereo PCM at the source sample rate.
func toWav(a *tts.Audio) ([]byte, error) {
	switch audio.ExtensionForMime(a.ContentType) {
	case "wav":
		return a.Data, nil
	case "mp3":
		decoder, err := mp3.NewDecoder(bytes.NewReader(a.Data))
		if err != nil {
			return nil, fmt.Errorf("decode mp3: %w", err)
		}
		pcm, err := io.ReadAll(decoder)
		if err != nil {
			return nil, fmt.Errorf("read mp3 pcm: %w", err)
		}
		format := audio.WavFormat{
			NumChannels:   2,
			SampleRate:    decoder.SampleRate(),
			BitsPerSample: 16,
		}
		out := audio.BuildWavHeader(uint32(len(pcm)), format)
		return append(out, pcm...), nil
	default:
		return nil, fmt.Errorf("unsupported content type: %s", a.ContentType)
	}
}
