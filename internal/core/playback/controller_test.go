package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeline-speech-server/internal/core/providers/tts"
)

type fakePlayer struct {
	mu        sync.Mutex
	playCalls int
	stopCalls int
	// block, when non-nil, keeps Play running until the channel closes or
	// the context is cancelled, simulating audio that is still playing.
	block chan struct{}
}

func (p *fakePlayer) Play(ctx context.Context, a *tts.Audio) error {
	p.mu.Lock()
	p.playCalls++
	block := p.block
	p.mu.Unlock()

	if block != nil {
		select {
		case <-ctx.Done():
		case <-block:
		}
	}
	return nil
}

func (p *fakePlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopCalls++
	return nil
}

func (p *fakePlayer) counts() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playCalls, p.stopCalls
}

type fakeSynth struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
	err     error
}

func (s *fakeSynth) synthesize(ctx context.Context, text string) (*tts.Audio, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.started != nil {
		close(s.started)
		s.started = nil
	}
	if s.release != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.release:
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &tts.Audio{Data: []byte("mp3"), ContentType: "audio/mpeg"}, nil
}

func (s *fakeSynth) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestController_Speak(t *testing.T) {
	player := &fakePlayer{}
	synth := &fakeSynth{}
	controller := NewController("elevenlabs", synth.synthesize, player, nil)

	err := controller.Speak(context.Background(), "Atatürk 1881 yılında doğdu.")
	require.NoError(t, err)

	plays, _ := player.counts()
	assert.Equal(t, 1, synth.callCount())
	assert.Equal(t, 1, plays)
	assert.Equal(t, StateIdle, controller.State())
}

func TestController_Speak_EmptyTextNoOp(t *testing.T) {
	player := &fakePlayer{}
	synth := &fakeSynth{}
	controller := NewController("elevenlabs", synth.synthesize, player, nil)

	require.NoError(t, controller.Speak(context.Background(), "  undefined  "))

	plays, _ := player.counts()
	assert.Equal(t, 0, synth.callCount())
	assert.Equal(t, 0, plays)
}

func TestController_Speak_SingleFlight(t *testing.T) {
	player := &fakePlayer{}
	synth := &fakeSynth{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	controller := NewController("elevenlabs", synth.synthesize, player, nil)

	started := synth.started
	done := make(chan error, 1)
	go func() {
		done <- controller.Speak(context.Background(), "hello")
	}()

	<-started
	assert.True(t, controller.IsSpeaking())

	// Second call while the first is in flight: no-op, no queueing, no
	// interruption of the active request.
	require.NoError(t, controller.Speak(context.Background(), "hello"))
	assert.Equal(t, 1, synth.callCount())

	close(synth.release)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, controller.State())

	// The slot frees up once the first request finishes.
	require.NoError(t, controller.Speak(context.Background(), "hello"))
	assert.Equal(t, 2, synth.callCount())
}

func TestController_Speak_SynthesisError(t *testing.T) {
	player := &fakePlayer{}
	synth := &fakeSynth{err: errors.New("upstream down")}
	controller := NewController("elevenlabs", synth.synthesize, player, nil)

	err := controller.Speak(context.Background(), "hello")
	require.Error(t, err)

	plays, _ := player.counts()
	assert.Equal(t, 0, plays)
	assert.Equal(t, StateIdle, controller.State())

	// The failure released the single-flight slot.
	synth.err = nil
	require.NoError(t, controller.Speak(context.Background(), "hello"))
}

func TestController_Close_TearsDownMidPlayback(t *testing.T) {
	player := &fakePlayer{block: make(chan struct{})}
	synth := &fakeSynth{}
	controller := NewController("elevenlabs", synth.synthesize, player, nil)

	done := make(chan error, 1)
	go func() {
		done <- controller.Speak(context.Background(), "hello")
	}()

	require.Eventually(t, func() bool {
		return controller.State() == StatePlaying
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, controller.Close())
	require.NoError(t, <-done)

	_, stops := player.counts()
	assert.GreaterOrEqual(t, stops, 1)
	assert.Equal(t, StateIdle, controller.State())

	// Closed controllers ignore further speak requests.
	require.NoError(t, controller.Speak(context.Background(), "hello"))
	assert.Equal(t, 1, synth.callCount())
}
