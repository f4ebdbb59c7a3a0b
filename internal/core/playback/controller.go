// Package playback owns the client-side speak lifecycle: one in-flight
// synthesis-plus-playback at a time, with a single teardown routine shared
// by every exit path.
package playback

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"timeline-speech-server/internal/core/providers/tts"
	"timeline-speech-server/internal/domain/eventbus"
	platformerrors "timeline-speech-server/internal/platform/errors"
	"timeline-speech-server/internal/platform/logging"
)

// State of the controller's session.
type State int32

const (
	StateIdle State = iota
	StateRequesting
	StatePlaying
)

// SynthesizeFunc fetches synthesized audio for normalized text. In the
// server it wraps the gateway service; the CLI wraps an HTTP call.
type SynthesizeFunc func(ctx context.Context, text string) (*tts.Audio, error)

// Controller is the playback state machine:
// Idle -> Requesting -> Playing -> Idle, or Idle -> Requesting -> Idle on
// error. A speak request while not Idle is a no-op: it neither queues nor
// interrupts the active one.
type Controller struct {
	synthesize SynthesizeFunc
	player     Player
	provider   string
	logger     *logging.Logger

	inflight *semaphore.Weighted

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	closed bool
}

func NewController(provider string, synthesize SynthesizeFunc, player Player, logger *logging.Logger) *Controller {
	return &Controller{
		synthesize: synthesize,
		player:     player,
		provider:   provider,
		logger:     logger,
		inflight:   semaphore.NewWeighted(1),
	}
}

// State reports the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsSpeaking reports whether a synthesis or playback is in flight.
func (c *Controller) IsSpeaking() bool {
	return c.State() != StateIdle
}

// Speak normalizes text, synthesizes it and plays the result, blocking
// until playback ends. Empty text after normalization is a warned no-op.
// A concurrent Speak while one is active returns immediately without
// calling the synthesizer (single-flight).
func (c *Controller) Speak(ctx context.Context, text string) error {
	const op = "playback.speak"

	cleaned := tts.CleanText(text)
	if cleaned == "" {
		if c.logger != nil {
			c.logger.WarnTag("Playback", "nothing to read after cleanup")
		}
		return nil
	}

	if !c.inflight.TryAcquire(1) {
		if c.logger != nil {
			c.logger.DebugTag("Playback", "already speaking, ignoring request")
		}
		return nil
	}

	speakCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		c.inflight.Release(1)
		return nil
	}
	c.state = StateRequesting
	c.cancel = cancel
	c.mu.Unlock()

	defer c.teardown(cancel)

	eventbus.Publish(eventbus.EventSpeechSpeak, eventbus.SpeechEventData{
		Provider: c.provider,
		Text:     logging.Truncate(cleaned, 50),
	})

	result, err := c.synthesize(speakCtx, cleaned)
	if err != nil {
		c.notifyError(err)
		return platformerrors.Wrap(platformerrors.KindPlayback, op, "synthesis request failed", err)
	}

	c.setState(StatePlaying)

	if err := c.player.Play(speakCtx, result); err != nil {
		c.notifyError(err)
		return platformerrors.Wrap(platformerrors.KindPlayback, op, "playback failed", err)
	}

	eventbus.Publish(eventbus.EventSpeechCompleted, eventbus.SpeechEventData{
		Provider: c.provider,
		Bytes:    result.Length(),
	})
	return nil
}

// teardown is the single cleanup routine for every exit path: release the
// transient playback handle, return to Idle, free the single-flight slot.
func (c *Controller) teardown(cancel context.CancelFunc) {
	cancel()

	c.mu.Lock()
	c.state = StateIdle
	c.cancel = nil
	c.mu.Unlock()

	c.inflight.Release(1)
}

// Close tears the controller down from outside (unmount, navigation,
// SIGINT): cancels any in-flight request, stops playing audio and rejects
// future Speak calls.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.closed = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return c.player.Stop()
}

func (c *Controller) setState(state State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

func (c *Controller) notifyError(err error) {
	if c.logger != nil {
		c.logger.ErrorTag("Playback", "speech unavailable: %v", err)
	}
	eventbus.Publish(eventbus.EventSpeechError, eventbus.SpeechEventData{
		Provider: c.provider,
		Message:  "speech service unavailable",
	})
}
