// Package tts defines the provider contract for speech synthesis and the
// registry the gateway selects providers from.
package tts

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"timeline-speech-server/internal/platform/logging"
)

// Request is a normalized synthesis request. Credential is resolved by the
// gateway per request and is empty for providers that do not need one.
type Request struct {
	Text       string
	Voice      string
	Model      string
	Credential string
}

// Audio is the sole contract crossing the provider boundary: contained,
// playable bytes with a standard audio content type. Raw PCM never leaves
// an adapter.
type Audio struct {
	Data        []byte
	ContentType string
}

func (a *Audio) Length() int {
	return len(a.Data)
}

// Provider is the common capability all speech backends implement.
type Provider interface {
	// Name returns the registry id of the provider.
	Name() string

	// NeedsCredential reports whether the gateway must resolve a secret
	// before calling Synthesize.
	NeedsCredential() bool

	// Synthesize performs the provider call and returns contained audio.
	// A single attempt, no retries; upstream failures surface directly.
	Synthesize(ctx context.Context, req Request) (*Audio, error)
}

// Config carries provider construction parameters from the platform config.
type Config struct {
	BaseURL string
	Voice   string
	Model   string
	Timeout time.Duration
}

// Factory builds a provider instance.
type Factory func(config *Config, logger *logging.Logger) (Provider, error)

var factories = make(map[string]Factory)

// Register adds a provider factory under the given id. Called from the
// adapters' init functions.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create instantiates a registered provider.
func Create(name string, config *Config, logger *logging.Logger) (Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown TTS provider: %s", name)
	}

	provider, err := factory(config, logger)
	if err != nil {
		return nil, fmt.Errorf("create TTS provider %s: %w", name, err)
	}

	return provider, nil
}

// Names lists the registered provider ids, sorted.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var doubledPeriods = regexp.MustCompile(`\.\s*\.`)

// CleanText normalizes user-facing text before synthesis: literal
// "undefined" artifacts from the rendering layer are stripped, doubled
// terminal periods collapsed, surrounding whitespace trimmed. The result
// may be empty, in which case the caller must not synthesize.
func CleanText(text string) string {
	cleaned := strings.ReplaceAll(text, "undefined", "")
	cleaned = doubledPeriods.ReplaceAllString(cleaned, ".")
	return strings.TrimSpace(cleaned)
}
