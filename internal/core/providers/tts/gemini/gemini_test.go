package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeline-speech-server/internal/core/audio"
	"timeline-speech-server/internal/core/providers/tts"
	platformerrors "timeline-speech-server/internal/platform/errors"
)

func sseEvent(mimeType string, raw []byte) string {
	encoded := base64.StdEncoding.EncodeToString(raw)
	return fmt.Sprintf("data: {\"candidates\":[{\"content\":{\"parts\":[{\"inlineData\":{\"mimeType\":%q,\"data\":%q}}]}}]}\n\n",
		mimeType, encoded)
}

func newStreamServer(t *testing.T, events ...string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, event := range events {
			fmt.Fprint(w, event)
		}
	}))
}

func newTestProvider(t *testing.T, baseURL string) tts.Provider {
	t.Helper()

	provider, err := NewProvider(&tts.Config{BaseURL: baseURL}, nil)
	require.NoError(t, err)
	return provider
}

func TestProvider_Synthesize_WrapsPCMChunks(t *testing.T) {
	pcm1 := []byte{0x01, 0x02, 0x03, 0x04}
	pcm2 := []byte{0x05, 0x06}

	server := newStreamServer(t,
		sseEvent("audio/L16;rate=24000", pcm1),
		sseEvent("audio/L16;rate=24000", pcm2),
	)
	defer server.Close()

	provider := newTestProvider(t, server.URL)

	result, err := provider.Synthesize(context.Background(), tts.Request{Text: "merhaba"})
	require.NoError(t, err)

	expected := append(audio.WrapPCM(pcm1, "audio/L16;rate=24000"),
		audio.WrapPCM(pcm2, "audio/L16;rate=24000")...)
	assert.Equal(t, expected, result.Data)
	assert.Equal(t, "audio/wav", result.ContentType)
}

// Concatenating same-format chunks yields back-to-back self-describing
// containers, which is NOT byte-identical to wrapping the joined PCM once:
// the second 44-byte header sits in the middle of the stream. The deviation
// is accepted (lenient decoders play it) and pinned down here.
func TestProvider_Synthesize_PerChunkHeaders(t *testing.T) {
	pcm1 := []byte{0x01, 0x02, 0x03, 0x04}
	pcm2 := []byte{0x05, 0x06, 0x07, 0x08}
	mimeType := "audio/L16;rate=24000"

	server := newStreamServer(t, sseEvent(mimeType, pcm1), sseEvent(mimeType, pcm2))
	defer server.Close()

	provider := newTestProvider(t, server.URL)

	result, err := provider.Synthesize(context.Background(), tts.Request{Text: "merhaba"})
	require.NoError(t, err)

	singleHeader := audio.WrapPCM(append(append([]byte{}, pcm1...), pcm2...), mimeType)
	assert.NotEqual(t, singleHeader, result.Data)
	assert.Len(t, result.Data, len(singleHeader)+audio.HeaderSize)

	// Both mini-containers carry their own RIFF preamble.
	assert.Equal(t, "RIFF", string(result.Data[0:4]))
	second := audio.HeaderSize + len(pcm1)
	assert.Equal(t, "RIFF", string(result.Data[second:second+4]))
}

func TestProvider_Synthesize_WavChunkKeptAsIs(t *testing.T) {
	wav := audio.WrapPCM([]byte{0x0a, 0x0b}, "audio/L16;rate=22050")

	server := newStreamServer(t, sseEvent("audio/wav", wav))
	defer server.Close()

	provider := newTestProvider(t, server.URL)

	result, err := provider.Synthesize(context.Background(), tts.Request{Text: "merhaba"})
	require.NoError(t, err)
	assert.Equal(t, wav, result.Data)
}

func TestProvider_Synthesize_NoAudioProduced(t *testing.T) {
	// A stream that completes with metadata-only chunks must fail, never
	// return an empty 200.
	server := newStreamServer(t, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"ok\"}]}}]}\n\n")
	defer server.Close()

	provider := newTestProvider(t, server.URL)

	_, err := provider.Synthesize(context.Background(), tts.Request{Text: "merhaba"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindNoAudio))
}

func TestProvider_Synthesize_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL)

	_, err := provider.Synthesize(context.Background(), tts.Request{Text: "merhaba"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsKind(err, platformerrors.KindProvider))
	assert.Equal(t, http.StatusTooManyRequests, platformerrors.HTTPStatus(err))
}

func TestProvider_Synthesize_SendsVoiceConfig(t *testing.T) {
	var gotKey string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotBody, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, sseEvent("audio/L16;rate=24000", []byte{0x01}))
	}))
	defer server.Close()

	provider := newTestProvider(t, server.URL)

	_, err := provider.Synthesize(context.Background(), tts.Request{
		Text:       "merhaba",
		Voice:      "Aoede",
		Credential: "studio-secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "studio-secret", gotKey)
	assert.Contains(t, string(gotBody), `"voiceName":"Aoede"`)
	assert.Contains(t, string(gotBody), `"responseModalities":["audio"]`)
}
