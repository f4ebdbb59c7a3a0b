// speak is a small client for the speech server: it synthesizes the given
// text through the gateway and pipes the result into a local audio player.
//
//	speak -provider elevenlabs "Atatürk 1881 yılında doğdu."
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"timeline-speech-server/internal/core/playback"
	"timeline-speech-server/internal/core/providers/tts"
	"timeline-speech-server/internal/platform/logging"
)

func main() {
	var (
		server   = flag.String("server", "http://localhost:8080", "speech server base URL")
		provider = flag.String("provider", "elevenlabs", "TTS provider id")
		voice    = flag.String("voice", "", "voice override")
		model    = flag.String("model", "", "model override")
		player   = flag.String("player", "aplay -q", "audio player command reading WAV from stdin")
		logLevel = flag.String("log-level", "INFO", "log level")
	)
	flag.Parse()

	text := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if text == "" {
		fmt.Fprintln(os.Stderr, "usage: speak [flags] <text>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	logger, err := logging.New(logging.Config{Level: *logLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "speak: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	if err := run(text, *server, *provider, *voice, *model, *player, logger); err != nil {
		logger.ErrorTag("Playback", "%v", err)
		os.Exit(1)
	}
}

func run(text, server, provider, voice, model, playerCommand string, logger *logging.Logger) error {
	execPlayer, err := playback.NewExecPlayer(playerCommand, logger)
	if err != nil {
		return err
	}

	synthesize := func(ctx context.Context, cleaned string) (*tts.Audio, error) {
		return requestSynthesis(ctx, server, provider, cleaned, voice, model)
	}

	controller := playback.NewController(provider, synthesize, execPlayer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		_ = controller.Close()
	}()

	return controller.Speak(ctx, text)
}

// requestSynthesis calls POST /api/tts/:provider and returns the audio
// bytes with the Content-Type the server declared.
func requestSynthesis(ctx context.Context, server, provider, text, voice, model string) (*tts.Audio, error) {
	payload, err := json.Marshal(map[string]string{
		"text":  text,
		"voice": voice,
		"model": model,
	})
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(server, "/") + "/api/tts/" + provider
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server answered %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return &tts.Audio{
		Data:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
