package main

import (
	"context"
	"fmt"
	"os"

	"timeline-speech-server/internal/bootstrap"
)

func main() {
	if err := bootstrap.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "speech-server failed: %v\n", err)
		os.Exit(1)
	}
}
