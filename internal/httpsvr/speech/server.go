// Package speech exposes the synthesis gateway over HTTP.
package speech

import (
	"context"

	"github.com/gin-gonic/gin"

	corespeech "timeline-speech-server/internal/core/speech"
	"timeline-speech-server/internal/platform/config"
	"timeline-speech-server/internal/platform/logging"
)

type Service struct {
	gateway         *corespeech.Service
	defaultProvider string
	logger          *logging.Logger
}

func NewService(gateway *corespeech.Service, cfg *config.Config, logger *logging.Logger) *Service {
	return &Service{
		gateway:         gateway,
		defaultProvider: cfg.TTS.DefaultProvider,
		logger:          logger,
	}
}

// Start registers the TTS routes on the shared API group.
func (s *Service) Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error {
	ttsGroup := apiGroup.Group("/tts")
	ttsGroup.POST("/:provider", s.handleSynthesize)
	ttsGroup.GET("/providers", s.handleProviders)

	s.logger.InfoTag("HTTP", "TTS routes registered for providers: %v", s.gateway.Providers())
	return nil
}
