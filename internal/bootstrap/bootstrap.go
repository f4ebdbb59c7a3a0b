// Package bootstrap wires the platform layers together and owns the
// service lifecycle: load config, build the logger, instantiate the
// synthesis gateway and HTTP services, then run until a signal arrives.
package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	corespeech "timeline-speech-server/internal/core/speech"
	"timeline-speech-server/internal/httpsvr"
	httpspeech "timeline-speech-server/internal/httpsvr/speech"
	"timeline-speech-server/internal/httpsvr/timeline"
	"timeline-speech-server/internal/httpsvr/webapi"
	"timeline-speech-server/internal/platform/config"
	platformerrors "timeline-speech-server/internal/platform/errors"
	"timeline-speech-server/internal/platform/logging"

	// Provider registration.
	_ "timeline-speech-server/internal/core/providers/tts/edge"
	_ "timeline-speech-server/internal/core/providers/tts/elevenlabs"
	_ "timeline-speech-server/internal/core/providers/tts/gemini"
	_ "timeline-speech-server/internal/core/providers/tts/openai"
)

const shutdownTimeout = 15 * time.Second

// Run starts the whole service lifecycle and blocks until shutdown.
func Run(ctx context.Context) error {
	result, err := config.NewLoader().WithPath(os.Getenv("CONFIG_PATH")).Load()
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "bootstrap.config", "load configuration", err)
	}
	cfg := result.Config

	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "bootstrap.logging", "create logger", err)
	}
	defer logger.Close()

	if result.Path != "" {
		logger.InfoTag("Boot", "configuration loaded from %s", result.Path)
	} else {
		logger.InfoTag("Boot", "no config file found, using defaults")
	}

	gateway, err := corespeech.NewService(cfg, result.Credentials, logger)
	if err != nil {
		return err
	}
	logger.InfoTag("Boot", "synthesis gateway ready, providers: %v", gateway.Providers())

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if _, err := startHTTPServer(cfg, logger, gateway, group, groupCtx); err != nil {
		cancel()
		return err
	}

	return waitForShutdown(signalCtx, cancel, logger, group)
}

// buildEngine assembles the gin engine with every HTTP service registered.
func buildEngine(
	ctx context.Context,
	cfg *config.Config,
	logger *logging.Logger,
	gateway *corespeech.Service,
) (*gin.Engine, error) {
	router, err := httpsvr.Build(httpsvr.Options{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindBootstrap, "bootstrap.router", "build http router", err)
	}
	engine := router.Engine
	apiGroup := router.API

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine.NoRoute(func(c *gin.Context) {
		webapi.RespondError(c, http.StatusNotFound, "not found", nil)
	})

	speechService := httpspeech.NewService(gateway, cfg, logger)
	if err := speechService.Start(ctx, engine, apiGroup); err != nil {
		return nil, err
	}

	if cfg.Timeline.DataFile != "" {
		store, err := timeline.LoadStore(cfg.Timeline.DataFile)
		if err != nil {
			// The speech API is usable without timeline content.
			logger.WarnTag("Timeline", "timeline data unavailable: %v", err)
		} else {
			timelineService := timeline.NewService(store, logger)
			if err := timelineService.Start(ctx, engine, apiGroup); err != nil {
				return nil, err
			}
		}
	}

	return engine, nil
}

func startHTTPServer(
	cfg *config.Config,
	logger *logging.Logger,
	gateway *corespeech.Service,
	g *errgroup.Group,
	groupCtx context.Context,
) (*http.Server, error) {
	engine, err := buildEngine(groupCtx, cfg, logger, gateway)
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.IP + ":" + strconv.Itoa(cfg.Server.Port),
		Handler: engine,
	}

	g.Go(func() error {
		logger.InfoTag("HTTP", "listening on http://%s", httpServer.Addr)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.ErrorTag("HTTP", "shutdown failed: %v", err)
			} else {
				logger.InfoTag("HTTP", "server stopped")
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorTag("HTTP", "serve failed: %v", err)
			return err
		}
		return nil
	})

	return httpServer, nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *logging.Logger,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.InfoTag("Boot", "shutdown requested: %v", context.Cause(ctx))

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorTag("Boot", "shutdown finished with error: %v", err)
			return err
		}
		logger.InfoTag("Boot", "all services stopped")
	case <-time.After(shutdownTimeout):
		logger.ErrorTag("Boot", "shutdown timed out")
		return errors.New("shutdown timed out")
	}
	return nil
}
