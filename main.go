package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/gateway"
	"github.com/debemdeboas/postdeck/internal/logger"
	"github.com/debemdeboas/postdeck/internal/render"
	"github.com/debemdeboas/postdeck/internal/session"
	"github.com/debemdeboas/postdeck/internal/sse"
	"github.com/debemdeboas/postdeck/internal/view"
	"github.com/debemdeboas/postdeck/internal/web"
)

//go:embed static/*
var content embed.FS

func setLoggers(l zerolog.Logger) {
	config.SetLogger(logger.Component(l, "config"))
	gateway.SetLogger(logger.Component(l, "gateway"))
	session.SetLogger(logger.Component(l, "session"))
	render.SetLogger(logger.Component(l, "render"))
	web.SetLogger(logger.Component(l, "web"))
}

// newServer builds the application handler for cfg. Idle sessions are swept until ctx is done.
func newServer(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	gw := gateway.New(cfg.API.BaseURL,
		gateway.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
		gateway.WithUserAgent(cfg.API.UserAgent),
	)

	sessions, err := session.NewRegistry(gw, cfg.Content.PageSize,
		session.WithIdleTimeout(time.Duration(cfg.Session.IdleTimeoutMinutes)*time.Minute),
		session.WithMaxSessions(cfg.Session.MaxSessions),
	)
	if err != nil {
		return nil, err
	}
	go sessions.Run(ctx, time.Duration(cfg.Session.SweepIntervalSeconds)*time.Second)

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	static, err := fs.Sub(content, config.StaticLocalDir)
	if err != nil {
		return nil, err
	}
	if err := web.HashStatic(static); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	web.NewHandler(sessions, renderer, sse.NewSSEClients(), static).Register(mux)
	return web.Wrap(mux, cfg.Server.Gzip)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		// The main logger isn't configured yet.
		os.Stderr.WriteString("Error loading .env file: " + err.Error() + "\n")
	}

	// Bootstrap logger until the configured level is known.
	setLoggers(logger.New(os.Getenv(config.EnvLogLevel)))

	configPath := os.Getenv(config.EnvConfigPath)
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	if err := config.LoadConfig(configPath); err != nil {
		l := logger.New("error")
		l.Fatal().Err(err).Str("path", configPath).Msg("Error loading config")
	}
	cfg := config.AppConfig

	log := logger.New(cfg.Logging.Level)
	setLoggers(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := newServer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("api", cfg.API.BaseURL).
			Int("page_size", cfg.Content.PageSize).
			Int("idle_timeout_minutes", cfg.Session.IdleTimeoutMinutes).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down server")
	}
}
