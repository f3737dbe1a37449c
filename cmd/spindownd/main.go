package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/getspindown/spindown/internal/config"
	"github.com/getspindown/spindown/internal/game"
	"github.com/getspindown/spindown/internal/gateway"
	"github.com/getspindown/spindown/internal/relay"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var CLI struct {
	Config  string `help:"Path to a YAML config file." short:"c" type:"path"`
	Debug   bool   `help:"Whether to enable debug logging."`
	Version bool   `help:"Print version information and exit." short:"v"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("spindownd"),
		kong.Description("Real-time life counter server for Commander pods."),
		kong.UsageOnError(),
	)

	if CLI.Version {
		fmt.Printf("spindownd %s\n", version)
		os.Exit(0)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg.Log, CLI.Debug)

	log.Info().
		Str("version", version).
		Str("addr", cfg.Server.Addr()).
		Bool("relay_enabled", cfg.Relay.Enabled).
		Msg("starting spindownd")

	registry := game.NewRegistry(clockwork.NewRealClock())

	sink, err := buildSink(cfg.Relay)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect relay sink")
	}
	rl := relay.NewRelay(sink, cfg.Relay.BufferSize)

	gw := gateway.New(registry, rl, gatewayConfig(cfg.Server))
	server := buildServer(cfg.Server, gw)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := rl.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start relay")
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if err := rl.Stop(); err != nil {
		log.Error().Err(err).Msg("relay shutdown failed")
	}
	cancel()

	log.Info().Msg("spindownd shutdown complete")
}

func setupLogging(cfg config.LogConfig, debug bool) {
	if !cfg.Pretty {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

// buildSink picks the relay destination: JetStream when enabled,
// otherwise the log-only sink.
func buildSink(cfg config.RelayConfig) (relay.EventSink, error) {
	if !cfg.Enabled {
		return relay.NewLogSink(), nil
	}

	jsCfg := relay.DefaultJetStreamConfig()
	jsCfg.URL = cfg.URL
	jsCfg.StreamName = cfg.Stream
	jsCfg.SubjectPrefix = cfg.SubjectPrefix
	return relay.NewJetStreamSink(jsCfg)
}
