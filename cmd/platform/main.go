// Package main boots the her-line webhook service and wires application dependencies.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/easeaico/her-line/internal/agent"
	"github.com/easeaico/her-line/internal/config"
	"github.com/easeaico/her-line/internal/emotion"
	"github.com/easeaico/her-line/internal/handler"
	"github.com/easeaico/her-line/internal/intent"
	"github.com/easeaico/her-line/internal/line"
	"github.com/easeaico/her-line/internal/logging"
	"github.com/easeaico/her-line/internal/persona"
	"github.com/easeaico/her-line/internal/reply"
	"github.com/easeaico/her-line/internal/server"
	"github.com/easeaico/her-line/internal/storage"
	"github.com/easeaico/her-line/internal/telemetry"
	"github.com/easeaico/her-line/internal/tone"
	"github.com/easeaico/her-line/internal/types"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, cfgErr := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if cfgErr != nil {
		logger.Fatal("invalid configuration", zap.Error(cfgErr))
	}
	logger.Info("configuration loaded",
		zap.String("listen_addr", cfg.ListenAddr),
		zap.String("persona_dir", cfg.PersonaDir),
		zap.String("default_persona", cfg.DefaultPersona),
		zap.Bool("mood_tone", cfg.MoodTone),
		zap.String("traces_exporter", cfg.TracesExporter))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("service stopped with error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	personas, err := loadPersonas(cfg.PersonaDir)
	if err != nil {
		return err
	}

	tp, err := telemetry.NewTracerProvider(cfg.TracesExporter, os.Stdout)
	if err != nil {
		return err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	sender, err := line.NewClient(cfg.ChannelAccessToken, line.WithEndpoint(cfg.APIEndpoint))
	if err != nil {
		return err
	}

	store := storage.NewUserStore(storage.DefaultShardCount)
	registry, err := persona.NewRegistry(personas, cfg.DefaultPersona, store)
	if err != nil {
		return fmt.Errorf("failed to create persona registry: %w", err)
	}
	logger.Info("personas loaded", zap.Strings("names", registry.Names()), zap.String("default", registry.Default().Name))

	responder, err := agent.NewResponder(agent.Dependencies{
		Classifier: intent.NewClassifier(),
		Personas:   registry,
		Moods:      emotion.NewService(emotion.NewStateMachine(), store),
		Replies:    reply.NewStore(nil),
		Tone:       tone.NewCompositor(cfg.MoodTone),
		Commands:   handler.NewCommandHandler(registry, store),
		States:     store,
		Sender:     sender,
		Logger:     logger,

		TracerProvider: tp,
	}, agent.Options{
		MaxReplyRunes:   cfg.MaxReplyRunes,
		DeliveryTimeout: cfg.DeliveryTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize responder: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(cfg.ChannelSecret, responder, logger, server.WithTracerProvider(tp)).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", zap.String("addr", cfg.ListenAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", zap.Int("known_users", store.Len()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		serveErr := httpServer.Shutdown(shutdownCtx)
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to flush traces", zap.Error(err))
		}
		return serveErr
	})
	return g.Wait()
}

func loadPersonas(dir string) ([]*types.Persona, error) {
	if dir == "" {
		return persona.Builtin()
	}
	personas, err := persona.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load personas from %s: %w", dir, err)
	}
	return personas, nil
}
