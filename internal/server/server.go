// Package server exposes the webhook and health endpoints.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/easeaico/her-line/internal/line"
	"github.com/easeaico/her-line/internal/logging"
)

const (
	StatusOK               = "ok"
	StatusSignatureError   = "signature_error"
	StatusMalformedPayload = "malformed_payload"
	StatusError            = "error"

	// RequestIDHeader echoes the id attached to a webhook's log lines.
	RequestIDHeader = "X-Request-Id"

	// SpanName is the server span name for every request.
	SpanName = "her-line"

	maxBodyBytes = 1 << 20
)

// EventHandler processes the parsed events of one callback.
type EventHandler interface {
	HandleEvents(ctx context.Context, events []line.Event)
}

type statusResponse struct {
	Status string `json:"status"`
}

type healthResponse struct {
	OK bool `json:"ok"`
}

// Server routes platform callbacks to an EventHandler.
type Server struct {
	router         *mux.Router
	secret         string
	events         EventHandler
	logger         *zap.Logger
	tracerProvider trace.TracerProvider
}

// Option customizes a Server.
type Option func(*Server)

// WithTracerProvider sets the provider of the request spans. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) {
		s.tracerProvider = tp
	}
}

// New builds the router. secret verifies callback signatures.
func New(secret string, events EventHandler, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router: mux.NewRouter(),
		secret: secret,
		events: events,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router.Use(s.recoverPanics)
	s.router.HandleFunc("/webhook", s.handleWebhook).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return s
}

// Handler returns the instrumented root handler.
func (s *Server) Handler() http.Handler {
	var opts []otelhttp.Option
	if s.tracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(s.tracerProvider))
	}
	return otelhttp.NewHandler(s.router, SpanName, opts...)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set(RequestIDHeader, requestID)
	logger := s.logger.With(zap.String("request_id", requestID))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.Warn("failed to read callback body", zap.Error(err))
		writeJSON(w, statusResponse{Status: StatusMalformedPayload})
		return
	}

	if err := line.VerifySignature(s.secret, body, r.Header.Get(line.SignatureHeader)); err != nil {
		logger.Warn("rejected callback", zap.Int("body_len", len(body)), zap.Error(err))
		writeJSON(w, statusResponse{Status: StatusSignatureError})
		return
	}

	events, eventErrs, err := line.ParseEvents(body)
	if err != nil {
		logger.Warn("failed to parse callback", zap.Error(err))
		writeJSON(w, statusResponse{Status: StatusMalformedPayload})
		return
	}
	for _, eventErr := range eventErrs {
		logger.Warn("skipping malformed event", zap.Error(eventErr))
	}

	logger.Info("callback received", zap.Int("events", len(events)), zap.Int("skipped", len(eventErrs)))
	s.events.HandleEvents(logging.WithContext(r.Context(), logger), events)
	writeJSON(w, statusResponse{Status: StatusOK})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, healthResponse{OK: true})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("handler panic", zap.String("path", r.URL.Path), zap.Any("panic", rec))
				writeJSON(w, statusResponse{Status: StatusError})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
