package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zaptest"

	"github.com/easeaico/her-line/internal/line"
)

const testSecret = "channel-secret"

type recordingHandler struct {
	mu      sync.Mutex
	batches [][]line.Event
	panics  bool
}

func (h *recordingHandler) HandleEvents(_ context.Context, events []line.Event) {
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.batches = append(h.batches, events)
}

func postWebhook(t *testing.T, s *Server, body, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	if signature != "" {
		req.Header.Set(line.SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestWebhookProcessesSignedCallback(t *testing.T) {
	events := &recordingHandler{}
	s := New(testSecret, events, zaptest.NewLogger(t))
	body := `{"events":[{"type":"message","replyToken":"r1","source":{"userId":"U1"},"message":{"type":"text","text":"hi"}},{"type":"message"}]}`

	rec := postWebhook(t, s, body, line.Sign(testSecret, []byte(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	require.Len(t, events.batches, 1)
	require.Len(t, events.batches[0], 1)
	assert.Equal(t, "hi", events.batches[0][0].Text)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	tests := []struct {
		name      string
		signature string
	}{
		{name: "missing"},
		{name: "wrong secret", signature: line.Sign("other", []byte(`{"events":[]}`))},
		{name: "garbage", signature: "not-base64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := &recordingHandler{}
			s := New(testSecret, events, zaptest.NewLogger(t))

			rec := postWebhook(t, s, `{"events":[]}`, tt.signature)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"status":"signature_error"}`, rec.Body.String())
			assert.Empty(t, events.batches)
		})
	}
}

func TestWebhookMalformedPayload(t *testing.T) {
	events := &recordingHandler{}
	s := New(testSecret, events, zaptest.NewLogger(t))
	body := `{"events":[`

	rec := postWebhook(t, s, body, line.Sign(testSecret, []byte(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"malformed_payload"}`, rec.Body.String())
	assert.Empty(t, events.batches)
}

func TestWebhookRecoversPanics(t *testing.T) {
	s := New(testSecret, &recordingHandler{panics: true}, zaptest.NewLogger(t))
	body := `{"events":[]}`

	rec := postWebhook(t, s, body, line.Sign(testSecret, []byte(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"error"}`, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	events := &recordingHandler{}
	s := New(testSecret, events, zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Empty(t, events.batches)
}

func TestWebhookRejectsGet(t *testing.T) {
	s := New(testSecret, &recordingHandler{}, zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type spanCheckingHandler struct {
	sawSpan bool
}

func (h *spanCheckingHandler) HandleEvents(ctx context.Context, _ []line.Event) {
	h.sawSpan = trace.SpanContextFromContext(ctx).IsValid()
}

func TestWebhookServerSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	events := &spanCheckingHandler{}
	s := New(testSecret, events, zaptest.NewLogger(t), WithTracerProvider(tp))
	body := `{"events":[]}`

	rec := postWebhook(t, s, body, line.Sign(testSecret, []byte(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, SpanName, spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
	assert.True(t, events.sawSpan, "event handler must run inside the request span")
}
