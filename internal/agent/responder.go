// Package agent orchestrates one inbound message: command dispatch or the
// persona reply pipeline, followed by delivery.
package agent

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/easeaico/her-line/internal/emotion"
	"github.com/easeaico/her-line/internal/handler"
	"github.com/easeaico/her-line/internal/intent"
	"github.com/easeaico/her-line/internal/line"
	"github.com/easeaico/her-line/internal/logging"
	"github.com/easeaico/her-line/internal/persona"
	"github.com/easeaico/her-line/internal/reply"
	"github.com/easeaico/her-line/internal/tone"
	"github.com/easeaico/her-line/internal/types"
	"github.com/easeaico/her-line/internal/utils"
)

const (
	DefaultMaxReplyRunes   = 1000
	DefaultDeliveryTimeout = 10 * time.Second

	// SpanHandleEvent names the span opened for each event.
	SpanHandleEvent = "agent.HandleEvent"
	// AttrReplyKind records whether a reply came from a command, the
	// persona pipeline or safe mode.
	AttrReplyKind = attribute.Key("her.reply_kind")

	tracerName = "github.com/easeaico/her-line/internal/agent"
)

// Sender delivers a reply for a reply token.
type Sender interface {
	Reply(ctx context.Context, replyToken, text string) error
}

// StateReader exposes read-only per-user state.
type StateReader interface {
	Get(userID string) (types.UserState, bool)
}

// Dependencies are the collaborators of a Responder.
type Dependencies struct {
	Classifier *intent.Classifier
	Personas   *persona.Registry
	Moods      *emotion.Service
	Replies    *reply.Store
	Tone       *tone.Compositor
	Commands   *handler.CommandHandler
	States     StateReader
	Sender     Sender
	Logger     *zap.Logger

	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// Options tune reply size and delivery.
type Options struct {
	MaxReplyRunes   int
	DeliveryTimeout time.Duration
}

// Responder turns text events into replies.
type Responder struct {
	classifier *intent.Classifier
	personas   *persona.Registry
	moods      *emotion.Service
	replies    *reply.Store
	tone       *tone.Compositor
	commands   *handler.CommandHandler
	states     StateReader
	sender     Sender
	logger     *zap.Logger
	tracer     trace.Tracer

	maxReplyRunes   int
	deliveryTimeout time.Duration
}

// NewResponder validates deps and applies defaults to opts.
func NewResponder(deps Dependencies, opts Options) (*Responder, error) {
	if deps.Personas == nil || deps.Moods == nil || deps.Commands == nil {
		return nil, fmt.Errorf("personas, moods and commands are required")
	}
	if deps.States == nil {
		return nil, fmt.Errorf("state reader is required")
	}
	if deps.Sender == nil {
		return nil, fmt.Errorf("sender is required")
	}
	if deps.Classifier == nil {
		deps.Classifier = intent.NewClassifier()
	}
	if deps.Replies == nil {
		deps.Replies = reply.NewStore(nil)
	}
	if deps.Tone == nil {
		deps.Tone = tone.NewCompositor(true)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.TracerProvider == nil {
		deps.TracerProvider = otel.GetTracerProvider()
	}
	if opts.MaxReplyRunes <= 0 {
		opts.MaxReplyRunes = DefaultMaxReplyRunes
	}
	if opts.DeliveryTimeout <= 0 {
		opts.DeliveryTimeout = DefaultDeliveryTimeout
	}

	return &Responder{
		classifier:      deps.Classifier,
		personas:        deps.Personas,
		moods:           deps.Moods,
		replies:         deps.Replies,
		tone:            deps.Tone,
		commands:        deps.Commands,
		states:          deps.States,
		sender:          deps.Sender,
		logger:          deps.Logger,
		tracer:          deps.TracerProvider.Tracer(tracerName),
		maxReplyRunes:   opts.MaxReplyRunes,
		deliveryTimeout: opts.DeliveryTimeout,
	}, nil
}

// HandleEvents processes a batch in order. A failing event never stops the
// rest of the batch.
func (r *Responder) HandleEvents(ctx context.Context, events []line.Event) {
	logger := logging.FromContext(ctx, r.logger)
	for _, ev := range events {
		if err := r.HandleEvent(ctx, ev); err != nil {
			logger.Warn("event not delivered",
				zap.Int("index", ev.Index),
				zap.String("user_id", ev.UserID),
				zap.Error(err))
		}
	}
}

// HandleEvent answers one event. Non-text events are ignored without
// touching state. The returned error is the delivery error, if any; state
// changes made before delivery are kept.
func (r *Responder) HandleEvent(ctx context.Context, ev line.Event) error {
	ctx, span := r.tracer.Start(ctx, SpanHandleEvent, trace.WithAttributes(
		attribute.String("line.event_type", ev.Type),
		attribute.String("line.message_type", ev.MessageType),
	))
	defer span.End()

	logger := logging.FromContext(ctx, r.logger).With(zap.String("user_id", ev.UserID))
	if !ev.IsText() {
		logger.Debug("ignoring event", zap.String("type", ev.Type), zap.String("message_type", ev.MessageType))
		return nil
	}

	text, kind := r.respond(ctx, logger, ev)
	span.SetAttributes(AttrReplyKind.String(kind))

	if err := r.deliver(ctx, ev.ReplyToken, text); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
		return err
	}
	logger.Info("reply delivered", zap.String("kind", kind))
	return nil
}

func (r *Responder) respond(ctx context.Context, logger *zap.Logger, ev line.Event) (string, string) {
	if confirmation, ok := r.commands.TryDispatch(utils.NormalizeCommand(ev.Text), ev.UserID); ok {
		return confirmation, "command"
	}

	turn, err := r.Compose(ev.UserID, ev.Text)
	if err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
		logger.Error("failed to compose reply, using safe mode",
			zap.String("text", ev.Text),
			zap.Error(err))
		return SafeModeReply(ev.Text), "safe_mode"
	}

	logger.Debug("reply composed",
		zap.String("persona", turn.Persona.Name),
		zap.String("intent", turn.Intent.String()),
		zap.String("mood", string(turn.Mood.Turn())),
		zap.Int("mood_score", turn.Mood.After))

	if state, _ := r.states.Get(ev.UserID); state.Debug {
		return turn.DebugTag() + turn.Text, "persona"
	}
	return turn.Text, "persona"
}

func (r *Responder) deliver(ctx context.Context, replyToken, text string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.deliveryTimeout)
	defer cancel()

	if err := r.sender.Reply(ctx, replyToken, utils.Truncate(text, r.maxReplyRunes)); err != nil {
		return fmt.Errorf("failed to deliver reply: %w", err)
	}
	return nil
}
