package line

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

const (
	EventTypeMessage = "message"
	MessageTypeText  = "text"

	// UnknownUserID stands in for events without a source user.
	UnknownUserID = "unknown"
)

var (
	// ErrMalformedPayload means the callback body is not a JSON object with
	// an events array.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrMalformedEvent marks a single event that cannot be processed. The
	// rest of the batch is unaffected.
	ErrMalformedEvent = errors.New("malformed event")
)

// Event is the subset of a platform callback event the responder needs.
type Event struct {
	Index       int
	Type        string
	MessageType string
	Text        string
	UserID      string
	ReplyToken  string
}

// IsText reports whether the event is an inbound text message.
func (e Event) IsText() bool {
	return e.Type == EventTypeMessage && e.MessageType == MessageTypeText
}

// ParseEvents extracts the events of a callback body. Events that fail
// validation are reported in the second return value and left out of the
// first; the error is non-nil only when the body itself is unusable.
func ParseEvents(body []byte) ([]Event, []error, error) {
	if !gjson.ValidBytes(body) {
		return nil, nil, ErrMalformedPayload
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, nil, ErrMalformedPayload
	}

	raw := root.Get("events")
	if !raw.Exists() {
		return nil, nil, nil
	}
	if !raw.IsArray() {
		return nil, nil, fmt.Errorf("%w: events is not an array", ErrMalformedPayload)
	}

	var (
		events []Event
		errs   []error
	)
	for i, item := range raw.Array() {
		ev, err := parseEvent(i, item)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, ev)
	}
	return events, errs, nil
}

func parseEvent(index int, item gjson.Result) (Event, error) {
	if !item.IsObject() {
		return Event{}, fmt.Errorf("event %d: %w: not an object", index, ErrMalformedEvent)
	}

	ev := Event{Index: index, UserID: UnknownUserID}

	typ := item.Get("type")
	if typ.Type != gjson.String || typ.Str == "" {
		return Event{}, fmt.Errorf("event %d: %w: missing type", index, ErrMalformedEvent)
	}
	ev.Type = typ.Str

	if userID := item.Get("source.userId"); userID.Type == gjson.String && userID.Str != "" {
		ev.UserID = userID.Str
	}
	if ev.Type != EventTypeMessage {
		return ev, nil
	}

	msgType := item.Get("message.type")
	if msgType.Type != gjson.String || msgType.Str == "" {
		return Event{}, fmt.Errorf("event %d: %w: missing message.type", index, ErrMalformedEvent)
	}
	ev.MessageType = msgType.Str
	if ev.MessageType != MessageTypeText {
		return ev, nil
	}

	text := item.Get("message.text")
	if text.Type != gjson.String {
		return Event{}, fmt.Errorf("event %d: %w: missing message.text", index, ErrMalformedEvent)
	}
	ev.Text = text.Str

	token := item.Get("replyToken")
	if token.Type != gjson.String || token.Str == "" {
		return Event{}, fmt.Errorf("event %d: %w: missing replyToken", index, ErrMalformedEvent)
	}
	ev.ReplyToken = token.Str
	return ev, nil
}
