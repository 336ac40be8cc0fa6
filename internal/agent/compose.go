package agent

import (
	"fmt"

	"github.com/easeaico/her-line/internal/emotion"
	"github.com/easeaico/her-line/internal/reply"
	"github.com/easeaico/her-line/internal/types"
)

// Turn is the outcome of composing one persona reply.
type Turn struct {
	Persona *types.Persona
	Intent  types.Intent
	Mood    emotion.MoodUpdate
	Text    string
}

// DebugTag returns the "[persona | intent | mood] " prefix for the turn.
func (t Turn) DebugTag() string {
	name := ""
	if t.Persona != nil {
		name = t.Persona.Name
	}
	return fmt.Sprintf("[%s | %s | %s] ", name, t.Intent, t.Mood.Turn())
}

// SafeModeReply is sent when composing a reply fails.
func SafeModeReply(input string) string {
	return "(system) ちょっと詰まったよ、「" + input + "」もう一回送ってみて！"
}

// Compose runs classify, mood update, template selection and tone for one
// text. Panics in the pipeline are returned as errors.
func (r *Responder) Compose(userID, text string) (turn Turn, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			turn = Turn{}
			err = fmt.Errorf("compose panic: %v", rec)
		}
	}()

	p, err := r.personas.Current(userID)
	if err != nil {
		return Turn{}, fmt.Errorf("failed to resolve persona: %w", err)
	}

	in := r.classifier.Classify(text)
	mood, err := r.moods.UpdateFromIntent(userID, in)
	if err != nil {
		return Turn{}, fmt.Errorf("failed to update mood: %w", err)
	}

	body := reply.Render(r.replies.Select(p, in), text, p)
	return Turn{
		Persona: p,
		Intent:  in,
		Mood:    mood,
		Text:    r.tone.Apply(p, in, mood.Turn(), body),
	}, nil
}
