// Package tone wraps rendered replies in persona-specific decorations.
package tone

import (
	"strings"

	"github.com/easeaico/her-line/internal/emotion"
	"github.com/easeaico/her-line/internal/types"
)

// Compositor applies pronoun, ending and mood decorations.
type Compositor struct {
	moodTone bool
}

// NewCompositor returns a Compositor; moodTone enables the mood decoration.
func NewCompositor(moodTone bool) *Compositor {
	return &Compositor{moodTone: moodTone}
}

// Apply returns pronoun + text + intent ending (or the default ending) +
// mood decoration.
func (c *Compositor) Apply(p *types.Persona, intent types.Intent, mood emotion.MoodLabel, text string) string {
	var sb strings.Builder
	if p != nil {
		sb.WriteString(p.Pronoun)
	}
	sb.WriteString(text)
	sb.WriteString(p.Ending(intent))
	if c.moodTone {
		sb.WriteString(emotion.Decoration(mood))
	}
	return sb.String()
}
