// Package intent maps raw user text to one intent label using an ordered
// first-match rule list.
package intent

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"

	"github.com/easeaico/her-line/internal/types"
)

// Rule pairs a pattern with the intent it signals.
type Rule struct {
	Intent  types.Intent
	Pattern *regexp.Regexp
}

// Match describes which rule classified a text.
type Match struct {
	Intent types.Intent
	// Rule is the index of the matching rule, -1 when nothing matched.
	Rule    int
	Pattern string
	Matched string
}

// Classifier is a linear decision list. It holds no mutable state and is safe
// for concurrent use.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a Classifier over rules, or over DefaultRules when
// none are given. Rules are evaluated in the given order.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	copied := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.Pattern == nil {
			continue
		}
		copied = append(copied, rule)
	}
	return &Classifier{rules: copied}
}

// Classify returns the intent of the first matching rule, or generic.
func (c *Classifier) Classify(text string) types.Intent {
	return c.Explain(text).Intent
}

// Explain is Classify plus the rule that decided it.
func (c *Classifier) Explain(text string) Match {
	folded := Fold(text)
	for i, rule := range c.rules {
		loc := rule.Pattern.FindStringIndex(folded)
		if loc == nil {
			continue
		}
		return Match{
			Intent:  rule.Intent,
			Rule:    i,
			Pattern: rule.Pattern.String(),
			Matched: folded[loc[0]:loc[1]],
		}
	}
	return Match{Intent: types.IntentGeneric, Rule: -1}
}

// Rules returns a copy of the rule list in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Fold returns the case-normalized copy of text the rules run against:
// full-width ASCII is narrowed, half-width kana widened, then lowercased.
func Fold(text string) string {
	return strings.ToLower(width.Fold.String(text))
}
