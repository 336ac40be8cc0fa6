// Package reply selects and renders persona reply templates.
package reply

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/easeaico/her-line/internal/types"
)

const (
	// InputPlaceholder is replaced by the verbatim user text.
	InputPlaceholder = "{{input}}"
	// CharPlaceholder is replaced by the persona display name.
	CharPlaceholder = "{{char}}"
	// FallbackTemplate is used when neither the intent nor the generic bucket
	// has candidates.
	FallbackTemplate = "「" + InputPlaceholder + "」、聞いてるよ"
)

// Picker chooses an index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	IntN(n int) int
}

// Store picks templates from a persona's reply buckets.
type Store struct {
	mu     sync.Mutex
	picker Picker
}

// NewStore returns a Store drawing from picker, or from an unseeded
// PCG source when picker is nil.
func NewStore(picker Picker) *Store {
	if picker == nil {
		picker = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Store{picker: picker}
}

// Select returns a template for the intent. Lookup order: intent bucket,
// generic bucket, FallbackTemplate. The result is never empty.
func (s *Store) Select(p *types.Persona, intent types.Intent) string {
	if bucket := nonEmpty(p.Bucket(intent)); len(bucket) > 0 {
		return s.pick(bucket)
	}
	if bucket := nonEmpty(p.Bucket(types.IntentGeneric)); len(bucket) > 0 {
		return s.pick(bucket)
	}
	return FallbackTemplate
}

func (s *Store) pick(bucket []string) string {
	if len(bucket) == 1 {
		return bucket[0]
	}
	// rand.Rand is not safe for concurrent use.
	s.mu.Lock()
	i := s.picker.IntN(len(bucket))
	s.mu.Unlock()
	if i < 0 || i >= len(bucket) {
		i = 0
	}
	return bucket[i]
}

func nonEmpty(bucket []string) []string {
	out := bucket[:0:0]
	for _, tpl := range bucket {
		if strings.TrimSpace(tpl) != "" {
			out = append(out, tpl)
		}
	}
	return out
}

// Render substitutes input for every input placeholder and the persona
// display name for every char placeholder. No escaping is applied.
func Render(tpl, input string, p *types.Persona) string {
	name := ""
	if p != nil {
		name = p.DisplayName
	}
	return strings.NewReplacer(InputPlaceholder, input, CharPlaceholder, name).Replace(tpl)
}
