package emotion

import "github.com/easeaico/her-line/internal/types"

// StateMachine updates the mood score.
type StateMachine struct{}

// NewStateMachine returns a StateMachine.
func NewStateMachine() *StateMachine {
	return &StateMachine{}
}

// Update applies one intent: add its delta, decay one step toward zero, clamp.
//
// A single event therefore returns the stored score to where it started; only
// the current turn (Peak) sees the shift.
func (s *StateMachine) Update(score int, intent types.Intent) MoodUpdate {
	raised := score + Delta(intent)
	return MoodUpdate{
		Before: score,
		Peak:   ClampMood(raised),
		After:  ClampMood(decay(raised)),
	}
}

func decay(score int) int {
	switch {
	case score > 0:
		return score - 1
	case score < 0:
		return score + 1
	default:
		return 0
	}
}
