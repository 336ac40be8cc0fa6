package emotion

import (
	"fmt"

	"github.com/easeaico/her-line/internal/types"
)

// StateStore defines serialized per-user state access.
type StateStore interface {
	Get(userID string) (types.UserState, bool)
	Update(userID string, fn func(state *types.UserState)) types.UserState
}

// Service tracks mood per user.
type Service struct {
	stateMachine *StateMachine
	states       StateStore
}

// NewService returns a new emotion service.
func NewService(stateMachine *StateMachine, states StateStore) *Service {
	return &Service{
		stateMachine: stateMachine,
		states:       states,
	}
}

// Mood returns the stored mood label; unseen users are normal.
func (s *Service) Mood(userID string) MoodLabel {
	if s == nil || s.states == nil {
		return MoodNormal
	}
	state, _ := s.states.Get(userID)
	return LabelForScore(state.MoodScore)
}

// UpdateFromIntent applies intent to the user's mood score in place.
func (s *Service) UpdateFromIntent(userID string, intent types.Intent) (MoodUpdate, error) {
	if s == nil || s.stateMachine == nil {
		return MoodUpdate{}, fmt.Errorf("emotion service not configured")
	}
	if s.states == nil {
		return MoodUpdate{}, fmt.Errorf("state store is nil")
	}

	var update MoodUpdate
	s.states.Update(userID, func(state *types.UserState) {
		update = s.stateMachine.Update(state.MoodScore, intent)
		state.MoodScore = update.After
	})
	return update, nil
}
