package emotion

// MoodLabel is the derived, user-visible mood.
type MoodLabel string

const (
	MoodVerySad MoodLabel = "very_sad"
	MoodSad     MoodLabel = "sad"
	MoodNormal  MoodLabel = "normal"
	MoodHappy   MoodLabel = "happy"
	MoodExcited MoodLabel = "excited"
)

const (
	MinMoodScore = -2
	MaxMoodScore = 2
)

// MoodUpdate is the outcome of applying one intent to a mood score.
type MoodUpdate struct {
	Before int
	// Peak is the clamped score before decay: the mood of the current turn.
	Peak  int
	After int
}

// Turn returns the label of the current turn.
func (u MoodUpdate) Turn() MoodLabel {
	return LabelForScore(u.Peak)
}

// Label returns the label stored after decay.
func (u MoodUpdate) Label() MoodLabel {
	return LabelForScore(u.After)
}

// ClampMood bounds a score to [MinMoodScore, MaxMoodScore].
func ClampMood(score int) int {
	switch {
	case score < MinMoodScore:
		return MinMoodScore
	case score > MaxMoodScore:
		return MaxMoodScore
	default:
		return score
	}
}

// LabelForScore maps a score to its label; out-of-range scores are clamped first.
func LabelForScore(score int) MoodLabel {
	switch ClampMood(score) {
	case -2:
		return MoodVerySad
	case -1:
		return MoodSad
	case 1:
		return MoodHappy
	case 2:
		return MoodExcited
	default:
		return MoodNormal
	}
}
