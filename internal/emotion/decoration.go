package emotion

// Decoration returns the trailing marker for a mood.
func Decoration(mood MoodLabel) string {
	switch mood {
	case MoodExcited:
		return "♪♪"
	case MoodHappy:
		return "♪"
	case MoodSad:
		return "…"
	case MoodVerySad:
		return "……"
	default:
		return ""
	}
}
