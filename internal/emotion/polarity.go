package emotion

import "github.com/easeaico/her-line/internal/types"

var positiveIntents = map[types.Intent]bool{
	types.IntentThanks: true,
	types.IntentGreet:  true,
	types.IntentLove:   true,
	types.IntentCheer:  true,
	types.IntentJoke:   true,
}

var negativeIntents = map[types.Intent]bool{
	types.IntentHelp:  true,
	types.IntentCare:  true,
	types.IntentAngry: true,
	types.IntentBye:   true,
}

// Delta returns the fixed mood delta of an intent: +1, -1 or 0.
func Delta(intent types.Intent) int {
	switch {
	case positiveIntents[intent]:
		return 1
	case negativeIntents[intent]:
		return -1
	default:
		return 0
	}
}
