package types

// Intent is the classified purpose of an inbound message.
type Intent string

const (
	IntentGreet            Intent = "greet"
	IntentThanks           Intent = "thanks"
	IntentAngry            Intent = "angry"
	IntentFuture           Intent = "future"
	IntentSmalltalkWeather Intent = "smalltalk_weather"
	IntentHelp             Intent = "help"
	IntentCare             Intent = "care"
	IntentStudy            Intent = "study"
	IntentBye              Intent = "bye"
	IntentJoke             Intent = "joke"
	IntentCheer            Intent = "cheer"
	IntentLove             Intent = "love"
	IntentGeneric          Intent = "generic"
)

var allIntents = []Intent{
	IntentGreet,
	IntentThanks,
	IntentAngry,
	IntentFuture,
	IntentSmalltalkWeather,
	IntentHelp,
	IntentCare,
	IntentStudy,
	IntentBye,
	IntentJoke,
	IntentCheer,
	IntentLove,
	IntentGeneric,
}

// Intents returns every known intent, generic last.
func Intents() []Intent {
	out := make([]Intent, len(allIntents))
	copy(out, allIntents)
	return out
}

// Valid reports whether i belongs to the closed intent set.
func (i Intent) Valid() bool {
	for _, known := range allIntents {
		if i == known {
			return true
		}
	}
	return false
}

func (i Intent) String() string {
	return string(i)
}
