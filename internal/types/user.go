package types

// UserState is the mutable per-user state kept for the process lifetime.
type UserState struct {
	// Persona is the active persona name; empty means the registry default.
	Persona   string
	Debug     bool
	MoodScore int
}
