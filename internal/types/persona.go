package types

// EndingDefault is the Endings key used when an intent has no ending of its own.
const EndingDefault = "default"

// Persona is a character profile (tone, pronoun, reply bank) a user can select.
type Persona struct {
	Name        string              `json:"name" yaml:"name" jsonschema:"command token used by /set and /<name>, lowercase"`
	DisplayName string              `json:"display_name" yaml:"display_name" jsonschema:"name shown to users in system messages"`
	Pronoun     string              `json:"pronoun,omitempty" yaml:"pronoun,omitempty" jsonschema:"self-reference token prepended to every reply"`
	Endings     map[string]string   `json:"endings,omitempty" yaml:"endings,omitempty" jsonschema:"sentence ending per intent, with a default key"`
	Replies     map[string][]string `json:"replies" yaml:"replies" jsonschema:"candidate reply templates per intent; generic is the fallback bucket"`
}

// Ending returns the ending decoration for an intent, falling back to the
// persona default ending.
func (p *Persona) Ending(intent Intent) string {
	if p == nil {
		return ""
	}
	if ending, ok := p.Endings[string(intent)]; ok {
		return ending
	}
	return p.Endings[EndingDefault]
}

// Bucket returns the candidate templates registered for an intent.
func (p *Persona) Bucket(intent Intent) []string {
	if p == nil {
		return nil
	}
	return p.Replies[string(intent)]
}
