// Package slots defines the required-input schema for playlist generation and
// the pattern-based extractor that fills it from free text.
package slots

import "regexp"

// Slot is one named required input with its clarifying question and the
// patterns that recognize an answer anywhere in a message.
type Slot struct {
	Name     string
	Question string

	// FreeForm slots accept the whole message as an answer when the dialogue
	// is explicitly waiting on them and no pattern matched.
	FreeForm bool

	patterns []*regexp.Regexp

	// normalize post-processes the captured group. Optional.
	normalize func(string) string
}

// Schema is the ordered list of required slots. Order is the clarifying
// question priority: the first unset slot is asked first.
type Schema []Slot

// Slot name constants.
const (
	SlotSituation  = "situation"
	SlotAge        = "age"
	SlotLocation   = "location"
	SlotGenre      = "genre"
	SlotPreference = "preference"
)

var moodWords = []string{
	"happy", "sad", "anxious", "stressed", "angry", "tired", "excited",
	"calm", "lonely", "nostalgic", "depressed", "energetic", "relaxed",
	"melancholy", "hopeful", "overwhelmed", "bored", "grateful",
}

var genreWords = []string{
	"pop", "rock", "jazz", "classical", "hip hop", "hip-hop", "rap",
	"country", "electronic", "edm", "indie", "metal", "blues", "folk",
	"r&b", "rnb", "soul", "reggae", "lo-fi", "lofi", "ambient", "punk",
	"latin", "k-pop", "kpop", "gospel", "funk", "disco", "techno", "house",
}

// DefaultSchema returns the fixed slot schema in priority order:
// situation, age, location, genre, then free preference.
func DefaultSchema() Schema {
	return Schema{
		{
			Name:     SlotSituation,
			Question: "How are you feeling right now?",
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bfeel(?:ing)?\s+(?:a\s+(?:bit|little)\s+|really\s+|so\s+|very\s+)?(` + alternation(moodWords) + `)\b`),
				regexp.MustCompile(`(?i)\bi\s*(?:'m|am)\s+(?:really\s+|so\s+|very\s+)?(` + alternation(moodWords) + `)\b`),
				regexp.MustCompile(`(?i)^\s*(` + alternation(moodWords) + `)\s*[.!]?\s*$`),
			},
			normalize: lower,
		},
		{
			Name:     SlotAge,
			Question: "How old are you?",
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:years?\s*old|y/?o)\b`),
				regexp.MustCompile(`(?i)\bi\s*(?:'m|am)\s+(\d{1,3})\b`),
				regexp.MustCompile(`(?i)\bage\s*(?:is)?\s*[:=]?\s*(\d{1,3})\b`),
				regexp.MustCompile(`^\s*(\d{1,3})\s*$`),
			},
			normalize: validAge,
		},
		{
			Name:     SlotLocation,
			Question: "Where are you located?",
			FreeForm: true,
			patterns: []*regexp.Regexp{
				// Capitalized place names only; anything else is picked up via
				// the free-form fallback when the slot is asked for directly.
				regexp.MustCompile(`\b(?i:i\s*(?:'m|am)|i\s+live|located|based)\s+(?i:in|near|at)\s+([A-Z][A-Za-z.'-]*(?:\s+[A-Z][A-Za-z.'-]*)*)`),
				regexp.MustCompile(`\b(?i:from)\s+([A-Z][A-Za-z.'-]*(?:\s+[A-Z][A-Za-z.'-]*)*)`),
			},
			normalize: trimTail,
		},
		{
			Name:     SlotGenre,
			Question: "What music genre do you prefer?",
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(` + alternation(genreWords) + `)\b`),
			},
			normalize: lower,
		},
		{
			Name:     SlotPreference,
			Question: "Anything else the playlist should capture? Artists, tempo, era - whatever matters to you.",
			FreeForm: true,
		},
	}
}

// Missing returns the names of unset slots in schema order.
func (s Schema) Missing(current map[string]string) []string {
	var missing []string
	for _, slot := range s {
		if current[slot.Name] == "" {
			missing = append(missing, slot.Name)
		}
	}
	return missing
}

// Get returns the slot definition by name.
func (s Schema) Get(name string) (Slot, bool) {
	for _, slot := range s {
		if slot.Name == name {
			return slot, true
		}
	}
	return Slot{}, false
}

func alternation(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += "|"
		}
		out += regexp.QuoteMeta(w)
	}
	return out
}
