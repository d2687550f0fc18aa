package slots

import (
	"strconv"
	"strings"
)

// Extract scans text for answers to any slot not yet present in current and
// returns the new assignments. Already-set slots are never touched, so running
// extraction twice over the same message is a no-op the second time.
func (s Schema) Extract(text string, current map[string]string) map[string]string {
	found := make(map[string]string)
	for _, slot := range s {
		if current[slot.Name] != "" {
			continue
		}
		for _, p := range slot.patterns {
			m := p.FindStringSubmatch(text)
			if len(m) < 2 {
				continue
			}
			val := strings.TrimSpace(m[1])
			if slot.normalize != nil {
				val = slot.normalize(val)
			}
			if val != "" {
				found[slot.Name] = val
				break
			}
		}
	}
	return found
}

// FillPending resolves a message against the slot the dialogue is waiting on.
// When pattern extraction recognized nothing and the awaited slot is
// free-form, the whole message is taken as its answer.
func (s Schema) FillPending(pending, text string, current, extracted map[string]string) map[string]string {
	if pending == "" || current[pending] != "" || len(extracted) > 0 {
		return extracted
	}
	slot, ok := s.Get(pending)
	if !ok || !slot.FreeForm {
		return extracted
	}
	val := strings.TrimSpace(text)
	if val == "" {
		return extracted
	}
	return map[string]string{pending: val}
}

func lower(v string) string {
	return strings.ToLower(v)
}

// trimTail drops trailing punctuation and filler from captured phrases.
func trimTail(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimRight(v, ".!?, ")
	return v
}

// validAge rejects captures outside the 13 to 120 sanity window.
func validAge(v string) string {
	n, err := strconv.Atoi(v)
	if err != nil || n < 13 || n > 120 {
		return ""
	}
	return v
}
