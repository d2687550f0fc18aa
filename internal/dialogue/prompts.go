package dialogue

import (
	"fmt"
	"strings"

	"moodlist/internal/session"
	"moodlist/internal/slots"
)

const generationSystemPrompt = `You are a music therapy assistant that turns a user's context into catalog tool calls.
Respond with tool calls only, one per line, using exactly this grammar:

search('<query>', <limit>)
create('<owner id>', '<playlist name>', '<description>', [track_uris])

The token [track_uris] stands for the track ids returned by the previous search.
Search first, then create. Write nothing besides the two calls.`

const reviewSystemPrompt = `You are an AI quality assurance agent for a music therapy playlist.
Given user context and a track list, analyze suitability for the user's emotional state.
Respond ONLY with $$EXIT$$ if the playlist fits.
Otherwise respond with short, concrete feedback on what to change.`

func buildGenerationQuery(sess *session.Session, searchLimit int, feedback string) string {
	var b strings.Builder
	b.WriteString("User context:\n")
	fmt.Fprintf(&b, "- Emotional state: %s\n", sess.Slots[slots.SlotSituation])
	fmt.Fprintf(&b, "- Age: %s\n", sess.Slots[slots.SlotAge])
	fmt.Fprintf(&b, "- Location: %s\n", sess.Slots[slots.SlotLocation])
	fmt.Fprintf(&b, "- Preferred genre: %s\n", sess.Slots[slots.SlotGenre])
	fmt.Fprintf(&b, "- Preferences: %s\n", sess.Slots[slots.SlotPreference])
	fmt.Fprintf(&b, "- Catalog owner id: %s\n", sess.UserID)
	fmt.Fprintf(&b, "- Search limit: %d\n", searchLimit)
	if feedback != "" {
		b.WriteString("\nA previous attempt was rejected by quality review with this feedback:\n")
		b.WriteString(feedback)
		b.WriteString("\nGenerate a revised set of calls addressing it.\n")
	}
	return b.String()
}

func buildReviewQuery(slotValues map[string]string, trackNames []string) string {
	var b strings.Builder
	b.WriteString("User context:\n")
	fmt.Fprintf(&b, "- Emotional state: %s\n", slotValues[slots.SlotSituation])
	fmt.Fprintf(&b, "- Age: %s\n", slotValues[slots.SlotAge])
	fmt.Fprintf(&b, "- Location: %s\n", slotValues[slots.SlotLocation])
	fmt.Fprintf(&b, "- Preferred genre: %s\n", slotValues[slots.SlotGenre])
	b.WriteString("\nPlaylist tracks:\n")
	for _, name := range trackNames {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	return b.String()
}
