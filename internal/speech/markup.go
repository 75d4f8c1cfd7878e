package speech

import (
	"fmt"
	"strings"
)

// importantWords get moderate emphasis in the annotated narration.
var importantWords = []string{"important", "key", "main", "primary", "essential", "crucial"}

// Annotate inserts pause markers after sentence-ending punctuation and
// emphasis markers around the fixed keyword set, producing the SSML body
// consumed by the cloud backend.
func Annotate(text string) string {
	annotated := strings.ReplaceAll(text, ". ", ". <break time=\"0.5s\"/> ")
	annotated = strings.ReplaceAll(annotated, "! ", "! <break time=\"0.8s\"/> ")
	annotated = strings.ReplaceAll(annotated, "? ", "? <break time=\"0.8s\"/> ")

	for _, word := range importantWords {
		annotated = strings.ReplaceAll(annotated,
			" "+word+" ",
			fmt.Sprintf(" <emphasis level=\"moderate\">%s</emphasis> ", word))
	}

	return annotated
}

// BuildSSML wraps annotated text in a speak document for the given voice and
// rate.
func BuildSSML(text, voice string, rate float64) string {
	if rate <= 0 {
		rate = 1.0
	}
	return fmt.Sprintf(
		`<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang="en-US">`+
			`<voice name="%s"><prosody rate="%.2f">%s</prosody></voice></speak>`,
		voice, rate, Annotate(text))
}
