package speech

import "strings"

// ChunkText splits long narration on sentence boundaries into chunks below
// the per-request character budget, preserving sentence order. Text at or
// under the threshold comes back as a single chunk.
func ChunkText(text string) []string {
	if len(text) <= chunkThreshold {
		return []string{text}
	}

	sentences := splitSentences(text)
	var chunks []string
	var current strings.Builder

	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+len(sentence)+1 > chunkBudget {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		// A single sentence over the budget still becomes its own chunk.
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	return chunks
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			atEnd := i == len(runes)-1
			followedBySpace := !atEnd && (runes[i+1] == ' ' || runes[i+1] == '\n')
			if atEnd || followedBySpace {
				s := strings.TrimSpace(current.String())
				if s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
