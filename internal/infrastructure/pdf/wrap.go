package pdf

import "strings"

// Wrap breaks text into lines no wider than width using m's current font.
// Explicit line breaks are kept; words longer than width are split by rune.
func Wrap(m Measurer, text string, width float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(m, paragraph, width)...)
	}
	return lines
}

func wrapParagraph(m Measurer, paragraph string, width float64) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if m.StringWidth(candidate) <= width {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		if m.StringWidth(word) <= width {
			current = word
			continue
		}
		pieces := splitWord(m, word, width)
		lines = append(lines, pieces[:len(pieces)-1]...)
		current = pieces[len(pieces)-1]
	}
	return append(lines, current)
}

func splitWord(m Measurer, word string, width float64) []string {
	var pieces []string
	var b strings.Builder
	for _, r := range word {
		if b.Len() > 0 && m.StringWidth(b.String()+string(r)) > width {
			pieces = append(pieces, b.String())
			b.Reset()
		}
		b.WriteRune(r)
	}
	return append(pieces, b.String())
}
