package extract

import "strings"

// itemSeparators split an enumeration clause into independent items.
var itemSeparators = []string{",", " and ", " & ", ";", "/", "|"}

// SplitItems breaks an enumeration like "AcSystem, Engine and Battery"
// into its individual items. A single item comes back as a one-element
// slice; blank fragments are discarded.
func SplitItems(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	items := []string{text}
	for _, sep := range itemSeparators {
		var next []string
		for _, item := range items {
			for _, part := range strings.Split(item, sep) {
				if part = strings.TrimSpace(part); part != "" {
					next = append(next, part)
				}
			}
		}
		items = next
	}
	return items
}

// trailingClause returns the text following a cue phrase up to the end of
// the sentence. A dot inside a number ("0.95") does not end the sentence.
func trailingClause(text string) string {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '!', '?', '\n':
			return strings.TrimSpace(text[:i])
		case '.':
			endsSentence := i+1 >= len(text) || text[i+1] == ' ' || text[i+1] == '\t'
			if endsSentence {
				return strings.TrimSpace(text[:i])
			}
		}
	}
	return strings.TrimSpace(text)
}
