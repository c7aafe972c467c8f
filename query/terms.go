package query

import "strings"

// Terms is a parsed query.
type Terms struct {
	Text     string   // Text to embed: plain and required words
	Required []string // Lowercased words every match must contain
	Excluded []string // Lowercased words no match may contain
}

// ParseTerms splits a query into embeddable text and +/- term constraints.
func ParseTerms(query string) Terms {
	var terms Terms
	words := strings.Fields(query)
	text := make([]string, 0, len(words))
	for _, word := range words {
		switch {
		case len(word) > 1 && word[0] == '+':
			if term := cleanTerm(word[1:]); term != "" {
				terms.Required = append(terms.Required, term)
				text = append(text, word[1:])
			}
		case len(word) > 1 && word[0] == '-':
			if term := cleanTerm(word[1:]); term != "" {
				terms.Excluded = append(terms.Excluded, term)
			}
		default:
			text = append(text, word)
		}
	}
	terms.Text = strings.Join(text, " ")
	return terms
}

// Match reports whether text satisfies the term constraints. The second
// result names the failing term.
func (t Terms) Match(text string) (bool, string) {
	if len(t.Required) == 0 && len(t.Excluded) == 0 {
		return true, ""
	}
	lower := strings.ToLower(text)
	for _, term := range t.Required {
		if !strings.Contains(lower, term) {
			return false, "+" + term
		}
	}
	for _, term := range t.Excluded {
		if strings.Contains(lower, term) {
			return false, "-" + term
		}
	}
	return true, ""
}

// cleanTerm lowercases and trims punctuation
func cleanTerm(word string) string {
	return strings.ToLower(strings.Trim(word, ".,!?;:'\"()[]{}"))
}
