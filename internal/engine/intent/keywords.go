// internal/engine/intent/keywords.go
package intent

import (
	"strings"
	"unicode"
)

const maxKeywords = 5

// Stop words stripped before keyword extraction, FR+EN: articles,
// prepositions, pronouns and question words.
var stopWords = map[string]bool{
	// French
	"le": true, "la": true, "les": true, "un": true, "une": true, "des": true,
	"du": true, "de": true, "d": true, "l": true, "au": true, "aux": true,
	"et": true, "ou": true, "mais": true, "donc": true, "car": true, "ni": true,
	"je": true, "tu": true, "il": true, "elle": true, "on": true, "nous": true,
	"vous": true, "ils": true, "elles": true, "mon": true, "ma": true, "mes": true,
	"notre": true, "nos": true, "votre": true, "vos": true, "leur": true, "leurs": true,
	"ce": true, "cet": true, "cette": true, "ces": true, "qui": true, "que": true,
	"quoi": true, "quel": true, "quelle": true, "quels": true, "quelles": true,
	"combien": true, "comment": true, "pourquoi": true, "quand": true, "est": true,
	"sont": true, "avons": true, "avez": true, "ont": true, "dans": true,
	"sur": true, "sous": true, "avec": true, "sans": true, "pour": true,
	"par": true, "chez": true, "vers": true, "entre": true, "donne": true,
	"moi": true, "toutes": true, "tous": true, "toute": true, "tout": true,
	"plus": true, "pas": true, "oui": true, "non": true,
	// English
	"the": true, "a": true, "an": true, "of": true, "in": true,
	"at": true, "to": true, "for": true, "with": true, "by": true, "from": true,
	"and": true, "or": true, "but": true, "so": true, "as": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "been": true, "do": true,
	"does": true, "did": true, "have": true, "has": true, "had": true, "we": true,
	"i": true, "you": true, "he": true, "she": true, "it": true, "they": true,
	"my": true, "our": true, "your": true, "their": true, "this": true,
	"that": true, "these": true, "those": true, "who": true, "what": true,
	"which": true, "how": true, "many": true, "much": true, "when": true,
	"where": true, "why": true, "me": true, "us": true, "all": true,
	"show": true, "give": true, "get": true, "list": true, "not": true,
}

// ExtractKeywords strips stop words, keeps tokens longer than 2 characters
// and returns at most 5 keywords lowercased, in original order.
func ExtractKeywords(query string) []string {
	var out []string
	seen := map[string]bool{}
	for _, tok := range tokenize(query) {
		low := strings.ToLower(tok)
		if len([]rune(low)) <= 2 || stopWords[low] || seen[low] {
			continue
		}
		seen[low] = true
		out = append(out, low)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

// ExtractNames flags capitalized multi-word runs, and whole queries of at
// most two non-stop-word tokens, as candidate proper names. Original casing
// is preserved for later matching. Heuristic only: a capitalized sentence
// opener is not enough on its own.
func ExtractNames(query string) []string {
	tokens := tokenize(query)

	var names []string
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	var run []string
	flush := func(startIdx int) {
		// A run starting at the first token needs a second capitalized word
		// to count; mid-sentence a single capitalized token qualifies.
		if len(run) >= 2 || (len(run) == 1 && startIdx > 0) {
			add(strings.Join(run, " "))
		}
		run = nil
	}

	runStart := -1
	for i, tok := range tokens {
		if isCapitalized(tok) && !stopWords[strings.ToLower(tok)] {
			if len(run) == 0 {
				runStart = i
			}
			run = append(run, tok)
			continue
		}
		flush(runStart)
	}
	flush(runStart)

	// "who is X" style short queries: the whole text is a name candidate.
	if len(tokens) > 0 && len(tokens) <= 2 {
		short := true
		for _, tok := range tokens {
			if stopWords[strings.ToLower(tok)] {
				short = false
				break
			}
		}
		if short {
			add(strings.Join(tokens, " "))
		}
	}

	return names
}

func tokenize(query string) []string {
	return strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func isCapitalized(tok string) bool {
	r := []rune(tok)
	return len(r) > 0 && unicode.IsUpper(r[0])
}
