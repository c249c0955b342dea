package natural

import (
	"strings"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
)

const (
	maxTitleRunes = 50
	fallbackTitle = "New Event"
)

// TitleExtractor derives a human-readable label from free-form text. It
// never fails; the priority chain bottoms out at a literal fallback.
type TitleExtractor struct{}

// Priority chain, first non-empty match wins:
//  1. verb run followed by a noun run (an action phrase, "schedule meeting")
//  2. first multi-character noun phrase, else all noun phrases joined
//  3. first three whitespace-delimited words
//  4. "New Event"
func (TitleExtractor) Extract(text string) string {
	title := ""
	if strings.TrimSpace(text) != "" {
		if doc, err := prose.NewDocument(
			text,
			prose.WithExtraction(false),
			prose.WithSegmentation(false),
		); err == nil {
			toks := doc.Tokens()
			title = actionPhrase(toks)
			if title == "" {
				title = firstNounPhrase(toks)
			}
		}
	}

	if title == "" {
		fields := strings.Fields(text)
		if len(fields) > 3 {
			fields = fields[:3]
		}
		title = strings.Join(fields, " ")
	}
	if title == "" {
		title = fallbackTitle
	}

	return TruncateTitle(strings.TrimSpace(title))
}

// Bound a label to 50 display characters, ellipsized at 47.
func TruncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= maxTitleRunes {
		return s
	}
	return string(runes[:47]) + "..."
}

func isVerb(tag string) bool { return strings.HasPrefix(tag, "VB") }
func isNoun(tag string) bool { return strings.HasPrefix(tag, "NN") }

func actionPhrase(toks []prose.Token) string {
	for i := 0; i < len(toks); i++ {
		if !isVerb(toks[i].Tag) {
			continue
		}
		j := i
		for j < len(toks) && isVerb(toks[j].Tag) {
			j++
		}
		k := j
		for k < len(toks) && isNoun(toks[k].Tag) {
			k++
		}
		if k == j {
			continue
		}
		parts := make([]string, 0, k-i)
		for _, tok := range toks[i:k] {
			parts = append(parts, tok.Text)
		}
		return strings.Join(parts, " ")
	}
	return ""
}

func firstNounPhrase(toks []prose.Token) string {
	phrases := make([]string, 0)
	for i := 0; i < len(toks); {
		if !isNoun(toks[i].Tag) {
			i++
			continue
		}
		j := i
		parts := make([]string, 0)
		for j < len(toks) && isNoun(toks[j].Tag) {
			parts = append(parts, toks[j].Text)
			j++
		}
		phrases = append(phrases, strings.Join(parts, " "))
		i = j
	}
	if len(phrases) == 0 {
		return ""
	}
	for _, phrase := range phrases {
		if utf8.RuneCountInString(phrase) > 1 {
			return phrase
		}
	}
	return strings.Join(phrases, ", ")
}
