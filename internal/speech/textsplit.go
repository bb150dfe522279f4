package speech

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?।]+[.!?।])`)

// SplitText breaks text into pieces of at most maxBytes, cutting at sentence
// boundaries where possible, then at spaces, then anywhere on a rune boundary.
func SplitText(text string, maxBytes int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxBytes <= 0 || len(text) <= maxBytes {
		return []string{text}
	}

	var sentences []string
	last := 0
	for _, loc := range sentencePattern.FindAllStringIndex(text, -1) {
		sentences = append(sentences, strings.TrimSpace(text[loc[0]:loc[1]]))
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		sentences = append(sentences, rest)
	}

	var (
		chunks  []string
		current strings.Builder
	)
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}
	for _, s := range sentences {
		if s == "" {
			continue
		}
		if len(s) > maxBytes {
			flush()
			chunks = append(chunks, splitLong(s, maxBytes)...)
			continue
		}
		if current.Len() > 0 && current.Len()+1+len(s) > maxBytes {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(s)
	}
	flush()
	return chunks
}

func splitLong(s string, maxBytes int) []string {
	var out []string
	for len(s) > maxBytes {
		cut := strings.LastIndexByte(s[:maxBytes+1], ' ')
		if cut <= 0 {
			cut = maxBytes
			for cut > 0 && !utf8.RuneStart(s[cut]) {
				cut--
			}
			if cut == 0 {
				_, size := utf8.DecodeRuneInString(s)
				cut = size
			}
		}
		out = append(out, strings.TrimSpace(s[:cut]))
		s = strings.TrimSpace(s[cut:])
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
