package services

import (
	"regexp"
	"strings"
)

const (
	// DefaultChunkSize bounds one generation-context chunk in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is how many characters each chunk repeats from the
	// end of the previous one.
	DefaultChunkOverlap = 150
)

var paragraphSepRe = regexp.MustCompile(`\n[ \t]*\n[\s]*`)

// textUnit is one indivisible piece of a body plus the exact separator that
// preceded it in the original text. Keeping the separator is what makes the
// chunk sequence reconstruct the body when overlap prefixes are stripped.
type textUnit struct {
	sep  string
	text string
}

// ChunkText splits a body into ordered chunks of at most maxSize characters.
// Chunks break on blank-line paragraph boundaries; each chunk after the first
// starts with the last overlap characters of its predecessor. A paragraph
// larger than maxSize is split again at sentence boundaries. A single
// sentence larger than maxSize stays intact and yields an oversized chunk.
func ChunkText(body string, maxSize, overlap int) []string {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		overlap = maxSize / 4
	}

	units := splitUnits(body, maxSize)

	var chunks []string
	cur := ""
	for _, u := range units {
		// A freshly seeded chunk always absorbs the current unit here, so
		// the size check never fires on a bare overlap seed.
		if cur != "" && len(cur)+len(u.sep)+len(u.text) > maxSize {
			chunks = append(chunks, cur)
			cur = tailChars(cur, overlap)
		}
		cur += u.sep + u.text
	}
	if cur != "" {
		chunks = append(chunks, cur)
	}
	return chunks
}

func splitUnits(body string, maxSize int) []textUnit {
	paras := splitWithSeparators(body, paragraphSepRe)
	units := make([]textUnit, 0, len(paras))
	for _, p := range paras {
		if len(p.text) <= maxSize {
			units = append(units, p)
			continue
		}
		sents := splitSentences(p.text)
		for i, s := range sents {
			if i == 0 {
				s.sep = p.sep
			}
			units = append(units, s)
		}
	}
	return units
}

// splitWithSeparators cuts text at every match of re, keeping each matched
// separator attached to the unit that follows it.
func splitWithSeparators(text string, re *regexp.Regexp) []textUnit {
	matches := re.FindAllStringIndex(text, -1)
	var units []textUnit
	prevEnd := 0
	sep := ""
	for _, m := range matches {
		if m[0] > prevEnd {
			units = append(units, textUnit{sep: sep, text: text[prevEnd:m[0]]})
		}
		sep = text[m[0]:m[1]]
		prevEnd = m[1]
	}
	if prevEnd < len(text) {
		units = append(units, textUnit{sep: sep, text: text[prevEnd:]})
	}
	return units
}

// splitSentences cuts at terminal punctuation followed by whitespace.
func splitSentences(text string) []textUnit {
	var units []textUnit
	start := 0
	sep := ""
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '.' || c == '!' || c == '?' {
			j := i + 1
			for j < len(text) && (text[j] == '.' || text[j] == '!' || text[j] == '?') {
				j++
			}
			k := j
			for k < len(text) && (text[k] == ' ' || text[k] == '\t' || text[k] == '\n') {
				k++
			}
			if k > j && k < len(text) {
				units = append(units, textUnit{sep: sep, text: text[start:j]})
				sep = text[j:k]
				start = k
				i = k
				continue
			}
			i = j
			continue
		}
		i++
	}
	if start < len(text) {
		units = append(units, textUnit{sep: sep, text: text[start:]})
	}
	return units
}

func tailChars(s string, n int) string {
	if n <= 0 || n >= len(s) {
		if n <= 0 {
			return ""
		}
		return s
	}
	return s[len(s)-n:]
}
