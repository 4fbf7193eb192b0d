package services

import (
	"regexp"
	"strings"
	"time"
)

// DateRange is an inclusive calendar interval resolved from a relative
// phrase in the query.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var (
	nextWeekdayRe = regexp.MustCompile(`\bnext (sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
	bareWeekdayRe = regexp.MustCompile(`\b(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
)

// ExtractDateRange resolves the first matching relative-date phrase, checked
// in a fixed order. A bare weekday name means the next future occurrence of
// that weekday, exactly like "next <weekday>". No match returns nil.
func ExtractDateRange(query string, now time.Time) *DateRange {
	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "today"):
		return dayRange(now)
	case strings.Contains(q, "tomorrow"):
		return dayRange(now.AddDate(0, 0, 1))
	case strings.Contains(q, "yesterday"):
		return dayRange(now.AddDate(0, 0, -1))
	case strings.Contains(q, "this week"):
		return weekRange(now)
	case strings.Contains(q, "next week"):
		return weekRange(now.AddDate(0, 0, 7))
	}

	if m := nextWeekdayRe.FindStringSubmatch(q); m != nil {
		return dayRange(nextOccurrence(now, weekdayNames[m[1]]))
	}
	if m := bareWeekdayRe.FindStringSubmatch(q); m != nil {
		return dayRange(nextOccurrence(now, weekdayNames[m[1]]))
	}
	return nil
}

func dayRange(t time.Time) *DateRange {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return &DateRange{
		Start: start,
		End:   start.Add(24*time.Hour - time.Second),
	}
}

// weekRange is the Monday-start week containing t.
func weekRange(t time.Time) *DateRange {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	start := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	return &DateRange{
		Start: start,
		End:   start.AddDate(0, 0, 7).Add(-time.Second),
	}
}

// nextOccurrence is the next strictly future day with the given weekday.
func nextOccurrence(now time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return now.AddDate(0, 0, days)
}

// Subject templates, tried in order. The first template that matches decides
// the outcome: a capture that turns out to be a stop-word fails extraction
// outright instead of falling through to a later template.
var subjectTemplates = []*regexp.Regexp{
	regexp.MustCompile(`\bwhat (?:is|are) ([a-z]+(?: [a-z]+)?) (?:working|doing|assigned)\b`),
	regexp.MustCompile(`\bwhere (?:is|are) ([a-z]+(?: [a-z]+)?) (?:working|assigned|scheduled)\b`),
	regexp.MustCompile(`\b([a-z]+(?: [a-z]+)?)'s (?:schedule|shifts?|assignments?|projects|timecard)\b`),
	regexp.MustCompile(`\b(?:find|show|get) ([a-z]+(?: [a-z]+)?)'s\b`),
	regexp.MustCompile(`\bwho is ([a-z]+(?: [a-z]+)?)\b`),
	regexp.MustCompile(`\bwhat about ([a-z]+(?: [a-z]+)?)\b`),
}

var subjectStopWords = map[string]bool{
	"the": true, "my": true, "our": true, "their": true,
	"his": true, "her": true, "everyone": true, "anybody": true,
	"someone": true, "anyone": true,
}

// Filler that can precede the name inside a two-word capture, as in
// "show me dave's schedule".
var subjectFillerWords = map[string]bool{
	"me": true, "up": true,
}

// ExtractSubjectName pulls a person's name out of the query, or "" when no
// template matches or the capture is a stop-word.
func ExtractSubjectName(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, re := range subjectTemplates {
		m := re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		fields := strings.Fields(name)
		if len(fields) == 2 && subjectFillerWords[fields[0]] {
			fields = fields[1:]
			name = fields[0]
		}
		if subjectStopWords[name] || subjectStopWords[fields[0]] {
			return ""
		}
		return name
	}
	return ""
}
