package services

import (
	"regexp"
	"strings"
)

// QueryIntent is the routing decision for one free-text question.
type QueryIntent string

const (
	IntentKnowledge  QueryIntent = "knowledge"
	IntentDataLookup QueryIntent = "data_lookup"
	IntentNavigation QueryIntent = "navigation"
	IntentHybrid     QueryIntent = "hybrid"
)

// The three cue families are evaluated independently; precedence is decided
// once, below, in ClassifyQuery. The tables are ordered and immutable:
// reordering them changes behavior, so additions go at the end.
var knowledgeCues = []*regexp.Regexp{
	regexp.MustCompile(`\bhow (?:do|does|can|to)\b`),
	regexp.MustCompile(`\bhow (?:is|are)\b.*\b(?:calculated|scored|billed)\b`),
	regexp.MustCompile(`\bwhat (?:is|are)\b.*\b(?:policy|policies|rating|certification|certifications|compliance|insurance|safety|irata|sprat|invoice|invoicing|billing|seat|seats|timecard|timecards|approval|role|roles)\b`),
	regexp.MustCompile(`\b(?:improve|boost|increase|raise)\b`),
	regexp.MustCompile(`\bexplain\b`),
	regexp.MustCompile(`\bbest (?:practice|way)\b`),
	regexp.MustCompile(`\bwhere can i (?:find|see|view)\b`),
	regexp.MustCompile(`\bwhat does\b.*\bmean\b`),
}

var dataCues = []*regexp.Regexp{
	regexp.MustCompile(`\bwho(?:'s| is| are)\b`),
	regexp.MustCompile(`\bwhere (?:is|are)\b`),
	regexp.MustCompile(`\w+'s (?:schedule|shift|shifts|assignment|assignments|projects|timecard)\b`),
	regexp.MustCompile(`\bclocked[ -]?in\b`),
	regexp.MustCompile(`\bon the clock\b`),
	regexp.MustCompile(`\bworking\b`),
	regexp.MustCompile(`\bassigned\b`),
	regexp.MustCompile(`\bhow many\b`),
	regexp.MustCompile(`\b(?:count|list) (?:of|all)\b`),
	regexp.MustCompile(`\b(?:today|tomorrow|yesterday|this week|next week)\b`),
	regexp.MustCompile(`\bnext (?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
}

var navigationCues = []*regexp.Regexp{
	regexp.MustCompile(`\btake me to\b`),
	regexp.MustCompile(`\bgo to\b`),
	regexp.MustCompile(`\bnavigate to\b`),
	regexp.MustCompile(`\bopen (?:the|my)\b`),
	regexp.MustCompile(`\bshow me the\b.*\bpage\b`),
}

// ClassifyQuery maps a raw query onto one intent. Precedence is exact and
// deliberate: navigation only wins with no competing signal, and a query that
// carries both knowledge and data cues is always hybrid.
func ClassifyQuery(query string) QueryIntent {
	q := strings.ToLower(strings.TrimSpace(query))

	knowledge := matchesAny(q, knowledgeCues)
	data := matchesAny(q, dataCues)
	navigation := matchesAny(q, navigationCues)

	switch {
	case navigation && !data && !knowledge:
		return IntentNavigation
	case knowledge && data:
		return IntentHybrid
	case knowledge:
		return IntentKnowledge
	default:
		return IntentDataLookup
	}
}

func matchesAny(q string, cues []*regexp.Regexp) bool {
	for _, re := range cues {
		if re.MatchString(q) {
			return true
		}
	}
	return false
}
