package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/onropepro/onrope-backend/internal/content"
	"github.com/onropepro/onrope-backend/internal/platform/logger"
)

// ArticleDraft is the normalized output of extraction, not yet persisted.
type ArticleDraft struct {
	Slug        string
	Title       string
	Description string
	Body        string
	Category    string
	Audience    []string
	SourceRef   string
}

const (
	// minBodyChars is the floor under which extraction counts as failed and
	// the document is skipped rather than stored as a stub.
	minBodyChars = 120
	// minBlockChars rejects fragments that carry no prose.
	minBlockChars = 40
	// minHeadingChars is the looser floor for heading-context text.
	minHeadingChars = 8
)

// Extractor turns one registry entry into an ArticleDraft. Canonical markdown
// wins outright; otherwise prose is pulled structurally out of page markup.
type Extractor struct {
	log *logger.Logger
}

func NewExtractor(log *logger.Logger) *Extractor {
	return &Extractor{log: log.With("service", "Extractor")}
}

func (e *Extractor) Extract(entry content.Entry) (*ArticleDraft, error) {
	draft := &ArticleDraft{
		Slug:      entry.Slug,
		Category:  entry.Category,
		Audience:  entry.Audience,
		SourceRef: entry.SourceRef(),
	}

	var err error
	if entry.Doc != "" {
		err = e.fillFromMarkdown(draft, entry)
	} else {
		err = e.fillFromPage(draft, entry)
	}
	if err != nil {
		return nil, err
	}

	if err := draft.validate(); err != nil {
		return nil, err
	}
	return draft, nil
}

// validate rejects drafts too thin to store.
func (d *ArticleDraft) validate() error {
	if len(d.Body) < minBodyChars {
		return fmt.Errorf("extracted body for %q is %d chars, below minimum %d", d.Slug, len(d.Body), minBodyChars)
	}
	return nil
}

var markdownHeadingRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

func (e *Extractor) fillFromMarkdown(draft *ArticleDraft, entry content.Entry) error {
	raw, err := content.CanonicalMarkdown(entry)
	if err != nil {
		return err
	}
	body := strings.TrimSpace(raw)

	if m := markdownHeadingRe.FindStringSubmatch(body); m != nil {
		draft.Title = strings.TrimSpace(m[1])
	} else {
		return fmt.Errorf("canonical doc %q has no title heading", entry.Slug)
	}

	// Description: first paragraph after the title that is not a heading.
	for _, para := range paragraphSepRe.Split(body, -1) {
		para = strings.TrimSpace(para)
		if para == "" || strings.HasPrefix(para, "#") {
			continue
		}
		draft.Description = collapseWhitespace(para)
		break
	}

	draft.Body = body
	return nil
}

// Block patterns of the semi-structured page markup, in the order they are
// tried at any given position.
var (
	pageTitleRe   = regexp.MustCompile(`title="([^"]+)"`)
	sectionHeadRe = regexp.MustCompile(`(?s)<h([23])[^>]*>(.*?)</h[23]>`)
	leadParaRe    = regexp.MustCompile(`(?s)<p className="lead-text">(.*?)</p>`)
	calloutRe     = regexp.MustCompile(`<FeatureCard[^>]*?title="([^"]+)"[^>]*?description="([^"]+)"`)
	accordionRe   = regexp.MustCompile(`(?s)<Accordion question="([^"]+)">(.*?)</Accordion>`)
	plainParaRe   = regexp.MustCompile(`(?s)<p[^>]*>(.*?)</p>`)
)

type pageBlock struct {
	pos      int
	text     string
	heading  bool
	deferred bool // residual paragraphs are appended after everything else
}

func (e *Extractor) fillFromPage(draft *ArticleDraft, entry content.Entry) error {
	markup, ok := content.PageMarkup(entry.Page)
	if !ok {
		return fmt.Errorf("no page markup registered for %q", entry.Page)
	}

	if m := pageTitleRe.FindStringSubmatch(markup); m != nil {
		draft.Title = decodeEntities(m[1])
	} else {
		return fmt.Errorf("page markup %q has no title attribute", entry.Page)
	}

	var blocks []pageBlock
	seen := map[string]bool{}

	add := func(pos int, text string, heading, deferred bool) {
		text = normalizeBlock(text)
		if !keepBlock(text, heading) || seen[text] {
			return
		}
		seen[text] = true
		blocks = append(blocks, pageBlock{pos: pos, text: text, heading: heading, deferred: deferred})
	}

	// Section headings, levels 2-3, in page order.
	for _, m := range sectionHeadRe.FindAllStringSubmatchIndex(markup, -1) {
		level := markup[m[2]:m[3]]
		text := normalizeBlock(markup[m[4]:m[5]])
		prefix := "## "
		if level == "3" {
			prefix = "### "
		}
		if keepBlock(text, true) && !seen[text] {
			seen[text] = true
			blocks = append(blocks, pageBlock{pos: m[0], text: prefix + text, heading: true})
		}
	}

	// Introduction: the first descriptive-style paragraph of real length.
	if m := leadParaRe.FindStringSubmatchIndex(markup); m != nil {
		add(m[0], markup[m[2]:m[3]], false, false)
	}

	// Paired callout blocks become one bulleted feature list.
	callouts := calloutRe.FindAllStringSubmatchIndex(markup, -1)
	if len(callouts) > 0 {
		var lines []string
		for _, m := range callouts {
			title := normalizeBlock(markup[m[2]:m[3]])
			desc := normalizeBlock(markup[m[4]:m[5]])
			if !keepBlock(desc, false) {
				continue
			}
			lines = append(lines, "- **"+title+"**: "+desc)
		}
		if len(lines) > 0 {
			text := "## Key Features\n\n" + strings.Join(lines, "\n")
			blocks = append(blocks, pageBlock{pos: callouts[0][0], text: text})
			for _, m := range callouts {
				seen[normalizeBlock(markup[m[4]:m[5]])] = true
			}
		}
	}

	// Question/answer accordion blocks.
	for _, m := range accordionRe.FindAllStringSubmatchIndex(markup, -1) {
		question := normalizeBlock(markup[m[2]:m[3]])
		answer := normalizeBlock(markup[m[4]:m[5]])
		if !keepBlock(answer, false) {
			continue
		}
		seen[answer] = true
		blocks = append(blocks, pageBlock{pos: m[0], text: "**" + question + "**\n\n" + answer})
	}

	// Any other paragraph of real length, appended after everything else.
	for _, m := range plainParaRe.FindAllStringSubmatchIndex(markup, -1) {
		add(m[0], markup[m[2]:m[3]], false, true)
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].deferred != blocks[j].deferred {
			return !blocks[i].deferred
		}
		return blocks[i].pos < blocks[j].pos
	})

	parts := make([]string, 0, len(blocks)+1)
	parts = append(parts, "# "+draft.Title)
	for _, b := range blocks {
		parts = append(parts, b.text)
		if draft.Description == "" && !b.heading && !strings.HasPrefix(b.text, "#") {
			draft.Description = firstLine(b.text)
		}
	}
	draft.Body = strings.Join(parts, "\n\n")
	return nil
}

// keepBlock is the uniform inclusion filter. It runs on every candidate block
// no matter which extraction rule produced it.
func keepBlock(text string, heading bool) bool {
	min := minBlockChars
	if heading {
		min = minHeadingChars
	}
	if len(text) < min {
		return false
	}
	lower := strings.ToLower(text)
	// Markup or code remnants that survived normalization.
	for _, remnant := range []string{"{", "}", "=\"", "=>", "</", "import ", "export "} {
		if strings.Contains(lower, remnant) {
			return false
		}
	}
	// Implementation-facing vocabulary that never belongs in help prose.
	for _, word := range []string{"classname", "usestate", "useeffect", "onclick", "xmlns", "px solid", "lorem ipsum"} {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return true
}

var (
	braceExprRe  = regexp.MustCompile(`\{[^{}]*\}`)
	tagRe        = regexp.MustCompile(`<[^<>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

func normalizeBlock(raw string) string {
	s := braceExprRe.ReplaceAllString(raw, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = decodeEntities(s)
	return collapseWhitespace(s)
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
)

func decodeEntities(s string) string {
	return entityReplacer.Replace(s)
}

func firstLine(s string) string {
	if i := strings.Index(s, "\n"); i >= 0 {
		return s[:i]
	}
	return s
}
