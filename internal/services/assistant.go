package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/requestdata"
)

// KnowledgeSource names the article an answer was grounded on.
type KnowledgeSource struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// ActionLink is a navigation suggestion attached to an answer.
type ActionLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// AssistantResult is the single typed response of one assistant query.
type AssistantResult struct {
	Type            string           `json:"type"` // knowledge|data|hybrid|navigation|no_results
	Answer          string           `json:"answer"`
	Data            []DataResult     `json:"data,omitempty"`
	KnowledgeSource *KnowledgeSource `json:"knowledge_source,omitempty"`
	ActionLink      *ActionLink      `json:"action_link,omitempty"`
	Confidence      string           `json:"confidence"` // high|medium|low
}

// AssistantService routes one free-text question through classification,
// entity extraction, search, resolvers, and the generation collaborator, and
// always returns a well-formed result. Nothing thrown inside this pipeline
// reaches the transport boundary.
type AssistantService interface {
	Query(ctx context.Context, rd *requestdata.RequestData, message string, history []ChatMessage) *AssistantResult
}

type assistantService struct {
	log       *logger.Logger
	search    SearchService
	resolvers ResolverService
	generator GenerationClient
	cache     AnswerCache // nil disables caching
	now       func() time.Time
}

func NewAssistantService(
	log *logger.Logger,
	search SearchService,
	resolvers ResolverService,
	generator GenerationClient,
	cache AnswerCache,
) AssistantService {
	return &assistantService{
		log:       log.With("service", "AssistantService"),
		search:    search,
		resolvers: resolvers,
		generator: generator,
		cache:     cache,
		now:       time.Now,
	}
}

// Navigation destinations, first keyword match wins. Order matters: more
// specific keywords sit above the catch-alls that contain them.
var navigationTable = []struct {
	keyword string
	label   string
	path    string
}{
	{"schedule", "Open Schedule", "/schedule"},
	{"timecard", "Open Timecards", "/timecards"},
	{"time tracking", "Open Timecards", "/timecards"},
	{"clock", "Open Timecards", "/timecards"},
	{"certification", "Open Certifications", "/certifications"},
	{"project", "Open Projects", "/projects"},
	{"job", "Open Projects", "/projects"},
	{"team", "Open Team", "/team"},
	{"employee", "Open Team", "/team"},
	{"invoice", "Open Billing", "/billing"},
	{"billing", "Open Billing", "/billing"},
	{"settings", "Open Settings", "/settings"},
	{"dashboard", "Open Dashboard", "/dashboard"},
	{"help", "Open Help Center", "/help"},
}

var rosterCueRe = regexp.MustCompile(`\bwho(?:'s| is| are)\b|\bclocked[ -]?in\b|\bon the clock\b|\bworking (?:now|today|right now)\b`)
var activeProjectCueRe = regexp.MustCompile(`\b(?:active|current|in progress|ongoing)\b`)
var scheduleTermRe = regexp.MustCompile(`\bschedule\b|\bshifts?\b|\bassignments?\b`)

func (s *assistantService) Query(ctx context.Context, rd *requestdata.RequestData, message string, history []ChatMessage) (result *AssistantResult) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Assistant query panicked", "panic", fmt.Sprint(r))
			result = s.unavailableResult()
		}
	}()

	// The one unconditional early exit: without a tenant there is nothing to
	// resolve or search against.
	if rd == nil || rd.CompanyID == uuid.Nil {
		return s.unavailableResult()
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return s.fallbackResult()
	}

	intent := ClassifyQuery(message)
	s.log.Debug("Classified query", "intent", string(intent), "company_id", rd.CompanyID)

	switch intent {
	case IntentNavigation:
		if res := s.navigate(message); res != nil {
			return res
		}
		// No destination matched; treat it as a question about the app.
		return s.knowledgeAnswer(ctx, rd, message, history, true)
	case IntentKnowledge:
		return s.knowledgeAnswer(ctx, rd, message, history, true)
	default: // data_lookup or hybrid
		if res := s.dataAnswer(ctx, rd, message, history, intent); res != nil {
			return res
		}
		// Global fallback: one last knowledge attempt before giving up.
		if res := s.knowledgeAnswer(ctx, rd, message, history, false); res.Type != "no_results" {
			return res
		}
		return s.fallbackResult()
	}
}

func (s *assistantService) navigate(message string) *AssistantResult {
	lower := strings.ToLower(message)
	for _, dest := range navigationTable {
		if strings.Contains(lower, dest.keyword) {
			return &AssistantResult{
				Type:       "navigation",
				Answer:     "Taking you to " + strings.TrimPrefix(dest.label, "Open ") + ".",
				ActionLink: &ActionLink{Label: dest.label, Path: dest.path},
				Confidence: "high",
			}
		}
	}
	return nil
}

// knowledgeAnswer searches the corpus, asks the generation collaborator to
// phrase an answer over the top hits, and cites the best one. Any collaborator
// failure degrades to the zero-hit branch.
func (s *assistantService) knowledgeAnswer(ctx context.Context, rd *requestdata.RequestData, message string, history []ChatMessage, cacheable bool) *AssistantResult {
	if cacheable && s.cache != nil {
		if cached, ok := s.cache.Get(ctx, rd.CompanyID, message); ok {
			return cached
		}
	}

	hits, err := s.search.Search(ctx, message, 3)
	if err != nil {
		s.log.Warn("Search failed", "error", err)
		return s.notFoundResult()
	}
	if len(hits) == 0 {
		return s.notFoundResult()
	}

	var ctxParts []string
	for _, h := range hits {
		chunks := ChunkText(h.Article.Body, DefaultChunkSize, DefaultChunkOverlap)
		if len(chunks) == 0 {
			continue
		}
		ctxParts = append(ctxParts, "## "+h.Article.Title+"\n"+chunks[0])
	}

	answer, err := s.generator.Generate(ctx, message, strings.Join(ctxParts, "\n\n"), history)
	if err != nil {
		s.log.Warn("Generation failed, degrading to not-found", "error", err)
		return s.notFoundResult()
	}

	top := hits[0].Article
	result := &AssistantResult{
		Type:            "knowledge",
		Answer:          answer,
		KnowledgeSource: &KnowledgeSource{Title: top.Title, Slug: top.Slug},
		ActionLink:      &ActionLink{Label: "Read more: " + top.Title, Path: "/help/articles/" + top.Slug},
		Confidence:      "high",
	}

	if cacheable && s.cache != nil {
		s.cache.Set(ctx, rd.CompanyID, message, result)
	}
	return result
}

// dataAnswer picks a data sub-branch from the detected cues, or returns nil
// when none applies. On hybrid intent the knowledge leg runs alongside and
// its source and action link are merged into the data result.
func (s *assistantService) dataAnswer(ctx context.Context, rd *requestdata.RequestData, message string, history []ChatMessage, intent QueryIntent) *AssistantResult {
	lower := strings.ToLower(message)
	subject := ExtractSubjectName(message)
	rng := ExtractDateRange(message, s.now())
	// A schedule question with a subject but no date phrase means this week.
	if subject != "" && rng == nil && scheduleTermRe.MatchString(lower) {
		rng = weekRange(s.now())
	}

	var run func(context.Context) *AssistantResult
	switch {
	case subject != "" && rng != nil:
		run = func(c context.Context) *AssistantResult { return s.scheduleAnswer(c, rd, subject, *rng) }
	case rosterCueRe.MatchString(lower):
		run = func(c context.Context) *AssistantResult { return s.rosterAnswer(c, rd) }
	case strings.Contains(lower, "project") && activeProjectCueRe.MatchString(lower):
		run = func(c context.Context) *AssistantResult { return s.projectsAnswer(c, rd) }
	default:
		return nil
	}

	if intent != IntentHybrid {
		return run(ctx)
	}

	// The data and knowledge legs are independent; run them concurrently.
	var dataRes, knowRes *AssistantResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dataRes = run(gctx)
		return nil
	})
	g.Go(func() error {
		knowRes = s.knowledgeAnswer(gctx, rd, message, history, false)
		return nil
	})
	_ = g.Wait()

	if dataRes == nil {
		return nil
	}
	if knowRes != nil && knowRes.Type == "knowledge" {
		dataRes.Type = "hybrid"
		dataRes.KnowledgeSource = knowRes.KnowledgeSource
		if dataRes.ActionLink == nil {
			dataRes.ActionLink = knowRes.ActionLink
		}
	}
	return dataRes
}

func (s *assistantService) scheduleAnswer(ctx context.Context, rd *requestdata.RequestData, subject string, rng DateRange) *AssistantResult {
	employee, err := s.resolvers.FindEmployeeByName(ctx, rd, subject)
	if err != nil {
		return s.resolverErrorResult(err, "schedule")
	}
	if employee == nil {
		return &AssistantResult{
			Type:       "data",
			Answer:     fmt.Sprintf("I couldn't find anyone named %q on your team.", subject),
			Confidence: "low",
		}
	}

	results, err := s.resolvers.ResolveSchedule(ctx, rd, employee, rng)
	if err != nil {
		return s.resolverErrorResult(err, "schedule")
	}

	span := fmt.Sprintf("on %s", rng.Start.Format("Mon Jan 2"))
	if !sameDay(rng.Start, rng.End) {
		span = fmt.Sprintf("between %s and %s", rng.Start.Format("Mon Jan 2"), rng.End.Format("Mon Jan 2"))
	}

	if len(results) == 0 {
		return &AssistantResult{
			Type:       "data",
			Answer:     fmt.Sprintf("%s has no assignments %s.", employee.FullName(), span),
			Data:       []DataResult{},
			Confidence: "medium",
		}
	}
	return &AssistantResult{
		Type:       "data",
		Answer:     fmt.Sprintf("%s has %d %s %s.", employee.FullName(), len(results), plural(len(results), "assignment", "assignments"), span),
		Data:       results,
		ActionLink: &ActionLink{Label: "Open Schedule", Path: "/schedule"},
		Confidence: "high",
	}
}

func (s *assistantService) rosterAnswer(ctx context.Context, rd *requestdata.RequestData) *AssistantResult {
	results, err := s.resolvers.ResolveActiveRoster(ctx, rd, s.now())
	if err != nil {
		return s.resolverErrorResult(err, "timecard")
	}
	if len(results) == 0 {
		return &AssistantResult{
			Type:       "data",
			Answer:     "No one has clocked in yet today.",
			Data:       []DataResult{},
			Confidence: "medium",
		}
	}
	working := 0
	for _, r := range results {
		if r.Details["status"] == "working" {
			working++
		}
	}
	return &AssistantResult{
		Type:       "data",
		Answer:     fmt.Sprintf("%d %s clocked in today; %d still working.", len(results), plural(len(results), "crew member has", "crew members have"), working),
		Data:       results,
		ActionLink: &ActionLink{Label: "Open Timecards", Path: "/timecards"},
		Confidence: "high",
	}
}

func (s *assistantService) projectsAnswer(ctx context.Context, rd *requestdata.RequestData) *AssistantResult {
	results, err := s.resolvers.ResolveActiveProjects(ctx, rd, "")
	if err != nil {
		return s.resolverErrorResult(err, "project")
	}
	if len(results) == 0 {
		return &AssistantResult{
			Type:       "data",
			Answer:     "There are no projects in progress right now.",
			Data:       []DataResult{},
			Confidence: "medium",
		}
	}
	return &AssistantResult{
		Type:       "data",
		Answer:     fmt.Sprintf("You have %d active %s.", len(results), plural(len(results), "project", "projects")),
		Data:       results,
		ActionLink: &ActionLink{Label: "Open Projects", Path: "/projects"},
		Confidence: "high",
	}
}

// resolverErrorResult turns a resolver failure into a user-facing answer: a
// permission message for capability denials, a soft error otherwise.
func (s *assistantService) resolverErrorResult(err error, category string) *AssistantResult {
	if errors.Is(err, ErrPermissionDenied) {
		return &AssistantResult{
			Type:       "data",
			Answer:     fmt.Sprintf("You don't have permission to view %s data. Ask a company owner to adjust your role.", category),
			Confidence: "medium",
		}
	}
	s.log.Warn("Resolver failed", "category", category, "error", err)
	return &AssistantResult{
		Type:       "no_results",
		Answer:     "I couldn't look that up right now. Please try again in a moment.",
		Confidence: "low",
	}
}

func (s *assistantService) notFoundResult() *AssistantResult {
	return &AssistantResult{
		Type:       "no_results",
		Answer:     "I couldn't find anything about that in the help articles. Try rephrasing your question, or browse the help center.",
		ActionLink: &ActionLink{Label: "Open Help Center", Path: "/help"},
		Confidence: "low",
	}
}

func (s *assistantService) fallbackResult() *AssistantResult {
	return &AssistantResult{
		Type:       "no_results",
		Answer:     "I'm not sure what you're asking. I can help with scheduling, time tracking, certifications, projects, billing, and team management.",
		Confidence: "low",
	}
}

func (s *assistantService) unavailableResult() *AssistantResult {
	return &AssistantResult{
		Type:       "no_results",
		Answer:     "I couldn't verify your company account. Please sign in again.",
		Confidence: "low",
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
