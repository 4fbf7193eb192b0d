package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/repos"
	"github.com/onropepro/onrope-backend/internal/types"
)

const (
	// titleTermWeight is the score for a query term appearing in the title.
	titleTermWeight = 10
	// bodyTermCap caps per-term body occurrences so keyword stuffing cannot
	// outrank a title match.
	bodyTermCap = 5

	excerptLength = 200
)

// SearchResult is one ranked article with a short excerpt for display.
type SearchResult struct {
	Article *types.Article `json:"article"`
	Score   int            `json:"score"`
	Excerpt string         `json:"excerpt"`
}

// SearchService ranks the published corpus against a free-text query with a
// deliberately plain lexical heuristic: no embeddings, no document-frequency
// weighting. Ranking must stay reproducible from the two constants above.
type SearchService interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

type searchService struct {
	log         *logger.Logger
	articleRepo repos.ArticleRepo
}

func NewSearchService(log *logger.Logger, articleRepo repos.ArticleRepo) SearchService {
	return &searchService{
		log:         log.With("service", "SearchService"),
		articleRepo: articleRepo,
	}
}

func (s *searchService) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}
	terms := queryTerms(query)
	if len(terms) == 0 {
		return []SearchResult{}, nil
	}

	articles, err := s.articleRepo.ListPublished(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list published articles: %w", err)
	}

	results := make([]SearchResult, 0, len(articles))
	for _, a := range articles {
		score := scoreArticle(a, terms)
		if score == 0 {
			continue
		}
		results = append(results, SearchResult{
			Article: a,
			Score:   score,
			Excerpt: makeExcerpt(a.Body, terms),
		})
	}

	// Stable: ties keep storage order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// queryTerms lowercases and splits the query, dropping noise terms of one or
// two characters.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?\"'()")
		if len(f) <= 2 {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

func scoreArticle(a *types.Article, terms []string) int {
	title := strings.ToLower(a.Title)
	body := strings.ToLower(a.Body)
	score := 0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += titleTermWeight
		}
		if n := strings.Count(body, term); n > 0 {
			if n > bodyTermCap {
				n = bodyTermCap
			}
			score += n
		}
	}
	return score
}

// makeExcerpt returns roughly excerptLength characters around the first term
// occurrence, cut at word boundaries.
func makeExcerpt(body string, terms []string) string {
	plain := collapseWhitespace(stripMarkdown(body))
	if plain == "" {
		return ""
	}
	lower := strings.ToLower(plain)

	at := -1
	for _, term := range terms {
		if i := strings.Index(lower, term); i >= 0 && (at == -1 || i < at) {
			at = i
		}
	}
	if at == -1 {
		at = 0
	}

	start := at - excerptLength/4
	if start < 0 {
		start = 0
	}
	end := start + excerptLength
	if end > len(plain) {
		end = len(plain)
		start = end - excerptLength
		if start < 0 {
			start = 0
		}
	}

	excerpt := plain[start:end]
	if start > 0 {
		if i := strings.IndexByte(excerpt, ' '); i >= 0 {
			excerpt = excerpt[i+1:]
		}
		excerpt = "..." + excerpt
	}
	if end < len(plain) {
		if i := strings.LastIndexByte(excerpt, ' '); i >= 0 {
			excerpt = excerpt[:i]
		}
		excerpt += "..."
	}
	return excerpt
}

var markdownMarkRe = regexp.MustCompile(`(?m)^#{1,6}\s+|[*_]{1,2}|^- `)

func stripMarkdown(s string) string {
	return markdownMarkRe.ReplaceAllString(s, "")
}
