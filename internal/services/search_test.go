package services

import (
	"context"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/onropepro/onrope-backend/internal/types"
)

type stubArticleRepo struct {
	articles []*types.Article
	upserted []*types.Article
	failSlug string
}

func (s *stubArticleRepo) UpsertBySlug(ctx context.Context, tx *gorm.DB, row *types.Article) (*types.Article, error) {
	if s.failSlug != "" && row.Slug == s.failSlug {
		return nil, gorm.ErrInvalidData
	}
	for _, existing := range s.upserted {
		if existing.Slug == row.Slug {
			*existing = *row
			return existing, nil
		}
	}
	s.upserted = append(s.upserted, row)
	return row, nil
}

func (s *stubArticleRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Article, error) {
	for _, a := range s.articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	return nil, nil
}

func (s *stubArticleRepo) ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.Article, error) {
	return s.articles, nil
}

func (s *stubArticleRepo) ListByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.Article, error) {
	var out []*types.Article
	for _, a := range s.articles {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubArticleRepo) ListByAudienceTag(ctx context.Context, tx *gorm.DB, tag string) ([]*types.Article, error) {
	return s.articles, nil
}

func searchCorpus() *stubArticleRepo {
	return &stubArticleRepo{articles: []*types.Article{
		{
			Slug:  "safety-rating",
			Title: "Understanding Your Safety Rating",
			Body:  "# Understanding Your Safety Rating\n\nYour safety rating reflects documented drills and inspections.",
		},
		{
			Slug:  "time-tracking",
			Title: "Time Tracking",
			Body: "# Time Tracking\n\n" + strings.Repeat("The safety word appears here. ", 20) +
				"Clock in from the crew dashboard.",
		},
		{
			Slug:  "billing",
			Title: "Billing and Invoices",
			Body:  "# Billing and Invoices\n\nInvoices are generated monthly from approved timecards.",
		},
	}}
}

func TestSearchTitleOutranksBody(t *testing.T) {
	svc := NewSearchService(testLogger(t), searchCorpus())

	// "safety" occurs far more often in the time-tracking body, but the cap
	// keeps the title match on top.
	results, err := svc.Search(context.Background(), "safety", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Article.Slug != "safety-rating" {
		t.Errorf("expected title match first, got %q", results[0].Article.Slug)
	}
	if results[1].Score != bodyTermCap {
		t.Errorf("expected body score capped at %d, got %d", bodyTermCap, results[1].Score)
	}
}

func TestSearchDropsShortTerms(t *testing.T) {
	svc := NewSearchService(testLogger(t), searchCorpus())

	results, err := svc.Search(context.Background(), "is my an it", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results for short-term-only query, got %d", len(results))
	}
}

func TestSearchNonMatchingExcluded(t *testing.T) {
	svc := NewSearchService(testLogger(t), searchCorpus())

	results, err := svc.Search(context.Background(), "invoices", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Article.Slug != "billing" {
		t.Fatalf("expected only billing, got %d results", len(results))
	}
}

func TestSearchLimit(t *testing.T) {
	svc := NewSearchService(testLogger(t), searchCorpus())

	results, err := svc.Search(context.Background(), "safety timecards invoices clock", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected limit of 1 applied, got %d", len(results))
	}
}

func TestSearchExcerptContainsTerm(t *testing.T) {
	svc := NewSearchService(testLogger(t), searchCorpus())

	results, err := svc.Search(context.Background(), "drills", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected a result for drills")
	}
	if !strings.Contains(strings.ToLower(results[0].Excerpt), "drills") {
		t.Errorf("excerpt %q does not contain the matched term", results[0].Excerpt)
	}
}
