package services

import (
	"context"
	"fmt"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/repos"
	"github.com/onropepro/onrope-backend/internal/types"
)

// ArticleSummary is an article without its body, for list views.
type ArticleSummary struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type ArticleService interface {
	List(ctx context.Context) ([]ArticleSummary, error)
	ListByCategory(ctx context.Context, category string) ([]ArticleSummary, error)
	ListByAudienceTag(ctx context.Context, tag string) ([]ArticleSummary, error)
	GetBySlug(ctx context.Context, slug string) (*types.Article, error)
}

type articleService struct {
	log         *logger.Logger
	articleRepo repos.ArticleRepo
}

func NewArticleService(log *logger.Logger, articleRepo repos.ArticleRepo) ArticleService {
	return &articleService{
		log:         log.With("service", "ArticleService"),
		articleRepo: articleRepo,
	}
}

func (s *articleService) List(ctx context.Context) ([]ArticleSummary, error) {
	articles, err := s.articleRepo.ListPublished(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	return summarize(articles), nil
}

func (s *articleService) ListByCategory(ctx context.Context, category string) ([]ArticleSummary, error) {
	articles, err := s.articleRepo.ListByCategory(ctx, nil, category)
	if err != nil {
		return nil, fmt.Errorf("listing articles by category: %w", err)
	}
	return summarize(articles), nil
}

func (s *articleService) ListByAudienceTag(ctx context.Context, tag string) ([]ArticleSummary, error) {
	articles, err := s.articleRepo.ListByAudienceTag(ctx, nil, tag)
	if err != nil {
		return nil, fmt.Errorf("listing articles by audience: %w", err)
	}
	return summarize(articles), nil
}

func (s *articleService) GetBySlug(ctx context.Context, slug string) (*types.Article, error) {
	article, err := s.articleRepo.GetBySlug(ctx, nil, slug)
	if err != nil {
		return nil, fmt.Errorf("getting article %q: %w", slug, err)
	}
	return article, nil
}

func summarize(articles []*types.Article) []ArticleSummary {
	out := make([]ArticleSummary, 0, len(articles))
	for _, a := range articles {
		out = append(out, ArticleSummary{
			Slug:        a.Slug,
			Title:       a.Title,
			Description: a.Description,
			Category:    a.Category,
		})
	}
	return out
}
