package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/services"
	"github.com/onropepro/onrope-backend/internal/types"
)

type stubArticleService struct {
	summaries []services.ArticleSummary
	article   *types.Article
}

func (s *stubArticleService) List(ctx context.Context) ([]services.ArticleSummary, error) {
	return s.summaries, nil
}

func (s *stubArticleService) ListByCategory(ctx context.Context, category string) ([]services.ArticleSummary, error) {
	return s.summaries, nil
}

func (s *stubArticleService) ListByAudienceTag(ctx context.Context, tag string) ([]services.ArticleSummary, error) {
	return s.summaries, nil
}

func (s *stubArticleService) GetBySlug(ctx context.Context, slug string) (*types.Article, error) {
	return s.article, nil
}

type stubSearchService struct {
	results []services.SearchResult
}

func (s *stubSearchService) Search(ctx context.Context, query string, limit int) ([]services.SearchResult, error) {
	return s.results, nil
}

func testArticleRouter(t *testing.T, asvc services.ArticleService, ssvc services.SearchService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	h := NewArticleHandler(log, asvc, ssvc)
	router := gin.New()
	router.GET("/api/articles", h.List)
	router.GET("/api/articles/search", h.Search)
	router.GET("/api/articles/:slug", h.GetBySlug)
	return router
}

func TestArticleSearchRequiresQuery(t *testing.T) {
	router := testArticleRouter(t, &stubArticleService{}, &stubSearchService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/articles/search", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestArticleSearchReturnsExcerpts(t *testing.T) {
	ssvc := &stubSearchService{results: []services.SearchResult{{
		Article: &types.Article{Slug: "safety-rating", Title: "Understanding Your Safety Rating", Category: "safety"},
		Score:   12,
		Excerpt: "Documented drills raise the rating...",
	}}}
	router := testArticleRouter(t, &stubArticleService{}, ssvc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/articles/search?q=safety", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got []searchResult
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "safety-rating" || got[0].Excerpt == "" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestGetArticleNotFound(t *testing.T) {
	router := testArticleRouter(t, &stubArticleService{}, &stubSearchService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/articles/missing", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
