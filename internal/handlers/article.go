package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/services"
)

type ArticleHandler struct {
	log            *logger.Logger
	articleService services.ArticleService
	searchService  services.SearchService
}

func NewArticleHandler(log *logger.Logger, asvc services.ArticleService, ssvc services.SearchService) *ArticleHandler {
	return &ArticleHandler{
		log:            log.With("handler", "ArticleHandler"),
		articleService: asvc,
		searchService:  ssvc,
	}
}

// GET /api/articles
// Lists published articles without bodies. Supports ?category= and
// ?audience= filters; category wins when both are given.
func (h *ArticleHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if category := c.Query("category"); category != "" {
		out, err := h.articleService.ListByCategory(ctx, category)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "list_failed", err)
			return
		}
		RespondOK(c, out)
		return
	}
	if audience := c.Query("audience"); audience != "" {
		out, err := h.articleService.ListByAudienceTag(ctx, audience)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "list_failed", err)
			return
		}
		RespondOK(c, out)
		return
	}

	out, err := h.articleService.List(ctx)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, out)
}

type searchResult struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Score    int    `json:"score"`
	Excerpt  string `json:"excerpt"`
}

// GET /api/articles/search?q=&limit=
func (h *ArticleHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("q is required"))
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	results, err := h.searchService.Search(c.Request.Context(), q, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}
	out := make([]searchResult, 0, len(results))
	for _, r := range results {
		out = append(out, searchResult{
			Slug:     r.Article.Slug,
			Title:    r.Article.Title,
			Category: r.Article.Category,
			Score:    r.Score,
			Excerpt:  r.Excerpt,
		})
	}
	RespondOK(c, out)
}

// GET /api/articles/:slug
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	article, err := h.articleService.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	if article == nil {
		RespondError(c, http.StatusNotFound, "not_found", errors.New("article not found"))
		return
	}
	RespondOK(c, article)
}
