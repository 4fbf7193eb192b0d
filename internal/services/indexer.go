package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/onropepro/onrope-backend/internal/content"
	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/repos"
	"github.com/onropepro/onrope-backend/internal/types"
)

// IndexReport summarizes one reindex run.
type IndexReport struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// IndexerService walks the embedded content registry, extracts each source
// into an article draft, and upserts it by slug. A failing entry is counted
// and skipped; it never aborts the run.
type IndexerService interface {
	Reindex(ctx context.Context) (*IndexReport, error)
}

type indexerService struct {
	log         *logger.Logger
	extractor   *Extractor
	articleRepo repos.ArticleRepo
}

func NewIndexerService(log *logger.Logger, extractor *Extractor, articleRepo repos.ArticleRepo) IndexerService {
	return &indexerService{
		log:         log.With("service", "IndexerService"),
		extractor:   extractor,
		articleRepo: articleRepo,
	}
}

func (s *indexerService) Reindex(ctx context.Context) (*IndexReport, error) {
	entries, err := content.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("loading content registry: %w", err)
	}

	report := &IndexReport{}
	for _, entry := range entries {
		draft, err := s.extractor.Extract(entry)
		if err != nil {
			s.log.Warn("Skipping source", "slug", entry.Slug, "source", entry.SourceRef(), "error", err)
			report.Failed++
			continue
		}

		audience, err := json.Marshal(entry.Audience)
		if err != nil {
			s.log.Warn("Skipping source", "slug", entry.Slug, "error", err)
			report.Failed++
			continue
		}

		row := &types.Article{
			Slug:         entry.Slug,
			Title:        draft.Title,
			Description:  draft.Description,
			Body:         draft.Body,
			Category:     entry.Category,
			AudienceTags: datatypes.JSON(audience),
			SourceRef:    entry.SourceRef(),
			Published:    true,
		}
		if _, err := s.articleRepo.UpsertBySlug(ctx, nil, row); err != nil {
			s.log.Warn("Failed to upsert article", "slug", entry.Slug, "error", err)
			report.Failed++
			continue
		}
		report.Succeeded++
	}

	s.log.Info("Reindex complete", "succeeded", report.Succeeded, "failed", report.Failed)
	return report, nil
}
