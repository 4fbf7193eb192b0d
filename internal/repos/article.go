package repos

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/types"
)

type ArticleRepo interface {
	UpsertBySlug(ctx context.Context, tx *gorm.DB, row *types.Article) (*types.Article, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Article, error)
	ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.Article, error)
	ListByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.Article, error)
	ListByAudienceTag(ctx context.Context, tx *gorm.DB, tag string) ([]*types.Article, error)
}

type articleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArticleRepo(db *gorm.DB, baseLog *logger.Logger) ArticleRepo {
	return &articleRepo{db: db, log: baseLog.With("repo", "ArticleRepo")}
}

// UpsertBySlug updates every content field of an existing row with the same
// slug, or inserts a new one. Reindexing the same source twice therefore never
// duplicates an article.
func (r *articleRepo) UpsertBySlug(ctx context.Context, tx *gorm.DB, row *types.Article) (*types.Article, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.Slug == "" {
		return nil, errors.New("article upsert requires a slug")
	}

	var existing types.Article
	err := t.WithContext(ctx).Where("slug = ?", row.Slug).First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"title":         row.Title,
			"description":   row.Description,
			"body":          row.Body,
			"category":      row.Category,
			"audience_tags": row.AudienceTags,
			"source_ref":    row.SourceRef,
			"published":     row.Published,
			"updated_at":    time.Now().UTC(),
		}
		if err := t.WithContext(ctx).Model(&types.Article{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return nil, err
		}
		row.ID = existing.ID
		return row, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if err := t.WithContext(ctx).Create(row).Error; err != nil {
			return nil, err
		}
		return row, nil
	default:
		return nil, err
	}
}

func (r *articleRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Article, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if slug == "" {
		return nil, nil
	}
	var row types.Article
	if err := t.WithContext(ctx).Where("slug = ? AND published = ?", slug, true).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *articleRepo) ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.Article, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Article
	if err := t.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *articleRepo) ListByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.Article, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Article
	if category == "" {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("published = ? AND category = ?", true, category).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListByAudienceTag filters in memory. The corpus is a fixed registry of at
// most a few dozen articles, so a portable scan beats driver-specific JSON
// operators here.
func (r *articleRepo) ListByAudienceTag(ctx context.Context, tx *gorm.DB, tag string) ([]*types.Article, error) {
	if tag == "" {
		return nil, nil
	}
	rows, err := r.ListPublished(ctx, tx)
	if err != nil {
		return nil, err
	}
	var out []*types.Article
	for _, row := range rows {
		var tags []string
		if len(row.AudienceTags) > 0 {
			if err := json.Unmarshal(row.AudienceTags, &tags); err != nil {
				r.log.Warn("Failed to parse audience tags", "slug", row.Slug, "error", err)
				continue
			}
		}
		for _, have := range tags {
			if have == tag {
				out = append(out, row)
				break
			}
		}
	}
	return out, nil
}
