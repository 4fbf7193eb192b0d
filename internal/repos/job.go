package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/types"
)

type JobRepo interface {
	ListActive(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, nameFilter string, limit int) ([]*types.Job, error)
}

type jobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
	return &jobRepo{db: db, log: baseLog.With("repo", "JobRepo")}
}

// ListActive returns in-progress jobs newest first, optionally filtered by a
// case-insensitive name substring, capped at limit.
func (r *jobRepo) ListActive(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, nameFilter string, limit int) ([]*types.Job, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Job
	if companyID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 10
	}
	q := t.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyID, types.JobStatusInProgress)
	if nameFilter = strings.TrimSpace(strings.ToLower(nameFilter)); nameFilter != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+nameFilter+"%")
	}
	if err := q.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
