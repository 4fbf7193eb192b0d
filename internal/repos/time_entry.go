package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/types"
)

type TimeEntryRepo interface {
	GetForDay(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, dayStart, dayEnd time.Time) ([]*types.TimeEntry, error)
}

type timeEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTimeEntryRepo(db *gorm.DB, baseLog *logger.Logger) TimeEntryRepo {
	return &timeEntryRepo{db: db, log: baseLog.With("repo", "TimeEntryRepo")}
}

// GetForDay returns open and closed sessions that clocked in during the day,
// with the employee preloaded.
func (r *timeEntryRepo) GetForDay(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, dayStart, dayEnd time.Time) ([]*types.TimeEntry, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.TimeEntry
	if companyID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Preload("Employee").
		Where("company_id = ? AND clock_in >= ? AND clock_in <= ?", companyID, dayStart, dayEnd).
		Order("clock_in ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
