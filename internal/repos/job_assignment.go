package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/types"
)

type JobAssignmentRepo interface {
	GetForEmployeeInRange(ctx context.Context, tx *gorm.DB, companyID, employeeID uuid.UUID, start, end time.Time) ([]*types.JobAssignment, error)
}

type jobAssignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) JobAssignmentRepo {
	return &jobAssignmentRepo{db: db, log: baseLog.With("repo", "JobAssignmentRepo")}
}

// GetForEmployeeInRange returns every assignment whose inclusive date span
// intersects [start, end], with the parent job preloaded.
func (r *jobAssignmentRepo) GetForEmployeeInRange(ctx context.Context, tx *gorm.DB, companyID, employeeID uuid.UUID, start, end time.Time) ([]*types.JobAssignment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.JobAssignment
	if companyID == uuid.Nil || employeeID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Preload("Job").
		Where("company_id = ? AND employee_id = ?", companyID, employeeID).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
