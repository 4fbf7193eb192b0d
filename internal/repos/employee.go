package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/types"
)

type EmployeeRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, companyID, id uuid.UUID) (*types.Employee, error)
	SearchByName(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, query string) ([]*types.Employee, error)
}

type employeeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmployeeRepo(db *gorm.DB, baseLog *logger.Logger) EmployeeRepo {
	return &employeeRepo{db: db, log: baseLog.With("repo", "EmployeeRepo")}
}

func (r *employeeRepo) GetByID(ctx context.Context, tx *gorm.DB, companyID, id uuid.UUID) (*types.Employee, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if companyID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var row types.Employee
	if err := t.WithContext(ctx).Where("company_id = ? AND id = ?", companyID, id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// SearchByName matches a case-insensitive substring against the first name,
// the last name, or the "first last" concatenation, scoped to one company.
func (r *employeeRepo) SearchByName(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, query string) ([]*types.Employee, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Employee
	query = strings.TrimSpace(strings.ToLower(query))
	if companyID == uuid.Nil || query == "" {
		return out, nil
	}
	pattern := "%" + query + "%"
	if err := t.WithContext(ctx).
		Where("company_id = ? AND active = ?", companyID, true).
		Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(first_name || ' ' || last_name) LIKE ?",
			pattern, pattern, pattern,
		).
		Order("last_name ASC, first_name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
