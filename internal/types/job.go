package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusScheduled  = "scheduled"
	JobStatusInProgress = "in_progress"
	JobStatusOnHold     = "on_hold"
	JobStatusCompleted  = "completed"
)

// Job is one rope-access project: a site with a status and a crew assigned
// through JobAssignment rows.
type Job struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Location  string    `gorm:"size:255" json:"location"`
	Status    string    `gorm:"size:32;not null;index" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Job) TableName() string {
	return "job"
}
