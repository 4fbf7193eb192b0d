package types

import (
	"time"

	"github.com/google/uuid"
)

// TimeEntry is one clock-in/clock-out session. A nil ClockOut means the
// employee is still on the clock.
type TimeEntry struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee   *Employee  `gorm:"foreignKey:EmployeeID;references:ID;constraint:OnDelete:CASCADE" json:"employee,omitempty"`
	JobID      *uuid.UUID `gorm:"type:uuid;index" json:"job_id,omitempty"`
	ClockIn    time.Time  `gorm:"not null;index" json:"clock_in"`
	ClockOut   *time.Time `json:"clock_out,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

func (TimeEntry) TableName() string {
	return "time_entry"
}
