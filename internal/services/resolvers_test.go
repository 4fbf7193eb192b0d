package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onropepro/onrope-backend/internal/requestdata"
	"github.com/onropepro/onrope-backend/internal/types"
)

type countingEmployeeRepo struct {
	calls   int
	matches []*types.Employee
}

func (r *countingEmployeeRepo) GetByID(ctx context.Context, tx *gorm.DB, companyID, id uuid.UUID) (*types.Employee, error) {
	r.calls++
	return nil, nil
}

func (r *countingEmployeeRepo) SearchByName(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, query string) ([]*types.Employee, error) {
	r.calls++
	return r.matches, nil
}

type countingAssignmentRepo struct{ calls int }

func (r *countingAssignmentRepo) GetForEmployeeInRange(ctx context.Context, tx *gorm.DB, companyID, employeeID uuid.UUID, start, end time.Time) ([]*types.JobAssignment, error) {
	r.calls++
	return nil, nil
}

type countingTimeEntryRepo struct{ calls int }

func (r *countingTimeEntryRepo) GetForDay(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, dayStart, dayEnd time.Time) ([]*types.TimeEntry, error) {
	r.calls++
	return nil, nil
}

type countingJobRepo struct{ calls int }

func (r *countingJobRepo) ListActive(ctx context.Context, tx *gorm.DB, companyID uuid.UUID, nameFilter string, limit int) ([]*types.Job, error) {
	r.calls++
	return nil, nil
}

func TestResolversDenyWithoutCapability(t *testing.T) {
	employeeRepo := &countingEmployeeRepo{}
	assignmentRepo := &countingAssignmentRepo{}
	timeEntryRepo := &countingTimeEntryRepo{}
	jobRepo := &countingJobRepo{}
	svc := NewResolverService(testLogger(t), employeeRepo, assignmentRepo, timeEntryRepo, jobRepo)

	rd := &requestdata.RequestData{
		UserID:       uuid.New(),
		CompanyID:    uuid.New(),
		Role:         "viewer",
		Capabilities: map[string]bool{},
	}
	ctx := context.Background()
	employee := &types.Employee{ID: uuid.New(), FirstName: "Maria", LastName: "Lopez"}
	rng := DateRange{Start: time.Now(), End: time.Now()}

	if _, err := svc.FindEmployeeByName(ctx, rd, "maria"); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("FindEmployeeByName error = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.ResolveSchedule(ctx, rd, employee, rng); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("ResolveSchedule error = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.ResolveActiveRoster(ctx, rd, time.Now()); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("ResolveActiveRoster error = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.ResolveActiveProjects(ctx, rd, ""); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("ResolveActiveProjects error = %v, want ErrPermissionDenied", err)
	}

	// Denial happens before any lookup.
	total := employeeRepo.calls + assignmentRepo.calls + timeEntryRepo.calls + jobRepo.calls
	if total != 0 {
		t.Errorf("repos were called %d times despite missing capabilities", total)
	}
}

func TestFindEmployeeByNameFirstMatchOnly(t *testing.T) {
	employeeRepo := &countingEmployeeRepo{matches: []*types.Employee{
		{ID: uuid.New(), FirstName: "Mario", LastName: "Benetti"},
		{ID: uuid.New(), FirstName: "Maria", LastName: "Lopez"},
	}}
	svc := NewResolverService(testLogger(t), employeeRepo, &countingAssignmentRepo{}, &countingTimeEntryRepo{}, &countingJobRepo{})

	rd := &requestdata.RequestData{
		CompanyID:    uuid.New(),
		Capabilities: map[string]bool{CapScheduleRead: true},
	}
	got, err := svc.FindEmployeeByName(context.Background(), rd, "mari")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || got.FullName() != "Mario Benetti" {
		t.Errorf("expected the first match returned, got %+v", got)
	}
}
