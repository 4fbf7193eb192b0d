package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/repos"
	"github.com/onropepro/onrope-backend/internal/requestdata"
	"github.com/onropepro/onrope-backend/internal/types"
)

// Capabilities gating the data resolvers.
const (
	CapScheduleRead  = "schedule:read"
	CapTimecardsRead = "timecards:read"
	CapProjectsRead  = "projects:read"
)

// ErrPermissionDenied is returned by any resolver invoked without its
// capability. No lookup happens in that case.
var ErrPermissionDenied = errors.New("permission denied")

// DataResult is one structured answer row.
type DataResult struct {
	Category string            `json:"category"`
	Title    string            `json:"title"`
	Subtitle string            `json:"subtitle,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
	Link     string            `json:"link,omitempty"`
}

// ResolverService answers one category of business-data question per method,
// always tenant-scoped to the caller's company. Empty results are values, not
// errors.
type ResolverService interface {
	FindEmployeeByName(ctx context.Context, rd *requestdata.RequestData, name string) (*types.Employee, error)
	ResolveSchedule(ctx context.Context, rd *requestdata.RequestData, employee *types.Employee, rng DateRange) ([]DataResult, error)
	ResolveActiveRoster(ctx context.Context, rd *requestdata.RequestData, now time.Time) ([]DataResult, error)
	ResolveActiveProjects(ctx context.Context, rd *requestdata.RequestData, nameFilter string) ([]DataResult, error)
}

type resolverService struct {
	log            *logger.Logger
	employeeRepo   repos.EmployeeRepo
	assignmentRepo repos.JobAssignmentRepo
	timeEntryRepo  repos.TimeEntryRepo
	jobRepo        repos.JobRepo
}

func NewResolverService(
	log *logger.Logger,
	employeeRepo repos.EmployeeRepo,
	assignmentRepo repos.JobAssignmentRepo,
	timeEntryRepo repos.TimeEntryRepo,
	jobRepo repos.JobRepo,
) ResolverService {
	return &resolverService{
		log:            log.With("service", "ResolverService"),
		employeeRepo:   employeeRepo,
		assignmentRepo: assignmentRepo,
		timeEntryRepo:  timeEntryRepo,
		jobRepo:        jobRepo,
	}
}

// FindEmployeeByName is a fuzzy first-name/last-name/full-name substring
// match returning at most the first hit. Multiple matches are not
// disambiguated; that is a known product limitation, not a bug to fix here.
func (s *resolverService) FindEmployeeByName(ctx context.Context, rd *requestdata.RequestData, name string) (*types.Employee, error) {
	if !rd.HasCapability(CapScheduleRead) {
		return nil, ErrPermissionDenied
	}
	matches, err := s.employeeRepo.SearchByName(ctx, nil, rd.CompanyID, name)
	if err != nil {
		return nil, fmt.Errorf("search employees: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

func (s *resolverService) ResolveSchedule(ctx context.Context, rd *requestdata.RequestData, employee *types.Employee, rng DateRange) ([]DataResult, error) {
	if !rd.HasCapability(CapScheduleRead) {
		return nil, ErrPermissionDenied
	}
	assignments, err := s.assignmentRepo.GetForEmployeeInRange(ctx, nil, rd.CompanyID, employee.ID, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	results := make([]DataResult, 0, len(assignments))
	for _, a := range assignments {
		r := DataResult{
			Category: "schedule",
			Title:    "Assignment",
			Details: map[string]string{
				"start": a.StartDate.Format("2006-01-02"),
				"end":   a.EndDate.Format("2006-01-02"),
			},
			Link: "/schedule",
		}
		if a.Job != nil {
			r.Title = a.Job.Name
			r.Subtitle = a.Job.Location
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *resolverService) ResolveActiveRoster(ctx context.Context, rd *requestdata.RequestData, now time.Time) ([]DataResult, error) {
	if !rd.HasCapability(CapTimecardsRead) {
		return nil, ErrPermissionDenied
	}
	day := dayRange(now)
	entries, err := s.timeEntryRepo.GetForDay(ctx, nil, rd.CompanyID, day.Start, day.End)
	if err != nil {
		return nil, fmt.Errorf("load time entries: %w", err)
	}
	results := make([]DataResult, 0, len(entries))
	for _, e := range entries {
		status := "working"
		if e.ClockOut != nil {
			status = "clocked out"
		}
		r := DataResult{
			Category: "roster",
			Title:    "Crew member",
			Details: map[string]string{
				"clock_in": e.ClockIn.Format("15:04"),
				"status":   status,
			},
			Link: "/timecards",
		}
		if e.Employee != nil {
			r.Title = e.Employee.FullName()
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *resolverService) ResolveActiveProjects(ctx context.Context, rd *requestdata.RequestData, nameFilter string) ([]DataResult, error) {
	if !rd.HasCapability(CapProjectsRead) {
		return nil, ErrPermissionDenied
	}
	jobs, err := s.jobRepo.ListActive(ctx, nil, rd.CompanyID, nameFilter, 10)
	if err != nil {
		return nil, fmt.Errorf("load active jobs: %w", err)
	}
	results := make([]DataResult, 0, len(jobs))
	for _, j := range jobs {
		results = append(results, DataResult{
			Category: "project",
			Title:    j.Name,
			Subtitle: j.Location,
			Details:  map[string]string{"status": j.Status},
			Link:     "/projects",
		})
	}
	return results, nil
}
