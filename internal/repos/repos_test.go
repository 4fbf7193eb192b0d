package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/types"
)

func testDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.Article{},
		&types.Employee{},
		&types.Job{},
		&types.JobAssignment{},
		&types.TimeEntry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db, log
}

func TestArticleUpsertBySlugIsIdempotent(t *testing.T) {
	db, log := testDB(t)
	repo := NewArticleRepo(db, log)
	ctx := context.Background()

	first, err := repo.UpsertBySlug(ctx, nil, &types.Article{
		Slug:  "safety-rating",
		Title: "Safety Rating",
		Body:  "original body",
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := repo.UpsertBySlug(ctx, nil, &types.Article{
		Slug:  "safety-rating",
		Title: "Safety Rating, Revised",
		Body:  "revised body",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second upsert created a new row: %s != %s", second.ID, first.ID)
	}

	var count int64
	db.Model(&types.Article{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 row after re-upsert, got %d", count)
	}

	got, err := repo.GetBySlug(ctx, nil, "safety-rating")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Safety Rating, Revised" || got.Body != "revised body" {
		t.Errorf("upsert did not update fields: %+v", got)
	}
}

func TestArticleGetBySlugSkipsUnpublished(t *testing.T) {
	db, log := testDB(t)
	repo := NewArticleRepo(db, log)
	ctx := context.Background()

	row := &types.Article{ID: uuid.New(), Slug: "draft", Title: "Draft", Body: "b", Published: false}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := repo.GetBySlug(ctx, nil, "draft")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("unpublished article should not be returned, got %+v", got)
	}
}

func TestEmployeeSearchByName(t *testing.T) {
	db, log := testDB(t)
	repo := NewEmployeeRepo(db, log)
	ctx := context.Background()
	companyID := uuid.New()

	seed := []types.Employee{
		{ID: uuid.New(), CompanyID: companyID, FirstName: "Maria", LastName: "Lopez", Active: true},
		{ID: uuid.New(), CompanyID: companyID, FirstName: "Mario", LastName: "Benetti", Active: true},
		{ID: uuid.New(), CompanyID: companyID, FirstName: "Maria", LastName: "Inactive", Active: false},
		{ID: uuid.New(), CompanyID: uuid.New(), FirstName: "Maria", LastName: "OtherCo", Active: true},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"first name prefix", "mari", []string{"Mario Benetti", "Maria Lopez"}},
		{"exact first name", "maria", []string{"Maria Lopez"}},
		{"full name", "maria lopez", []string{"Maria Lopez"}},
		{"last name", "benetti", []string{"Mario Benetti"}},
		{"no match", "zebulon", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.SearchByName(ctx, nil, companyID, tt.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d matches, want %d", len(got), len(tt.want))
			}
			for i, e := range got {
				if e.FullName() != tt.want[i] {
					t.Errorf("match %d = %q, want %q", i, e.FullName(), tt.want[i])
				}
			}
		})
	}
}

func TestJobAssignmentRangeIntersection(t *testing.T) {
	db, log := testDB(t)
	repo := NewJobAssignmentRepo(db, log)
	ctx := context.Background()
	companyID := uuid.New()
	employeeID := uuid.New()

	job := types.Job{ID: uuid.New(), CompanyID: companyID, Name: "Harbour Tower", Status: types.JobStatusInProgress}
	if err := db.Create(&job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}

	day := func(d int) time.Time { return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC) }
	seed := []types.JobAssignment{
		{ID: uuid.New(), CompanyID: companyID, JobID: job.ID, EmployeeID: employeeID, StartDate: day(1), EndDate: day(10)},
		{ID: uuid.New(), CompanyID: companyID, JobID: job.ID, EmployeeID: employeeID, StartDate: day(15), EndDate: day(20)},
		{ID: uuid.New(), CompanyID: companyID, JobID: job.ID, EmployeeID: uuid.New(), StartDate: day(1), EndDate: day(31)},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	// The window [8, 16] overlaps both of the employee's assignments.
	got, err := repo.GetForEmployeeInRange(ctx, nil, companyID, employeeID, day(8), day(16))
	if err != nil {
		t.Fatalf("range query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d assignments, want 2", len(got))
	}
	if got[0].Job == nil || got[0].Job.Name != "Harbour Tower" {
		t.Errorf("expected the job preloaded, got %+v", got[0].Job)
	}

	// The window [11, 14] falls in the gap.
	got, err = repo.GetForEmployeeInRange(ctx, nil, companyID, employeeID, day(11), day(14))
	if err != nil {
		t.Fatalf("range query: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d assignments in the gap, want 0", len(got))
	}

	// An inclusive boundary: window ending exactly on a start date matches.
	got, err = repo.GetForEmployeeInRange(ctx, nil, companyID, employeeID, day(11), day(15))
	if err != nil {
		t.Fatalf("range query: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d assignments on the boundary, want 1", len(got))
	}
}

func TestTimeEntryGetForDay(t *testing.T) {
	db, log := testDB(t)
	repo := NewTimeEntryRepo(db, log)
	ctx := context.Background()
	companyID := uuid.New()

	emp := types.Employee{ID: uuid.New(), CompanyID: companyID, FirstName: "Dave", LastName: "Hong", Active: true}
	if err := db.Create(&emp).Error; err != nil {
		t.Fatalf("seed employee: %v", err)
	}

	dayStart := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Second)
	out := dayStart.Add(15 * time.Hour)

	seed := []types.TimeEntry{
		{ID: uuid.New(), CompanyID: companyID, EmployeeID: emp.ID, ClockIn: dayStart.Add(7 * time.Hour)},
		{ID: uuid.New(), CompanyID: companyID, EmployeeID: emp.ID, ClockIn: dayStart.Add(6 * time.Hour), ClockOut: &out},
		{ID: uuid.New(), CompanyID: companyID, EmployeeID: emp.ID, ClockIn: dayStart.AddDate(0, 0, -1)},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := repo.GetForDay(ctx, nil, companyID, dayStart, dayEnd)
	if err != nil {
		t.Fatalf("get for day: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if !got[0].ClockIn.Before(got[1].ClockIn) {
		t.Error("entries should be ordered by clock-in time")
	}
	if got[0].Employee == nil || got[0].Employee.FullName() != "Dave Hong" {
		t.Errorf("expected the employee preloaded, got %+v", got[0].Employee)
	}
}

func TestJobListActive(t *testing.T) {
	db, log := testDB(t)
	repo := NewJobRepo(db, log)
	ctx := context.Background()
	companyID := uuid.New()

	seed := []types.Job{
		{ID: uuid.New(), CompanyID: companyID, Name: "Harbour Tower", Status: types.JobStatusInProgress},
		{ID: uuid.New(), CompanyID: companyID, Name: "Mill Street Facade", Status: types.JobStatusInProgress},
		{ID: uuid.New(), CompanyID: companyID, Name: "Old Silo", Status: types.JobStatusCompleted},
		{ID: uuid.New(), CompanyID: uuid.New(), Name: "OtherCo Tower", Status: types.JobStatusInProgress},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := repo.ListActive(ctx, nil, companyID, "", 10)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d jobs, want 2", len(got))
	}

	got, err = repo.ListActive(ctx, nil, companyID, "mill", 10)
	if err != nil {
		t.Fatalf("list active filtered: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Mill Street Facade" {
		t.Errorf("filter should match by lowercased name, got %+v", got)
	}
}
