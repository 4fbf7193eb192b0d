package services

import (
	"context"
	"testing"

	"github.com/onropepro/onrope-backend/internal/content"
)

func TestReindexUpsertsEveryEntry(t *testing.T) {
	log := testLogger(t)
	repo := &stubArticleRepo{}
	svc := NewIndexerService(log, NewExtractor(log), repo)

	entries, err := content.LoadRegistry()
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}

	report, err := svc.Reindex(context.Background())
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if report.Succeeded != len(entries) || report.Failed != 0 {
		t.Errorf("report = %+v, want %d succeeded and 0 failed", report, len(entries))
	}
	if len(repo.upserted) != len(entries) {
		t.Errorf("upserted %d articles, want %d", len(repo.upserted), len(entries))
	}
	for i, a := range repo.upserted {
		if a.Slug != entries[i].Slug {
			t.Errorf("upsert %d has slug %q, want registry order slug %q", i, a.Slug, entries[i].Slug)
		}
		if a.Title == "" || a.Body == "" || a.SourceRef == "" {
			t.Errorf("article %q is missing extracted fields", a.Slug)
		}
	}
}

func TestReindexTwiceDoesNotDuplicate(t *testing.T) {
	log := testLogger(t)
	repo := &stubArticleRepo{}
	svc := NewIndexerService(log, NewExtractor(log), repo)

	if _, err := svc.Reindex(context.Background()); err != nil {
		t.Fatalf("first Reindex: %v", err)
	}
	first := len(repo.upserted)

	if _, err := svc.Reindex(context.Background()); err != nil {
		t.Fatalf("second Reindex: %v", err)
	}
	if len(repo.upserted) != first {
		t.Errorf("second reindex grew the corpus from %d to %d articles", first, len(repo.upserted))
	}
}

func TestReindexCountsFailuresAndContinues(t *testing.T) {
	log := testLogger(t)
	repo := &stubArticleRepo{failSlug: "billing"}
	svc := NewIndexerService(log, NewExtractor(log), repo)

	entries, err := content.LoadRegistry()
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}

	report, err := svc.Reindex(context.Background())
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if report.Failed != 1 {
		t.Errorf("report.Failed = %d, want 1", report.Failed)
	}
	if report.Succeeded != len(entries)-1 {
		t.Errorf("report.Succeeded = %d, want %d", report.Succeeded, len(entries)-1)
	}
}
