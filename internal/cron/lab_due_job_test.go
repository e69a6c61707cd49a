package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	"github.com/angelmondragon/dentio-backend/pkg/logger"
	"github.com/google/uuid"
)

type fakeLabCases struct {
	overdue  []models.LabCase
	err      error
	lastAsOf time.Time
}

func (f *fakeLabCases) ListOverdue(ctx context.Context, asOf time.Time) ([]models.LabCase, error) {
	f.lastAsOf = asOf
	return f.overdue, f.err
}

func TestLabDueJobQueriesWithFrozenClock(t *testing.T) {
	now := time.Date(2025, 7, 15, 8, 0, 0, 0, time.UTC)
	cases := &fakeLabCases{
		overdue: []models.LabCase{
			{ID: uuid.New(), PatientID: uuid.New(), LabName: "ProDent", DueDate: now.Add(-72 * time.Hour)},
		},
	}
	jobIface, err := NewLabDueJob(LabDueJobParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		LabCases: cases,
	})
	if err != nil {
		t.Fatalf("NewLabDueJob: %v", err)
	}
	job, ok := jobIface.(*labDueJob)
	if !ok {
		t.Fatalf("expected labDueJob, got %T", jobIface)
	}
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !cases.lastAsOf.Equal(now) {
		t.Fatalf("expected asOf %s, got %s", now, cases.lastAsOf)
	}
}

func TestLabDueJobPropagatesErrors(t *testing.T) {
	job, err := NewLabDueJob(LabDueJobParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		LabCases: &fakeLabCases{err: errors.New("boom")},
	})
	if err != nil {
		t.Fatalf("NewLabDueJob: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
