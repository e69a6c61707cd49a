package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/dentio-backend/pkg/db/models"
	"github.com/angelmondragon/dentio-backend/pkg/logger"
)

type labCaseSweeper interface {
	ListOverdue(ctx context.Context, asOf time.Time) ([]models.LabCase, error)
}

// LabDueJobParams configures the overdue lab case sweep.
type LabDueJobParams struct {
	Logger   *logger.Logger
	LabCases labCaseSweeper
}

// NewLabDueJob constructs the sweep that flags lab cases still marked sent
// after their due date.
func NewLabDueJob(params LabDueJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.LabCases == nil {
		return nil, fmt.Errorf("lab case sweeper required")
	}
	return &labDueJob{
		logg:     params.Logger,
		labCases: params.LabCases,
		now:      time.Now,
	}, nil
}

type labDueJob struct {
	logg     *logger.Logger
	labCases labCaseSweeper
	now      func() time.Time
}

func (j *labDueJob) Name() string { return "lab-due-sweep" }

func (j *labDueJob) Run(ctx context.Context) error {
	overdue, err := j.labCases.ListOverdue(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("list overdue lab cases: %w", err)
	}

	for _, labCase := range overdue {
		caseCtx := j.logg.WithFields(ctx, map[string]any{
			"lab_case_id": labCase.ID,
			"patient_id":  labCase.PatientID,
			"lab_name":    labCase.LabName,
			"due_date":    labCase.DueDate.Format("2006-01-02"),
		})
		j.logg.Warn(caseCtx, "lab case past due and not yet received")
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"overdue_cases": len(overdue)})
	j.logg.Info(logCtx, "lab due sweep complete")
	return nil
}
