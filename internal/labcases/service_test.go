package labcases

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/dentio-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newLabCaseTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:labcases_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE lab_cases (
  id TEXT PRIMARY KEY,
  patient_id TEXT NOT NULL,
  lab_name TEXT NOT NULL,
  tooth_number INTEGER,
  instruction_notes TEXT,
  due_date DATE NOT NULL,
  status TEXT NOT NULL DEFAULT 'sent',
  received_date DATE,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

type stubPatients struct {
	exists bool
}

func (s stubPatients) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists, nil
}

func newLabCaseService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), stubPatients{exists: true})
	require.NoError(t, err)
	return svc
}

func dueOn(day int) time.Time {
	return time.Date(2025, time.May, day, 0, 0, 0, 0, time.UTC)
}

func TestLabCaseLifecycle(t *testing.T) {
	t.Parallel()

	db := newLabCaseTestDB(t)
	svc := newLabCaseService(t, db)

	created, err := svc.Create(context.Background(), CreateInput{
		PatientID: uuid.New(),
		LabName:   "ProDent Lab",
		DueDate:   dueOn(20),
	})
	require.NoError(t, err)
	require.Equal(t, enums.LabCaseStatusSent, created.Status)
	require.Nil(t, created.ReceivedDate)

	received, err := svc.UpdateStatus(context.Background(), created.ID, enums.LabCaseStatusReceived)
	require.NoError(t, err)
	require.Equal(t, enums.LabCaseStatusReceived, received.Status)
	require.NotNil(t, received.ReceivedDate)

	delivered, err := svc.UpdateStatus(context.Background(), created.ID, enums.LabCaseStatusDelivered)
	require.NoError(t, err)
	require.Equal(t, enums.LabCaseStatusDelivered, delivered.Status)
	// Delivery keeps the original received stamp.
	require.NotNil(t, delivered.ReceivedDate)
}

func TestLabCaseListOverdue(t *testing.T) {
	t.Parallel()

	db := newLabCaseTestDB(t)
	svc := newLabCaseService(t, db)
	patient := uuid.New()

	late, err := svc.Create(context.Background(), CreateInput{PatientID: patient, LabName: "A", DueDate: dueOn(5)})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{PatientID: patient, LabName: "B", DueDate: dueOn(25)})
	require.NoError(t, err)
	lateButBack, err := svc.Create(context.Background(), CreateInput{PatientID: patient, LabName: "C", DueDate: dueOn(3)})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), lateButBack.ID, enums.LabCaseStatusReceived)
	require.NoError(t, err)

	overdue, err := svc.ListOverdue(context.Background(), dueOn(10))
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, late.ID, overdue[0].ID)
}

func TestLabCaseValidation(t *testing.T) {
	t.Parallel()

	db := newLabCaseTestDB(t)
	svc := newLabCaseService(t, db)

	_, err := svc.Create(context.Background(), CreateInput{LabName: "A", DueDate: dueOn(1)})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Create(context.Background(), CreateInput{PatientID: uuid.New(), DueDate: dueOn(1)})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), CreateInput{PatientID: uuid.New(), LabName: "A"})
	require.Error(t, err)

	_, err = svc.UpdateStatus(context.Background(), uuid.New(), enums.LabCaseStatus("lost"))
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestLabCaseUnknownPatient(t *testing.T) {
	t.Parallel()

	db := newLabCaseTestDB(t)
	svc, err := NewService(NewRepository(db), stubPatients{exists: false})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{
		PatientID: uuid.New(),
		LabName:   "ProDent Lab",
		DueDate:   dueOn(1),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
