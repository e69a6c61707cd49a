package patients

import (
	"context"
	"testing"

	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newPatientTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:patients_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE patients (
  id TEXT PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  email TEXT,
  birth_date DATE,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func newPatientService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestPatientCreateGetUpdate(t *testing.T) {
	t.Parallel()

	db := newPatientTestDB(t)
	svc := newPatientService(t, db)

	phone := "555-0100"
	created, err := svc.Create(context.Background(), CreateInput{
		FirstName: "Maria",
		LastName:  "Lopez",
		Phone:     &phone,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Maria", got.FirstName)
	require.Equal(t, &phone, got.Phone)

	updated, err := svc.Update(context.Background(), created.ID, CreateInput{
		FirstName: "Maria",
		LastName:  "Lopez-Vega",
	})
	require.NoError(t, err)
	require.Equal(t, "Lopez-Vega", updated.LastName)
	require.Nil(t, updated.Phone)
}

func TestPatientExists(t *testing.T) {
	t.Parallel()

	db := newPatientTestDB(t)
	svc := newPatientService(t, db)

	created, err := svc.Create(context.Background(), CreateInput{FirstName: "Ana", LastName: "Cruz"})
	require.NoError(t, err)

	exists, err := svc.Exists(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = svc.Exists(context.Background(), uuid.New())
	require.NoError(t, err)
	require.False(t, exists)

	exists, err = svc.Exists(context.Background(), uuid.Nil)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestPatientValidation(t *testing.T) {
	t.Parallel()

	db := newPatientTestDB(t)
	svc := newPatientService(t, db)

	_, err := svc.Create(context.Background(), CreateInput{FirstName: "  ", LastName: "Cruz"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestPatientSearch(t *testing.T) {
	t.Parallel()

	db := newPatientTestDB(t)
	svc := newPatientService(t, db)

	for _, name := range [][2]string{{"Maria", "Lopez"}, {"Ana", "Cruz"}, {"Mario", "Santos"}} {
		_, err := svc.Create(context.Background(), CreateInput{FirstName: name[0], LastName: name[1]})
		require.NoError(t, err)
	}

	found, err := svc.Search(context.Background(), "Mari")
	require.NoError(t, err)
	require.Len(t, found, 2)

	all, err := svc.Search(context.Background(), "  ")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Cruz", all[0].LastName)
}
