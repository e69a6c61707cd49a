package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/dentio-backend/pkg/enums"
)

// Appointment books a patient against a provider's calendar. Rows are never
// hard-deleted; cancellation is a status change so history stays auditable.
type Appointment struct {
	ID         uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PatientID  uuid.UUID               `gorm:"column:patient_id;type:uuid;not null;index"`
	ProviderID uuid.UUID               `gorm:"column:provider_id;type:uuid;not null;index"`
	StartTime  time.Time               `gorm:"column:start_time;not null"`
	EndTime    time.Time               `gorm:"column:end_time;not null"`
	Status     enums.AppointmentStatus `gorm:"column:status;type:text;not null;default:'scheduled'"`
	Notes      *string                 `gorm:"column:notes"`
	CreatedAt  time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
