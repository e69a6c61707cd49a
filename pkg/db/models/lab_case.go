package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/dentio-backend/pkg/enums"
)

// LabCase tracks work sent to an external dental lab.
type LabCase struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PatientID        uuid.UUID           `gorm:"column:patient_id;type:uuid;not null;index"`
	LabName          string              `gorm:"column:lab_name;not null"`
	ToothNumber      *int                `gorm:"column:tooth_number"`
	InstructionNotes *string             `gorm:"column:instruction_notes"`
	DueDate          time.Time           `gorm:"column:due_date;type:date;not null"`
	Status           enums.LabCaseStatus `gorm:"column:status;type:text;not null;default:'sent'"`
	ReceivedDate     *time.Time          `gorm:"column:received_date;type:date"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
