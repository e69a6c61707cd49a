package models

import (
	"time"

	"github.com/google/uuid"
)

// Treatment is one clinical visit. It exclusively owns its material usage rows
// and image references; the aggregate is written in a single transaction.
type Treatment struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PatientID   uuid.UUID           `gorm:"column:patient_id;type:uuid;not null;index"`
	Date        time.Time           `gorm:"column:date;not null"`
	ToothNumber *int                `gorm:"column:tooth_number"`
	Description string              `gorm:"column:description;not null"`
	Materials   []TreatmentMaterial `gorm:"foreignKey:TreatmentID;constraint:OnDelete:CASCADE"`
	Images      []TreatmentImage    `gorm:"foreignKey:TreatmentID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}
