package models

import (
	"time"

	"github.com/google/uuid"
)

// TreatmentImage references a relocated image file on durable storage.
type TreatmentImage struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TreatmentID    uuid.UUID `gorm:"column:treatment_id;type:uuid;not null;index"`
	FilePath       string    `gorm:"column:file_path;not null"`
	ReferenceToken string    `gorm:"column:reference_token;not null;uniqueIndex"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
