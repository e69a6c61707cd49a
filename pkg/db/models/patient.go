package models

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the clinic's master record for a person under care.
type Patient struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FirstName string     `gorm:"column:first_name;not null"`
	LastName  string     `gorm:"column:last_name;not null"`
	Phone     *string    `gorm:"column:phone"`
	Email     *string    `gorm:"column:email"`
	BirthDate *time.Time `gorm:"column:birth_date;type:date"`
	Notes     *string    `gorm:"column:notes"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
