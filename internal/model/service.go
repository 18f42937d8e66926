package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RepairService represents a service offering of the garage (oil change,
// brake job, ...). Services reference products only informally; they carry
// no inventory of their own.
type RepairService struct {
	ID              uint            `json:"service_id" gorm:"primarykey;column:service_id"`
	Name            string          `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description     string          `json:"description,omitempty" gorm:"type:text"`
	Price           decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	DurationMinutes int             `json:"duration_minutes" gorm:"not null"`
	IsAvailable     bool            `json:"is_available" gorm:"default:true"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
