package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type MaterialModel struct {
	ID          int    `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"not null"`
	Subject     string `gorm:"not null;index"`
	Type        string `gorm:"not null;index"`
	Description string
	Pages       *int
	Duration    string
	Rating      float64
	StorageKey  string
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

type PlanModel struct {
	ID            string `gorm:"primaryKey"`
	Overview      string `gorm:"type:text"`
	DailySchedule datatypes.JSON
	WeeklyPlans   datatypes.JSON
	Resources     datatypes.JSON
	Notes         string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null;index"`
}
