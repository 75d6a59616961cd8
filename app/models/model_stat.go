package models

import "time"

// ModelStat aggregates generation counts per model. Rows are written by the
// counter flush, not by request handlers.
type ModelStat struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Model           string    `gorm:"uniqueIndex;type:varchar(120);not null" json:"model"`
	GenerationCount int64     `gorm:"not null;default:0" json:"generation_count"`
	CreditsSpent    int64     `gorm:"not null;default:0" json:"credits_spent"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
