package models

import "time"

const (
	GenerationStatusProcessing = "processing"
	GenerationStatusComplete   = "complete"
	GenerationStatusFailed     = "failed"
)

// Generation records a single model invocation and its materialized result.
type Generation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        string    `gorm:"uniqueIndex;type:varchar(36);not null" json:"uuid"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Category    string    `gorm:"type:varchar(32);not null;index" json:"category"`
	Model       string    `gorm:"type:varchar(120);not null;index" json:"model"`
	Prompt      string    `gorm:"type:text" json:"prompt"`
	ResultURL   string    `gorm:"type:varchar(500)" json:"result_url"`
	ContentType string    `gorm:"type:varchar(100)" json:"content_type"`
	Status      string    `gorm:"type:varchar(16);default:'processing';index" json:"status"`
	Credits     int64     `gorm:"not null;default:0" json:"credits"`
	ErrorMsg    string    `gorm:"type:text" json:"error_msg,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
