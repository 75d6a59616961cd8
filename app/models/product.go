package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProductStatusDraft    = "draft"
	ProductStatusActive   = "active"
	ProductStatusArchived = "archived"
)

const (
	IntervalOneTime = "one-time"
	IntervalMonth   = "month"
	IntervalYear    = "year"
)

// Product is a purchasable credit pack or subscription plan. The amount and
// currency shown at checkout come from the locale pricing tables; the row
// here carries the catalog state the back-office manages.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ProductID   string         `gorm:"uniqueIndex;type:varchar(100)" json:"product_id" validate:"required,min=2,max=100"`
	Name        string         `gorm:"type:varchar(200)" json:"name" validate:"required,min=2,max=200"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"type:varchar(20);default:'draft';index" json:"status" validate:"oneof=draft active archived"`
	Interval    string         `gorm:"type:varchar(16);default:'one-time'" json:"interval" validate:"oneof=one-time month year"`
	Credits     int64          `gorm:"not null;default:0" json:"credits"`
	ValidMonths int            `gorm:"default:0" json:"valid_months"`
	CategoryID  uint           `gorm:"index" json:"category_id"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsRecurring reports whether the product bills on a subscription interval.
func (p *Product) IsRecurring() bool {
	switch p.Interval {
	case IntervalMonth, IntervalYear:
		return true
	case IntervalOneTime:
		return false
	default:
		return false
	}
}
