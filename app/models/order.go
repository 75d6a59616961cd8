package models

import "time"

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// Order tracks a purchase from pending through paid/renewed states. The
// OrderNo is the single join key between the local row, the provider
// checkout session and later webhook events: the provider carries it back
// verbatim in session metadata.
type Order struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderNo   string `gorm:"uniqueIndex;type:varchar(64);not null" json:"order_no"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	UserEmail string `gorm:"type:varchar(200)" json:"user_email"`

	// Amount is in minor units of Currency.
	Amount      int64  `gorm:"not null" json:"amount"`
	Currency    string `gorm:"type:varchar(10)" json:"currency"`
	Interval    string `gorm:"type:varchar(16);default:'one-time'" json:"interval"`
	Status      string `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	Credits     int64  `gorm:"not null;default:0" json:"credits"`
	ProductID   string `gorm:"type:varchar(100);index" json:"product_id"`
	ProductName string `gorm:"type:varchar(200)" json:"product_name"`
	ValidMonths int    `gorm:"default:0" json:"valid_months"`

	// Raw JSON snapshots of the creation request and the provider's paid
	// payload, stored for audit.
	OrderDetail string `gorm:"type:longtext" json:"order_detail"`
	PaidDetail  string `gorm:"type:longtext" json:"paid_detail"`

	PaidAt    *time.Time `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	PaidEmail string     `gorm:"type:varchar(200)" json:"paid_email"`

	// Provider cross-references.
	StripeSessionID string `gorm:"type:varchar(191);index" json:"stripe_session_id"`

	// Subscription bookkeeping, populated for recurring orders only.
	SubID            string `gorm:"type:varchar(191);index" json:"sub_id"`
	SubIntervalCount int64  `gorm:"default:0" json:"sub_interval_count"`
	SubCycleAnchor   int64  `gorm:"default:0" json:"sub_cycle_anchor"`
	SubPeriodStart   int64  `gorm:"default:0" json:"sub_period_start"`
	SubPeriodEnd     int64  `gorm:"default:0" json:"sub_period_end"`
	SubTimes         int64  `gorm:"default:0" json:"sub_times"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsRecurring reports whether the order was placed on a subscription interval.
func (o *Order) IsRecurring() bool {
	switch o.Interval {
	case IntervalMonth, IntervalYear:
		return true
	default:
		return false
	}
}
