package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `gorm:"primaryKey;size:64;not null"`
	Name        string          `gorm:"size:128;not null"`
	Description string          `gorm:"size:512"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"` // major units
	Currency    string          `gorm:"size:8;not null"`
	CreatedAt   time.Time
}

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

type Order struct {
	ID        string `gorm:"primaryKey;type:char(36);not null"`
	UserID    string `gorm:"size:64;index;not null"`
	ProductID string `gorm:"size:64;not null"`
	// Price snapshot in minor units, taken at creation time. Never
	// recomputed from the product afterwards.
	Amount   int64  `gorm:"not null"`
	Currency string `gorm:"size:8;not null;default:usd"`
	// Gateway intent ID, the join key for webhook reconciliation.
	PaymentIntentID string `gorm:"size:128;uniqueIndex;not null"`
	Status          string `gorm:"size:16;index;not null"` // pending, paid, failed
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
