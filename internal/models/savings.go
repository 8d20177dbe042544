package models

import "github.com/shopspring/decimal"

// Savings caches income minus expenses for one user and month.
// Rows are written only by the savings reconciler.
type Savings struct {
	SavingsID uint            `gorm:"primaryKey;column:savings_id" json:"savings_id"`
	UserID    uint            `gorm:"not null;uniqueIndex:idx_savings_period,priority:1" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Month     int             `gorm:"not null;uniqueIndex:idx_savings_period,priority:2" json:"month"`
	Year      int             `gorm:"not null;uniqueIndex:idx_savings_period,priority:3" json:"year"`
	Base
}

// TableName overrides the default table name
func (Savings) TableName() string {
	return "savings"
}
