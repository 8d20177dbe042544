package models

import "github.com/shopspring/decimal"

// BudgetAllocation is the amount a user plans to spend in a category for one month
type BudgetAllocation struct {
	BudgetID   uint            `gorm:"primaryKey;column:budget_id" json:"budget_id"`
	UserID     uint            `gorm:"not null;uniqueIndex:idx_budget_period,priority:1" json:"user_id"`
	CategoryID uint            `gorm:"not null;uniqueIndex:idx_budget_period,priority:2" json:"category_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Month      int             `gorm:"not null;uniqueIndex:idx_budget_period,priority:3" json:"month"`
	Year       int             `gorm:"not null;uniqueIndex:idx_budget_period,priority:4" json:"year"`
	Base
}

// TableName overrides the default table name
func (BudgetAllocation) TableName() string {
	return "budget_allocations"
}
