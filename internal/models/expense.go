package models

import "github.com/shopspring/decimal"

// Expense is a single outflow against a category
type Expense struct {
	ExpenseID   uint            `gorm:"primaryKey;column:expense_id" json:"expense_id"`
	UserID      uint            `gorm:"not null;index:idx_expenses_user_date,priority:1" json:"user_id"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Date        Date            `gorm:"not null;index:idx_expenses_user_date,priority:2" json:"date"`
	Description string          `gorm:"size:255" json:"description"`
	// CategoryName is filled by joined reads only.
	CategoryName string `gorm:"->;-:migration" json:"category_name,omitempty"`
	Base
}
