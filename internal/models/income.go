package models

import "github.com/shopspring/decimal"

// IncomeSource is an expected inflow for a month, optionally marked as received
type IncomeSource struct {
	IncomeID       uint             `gorm:"primaryKey;column:income_id" json:"income_id"`
	UserID         uint             `gorm:"not null;index:idx_income_user_period,priority:1" json:"user_id"`
	SourceName     string           `gorm:"size:100;not null" json:"source_name"`
	ExpectedAmount decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"expected_amount"`
	ActualAmount   *decimal.Decimal `gorm:"type:decimal(14,2)" json:"actual_amount"`
	IsReceived     bool             `gorm:"not null;default:false" json:"is_received"`
	DueDate        *Date            `json:"due_date"`
	ReceiveDate    *Date            `json:"receive_date"`
	Month          int              `gorm:"not null;index:idx_income_user_period,priority:2" json:"month"`
	Year           int              `gorm:"not null;index:idx_income_user_period,priority:3" json:"year"`
	Description    string           `gorm:"size:255" json:"description"`
	Base
}

// TableName overrides the default table name
func (IncomeSource) TableName() string {
	return "income_sources"
}

// TransactionDate is the day the income counts on: the receive date once
// received, otherwise the due date. Nil when neither is known.
func (i *IncomeSource) TransactionDate() *Date {
	if i.IsReceived && i.ReceiveDate != nil {
		return i.ReceiveDate
	}
	return i.DueDate
}

// EffectiveAmount is the received amount once received, otherwise the expected one.
func (i *IncomeSource) EffectiveAmount() decimal.Decimal {
	if i.IsReceived && i.ActualAmount != nil {
		return *i.ActualAmount
	}
	return i.ExpectedAmount
}
