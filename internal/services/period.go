package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/events"
	"budgettracker/internal/models"
	"budgettracker/internal/validator"
)

// moneyPlaces is the scale every aggregated amount is rounded to.
const moneyPlaces = 2

// amountTotal receives a single SUM(...) AS total.
type amountTotal struct {
	Total decimal.Decimal
}

// validatePeriod rejects month/year pairs outside the calendar.
func validatePeriod(month, year int) error {
	if !validator.ValidMonth(month) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if !validator.ValidYear(year) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "year is out of range")
	}
	return nil
}

// periodRange returns the half-open day range [first of month, first of next month).
func periodRange(month, year int) (models.Date, models.Date) {
	start := models.MonthStart(month, year)
	return start, models.Date{Time: start.AddDate(0, 1, 0)}
}

// inPeriod scopes a query on a DATE column to one calendar month.
func inPeriod(column string, month, year int) func(*gorm.DB) *gorm.DB {
	start, end := periodRange(month, year)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" < ?", start, end)
	}
}

// monthOf returns a SQL expression extracting the month number of a DATE column.
func monthOf(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "postgres" {
		return "CAST(EXTRACT(MONTH FROM " + column + ") AS INTEGER)"
	}
	return "CAST(strftime('%m', " + column + ") AS INTEGER)"
}

// yearOf returns a SQL expression extracting the year of a DATE column.
func yearOf(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "postgres" {
		return "CAST(EXTRACT(YEAR FROM " + column + ") AS INTEGER)"
	}
	return "CAST(strftime('%Y', " + column + ") AS INTEGER)"
}

// percentageUsed is spent/amount*100 rounded to two places, 0 for a zero budget.
func percentageUsed(spent, amount decimal.Decimal) float64 {
	if amount.IsZero() {
		return 0
	}
	pct, _ := spent.Div(amount).Mul(decimal.NewFromInt(100)).Round(moneyPlaces).Float64()
	return pct
}

// sumExpenses totals a user's expenses dated inside the month.
func sumExpenses(db *gorm.DB, userID uint, month, year int) (decimal.Decimal, error) {
	var row amountTotal
	err := db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ?", userID).
		Scopes(inPeriod("expenses.date", month, year)).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return row.Total.Round(moneyPlaces), nil
}

// sumIncome totals a user's expected and received income for the month.
func sumIncome(db *gorm.DB, userID uint, month, year int) (*IncomeSummary, error) {
	var row struct {
		ExpectedIncome decimal.Decimal
		ActualIncome   decimal.Decimal
	}
	err := db.Model(&models.IncomeSource{}).
		Select("COALESCE(SUM(expected_amount), 0) AS expected_income, "+
			"COALESCE(SUM(CASE WHEN is_received THEN actual_amount ELSE 0 END), 0) AS actual_income").
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Scan(&row).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &IncomeSummary{
		ExpectedIncome: row.ExpectedIncome.Round(moneyPlaces),
		ActualIncome:   row.ActualIncome.Round(moneyPlaces),
	}, nil
}

// categoryOwned reports ErrCategoryNotFound unless the category belongs to the user.
func categoryOwned(db *gorm.DB, userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := db.Where("category_id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// usableCategory checks a category referenced by a budget or expense
// write. A missing or foreign category is a bad request there, not a 404.
func usableCategory(db *gorm.DB, userID, categoryID uint) error {
	_, err := categoryOwned(db, userID, categoryID)
	if errors.Is(err, apperrors.ErrCategoryNotFound) {
		return apperrors.ErrInvalidCategory
	}
	return err
}

// checkExpenseDate rejects missing dates and years outside the range a
// budget period can take.
func checkExpenseDate(date models.Date) error {
	if date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if !validator.ValidYear(date.Year()) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date year is out of range")
	}
	return nil
}

// publishPeriods announces changed periods after a committed write.
// Subscriber failures are logged and never fail the write.
func publishPeriods(pub events.Publisher, log *zap.SugaredLogger, evts ...events.PeriodChanged) {
	for _, evt := range events.Dedupe(evts...) {
		if err := pub.Publish(evt); err != nil {
			log.Warnw("Savings reconcile failed after ledger write",
				"user_id", evt.UserID,
				"month", evt.Month,
				"year", evt.Year,
				"error", err)
		}
	}
}
