package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/events"
	"budgettracker/internal/logger"
	"budgettracker/internal/models"
	"budgettracker/internal/notify"
)

// ComputeSavings applies the savings formula: realized income when any has
// been received, otherwise expected income, minus the month's expenses.
func ComputeSavings(expectedIncome, actualIncome, totalExpenses decimal.Decimal) decimal.Decimal {
	income := expectedIncome
	if actualIncome.GreaterThan(decimal.Zero) {
		income = actualIncome
	}
	return income.Sub(totalExpenses).Round(moneyPlaces)
}

// savingsService keeps the per-month savings cache consistent with the ledgers.
type savingsService struct {
	db       *gorm.DB
	notifier notify.SavingsNotifier
	log      *zap.SugaredLogger
}

// NewSavingsService creates a new SavingsServicer. A nil notifier disables
// outbound notifications.
func NewSavingsService(db *gorm.DB, notifier notify.SavingsNotifier) SavingsServicer {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &savingsService{db: db, notifier: notifier, log: logger.Named("savings")}
}

// Reconcile recomputes and stores a user's savings for one month. Calling
// it repeatedly without ledger changes stores the same amount.
func (s *savingsService) Reconcile(userID uint, month, year int) (decimal.Decimal, error) {
	if err := validatePeriod(month, year); err != nil {
		return decimal.Zero, err
	}

	income, err := sumIncome(s.db, userID, month, year)
	if err != nil {
		return decimal.Zero, err
	}
	expenses, err := sumExpenses(s.db, userID, month, year)
	if err != nil {
		return decimal.Zero, err
	}

	amount := ComputeSavings(income.ExpectedIncome, income.ActualIncome, expenses)

	record := models.Savings{
		UserID: userID,
		Amount: amount,
		Month:  month,
		Year:   year,
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.notifier.SavingsUpdated(userID, month, year, amount); err != nil {
		s.log.Warnw("Savings notification failed",
			"user_id", userID,
			"month", month,
			"year", year,
			"error", err)
	}

	return amount, nil
}

// GetSavings returns the stored savings row for the month.
func (s *savingsService) GetSavings(userID uint, month, year int) (*models.Savings, error) {
	var savings models.Savings
	if err := s.db.Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		First(&savings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSavingsNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &savings, nil
}

// HandlePeriodChanged reconciles the month named by a ledger event.
func (s *savingsService) HandlePeriodChanged(evt events.PeriodChanged) error {
	_, err := s.Reconcile(evt.UserID, evt.Month, evt.Year)
	return err
}
