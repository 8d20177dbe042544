package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/events"
	"budgettracker/internal/logger"
	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
)

// MaxRecentExpenses caps the limit of the recent expenses list.
const MaxRecentExpenses = 50

const expenseNewestFirst = "expenses.date DESC, expenses.created_at DESC, expenses.expense_id DESC"

// expenseService handles expense-related business logic.
type expenseService struct {
	db        *gorm.DB
	publisher events.Publisher
	log       *zap.SugaredLogger
}

// NewExpenseService creates a new ExpenseServicer. Every write that moves
// a month's total is announced on publisher.
func NewExpenseService(db *gorm.DB, publisher events.Publisher) ExpenseServicer {
	return &expenseService{db: db, publisher: publisher, log: logger.Named("expenses")}
}

// CreateExpense records a new expense.
func (s *expenseService) CreateExpense(userID, categoryID uint, amount decimal.Decimal, date models.Date, description string) (*models.Expense, error) {
	if err := checkExpenseDate(date); err != nil {
		return nil, err
	}
	if err := usableCategory(s.db, userID, categoryID); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Date:        date,
		Description: description,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	publishPeriods(s.publisher, s.log, expensePeriod(userID, date))

	return s.GetExpenseByID(userID, expense.ExpenseID)
}

// GetExpenseByID retrieves an expense with its category name.
func (s *expenseService) GetExpenseByID(userID, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.withCategory().
		Where("expenses.expense_id = ? AND expenses.user_id = ?", expenseID, userID).
		First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// GetUserExpenses lists expenses newest first. TotalAmount covers every
// matching row, not just the returned page.
func (s *expenseService) GetUserExpenses(userID uint, filter ExpenseFilter, page pagination.PageRequest) (*ExpenseList, error) {
	scope := s.filtered(userID, filter)

	var row amountTotal
	if err := s.db.Model(&models.Expense{}).
		Scopes(scope).
		Select("COALESCE(SUM(expenses.amount), 0) AS total").
		Scan(&row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var totalItems int64
	if page.IsSet() {
		if err := s.db.Model(&models.Expense{}).Scopes(scope).Count(&totalItems).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	expenses := []models.Expense{}
	if err := s.withCategory().
		Scopes(scope, pagination.Paginate(page)).
		Order(expenseNewestFirst).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &ExpenseList{
		Expenses:    expenses,
		TotalAmount: row.Total.Round(moneyPlaces),
		Pagination:  pagination.NewPageInfo(page, totalItems),
	}, nil
}

// UpdateExpense applies a partial update. Savings are reconciled only when
// the amount, date or category actually changed.
func (s *expenseService) UpdateExpense(userID, expenseID uint, update ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.findExpense(userID, expenseID)
	if err != nil {
		return nil, err
	}
	oldPeriod := expensePeriod(userID, expense.Date)

	updates := make(map[string]interface{})
	changed := false

	if update.CategoryID != nil && *update.CategoryID != expense.CategoryID {
		if err := usableCategory(s.db, userID, *update.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *update.CategoryID
		expense.CategoryID = *update.CategoryID
		changed = true
	}
	if update.Amount != nil && !update.Amount.Equal(expense.Amount) {
		updates["amount"] = *update.Amount
		expense.Amount = *update.Amount
		changed = true
	}
	if update.Date != nil && !update.Date.IsZero() && !update.Date.Equal(expense.Date.Time) {
		if err := checkExpenseDate(*update.Date); err != nil {
			return nil, err
		}
		updates["date"] = *update.Date
		expense.Date = *update.Date
		changed = true
	}
	if update.Description != nil && *update.Description != expense.Description {
		updates["description"] = *update.Description
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if changed {
		publishPeriods(s.publisher, s.log, oldPeriod, expensePeriod(userID, expense.Date))
	}

	return s.GetExpenseByID(userID, expenseID)
}

// DeleteExpense removes an expense and reconciles its month.
func (s *expenseService) DeleteExpense(userID, expenseID uint) error {
	expense, err := s.findExpense(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	publishPeriods(s.publisher, s.log, expensePeriod(userID, expense.Date))
	return nil
}

// GetCategorySummary sums the month's expenses per category, largest first.
func (s *expenseService) GetCategorySummary(userID uint, month, year int) ([]CategorySpend, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	summary := []CategorySpend{}
	err := s.db.Model(&models.Expense{}).
		Select("expenses.category_id, categories.name AS category_name, "+
			"COALESCE(SUM(expenses.amount), 0) AS total_amount, COUNT(*) AS expense_count").
		Joins("JOIN categories ON categories.category_id = expenses.category_id").
		Where("expenses.user_id = ?", userID).
		Scopes(inPeriod("expenses.date", month, year)).
		Group("expenses.category_id, categories.name").
		Order("total_amount DESC, categories.name ASC").
		Scan(&summary).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range summary {
		summary[i].TotalAmount = summary[i].TotalAmount.Round(moneyPlaces)
	}
	return summary, nil
}

// GetRecentExpenses returns the user's latest expenses across all months.
func (s *expenseService) GetRecentExpenses(userID uint, limit int) ([]models.Expense, error) {
	if limit <= 0 || limit > MaxRecentExpenses {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be between 1 and 50")
	}

	expenses := []models.Expense{}
	if err := s.withCategory().
		Where("expenses.user_id = ?", userID).
		Order(expenseNewestFirst).
		Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// GetPeriodExpenses returns up to limit of the month's latest expenses.
func (s *expenseService) GetPeriodExpenses(userID uint, month, year, limit int) ([]models.Expense, error) {
	expenses := []models.Expense{}
	if err := s.withCategory().
		Where("expenses.user_id = ?", userID).
		Scopes(inPeriod("expenses.date", month, year)).
		Order(expenseNewestFirst).
		Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// GetPeriodTotal sums the month's expenses.
func (s *expenseService) GetPeriodTotal(userID uint, month, year int) (decimal.Decimal, error) {
	return sumExpenses(s.db, userID, month, year)
}

func (s *expenseService) findExpense(userID, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("expense_id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

func (s *expenseService) withCategory() *gorm.DB {
	return s.db.Model(&models.Expense{}).
		Select("expenses.*, categories.name AS category_name").
		Joins("JOIN categories ON categories.category_id = expenses.category_id")
}

// filtered narrows expenses by owner and the optional filters. A lone
// month matches that month in every year, a lone year every month of it.
func (s *expenseService) filtered(userID uint, filter ExpenseFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("expenses.user_id = ?", userID)
		if filter.CategoryID != nil {
			db = db.Where("expenses.category_id = ?", *filter.CategoryID)
		}
		switch {
		case filter.Month != nil && filter.Year != nil:
			db = db.Scopes(inPeriod("expenses.date", *filter.Month, *filter.Year))
		case filter.Month != nil:
			db = db.Where(monthOf(s.db, "expenses.date")+" = ?", *filter.Month)
		case filter.Year != nil:
			db = db.Where(yearOf(s.db, "expenses.date")+" = ?", *filter.Year)
		}
		return db
	}
}

func expensePeriod(userID uint, date models.Date) events.PeriodChanged {
	month, year := date.Period()
	return events.PeriodChanged{UserID: userID, Month: month, Year: year}
}
