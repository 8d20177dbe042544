package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
)

// budgetService handles budget allocation business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// spendKey identifies one category's spend in one month.
type spendKey struct {
	CategoryID uint
	Month      int
	Year       int
}

// CreateBudget allocates an amount to a category for a month.
func (s *budgetService) CreateBudget(userID, categoryID uint, amount decimal.Decimal, month, year int) (*BudgetView, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	if err := usableCategory(s.db, userID, categoryID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.BudgetAllocation{}).
		Where("user_id = ? AND category_id = ? AND month = ? AND year = ?", userID, categoryID, month, year).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudget
	}

	budget := &models.BudgetAllocation{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Month:      month,
		Year:       year,
	}
	if err := s.db.Create(budget).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateBudget
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetBudgetByID(userID, budget.BudgetID)
}

// GetUserBudgets lists allocations, optionally narrowed by month and/or
// year, each with the spend of its own month.
func (s *budgetService) GetUserBudgets(userID uint, month, year *int) (*BudgetList, error) {
	q := s.withCategory().Where("budget_allocations.user_id = ?", userID)
	if month != nil {
		q = q.Where("budget_allocations.month = ?", *month)
	}
	if year != nil {
		q = q.Where("budget_allocations.year = ?", *year)
	}

	views := []BudgetView{}
	if err := q.Order("categories.name ASC, budget_allocations.year ASC, budget_allocations.month ASC").
		Scan(&views).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spend, err := s.spendByCategoryPeriod(userID, month, year)
	if err != nil {
		return nil, err
	}

	list := &BudgetList{
		Budgets:        views,
		TotalBudget:    decimal.Zero,
		TotalSpent:     decimal.Zero,
		TotalRemaining: decimal.Zero,
	}
	for i := range list.Budgets {
		v := &list.Budgets[i]
		fillSpend(v, spend[spendKey{v.CategoryID, v.Month, v.Year}])
		list.TotalBudget = list.TotalBudget.Add(v.Amount)
		list.TotalSpent = list.TotalSpent.Add(v.SpentAmount)
	}
	list.TotalRemaining = list.TotalBudget.Sub(list.TotalSpent)

	return list, nil
}

// GetBudgetByID returns one allocation with its spend.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*BudgetView, error) {
	var view BudgetView
	res := s.withCategory().
		Where("budget_allocations.budget_id = ? AND budget_allocations.user_id = ?", budgetID, userID).
		Limit(1).
		Scan(&view)
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrBudgetNotFound
	}

	var row amountTotal
	if err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND category_id = ?", userID, view.CategoryID).
		Scopes(inPeriod("expenses.date", view.Month, view.Year)).
		Scan(&row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	fillSpend(&view, row.Total)

	return &view, nil
}

// UpdateBudget changes the allocated amount.
func (s *budgetService) UpdateBudget(userID, budgetID uint, amount decimal.Decimal) (*BudgetView, error) {
	budget, err := s.findBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(budget).Update("amount", amount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetBudgetByID(userID, budgetID)
}

// DeleteBudget removes an allocation. Expenses are untouched.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	budget, err := s.findBudget(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetSummary compares each allocation of the month with its spend.
func (s *budgetService) GetBudgetSummary(userID uint, month, year int) ([]BudgetSummaryItem, error) {
	list, err := s.GetUserBudgets(userID, &month, &year)
	if err != nil {
		return nil, err
	}

	items := make([]BudgetSummaryItem, 0, len(list.Budgets))
	for _, b := range list.Budgets {
		items = append(items, BudgetSummaryItem{
			CategoryID:     b.CategoryID,
			CategoryName:   b.CategoryName,
			BudgetAmount:   b.Amount,
			SpentAmount:    b.SpentAmount,
			Remaining:      b.Remaining,
			PercentageUsed: b.PercentageUsed,
		})
	}
	return items, nil
}

func (s *budgetService) findBudget(userID, budgetID uint) (*models.BudgetAllocation, error) {
	var budget models.BudgetAllocation
	if err := s.db.Where("budget_id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

func (s *budgetService) withCategory() *gorm.DB {
	return s.db.Model(&models.BudgetAllocation{}).
		Select("budget_allocations.*, categories.name AS category_name").
		Joins("JOIN categories ON categories.category_id = budget_allocations.category_id")
}

// spendByCategoryPeriod sums expenses per (category, month, year) with the
// same optional month/year narrowing as the budget list.
func (s *budgetService) spendByCategoryPeriod(userID uint, month, year *int) (map[spendKey]decimal.Decimal, error) {
	monthExpr := monthOf(s.db, "expenses.date")
	yearExpr := yearOf(s.db, "expenses.date")

	q := s.db.Model(&models.Expense{}).
		Select("category_id, "+monthExpr+" AS month, "+yearExpr+" AS year, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ?", userID)
	if month != nil {
		q = q.Where(monthExpr+" = ?", *month)
	}
	if year != nil {
		q = q.Where(yearExpr+" = ?", *year)
	}

	var rows []struct {
		CategoryID uint
		Month      int
		Year       int
		Total      decimal.Decimal
	}
	if err := q.Group("category_id, " + monthExpr + ", " + yearExpr).Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spend := make(map[spendKey]decimal.Decimal, len(rows))
	for _, r := range rows {
		spend[spendKey{r.CategoryID, r.Month, r.Year}] = r.Total
	}
	return spend, nil
}

func fillSpend(v *BudgetView, spent decimal.Decimal) {
	v.SpentAmount = spent.Round(moneyPlaces)
	v.Remaining = v.Amount.Sub(v.SpentAmount)
	v.PercentageUsed = percentageUsed(v.SpentAmount, v.Amount)
}
