package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"budgettracker/internal/charts"
	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/logger"
	"budgettracker/internal/models"
)

// Feed sizes of the dashboard's recent activity.
const (
	recentPerSource = 5
	recentFeedSize  = 10
)

// dashboardService composes the month snapshot from the other services.
type dashboardService struct {
	budgets  BudgetServicer
	expenses ExpenseServicer
	incomes  IncomeServicer
	savings  SavingsServicer
	log      *zap.SugaredLogger
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(budgets BudgetServicer, expenses ExpenseServicer, incomes IncomeServicer, savings SavingsServicer) DashboardServicer {
	return &dashboardService{
		budgets:  budgets,
		expenses: expenses,
		incomes:  incomes,
		savings:  savings,
		log:      logger.Named("dashboard"),
	}
}

// GetOverview builds the dashboard for one month. The independent reads
// run concurrently; savings fall back from the cache to a reconcile to a
// local computation so a failing reconcile never fails the dashboard.
func (s *dashboardService) GetOverview(userID uint, month, year int) (*DashboardOverview, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	var (
		income        *IncomeSummary
		totalExpenses decimal.Decimal
		budgetSummary []BudgetSummaryItem
		expenses      []models.Expense
		incomes       []models.IncomeSource
		cached        *models.Savings
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		income, err = s.incomes.GetIncomeSummary(userID, month, year)
		return err
	})
	g.Go(func() (err error) {
		totalExpenses, err = s.expenses.GetPeriodTotal(userID, month, year)
		return err
	})
	g.Go(func() (err error) {
		budgetSummary, err = s.budgets.GetBudgetSummary(userID, month, year)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.expenses.GetPeriodExpenses(userID, month, year, recentPerSource)
		return err
	})
	g.Go(func() (err error) {
		incomes, err = s.incomes.GetPeriodIncomes(userID, month, year, recentPerSource)
		return err
	})
	g.Go(func() error {
		found, err := s.savings.GetSavings(userID, month, year)
		if err != nil {
			if errors.Is(err, apperrors.ErrSavingsNotFound) {
				return nil
			}
			// The cache is advisory; a failed lookup falls through to reconcile.
			s.log.Warnw("Savings lookup failed", "user_id", userID, "error", err)
			return nil
		}
		cached = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if budgetSummary == nil {
		budgetSummary = []BudgetSummaryItem{}
	}

	return &DashboardOverview{
		Month: month,
		Year:  year,
		Balance: Balance{
			ExpectedIncome:  income.ExpectedIncome,
			ActualIncome:    income.ActualIncome,
			TotalExpenses:   totalExpenses,
			RemainingBudget: income.ActualIncome.Sub(totalExpenses),
		},
		BudgetSummary:      budgetSummary,
		RecentTransactions: mergeRecent(expenses, incomes),
		Savings:            s.resolveSavings(userID, month, year, cached, income, totalExpenses),
	}, nil
}

// GetSpendingChart renders the month's spend per category as a PNG.
func (s *dashboardService) GetSpendingChart(userID uint, month, year int) ([]byte, error) {
	summary, err := s.expenses.GetCategorySummary(userID, month, year)
	if err != nil {
		return nil, err
	}

	slices := make([]charts.Slice, 0, len(summary))
	for _, c := range summary {
		amount, _ := c.TotalAmount.Float64()
		slices = append(slices, charts.Slice{Label: c.CategoryName, Amount: amount})
	}

	title := fmt.Sprintf("Spending %s %d", time.Month(month), year)
	img, err := charts.SpendingPie(title, slices)
	if err != nil {
		if errors.Is(err, charts.ErrNoData) {
			return nil, apperrors.ErrNoChartData
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return img, nil
}

func (s *dashboardService) resolveSavings(
	userID uint,
	month, year int,
	cached *models.Savings,
	income *IncomeSummary,
	totalExpenses decimal.Decimal,
) decimal.Decimal {
	if cached != nil && !cached.Amount.IsZero() {
		return cached.Amount
	}

	amount, err := s.savings.Reconcile(userID, month, year)
	if err == nil {
		return amount
	}

	s.log.Warnw("Savings reconcile failed, computing locally",
		"user_id", userID,
		"month", month,
		"year", year,
		"error", err)
	return ComputeSavings(income.ExpectedIncome, income.ActualIncome, totalExpenses)
}

// mergeRecent interleaves the month's latest expenses and incomes by
// transaction date, newest first and undated last. Ties go to expenses,
// then to the higher id.
func mergeRecent(expenses []models.Expense, incomes []models.IncomeSource) []Transaction {
	feed := make([]Transaction, 0, len(expenses)+len(incomes))

	for i := range expenses {
		e := &expenses[i]
		date := e.Date
		categoryID := e.CategoryID
		feed = append(feed, Transaction{
			Type:            TransactionTypeExpense,
			ID:              e.ExpenseID,
			Amount:          e.Amount,
			TransactionDate: &date,
			Description:     e.Description,
			CategoryID:      &categoryID,
			CategoryName:    e.CategoryName,
		})
	}
	for i := range incomes {
		inc := &incomes[i]
		feed = append(feed, Transaction{
			Type:            TransactionTypeIncome,
			ID:              inc.IncomeID,
			Amount:          inc.EffectiveAmount(),
			TransactionDate: inc.TransactionDate(),
			Description:     inc.Description,
			SourceName:      inc.SourceName,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		a, b := feed[i], feed[j]
		if c := compareDatesDesc(a.TransactionDate, b.TransactionDate); c != 0 {
			return c < 0
		}
		if a.Type != b.Type {
			return a.Type == TransactionTypeExpense
		}
		return a.ID > b.ID
	})

	if len(feed) > recentFeedSize {
		feed = feed[:recentFeedSize]
	}
	return feed
}
