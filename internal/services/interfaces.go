package services

import (
	"github.com/shopspring/decimal"

	"budgettracker/internal/events"
	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, email, password string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string) (*models.Category, error)
	CreateDefaultCategories(userID uint) ([]models.Category, error)
	GetUserCategories(userID uint) ([]models.Category, error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// BudgetView is a budget allocation with its spend for the allocation's own month.
type BudgetView struct {
	models.BudgetAllocation
	CategoryName   string          `json:"category_name"`
	SpentAmount    decimal.Decimal `json:"spent_amount"`
	Remaining      decimal.Decimal `json:"remaining"`
	PercentageUsed float64         `json:"percentage_used"`
}

// BudgetList is the filtered list of allocations with aggregate totals.
type BudgetList struct {
	Budgets        []BudgetView    `json:"budgets"`
	TotalBudget    decimal.Decimal `json:"total_budget"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
}

// BudgetSummaryItem compares one category's allocation against its spend.
type BudgetSummaryItem struct {
	CategoryID     uint            `json:"category_id"`
	CategoryName   string          `json:"category_name"`
	BudgetAmount   decimal.Decimal `json:"budget_amount"`
	SpentAmount    decimal.Decimal `json:"spent_amount"`
	Remaining      decimal.Decimal `json:"remaining"`
	PercentageUsed float64         `json:"percentage_used"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID uint, amount decimal.Decimal, month, year int) (*BudgetView, error)
	GetUserBudgets(userID uint, month, year *int) (*BudgetList, error)
	GetBudgetByID(userID, budgetID uint) (*BudgetView, error)
	UpdateBudget(userID, budgetID uint, amount decimal.Decimal) (*BudgetView, error)
	DeleteBudget(userID, budgetID uint) error
	GetBudgetSummary(userID uint, month, year int) ([]BudgetSummaryItem, error)
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	Month      *int
	Year       *int
	CategoryID *uint
}

// ExpenseUpdate carries the fields of a partial expense update; nil means unchanged.
type ExpenseUpdate struct {
	CategoryID  *uint
	Amount      *decimal.Decimal
	Date        *models.Date
	Description *string
}

// ExpenseList is a filtered expense list with the total of every matching row.
type ExpenseList struct {
	Expenses    []models.Expense     `json:"expenses"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	Pagination  *pagination.PageInfo `json:"pagination,omitempty"`
}

// CategorySpend is the month's spend in one category.
type CategorySpend struct {
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ExpenseCount int64           `json:"expense_count"`
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID, categoryID uint, amount decimal.Decimal, date models.Date, description string) (*models.Expense, error)
	GetExpenseByID(userID, expenseID uint) (*models.Expense, error)
	GetUserExpenses(userID uint, filter ExpenseFilter, page pagination.PageRequest) (*ExpenseList, error)
	UpdateExpense(userID, expenseID uint, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(userID, expenseID uint) error
	GetCategorySummary(userID uint, month, year int) ([]CategorySpend, error)
	GetRecentExpenses(userID uint, limit int) ([]models.Expense, error)
	GetPeriodExpenses(userID uint, month, year, limit int) ([]models.Expense, error)
	GetPeriodTotal(userID uint, month, year int) (decimal.Decimal, error)
}

// IncomeUpdate carries the fields of a partial income update; nil means unchanged.
type IncomeUpdate struct {
	SourceName     *string
	ExpectedAmount *decimal.Decimal
	ActualAmount   *decimal.Decimal
	IsReceived     *bool
	DueDate        *models.Date
	ReceiveDate    *models.Date
	Month          *int
	Year           *int
	Description    *string
}

// IncomeList is a filtered income list with expected and received totals.
type IncomeList struct {
	Incomes       []models.IncomeSource `json:"incomes"`
	TotalExpected decimal.Decimal       `json:"total_expected"`
	TotalReceived decimal.Decimal       `json:"total_received"`
	Pagination    *pagination.PageInfo  `json:"pagination,omitempty"`
}

// IncomeSummary holds a month's expected and realized income.
type IncomeSummary struct {
	ExpectedIncome decimal.Decimal `json:"expected_income"`
	ActualIncome   decimal.Decimal `json:"actual_income"`
}

// IncomeServicer defines the contract for income-related business logic.
type IncomeServicer interface {
	CreateIncome(userID uint, sourceName string, expectedAmount decimal.Decimal, month, year int, dueDate *models.Date, description string) (*models.IncomeSource, error)
	GetIncomeByID(userID, incomeID uint) (*models.IncomeSource, error)
	GetUserIncomes(userID uint, month, year *int, page pagination.PageRequest) (*IncomeList, error)
	UpdateIncome(userID, incomeID uint, update IncomeUpdate) (*models.IncomeSource, error)
	ReceiveIncome(userID, incomeID uint, actualAmount decimal.Decimal, receiveDate *models.Date) (*models.IncomeSource, error)
	DeleteIncome(userID, incomeID uint) error
	GetIncomeSummary(userID uint, month, year int) (*IncomeSummary, error)
	GetPeriodIncomes(userID uint, month, year, limit int) ([]models.IncomeSource, error)
}

// SavingsServicer defines the contract for the savings reconciler.
type SavingsServicer interface {
	Reconcile(userID uint, month, year int) (decimal.Decimal, error)
	GetSavings(userID uint, month, year int) (*models.Savings, error)
	HandlePeriodChanged(evt events.PeriodChanged) error
}

// Transaction is one entry of the dashboard's recent activity feed.
type Transaction struct {
	Type            string          `json:"type"`
	ID              uint            `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate *models.Date    `json:"transaction_date"`
	Description     string          `json:"description"`
	CategoryID      *uint           `json:"category_id,omitempty"`
	CategoryName    string          `json:"category_name,omitempty"`
	SourceName      string          `json:"source_name,omitempty"`
}

// Feed entry types.
const (
	TransactionTypeExpense = "expense"
	TransactionTypeIncome  = "income"
)

// Balance summarizes a month's cash position.
type Balance struct {
	ExpectedIncome  decimal.Decimal `json:"expected_income"`
	ActualIncome    decimal.Decimal `json:"actual_income"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	RemainingBudget decimal.Decimal `json:"remaining_budget"`
}

// DashboardOverview is the month snapshot served by the dashboard.
type DashboardOverview struct {
	Month              int                 `json:"month"`
	Year               int                 `json:"year"`
	Balance            Balance             `json:"balance"`
	BudgetSummary      []BudgetSummaryItem `json:"budget_summary"`
	RecentTransactions []Transaction       `json:"recent_transactions"`
	Savings            decimal.Decimal     `json:"savings"`
}

// DashboardServicer defines the contract for the dashboard aggregator.
type DashboardServicer interface {
	GetOverview(userID uint, month, year int) (*DashboardOverview, error)
	GetSpendingChart(userID uint, month, year int) ([]byte, error)
}
