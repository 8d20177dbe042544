package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
	"budgettracker/internal/services"
)

type mockExpenseService struct {
	createExpenseFn      func(userID, categoryID uint, amount decimal.Decimal, date models.Date, description string) (*models.Expense, error)
	getExpenseByIDFn     func(userID, expenseID uint) (*models.Expense, error)
	getUserExpensesFn    func(userID uint, filter services.ExpenseFilter, page pagination.PageRequest) (*services.ExpenseList, error)
	updateExpenseFn      func(userID, expenseID uint, update services.ExpenseUpdate) (*models.Expense, error)
	deleteExpenseFn      func(userID, expenseID uint) error
	getCategorySummaryFn func(userID uint, month, year int) ([]services.CategorySpend, error)
	getRecentExpensesFn  func(userID uint, limit int) ([]models.Expense, error)
}

func (m *mockExpenseService) CreateExpense(userID, categoryID uint, amount decimal.Decimal, date models.Date, description string) (*models.Expense, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(userID, categoryID, amount, date, description)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) GetExpenseByID(userID, expenseID uint) (*models.Expense, error) {
	if m.getExpenseByIDFn != nil {
		return m.getExpenseByIDFn(userID, expenseID)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) GetUserExpenses(userID uint, filter services.ExpenseFilter, page pagination.PageRequest) (*services.ExpenseList, error) {
	if m.getUserExpensesFn != nil {
		return m.getUserExpensesFn(userID, filter, page)
	}
	return &services.ExpenseList{Expenses: []models.Expense{}}, nil
}

func (m *mockExpenseService) UpdateExpense(userID, expenseID uint, update services.ExpenseUpdate) (*models.Expense, error) {
	if m.updateExpenseFn != nil {
		return m.updateExpenseFn(userID, expenseID, update)
	}
	return &models.Expense{}, nil
}

func (m *mockExpenseService) DeleteExpense(userID, expenseID uint) error {
	if m.deleteExpenseFn != nil {
		return m.deleteExpenseFn(userID, expenseID)
	}
	return nil
}

func (m *mockExpenseService) GetCategorySummary(userID uint, month, year int) ([]services.CategorySpend, error) {
	if m.getCategorySummaryFn != nil {
		return m.getCategorySummaryFn(userID, month, year)
	}
	return []services.CategorySpend{}, nil
}

func (m *mockExpenseService) GetRecentExpenses(userID uint, limit int) ([]models.Expense, error) {
	if m.getRecentExpensesFn != nil {
		return m.getRecentExpensesFn(userID, limit)
	}
	return []models.Expense{}, nil
}

func (m *mockExpenseService) GetPeriodExpenses(_ uint, _, _, _ int) ([]models.Expense, error) {
	return []models.Expense{}, nil
}

func (m *mockExpenseService) GetPeriodTotal(_ uint, _, _ int) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

var _ services.ExpenseServicer = (*mockExpenseService)(nil)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/expenses", handler.CreateExpense)
	auth.GET("/expenses", handler.GetExpenses)
	auth.GET("/expenses/recent", handler.GetRecentExpenses)
	auth.GET("/expenses/categories/summary", handler.GetCategorySummary)
	auth.GET("/expenses/:id", handler.GetExpense)
	auth.PUT("/expenses/:id", handler.UpdateExpense)
	auth.DELETE("/expenses/:id", handler.DeleteExpense)
	return r
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var gotDate models.Date
		svc := &mockExpenseService{
			createExpenseFn: func(userID, categoryID uint, amount decimal.Decimal, date models.Date, description string) (*models.Expense, error) {
				gotDate = date
				return &models.Expense{
					ExpenseID: 1, UserID: userID, CategoryID: categoryID,
					Amount: amount, Date: date, Description: description,
				}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))

		rec := doRequest(r, "POST", "/expenses",
			`{"category_id":2,"amount":"50.25","date":"2024-03-10","description":"groceries"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotDate.String() != "2024-03-10" {
			t.Errorf("expected date 2024-03-10, got %s", gotDate)
		}
		expense := parseJSON(t, rec)["expense"].(map[string]interface{})
		if expense["date"] != "2024-03-10" || expense["amount"].(float64) != 50.25 {
			t.Errorf("unexpected expense %v", expense)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing_date", `{"category_id":2,"amount":10}`},
		{"bad_date", `{"category_id":2,"amount":10,"date":"10/03/2024"}`},
		{"missing_amount", `{"category_id":2,"date":"2024-03-10"}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}))

			rec := doRequest(r, "POST", "/expenses", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}

	t.Run("returns 400 on foreign category", func(t *testing.T) {
		svc := &mockExpenseService{
			createExpenseFn: func(_, _ uint, _ decimal.Decimal, _ models.Date, _ string) (*models.Expense, error) {
				return nil, apperrors.ErrInvalidCategory
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))

		rec := doRequest(r, "POST", "/expenses", `{"category_id":99,"amount":10,"date":"2024-03-10"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CATEGORY")
	})
}

func TestExpenseHandler_GetExpenses(t *testing.T) {
	t.Run("passes filters and paging", func(t *testing.T) {
		var gotFilter services.ExpenseFilter
		var gotPage pagination.PageRequest
		svc := &mockExpenseService{
			getUserExpensesFn: func(_ uint, filter services.ExpenseFilter, page pagination.PageRequest) (*services.ExpenseList, error) {
				gotFilter, gotPage = filter, page
				return &services.ExpenseList{Expenses: []models.Expense{}, TotalAmount: decimal.RequireFromString("12.5")}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))

		rec := doRequest(r, "GET", "/expenses?month=3&year=2024&category=7&page=2&page_size=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Month == nil || *gotFilter.Month != 3 || gotFilter.Year == nil || *gotFilter.Year != 2024 {
			t.Errorf("unexpected period filter %+v", gotFilter)
		}
		if gotFilter.CategoryID == nil || *gotFilter.CategoryID != 7 {
			t.Errorf("expected category 7, got %v", gotFilter.CategoryID)
		}
		if gotPage.Page != 2 || gotPage.PageSize != 10 {
			t.Errorf("unexpected page %+v", gotPage)
		}
		if parseJSON(t, rec)["total_amount"].(float64) != 12.5 {
			t.Error("expected total_amount 12.5")
		}
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}))

		rec := doRequest(r, "GET", "/expenses?page_size=1000", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on bad category", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}))

		rec := doRequest(r, "GET", "/expenses?category=food", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_UpdateExpense(t *testing.T) {
	t.Run("passes only provided fields", func(t *testing.T) {
		var got services.ExpenseUpdate
		svc := &mockExpenseService{
			updateExpenseFn: func(_, _ uint, update services.ExpenseUpdate) (*models.Expense, error) {
				got = update
				return &models.Expense{}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))

		rec := doRequest(r, "PUT", "/expenses/5", `{"amount":15}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.Amount == nil || !got.Amount.Equal(decimal.NewFromInt(15)) {
			t.Errorf("expected amount 15, got %v", got.Amount)
		}
		if got.Date != nil || got.CategoryID != nil || got.Description != nil {
			t.Errorf("expected other fields unset, got %+v", got)
		}
	})

	t.Run("returns 404 when absent", func(t *testing.T) {
		svc := &mockExpenseService{
			updateExpenseFn: func(_, _ uint, _ services.ExpenseUpdate) (*models.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))

		rec := doRequest(r, "PUT", "/expenses/5", `{"amount":15}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_GetCategorySummary(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"both_params", "?month=3&year=2024", http.StatusOK},
		{"missing_year", "?month=3", http.StatusBadRequest},
		{"missing_month", "?year=2024", http.StatusBadRequest},
		{"missing_both", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupExpenseRouter(NewExpenseHandler(&mockExpenseService{}))

			rec := doRequest(r, "GET", "/expenses/categories/summary"+tt.query, "")

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestExpenseHandler_GetRecentExpenses(t *testing.T) {
	var gotLimit int
	svc := &mockExpenseService{
		getRecentExpensesFn: func(_ uint, limit int) ([]models.Expense, error) {
			gotLimit = limit
			if limit > 50 {
				return nil, apperrors.ErrInvalidInput
			}
			return []models.Expense{}, nil
		},
	}
	r := setupExpenseRouter(NewExpenseHandler(svc))

	if rec := doRequest(r, "GET", "/expenses/recent", ""); rec.Code != http.StatusOK || gotLimit != 5 {
		t.Errorf("expected default limit 5, got %d (status %d)", gotLimit, rec.Code)
	}
	if rec := doRequest(r, "GET", "/expenses/recent?limit=51", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
