package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
	"budgettracker/internal/services"
)

type mockDashboardService struct {
	getOverviewFn      func(userID uint, month, year int) (*services.DashboardOverview, error)
	getSpendingChartFn func(userID uint, month, year int) ([]byte, error)
}

func (m *mockDashboardService) GetOverview(userID uint, month, year int) (*services.DashboardOverview, error) {
	if m.getOverviewFn != nil {
		return m.getOverviewFn(userID, month, year)
	}
	return &services.DashboardOverview{Month: month, Year: year}, nil
}

func (m *mockDashboardService) GetSpendingChart(userID uint, month, year int) ([]byte, error) {
	if m.getSpendingChartFn != nil {
		return m.getSpendingChartFn(userID, month, year)
	}
	return []byte("\x89PNG"), nil
}

var _ services.DashboardServicer = (*mockDashboardService)(nil)

func setupDashboardRouter(handler *DashboardHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/dashboard", handler.GetOverview)
	auth.GET("/dashboard/chart", handler.GetSpendingChart)
	return r
}

func TestDashboardHandler_GetOverview(t *testing.T) {
	t.Run("defaults to the current month", func(t *testing.T) {
		var gotMonth, gotYear int
		svc := &mockDashboardService{
			getOverviewFn: func(_ uint, month, year int) (*services.DashboardOverview, error) {
				gotMonth, gotYear = month, year
				return &services.DashboardOverview{Month: month, Year: year}, nil
			},
		}
		r := setupDashboardRouter(NewDashboardHandler(svc))

		rec := doRequest(r, "GET", "/dashboard", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		wantMonth, wantYear := models.Today().Period()
		if gotMonth != wantMonth || gotYear != wantYear {
			t.Errorf("expected %d/%d, got %d/%d", wantMonth, wantYear, gotMonth, gotYear)
		}
	})

	t.Run("renders the snapshot", func(t *testing.T) {
		svc := &mockDashboardService{
			getOverviewFn: func(_ uint, month, year int) (*services.DashboardOverview, error) {
				return &services.DashboardOverview{
					Month:   month,
					Year:    year,
					Balance: services.Balance{ActualIncome: decimal.NewFromInt(1000), TotalExpenses: decimal.NewFromInt(250), RemainingBudget: decimal.NewFromInt(750)},
					RecentTransactions: []services.Transaction{
						{Type: services.TransactionTypeExpense, ID: 1, Amount: decimal.NewFromInt(250)},
					},
					BudgetSummary: []services.BudgetSummaryItem{},
					Savings:       decimal.NewFromInt(750),
				}, nil
			},
		}
		r := setupDashboardRouter(NewDashboardHandler(svc))

		rec := doRequest(r, "GET", "/dashboard?month=3&year=2024", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["month"].(float64) != 3 || result["savings"].(float64) != 750 {
			t.Errorf("unexpected overview %v", result)
		}
		balance := result["balance"].(map[string]interface{})
		if balance["remaining_budget"].(float64) != 750 {
			t.Errorf("unexpected balance %v", balance)
		}
		feed := result["recent_transactions"].([]interface{})
		if len(feed) != 1 || feed[0].(map[string]interface{})["type"] != "expense" {
			t.Errorf("unexpected feed %v", feed)
		}
	})

	t.Run("returns 400 on invalid month", func(t *testing.T) {
		r := setupDashboardRouter(NewDashboardHandler(&mockDashboardService{}))

		rec := doRequest(r, "GET", "/dashboard?month=13", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 500 on aggregation error", func(t *testing.T) {
		svc := &mockDashboardService{
			getOverviewFn: func(_ uint, _, _ int) (*services.DashboardOverview, error) {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db down"))
			},
		}
		r := setupDashboardRouter(NewDashboardHandler(svc))

		rec := doRequest(r, "GET", "/dashboard?month=3&year=2024", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}

func TestDashboardHandler_GetSpendingChart(t *testing.T) {
	t.Run("serves PNG", func(t *testing.T) {
		r := setupDashboardRouter(NewDashboardHandler(&mockDashboardService{}))

		rec := doRequest(r, "GET", "/dashboard/chart?month=3&year=2024", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("expected image/png, got %s", ct)
		}
	})

	t.Run("returns 404 without data", func(t *testing.T) {
		svc := &mockDashboardService{
			getSpendingChartFn: func(_ uint, _, _ int) ([]byte, error) { return nil, apperrors.ErrNoChartData },
		}
		r := setupDashboardRouter(NewDashboardHandler(svc))

		rec := doRequest(r, "GET", "/dashboard/chart?month=3&year=2024", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_CHART_DATA")
	})
}
