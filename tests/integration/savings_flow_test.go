package integration

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"budgettracker/internal/models"
)

func TestIncomeAndSavingsFlow(t *testing.T) {
	app := setupApp(t)
	token := app.registerAndLogin(t, "alice")
	food := app.categoryID(t, token, "Food")

	mustStatus(t, app.request("POST", "/api/budgets",
		`{"category_id":`+itoa(food)+`,"amount":200,"month":3,"year":2024}`, token), http.StatusCreated)
	mustStatus(t, app.request("POST", "/api/expenses",
		`{"category_id":`+itoa(food)+`,"amount":50,"date":"2024-03-10"}`, token), http.StatusCreated)

	created := mustStatus(t, app.request("POST", "/api/income",
		`{"source_name":"Salary","expected_amount":800,"month":3,"year":2024,"due_date":"2024-03-25"}`, token), http.StatusCreated)
	incomeID := uint(created["income"].(map[string]interface{})["income_id"].(float64))

	savings := func() models.Savings {
		t.Helper()
		var row models.Savings
		if err := app.DB.Where("month = ? AND year = ?", 3, 2024).First(&row).Error; err != nil {
			t.Fatalf("expected a savings row: %v", err)
		}
		return row
	}

	t.Run("expected income counts before receipt", func(t *testing.T) {
		if got := savings().Amount; !got.Equal(decimal.RequireFromString("750")) {
			t.Errorf("expected savings 750, got %s", got)
		}
	})

	received := mustStatus(t, app.request("PATCH", "/api/income/"+itoa(incomeID)+"/receive",
		`{"actual_amount":1000,"receive_date":"2024-03-28"}`, token), http.StatusOK)
	income := received["income"].(map[string]interface{})
	if income["is_received"] != true {
		t.Fatalf("expected income received, got %v", income)
	}

	t.Run("received amount replaces expected", func(t *testing.T) {
		if got := savings().Amount; !got.Equal(decimal.RequireFromString("950")) {
			t.Errorf("expected savings 950, got %s", got)
		}
	})

	t.Run("dashboard snapshot", func(t *testing.T) {
		result := mustStatus(t, app.request("GET", "/api/dashboard?month=3&year=2024", "", token), http.StatusOK)
		balance := result["balance"].(map[string]interface{})
		assertAmount(t, "expected income", balance["expected_income"], "800")
		assertAmount(t, "actual income", balance["actual_income"], "1000")
		assertAmount(t, "total expenses", balance["total_expenses"], "50")
		assertAmount(t, "remaining budget", balance["remaining_budget"], "950")
		assertAmount(t, "savings", result["savings"], "950")

		summary := result["budget_summary"].([]interface{})
		if len(summary) != 1 {
			t.Fatalf("expected 1 budget line, got %d", len(summary))
		}
		assertAmount(t, "food remaining", summary[0].(map[string]interface{})["remaining"], "150")

		feed := result["recent_transactions"].([]interface{})
		if len(feed) != 2 {
			t.Fatalf("expected 2 feed entries, got %d", len(feed))
		}
		if feed[0].(map[string]interface{})["type"] != "income" {
			t.Errorf("expected the income dated 2024-03-28 first, got %v", feed[0])
		}
	})

	t.Run("chart", func(t *testing.T) {
		rec := app.request("GET", "/api/dashboard/chart?month=3&year=2024", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("expected image/png, got %s", ct)
		}
		if rec := app.request("GET", "/api/dashboard/chart?month=5&year=2024", "", token); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 for a month without expenses, got %d", rec.Code)
		}
	})

	t.Run("deleting the expense raises savings", func(t *testing.T) {
		list := mustStatus(t, app.request("GET", "/api/expenses?month=3&year=2024", "", token), http.StatusOK)
		expenseID := uint(list["expenses"].([]interface{})[0].(map[string]interface{})["expense_id"].(float64))
		mustStatus(t, app.request("DELETE", "/api/expenses/"+itoa(expenseID), "", token), http.StatusOK)
		if got := savings().Amount; !got.Equal(decimal.RequireFromString("1000")) {
			t.Errorf("expected savings 1000, got %s", got)
		}
	})
}
