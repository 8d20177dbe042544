package integration

import (
	"net/http"
	"strconv"
	"testing"
)

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

func TestBudgetFlow(t *testing.T) {
	app := setupApp(t)
	token := app.registerAndLogin(t, "alice")
	food := app.categoryID(t, token, "Food")

	created := mustStatus(t, app.request("POST", "/api/budgets",
		`{"category_id":`+itoa(food)+`,"amount":200,"month":3,"year":2024}`, token), http.StatusCreated)
	budget := created["budget"].(map[string]interface{})
	budgetID := uint(budget["budget_id"].(float64))
	assertAmount(t, "spent before expenses", budget["spent_amount"], "0")

	t.Run("duplicate allocation is rejected", func(t *testing.T) {
		rec := app.request("POST", "/api/budgets",
			`{"category_id":`+itoa(food)+`,"amount":50,"month":3,"year":2024}`, token)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown category is a bad request", func(t *testing.T) {
		writes := []struct{ method, path, body string }{
			{"POST", "/api/budgets", `{"category_id":9999,"amount":50,"month":3,"year":2024}`},
			{"POST", "/api/expenses", `{"category_id":9999,"amount":5,"date":"2024-03-02"}`},
		}
		for _, w := range writes {
			result := mustStatus(t, app.request(w.method, w.path, w.body, token), http.StatusBadRequest)
			if code := result["error"].(map[string]interface{})["code"]; code != "INVALID_CATEGORY" {
				t.Errorf("%s %s: expected INVALID_CATEGORY, got %v", w.method, w.path, code)
			}
		}
	})

	mustStatus(t, app.request("POST", "/api/expenses",
		`{"category_id":`+itoa(food)+`,"amount":50,"date":"2024-03-10","description":"groceries"}`, token), http.StatusCreated)
	// Outside the allocation's month.
	mustStatus(t, app.request("POST", "/api/expenses",
		`{"category_id":`+itoa(food)+`,"amount":30,"date":"2024-04-01"}`, token), http.StatusCreated)

	t.Run("spend reflects the allocation month only", func(t *testing.T) {
		result := mustStatus(t, app.request("GET", "/api/budgets/"+itoa(budgetID), "", token), http.StatusOK)
		b := result["budget"].(map[string]interface{})
		assertAmount(t, "spent", b["spent_amount"], "50")
		assertAmount(t, "remaining", b["remaining"], "150")
		assertAmount(t, "percentage", b["percentage_used"], "25")
	})

	t.Run("list totals", func(t *testing.T) {
		result := mustStatus(t, app.request("GET", "/api/budgets?month=3&year=2024", "", token), http.StatusOK)
		if n := len(result["budgets"].([]interface{})); n != 1 {
			t.Fatalf("expected 1 budget, got %d", n)
		}
		assertAmount(t, "total budget", result["total_budget"], "200")
		assertAmount(t, "total spent", result["total_spent"], "50")
		assertAmount(t, "total remaining", result["total_remaining"], "150")
	})

	t.Run("update amount", func(t *testing.T) {
		result := mustStatus(t, app.request("PUT", "/api/budgets/"+itoa(budgetID), `{"amount":100}`, token), http.StatusOK)
		b := result["budget"].(map[string]interface{})
		assertAmount(t, "remaining", b["remaining"], "50")
		assertAmount(t, "percentage", b["percentage_used"], "50")
	})

	t.Run("category with a budget cannot be deleted", func(t *testing.T) {
		rec := app.request("DELETE", "/api/categories/"+itoa(food), "", token)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		mustStatus(t, app.request("DELETE", "/api/budgets/"+itoa(budgetID), "", token), http.StatusOK)
		if rec := app.request("GET", "/api/budgets/"+itoa(budgetID), "", token); rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", rec.Code)
		}
	})
}

func TestExpenseFlow(t *testing.T) {
	app := setupApp(t)
	token := app.registerAndLogin(t, "alice")
	food := app.categoryID(t, token, "Food")
	transport := app.categoryID(t, token, "Transportation")

	post := func(category uint, amount, date string) uint {
		t.Helper()
		result := mustStatus(t, app.request("POST", "/api/expenses",
			`{"category_id":`+itoa(category)+`,"amount":`+amount+`,"date":"`+date+`"}`, token), http.StatusCreated)
		return uint(result["expense"].(map[string]interface{})["expense_id"].(float64))
	}
	post(food, "10", "2024-03-01")
	post(transport, "20.50", "2024-03-15")
	moved := post(food, "5", "2024-03-20")

	t.Run("filtered list", func(t *testing.T) {
		result := mustStatus(t, app.request("GET", "/api/expenses?month=3&year=2024&category="+itoa(food), "", token), http.StatusOK)
		if n := len(result["expenses"].([]interface{})); n != 2 {
			t.Fatalf("expected 2 expenses, got %d", n)
		}
		assertAmount(t, "total", result["total_amount"], "15")
	})

	t.Run("move to another month", func(t *testing.T) {
		mustStatus(t, app.request("PUT", "/api/expenses/"+itoa(moved), `{"date":"2024-04-02"}`, token), http.StatusOK)
		result := mustStatus(t, app.request("GET", "/api/expenses?month=3&year=2024", "", token), http.StatusOK)
		assertAmount(t, "march total", result["total_amount"], "30.5")
	})

	t.Run("rejected updates", func(t *testing.T) {
		mustStatus(t, app.request("PUT", "/api/expenses/"+itoa(moved), `{"category_id":9999}`, token), http.StatusBadRequest)
		mustStatus(t, app.request("PUT", "/api/expenses/"+itoa(moved), `{"date":"1800-01-01"}`, token), http.StatusBadRequest)
		mustStatus(t, app.request("POST", "/api/expenses",
			`{"category_id":`+itoa(food)+`,"amount":1,"date":"1800-01-01"}`, token), http.StatusBadRequest)
	})

	t.Run("category summary", func(t *testing.T) {
		result := mustStatus(t, app.request("GET", "/api/expenses/categories/summary?month=3&year=2024", "", token), http.StatusOK)
		summary := result["summary"].([]interface{})
		if len(summary) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(summary))
		}
		first := summary[0].(map[string]interface{})
		if first["category_name"] != "Transportation" {
			t.Errorf("expected highest spend first, got %v", first["category_name"])
		}
	})

	t.Run("recent", func(t *testing.T) {
		result := mustStatus(t, app.request("GET", "/api/expenses/recent?limit=2", "", token), http.StatusOK)
		recent := result["expenses"].([]interface{})
		if len(recent) != 2 {
			t.Fatalf("expected 2 expenses, got %d", len(recent))
		}
		if recent[0].(map[string]interface{})["date"] != "2024-04-02" {
			t.Errorf("expected newest first, got %v", recent[0])
		}
	})
}
