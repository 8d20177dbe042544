package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
	"budgettracker/internal/services"
)

const defaultRecentExpenses = 5

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the request payload for recording an expense.
type CreateExpenseRequest struct {
	CategoryID  uint             `json:"category_id" binding:"required"`
	Amount      *decimal.Decimal `json:"amount" binding:"required" swaggertype:"number"`
	Date        *models.Date     `json:"date" binding:"required" swaggertype:"string" example:"2024-03-10"`
	Description string           `json:"description" binding:"max=255"`
}

// UpdateExpenseRequest represents a partial expense update; omitted fields are kept.
type UpdateExpenseRequest struct {
	CategoryID  *uint            `json:"category_id"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"number"`
	Date        *models.Date     `json:"date" swaggertype:"string" example:"2024-03-10"`
	Description *string          `json:"description" binding:"omitempty,max=255"`
}

// CreateExpense handles recording a new expense.
// @Summary     Create an expense
// @Description Record an expense; the month's savings are reconciled
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input or bad category"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, req.CategoryID, *req.Amount, *req.Date, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing expenses.
// @Summary     Get expenses
// @Description List expenses newest first with the total of every matching expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       month     query int false "Month (1-12)"
// @Param       year      query int false "Year"
// @Param       category  query int false "Category ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (max 100); omit for the whole list"
// @Success     200 {object} services.ExpenseList "Expenses with total"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	month, year, err := queryPeriodFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter := services.ExpenseFilter{Month: month, Year: year}

	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "category must be a category ID"))
			return
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	result, err := h.expenseService.GetUserExpenses(userID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense handles retrieving a specific expense.
// @Summary     Get expense by ID
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles a partial expense update.
// @Summary     Update expense
// @Description Update an expense; savings are reconciled for every month it touched
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to change"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or bad category"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if req.Date != nil && req.Date.IsZero() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date cannot be empty"))
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, services.ExpenseUpdate{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting an expense.
// @Summary     Delete expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}

// GetCategorySummary handles the monthly per-category spend summary.
// @Summary     Spend by category
// @Description Sum a month's expenses per category, largest first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       month query int true "Month (1-12)"
// @Param       year  query int true "Year"
// @Success     200 {array}  services.CategorySpend "Category totals"
// @Failure     400 {object} ErrorResponse "Missing or invalid month/year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses/categories/summary [get]
func (h *ExpenseHandler) GetCategorySummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, year, err := queryPeriodFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if month == nil || year == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "month and year are required"))
		return
	}

	summary, err := h.expenseService.GetCategorySummary(userID, *month, *year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetRecentExpenses handles listing the latest expenses across all months.
// @Summary     Recent expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Number of expenses (default 5, max 50)"
// @Success     200 {array}  models.Expense "Latest expenses"
// @Failure     400 {object} ErrorResponse "Invalid limit"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses/recent [get]
func (h *ExpenseHandler) GetRecentExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit := defaultRecentExpenses
	if l, err := queryInt(c, "limit"); err != nil {
		respondWithError(c, err)
		return
	} else if l != nil {
		limit = *l
	}

	expenses, err := h.expenseService.GetRecentExpenses(userID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}
