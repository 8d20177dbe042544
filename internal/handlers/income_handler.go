package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"budgettracker/internal/models"
	"budgettracker/internal/pagination"
	"budgettracker/internal/services"
)

// IncomeHandler handles income-related requests.
type IncomeHandler struct {
	incomeService services.IncomeServicer
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(incomeService services.IncomeServicer) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// CreateIncomeRequest represents the request payload for an expected income.
type CreateIncomeRequest struct {
	SourceName     string           `json:"source_name" binding:"required,notblank,max=100"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount" binding:"required" swaggertype:"number"`
	Month          int              `json:"month" binding:"required,month"`
	Year           int              `json:"year" binding:"required,year"`
	DueDate        *models.Date     `json:"due_date" swaggertype:"string" example:"2024-03-25"`
	Description    string           `json:"description" binding:"max=255"`
}

// UpdateIncomeRequest represents a partial income update; omitted fields are kept.
type UpdateIncomeRequest struct {
	SourceName     *string          `json:"source_name" binding:"omitempty,notblank,max=100"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount" swaggertype:"number"`
	ActualAmount   *decimal.Decimal `json:"actual_amount" swaggertype:"number"`
	IsReceived     *bool            `json:"is_received"`
	DueDate        *models.Date     `json:"due_date" swaggertype:"string"`
	ReceiveDate    *models.Date     `json:"receive_date" swaggertype:"string"`
	Month          *int             `json:"month" binding:"omitempty,month"`
	Year           *int             `json:"year" binding:"omitempty,year"`
	Description    *string          `json:"description" binding:"omitempty,max=255"`
}

// ReceiveIncomeRequest marks an income as received.
type ReceiveIncomeRequest struct {
	ActualAmount *decimal.Decimal `json:"actual_amount" binding:"required" swaggertype:"number"`
	ReceiveDate  *models.Date     `json:"receive_date" swaggertype:"string" example:"2024-03-28"`
}

// CreateIncome handles recording an expected income.
// @Summary     Create an income source
// @Description Record an expected income for a month; the month's savings are reconciled
// @Tags        income
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateIncomeRequest true "Income details"
// @Success     201 {object} models.IncomeSource "Income created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income [post]
func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	income, err := h.incomeService.CreateIncome(
		userID, req.SourceName, *req.ExpectedAmount, req.Month, req.Year, nonZeroDate(req.DueDate), req.Description,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"income": income})
}

// GetIncomes handles listing income sources.
// @Summary     Get income sources
// @Description List income sources by due date with expected and received totals
// @Tags        income
// @Produce     json
// @Security    BearerAuth
// @Param       month     query int false "Month (1-12)"
// @Param       year      query int false "Year"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (max 100); omit for the whole list"
// @Success     200 {object} services.IncomeList "Income sources with totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income [get]
func (h *IncomeHandler) GetIncomes(c *gin.Context) {
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

	result, err := h.incomeService.GetUserIncomes(userID, month, year, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetIncome handles retrieving a specific income source.
// @Summary     Get income by ID
// @Tags        income
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Income ID"
// @Success     200 {object} models.IncomeSource "Income details"
// @Failure     400 {object} ErrorResponse "Invalid income ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Router      /income/{id} [get]
func (h *IncomeHandler) GetIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.GetIncomeByID(userID, incomeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// UpdateIncome handles a partial income update.
// @Summary     Update income
// @Description Update an income source; savings are reconciled for every month it touched
// @Tags        income
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Income ID"
// @Param       request body UpdateIncomeRequest true "Fields to change"
// @Success     200 {object} models.IncomeSource "Updated income"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income/{id} [put]
func (h *IncomeHandler) UpdateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	income, err := h.incomeService.UpdateIncome(userID, incomeID, services.IncomeUpdate{
		SourceName:     req.SourceName,
		ExpectedAmount: req.ExpectedAmount,
		ActualAmount:   req.ActualAmount,
		IsReceived:     req.IsReceived,
		DueDate:        nonZeroDate(req.DueDate),
		ReceiveDate:    nonZeroDate(req.ReceiveDate),
		Month:          req.Month,
		Year:           req.Year,
		Description:    req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// ReceiveIncome handles marking an income as received.
// @Summary     Receive income
// @Description Mark an income as received with its actual amount; receive_date defaults to today
// @Tags        income
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Income ID"
// @Param       request body ReceiveIncomeRequest true "Received amount and date"
// @Success     200 {object} models.IncomeSource "Received income"
// @Failure     400 {object} ErrorResponse "Missing actual_amount"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /income/{id}/receive [patch]
func (h *IncomeHandler) ReceiveIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReceiveIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	income, err := h.incomeService.ReceiveIncome(userID, incomeID, *req.ActualAmount, nonZeroDate(req.ReceiveDate))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// DeleteIncome handles deleting an income source.
// @Summary     Delete income
// @Tags        income
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Income ID"
// @Success     200 {object} MessageResponse "Income deleted"
// @Failure     400 {object} ErrorResponse "Invalid income ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Router      /income/{id} [delete]
func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.incomeService.DeleteIncome(userID, incomeID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Income deleted successfully"})
}

// nonZeroDate treats an empty date string like an omitted one.
func nonZeroDate(d *models.Date) *models.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}
