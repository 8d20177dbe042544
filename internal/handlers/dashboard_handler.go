package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgettracker/internal/services"
)

// DashboardHandler serves the monthly overview.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetOverview handles the dashboard snapshot.
// @Summary     Dashboard overview
// @Description Balance, budget summary, recent activity and savings for a month (default: current month)
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month (1-12)"
// @Param       year  query int false "Year"
// @Success     200 {object} services.DashboardOverview "Month snapshot"
// @Failure     400 {object} ErrorResponse "Invalid month/year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, year, err := queryPeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	overview, err := h.dashboardService.GetOverview(userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetSpendingChart handles the spending pie chart.
// @Summary     Spending chart
// @Description PNG pie chart of a month's spend per category (default: current month)
// @Tags        dashboard
// @Produce     png
// @Security    BearerAuth
// @Param       month query int false "Month (1-12)"
// @Param       year  query int false "Year"
// @Success     200 {file}   binary "PNG image"
// @Failure     400 {object} ErrorResponse "Invalid month/year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No expenses in the month"
// @Router      /dashboard/chart [get]
func (h *DashboardHandler) GetSpendingChart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, year, err := queryPeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	img, err := h.dashboardService.GetSpendingChart(userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", img)
}
