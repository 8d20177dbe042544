// Package server assembles the HTTP application: services wired to the
// period event bus, their handlers, and the gin route table.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"budgettracker/internal/events"
	"budgettracker/internal/handlers"
	"budgettracker/internal/middleware"
	"budgettracker/internal/notify"
	"budgettracker/internal/services"
)

// Options carries the settings the router needs beyond the database.
type Options struct {
	JWTSecret         string
	TokenTTL          time.Duration
	AuthRatePerMinute int
	// EnableSwagger mounts the swagger UI at /swagger.
	EnableSwagger     bool
}

// New builds the router. Every ledger write is published on an in-process
// bus that the savings reconciler subscribes to.
func New(db *gorm.DB, notifier notify.SavingsNotifier, opts Options) *gin.Engine {
	if notifier == nil {
		notifier = notify.Noop{}
	}

	bus := events.NewBus()

	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	budgetService := services.NewBudgetService(db)
	savingsService := services.NewSavingsService(db, notifier)
	bus.Subscribe(savingsService.HandlePeriodChanged)
	expenseService := services.NewExpenseService(db, bus)
	incomeService := services.NewIncomeService(db, bus)
	dashboardService := services.NewDashboardService(budgetService, expenseService, incomeService, savingsService)

	tokens := middleware.NewTokenManager(opts.JWTSecret, opts.TokenTTL)
	limiter := middleware.NewRateLimiter(opts.AuthRatePerMinute)

	authHandler := handlers.NewAuthHandler(userService, tokens)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	incomeHandler := handlers.NewIncomeHandler(incomeService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	if opts.EnableSwagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.AuthMiddleware(tokens, userService)

	auth := api.Group("/auth")
	auth.POST("/register", limiter.Middleware(), authHandler.Register)
	auth.POST("/login", limiter.Middleware(), authHandler.Login)
	auth.POST("/logout", limiter.Middleware(), authHandler.Logout)
	auth.GET("/me", requireAuth, authHandler.Me)

	protected := api.Group("")
	protected.Use(requireAuth)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/recent", expenseHandler.GetRecentExpenses)
	expenses.GET("/categories/summary", expenseHandler.GetCategorySummary)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	income := protected.Group("/income")
	income.POST("", incomeHandler.CreateIncome)
	income.GET("", incomeHandler.GetIncomes)
	income.GET("/:id", incomeHandler.GetIncome)
	income.PUT("/:id", incomeHandler.UpdateIncome)
	income.PATCH("/:id/receive", incomeHandler.ReceiveIncome)
	income.DELETE("/:id", incomeHandler.DeleteIncome)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("", dashboardHandler.GetOverview)
	dashboard.GET("/chart", dashboardHandler.GetSpendingChart)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
