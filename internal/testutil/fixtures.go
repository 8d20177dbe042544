package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"budgettracker/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithName(t, db, fmt.Sprintf("user%d", n), fmt.Sprintf("user%d@test.com", n))
}

// CreateTestUserWithName creates a user with the given username and email.
func CreateTestUserWithName(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, userID, fmt.Sprintf("Category %d", nextID()))
}

// CreateTestCategoryWithName creates a category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, userID uint, name string) *models.Category {
	t.Helper()

	category := &models.Category{UserID: userID}
	category.SetName(name)
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestBudget creates an allocation of amount for the category and month.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID, categoryID uint, amount string, month, year int) *models.BudgetAllocation {
	t.Helper()

	budget := &models.BudgetAllocation{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     Dec(amount),
		Month:      month,
		Year:       year,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestExpense creates an expense of amount on the given day.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, categoryID uint, amount string, date models.Date) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      Dec(amount),
		Date:        date,
		Description: fmt.Sprintf("Expense %d", nextID()),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestIncome creates an unreceived income source for the month.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID uint, expected string, month, year int) *models.IncomeSource {
	t.Helper()

	due := models.NewDate(year, time.Month(month), 15)
	income := &models.IncomeSource{
		UserID:         userID,
		SourceName:     fmt.Sprintf("Source %d", nextID()),
		ExpectedAmount: Dec(expected),
		DueDate:        &due,
		Month:          month,
		Year:           year,
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestReceivedIncome creates an income already received with actual on receivedOn.
func CreateTestReceivedIncome(t *testing.T, db *gorm.DB, userID uint, expected, actual string, receivedOn models.Date) *models.IncomeSource {
	t.Helper()

	month, year := receivedOn.Period()
	income := CreateTestIncome(t, db, userID, expected, month, year)
	amount := Dec(actual)
	if err := db.Model(income).Updates(map[string]interface{}{
		"is_received":   true,
		"actual_amount": amount,
		"receive_date":  receivedOn,
	}).Error; err != nil {
		t.Fatalf("failed to receive test income: %v", err)
	}
	income.IsReceived = true
	income.ActualAmount = &amount
	income.ReceiveDate = &receivedOn
	return income
}

// Day is shorthand for a calendar day in tests.
func Day(year, month, day int) models.Date {
	return models.NewDate(year, time.Month(month), day)
}
