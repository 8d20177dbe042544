package services

import (
	"testing"

	"budgettracker/internal/models"
	"budgettracker/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid_seeds_default_categories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		user, err := svc.CreateUser("alice", "alice@example.com", "password123")
		testutil.AssertNoError(t, err)

		if user.UserID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")); err != nil {
			t.Error("expected password to be stored as a bcrypt hash")
		}

		var count int64
		db.Model(&models.Category{}).Where("user_id = ?", user.UserID).Count(&count)
		if int(count) != len(models.DefaultCategoryNames) {
			t.Errorf("expected %d default categories, got %d", len(models.DefaultCategoryNames), count)
		}
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		_, err := svc.CreateUser("bob", "bob@example.com", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("bob", "other@example.com", "password123")
		testutil.AssertAppError(t, err, "DUPLICATE_USER")
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		_, err := svc.CreateUser("carol", "carol@example.com", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("carol2", "carol@example.com", "password123")
		testutil.AssertAppError(t, err, "DUPLICATE_USER")
	})

	t.Run("validation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)

		tests := []struct {
			name                      string
			username, email, password string
		}{
			{"missing_username", "", "x@example.com", "pw"},
			{"missing_email", "x", "", "pw"},
			{"missing_password", "x", "x@example.com", ""},
			{"bad_email", "x", "not-an-email", "pw"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.CreateUser(tt.username, tt.email, tt.password)
				testutil.AssertAppError(t, err, "INVALID_INPUT")
			})
		}
	})
}

func TestAttemptLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)
	user := testutil.CreateTestUserWithName(t, db, "dave", "dave@example.com")

	t.Run("valid", func(t *testing.T) {
		got, err := svc.AttemptLogin("dave", testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if got.UserID != user.UserID {
			t.Errorf("expected user %d, got %d", user.UserID, got.UserID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := svc.AttemptLogin("dave", "nope")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_user", func(t *testing.T) {
		_, err := svc.AttemptLogin("nobody", testutil.TestPassword)
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("missing_fields", func(t *testing.T) {
		_, err := svc.AttemptLogin("", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewUserService(db)

	_, err := svc.GetUserByID(9999)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}
