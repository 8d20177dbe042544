package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
	"budgettracker/internal/services"
)

type mockCategoryService struct {
	createCategoryFn    func(userID uint, name string) (*models.Category, error)
	getUserCategoriesFn func(userID uint) ([]models.Category, error)
	getCategoryByIDFn   func(userID, categoryID uint) (*models.Category, error)
	updateCategoryFn    func(userID, categoryID uint, name string) (*models.Category, error)
	deleteCategoryFn    func(userID, categoryID uint) error
}

func (m *mockCategoryService) CreateCategory(userID uint, name string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, name)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) CreateDefaultCategories(_ uint) ([]models.Category, error) {
	return nil, nil
}

func (m *mockCategoryService) GetUserCategories(userID uint) ([]models.Category, error) {
	if m.getUserCategoriesFn != nil {
		return m.getUserCategoriesFn(userID)
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(userID, categoryID)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(userID, categoryID uint, name string) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, name)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(userID, categoryID uint) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/categories", handler.CreateCategory)
	auth.GET("/categories", handler.GetUserCategories)
	auth.GET("/categories/:id", handler.GetCategoryByID)
	auth.PUT("/categories/:id", handler.UpdateCategory)
	auth.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{"created", `{"name":"Travel"}`, nil, http.StatusCreated, ""},
		{"blank_name", `{"name":"   "}`, nil, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing_name", `{}`, nil, http.StatusBadRequest, "INVALID_INPUT"},
		{"duplicate", `{"name":"food"}`, apperrors.ErrDuplicateCategory, http.StatusBadRequest, "DUPLICATE_CATEGORY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCategoryService{
				createCategoryFn: func(userID uint, name string) (*models.Category, error) {
					if tt.svcErr != nil {
						return nil, tt.svcErr
					}
					return &models.Category{CategoryID: 9, UserID: userID, Name: name}, nil
				},
			}
			r := setupCategoryRouter(NewCategoryHandler(svc))

			rec := doRequest(r, "POST", "/categories", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantCode != "" {
				assertErrorCode(t, parseJSON(t, rec), tt.wantCode)
				return
			}
			category := parseJSON(t, rec)["category"].(map[string]interface{})
			if category["name"] != "Travel" {
				t.Errorf("expected Travel, got %v", category["name"])
			}
		})
	}
}

func TestCategoryHandler_GetUserCategories(t *testing.T) {
	svc := &mockCategoryService{
		getUserCategoriesFn: func(userID uint) ([]models.Category, error) {
			return []models.Category{
				{CategoryID: 1, UserID: userID, Name: "Food"},
				{CategoryID: 2, UserID: userID, Name: "Housing"},
			}, nil
		},
	}
	r := setupCategoryRouter(NewCategoryHandler(svc))

	rec := doRequest(r, "GET", "/categories", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := len(parseJSON(t, rec)["categories"].([]interface{})); got != 2 {
		t.Errorf("expected 2 categories, got %d", got)
	}
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	t.Run("returns 404 for a foreign category", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_, _ uint, _ string) (*models.Category, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "PUT", "/categories/5", `{"name":"Rent"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}))

		rec := doRequest(r, "PUT", "/categories/abc", `{"name":"Rent"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var deleted uint
		svc := &mockCategoryService{
			deleteCategoryFn: func(_, categoryID uint) error {
				deleted = categoryID
				return nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "DELETE", "/categories/4", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if deleted != 4 {
			t.Errorf("expected category 4 deleted, got %d", deleted)
		}
	})

	t.Run("returns 400 when in use", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(_, _ uint) error { return apperrors.ErrCategoryInUse },
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "DELETE", "/categories/4", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_IN_USE")
	})
}
