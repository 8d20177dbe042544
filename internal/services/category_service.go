package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "budgettracker/internal/errors"
	"budgettracker/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(userID uint, name string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	if err := s.ensureNameAvailable(userID, name, 0); err != nil {
		return nil, err
	}

	category := &models.Category{UserID: userID}
	category.SetName(name)

	if err := s.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// CreateDefaultCategories seeds the starter categories for a new user.
func (s *categoryService) CreateDefaultCategories(userID uint) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(models.DefaultCategoryNames))
	for _, name := range models.DefaultCategoryNames {
		c := models.Category{UserID: userID}
		c.SetName(name)
		categories = append(categories, c)
	}

	if err := s.db.Create(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetUserCategories lists a user's categories ordered by name.
func (s *categoryService) GetUserCategories(userID uint) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	return categoryOwned(s.db, userID, categoryID)
}

// UpdateCategory renames an existing category
func (s *categoryService) UpdateCategory(userID, categoryID uint, name string) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(userID, name, categoryID); err != nil {
		return nil, err
	}

	category.SetName(name)
	err = s.db.Model(category).Updates(map[string]interface{}{
		"name":     category.Name,
		"name_key": category.NameKey,
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// DeleteCategory deletes a category that no budget or expense references.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	for _, model := range []interface{}{&models.BudgetAllocation{}, &models.Expense{}} {
		var count int64
		if err := s.db.Model(model).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrCategoryInUse
		}
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ensureNameAvailable checks case-insensitive uniqueness, ignoring excludeID.
func (s *categoryService) ensureNameAvailable(userID uint, name string, excludeID uint) error {
	q := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name_key = ?", userID, models.CategoryKey(name))
	if excludeID != 0 {
		q = q.Where("category_id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}
