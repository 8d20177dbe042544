package models

import "strings"

// DefaultCategoryNames are created for every new user.
var DefaultCategoryNames = []string{"Housing", "Food", "Transportation", "Entertainment", "Utilities"}

// Category is a user-owned label for budgets and expenses
type Category struct {
	CategoryID uint   `gorm:"primaryKey;column:category_id" json:"category_id"`
	UserID     uint   `gorm:"not null;uniqueIndex:idx_categories_user_name,priority:1" json:"user_id"`
	Name       string `gorm:"size:100;not null" json:"name"`
	// NameKey is the case-folded name backing per-user uniqueness.
	NameKey string `gorm:"size:100;not null;uniqueIndex:idx_categories_user_name,priority:2" json:"-"`
	Base
}

// CategoryKey normalizes a category name for uniqueness checks.
func CategoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SetName trims the name and keeps NameKey in step with it.
func (c *Category) SetName(name string) {
	c.Name = strings.TrimSpace(name)
	c.NameKey = CategoryKey(name)
}
