package models

// User represents an account holder
type User struct {
	UserID       uint   `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username     string `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Base
}
