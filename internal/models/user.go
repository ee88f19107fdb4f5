package models

import "time"

// User represents a registered author
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Username     string    `gorm:"type:varchar(150);not null;uniqueIndex;column:username" json:"username"`
	Email        string    `gorm:"type:varchar(254);not null;column:email" json:"email"`
	FirstName    string    `gorm:"type:varchar(150);column:first_name" json:"first_name"`
	LastName     string    `gorm:"type:varchar(150);column:last_name" json:"last_name"`
	PasswordHash string    `gorm:"type:varchar(128);not null;column:password_hash" json:"-"`
	IsStaff      bool      `gorm:"not null;default:false;column:is_staff" json:"-"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime;column:created_at" json:"created_at"`

	// Relationships
	Posts    []Post    `gorm:"foreignKey:AuthorID;references:ID" json:"-"`
	Comments []Comment `gorm:"foreignKey:AuthorID;references:ID" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "blog_users"
}
