package models

import "time"

// Category groups posts under a unique slug.
// An unpublished category hides all of its posts from public feeds.
type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title       string    `gorm:"type:varchar(256);not null;column:title" json:"title"`
	Description string    `gorm:"type:text;not null;column:description" json:"description"`
	Slug        string    `gorm:"type:varchar(64);not null;uniqueIndex;column:slug" json:"slug"`
	IsPublished bool      `gorm:"not null;default:true;column:is_published" json:"is_published"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime;column:created_at" json:"created_at"`

	// Relationships
	Posts []Post `gorm:"foreignKey:CategoryID;references:ID" json:"-"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "blog_categories"
}
