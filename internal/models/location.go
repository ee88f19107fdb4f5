package models

import "time"

// Location is an optional place attached to a post.
// Deleting a location detaches its posts, it never deletes them.
type Location struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name        string    `gorm:"type:varchar(256);not null;column:name" json:"name"`
	IsPublished bool      `gorm:"not null;default:true;column:is_published" json:"is_published"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime;column:created_at" json:"created_at"`
}

// TableName specifies the table name for Location
func (Location) TableName() string {
	return "blog_locations"
}
