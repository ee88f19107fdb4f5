package models

import "time"

// Comment belongs to exactly one post and one author.
// It is removed together with either of them.
type Comment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Text        string    `gorm:"type:text;not null;column:text" json:"text"`
	IsPublished bool      `gorm:"not null;default:true;column:is_published" json:"is_published"`
	PostID      int64     `gorm:"not null;index;column:post_id" json:"post_id"`
	AuthorID    int64     `gorm:"not null;index;column:author_id" json:"author_id"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime;column:created_at" json:"created_at"`

	// Relationships
	Post   *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "blog_comments"
}

// OwnerID returns the author's user id
func (c *Comment) OwnerID() int64 {
	return c.AuthorID
}
