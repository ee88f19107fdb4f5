package models

import (
	"database/sql"
	"time"
)

// Post represents a blog publication.
// A post with a future PubDate is scheduled and stays out of public feeds
// until the date passes.
type Post struct {
	ID          int64         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title       string        `gorm:"type:varchar(256);not null;column:title" json:"title"`
	Text        string        `gorm:"type:text;not null;column:text" json:"text"`
	PubDate     time.Time     `gorm:"not null;index;column:pub_date" json:"pub_date"`
	IsPublished bool          `gorm:"not null;default:true;column:is_published" json:"is_published"`
	ImageURL    string        `gorm:"type:varchar(512);column:image_url" json:"image_url,omitempty"`
	AuthorID    int64         `gorm:"not null;index;column:author_id" json:"author_id"`
	LocationID  sql.NullInt64 `gorm:"column:location_id" json:"-"`
	CategoryID  sql.NullInt64 `gorm:"index;column:category_id" json:"-"`
	CreatedAt   time.Time     `gorm:"not null;autoCreateTime;column:created_at" json:"created_at"`

	// Relationships
	Author   *User     `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Location *Location `gorm:"foreignKey:LocationID;references:ID;constraint:OnDelete:SET NULL" json:"location,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	// CommentCount is annotated by the query layer, it is not a column.
	CommentCount int64 `gorm:"->;-:migration" json:"comment_count"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "blog_posts"
}

// OwnerID returns the author's user id
func (p *Post) OwnerID() int64 {
	return p.AuthorID
}

// IsVisible reports whether the post satisfies the public visibility
// invariant at the given instant: published flag set, publish date reached
// and a published category attached. A post whose category was deleted
// keeps existing but drops out of public feeds, matching the join
// semantics of the published query.
func (p *Post) IsVisible(now time.Time) bool {
	if !p.IsPublished || p.PubDate.After(now) {
		return false
	}
	return p.Category != nil && p.Category.IsPublished
}
