package postgres

import (
	"time"

	"gorm.io/gorm"
)

// commentCountSelect annotates each post row with its comment count.
const commentCountSelect = "blog_posts.*, " +
	"(SELECT count(*) FROM blog_comments WHERE blog_comments.post_id = blog_posts.id) AS comment_count"

// Annotated orders posts by publish date descending, annotates the comment
// count and eager-loads the author, category and location relations. It
// applies no visibility filtering.
func Annotated(db *gorm.DB) *gorm.DB {
	return db.
		Select(commentCountSelect).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Order("blog_posts.pub_date DESC")
}

// Published restricts a post query to publicly visible records: published
// flag set, publish date not in the future and the category published. The
// category join drops posts whose category was deleted.
func Published(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return Annotated(db).
			Joins("JOIN blog_categories ON blog_categories.id = blog_posts.category_id").
			Where("blog_posts.is_published AND blog_posts.pub_date <= ? AND blog_categories.is_published", now)
	}
}

// publishedFilter applies the visibility predicate without the annotation
// select, for count queries.
func publishedFilter(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN blog_categories ON blog_categories.id = blog_posts.category_id").
			Where("blog_posts.is_published AND blog_posts.pub_date <= ? AND blog_categories.is_published", now)
	}
}
