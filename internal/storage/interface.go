package storage

import (
	"context"
	"errors"

	"github.com/blogicum/blogicum/internal/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// Page describes a page-number request against a feed
type Page struct {
	Number int
	Size   int
}

// Offset returns the record offset for the page
func (p Page) Offset() int {
	n := p.Number
	if n < 1 {
		n = 1
	}
	return (n - 1) * p.Size
}

// Storage is the persistence interface for the blog.
//
// Feed methods return posts annotated with their comment count and ordered
// by publish date descending. PublishedFeed and CategoryFeed apply the
// public visibility invariant; AuthorFeed applies it only when includeHidden
// is false, so authors can see their own scheduled and hidden posts.
type Storage interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// Categories
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	// Locations
	CreateLocation(ctx context.Context, location *models.Location) error
	GetLocationByID(ctx context.Context, id int64) (*models.Location, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
	DeleteLocation(ctx context.Context, id int64) error

	// Posts
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id int64) (*models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id int64) error
	PublishedFeed(ctx context.Context, page Page) ([]models.Post, int64, error)
	CategoryFeed(ctx context.Context, categoryID int64, page Page) ([]models.Post, int64, error)
	AuthorFeed(ctx context.Context, authorID int64, includeHidden bool, page Page) ([]models.Post, int64, error)

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id int64) (*models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id int64) error
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
}
