package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/storage"
)

// Store implements storage.Storage on a postgres database
type Store struct {
	db *gorm.DB
}

// New creates a new postgres store
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}
	return err
}

// CreateUser creates a new user
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UpdateUser updates a user
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

// CreateCategory creates a new category
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	return s.db.WithContext(ctx).Create(category).Error
}

// GetCategoryByID retrieves a category by ID
func (s *Store) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

// GetCategoryBySlug retrieves a category by slug
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

// ListCategories lists categories ordered by title
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("title").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// DeleteCategory deletes a category. Posts keep existing with a null
// category reference.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return storage.ErrNotFound
		}
		// The FK constraint nulls the reference; keep the update explicit
		// so the store behaves the same on schemas without the constraint.
		return tx.Model(&models.Post{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
	})
}

// CreateLocation creates a new location
func (s *Store) CreateLocation(ctx context.Context, location *models.Location) error {
	return s.db.WithContext(ctx).Create(location).Error
}

// GetLocationByID retrieves a location by ID
func (s *Store) GetLocationByID(ctx context.Context, id int64) (*models.Location, error) {
	var location models.Location
	if err := s.db.WithContext(ctx).First(&location, id).Error; err != nil {
		return nil, translate(err)
	}
	return &location, nil
}

// ListLocations lists locations ordered by name
func (s *Store) ListLocations(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := s.db.WithContext(ctx).Order("name").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// DeleteLocation deletes a location, detaching its posts
func (s *Store) DeleteLocation(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Location{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return storage.ErrNotFound
		}
		return tx.Model(&models.Post{}).
			Where("location_id = ?", id).
			Update("location_id", nil).Error
	})
}

// CreatePost creates a new post
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

// GetPostByID retrieves a post by ID with relations and comment count
func (s *Store) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := Annotated(s.db.WithContext(ctx)).
		Where("blog_posts.id = ?", id).
		First(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// UpdatePost updates a post
func (s *Store) UpdatePost(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Omit("Author", "Category", "Location", "Comments").Save(post).Error
}

// DeletePost deletes a post and, through the cascade, its comments
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}

// PublishedFeed returns one page of the public feed
func (s *Store) PublishedFeed(ctx context.Context, page storage.Page) ([]models.Post, int64, error) {
	now := time.Now().UTC()

	var total int64
	if err := publishedFilter(now)(s.db.WithContext(ctx).Model(&models.Post{})).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	if err := Published(now)(s.db.WithContext(ctx)).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// CategoryFeed returns one page of the public feed for a category
func (s *Store) CategoryFeed(ctx context.Context, categoryID int64, page storage.Page) ([]models.Post, int64, error) {
	now := time.Now().UTC()

	var total int64
	if err := publishedFilter(now)(s.db.WithContext(ctx).Model(&models.Post{})).
		Where("blog_posts.category_id = ?", categoryID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	if err := Published(now)(s.db.WithContext(ctx)).
		Where("blog_posts.category_id = ?", categoryID).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// AuthorFeed returns one page of an author's posts. With includeHidden the
// visibility filter is skipped so owners see scheduled and hidden posts.
func (s *Store) AuthorFeed(ctx context.Context, authorID int64, includeHidden bool, page storage.Page) ([]models.Post, int64, error) {
	now := time.Now().UTC()

	countQuery := s.db.WithContext(ctx).Model(&models.Post{})
	feedQuery := s.db.WithContext(ctx)
	if includeHidden {
		feedQuery = Annotated(feedQuery)
	} else {
		countQuery = publishedFilter(now)(countQuery)
		feedQuery = Published(now)(feedQuery)
	}

	var total int64
	if err := countQuery.Where("blog_posts.author_id = ?", authorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	if err := feedQuery.
		Where("blog_posts.author_id = ?", authorID).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// CreateComment creates a new comment
func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

// GetCommentByID retrieves a comment by ID
func (s *Store) GetCommentByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

// UpdateComment updates a comment
func (s *Store) UpdateComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Omit("Author", "Post").Save(comment).Error
}

// DeleteComment deletes a comment
func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListComments lists a post's comments oldest first
func (s *Store) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := s.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
