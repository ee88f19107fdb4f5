package inmemory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/storage"
)

// Store is a map-backed storage.Storage implementation. It carries the same
// visibility, ordering and cascade semantics as the postgres store and
// backs the handler and storage tests.
type Store struct {
	mu sync.RWMutex

	users      map[int64]*models.User
	categories map[int64]*models.Category
	locations  map[int64]*models.Location
	posts      map[int64]*models.Post
	comments   map[int64]*models.Comment

	nextID int64
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		users:      make(map[int64]*models.User),
		categories: make(map[int64]*models.Category),
		locations:  make(map[int64]*models.Location),
		posts:      make(map[int64]*models.Post),
		comments:   make(map[int64]*models.Comment),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func now() time.Time {
	return time.Now().UTC()
}

// CreateUser creates a new user
func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.id()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now()
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

// UpdateUser updates a user
func (s *Store) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// CreateCategory creates a new category
func (s *Store) CreateCategory(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	category.ID = s.id()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now()
	}
	cp := *category
	s.categories[category.ID] = &cp
	return nil
}

// GetCategoryByID retrieves a category by ID
func (s *Store) GetCategoryByID(_ context.Context, id int64) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	category, ok := s.categories[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *category
	return &cp, nil
}

// GetCategoryBySlug retrieves a category by slug
func (s *Store) GetCategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, category := range s.categories {
		if category.Slug == slug {
			cp := *category
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

// ListCategories lists categories ordered by title
func (s *Store) ListCategories(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, 0, len(s.categories))
	for _, category := range s.categories {
		out = append(out, *category)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out, nil
}

// DeleteCategory deletes a category and detaches its posts
func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.categories, id)
	for _, post := range s.posts {
		if post.CategoryID.Valid && post.CategoryID.Int64 == id {
			post.CategoryID = sql.NullInt64{}
		}
	}
	return nil
}

// CreateLocation creates a new location
func (s *Store) CreateLocation(_ context.Context, location *models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	location.ID = s.id()
	if location.CreatedAt.IsZero() {
		location.CreatedAt = now()
	}
	cp := *location
	s.locations[location.ID] = &cp
	return nil
}

// GetLocationByID retrieves a location by ID
func (s *Store) GetLocationByID(_ context.Context, id int64) (*models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	location, ok := s.locations[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *location
	return &cp, nil
}

// ListLocations lists locations ordered by name
func (s *Store) ListLocations(_ context.Context) ([]models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Location, 0, len(s.locations))
	for _, location := range s.locations {
		out = append(out, *location)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// DeleteLocation deletes a location and detaches its posts
func (s *Store) DeleteLocation(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.locations, id)
	for _, post := range s.posts {
		if post.LocationID.Valid && post.LocationID.Int64 == id {
			post.LocationID = sql.NullInt64{}
		}
	}
	return nil
}

// CreatePost creates a new post
func (s *Store) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post.ID = s.id()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now()
	}
	cp := *post
	cp.Author, cp.Category, cp.Location, cp.Comments = nil, nil, nil, nil
	s.posts[post.ID] = &cp
	return nil
}

// GetPostByID retrieves a post with relations and comment count
func (s *Store) GetPostByID(_ context.Context, id int64) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	annotated := s.annotate(post)
	return &annotated, nil
}

// UpdatePost updates a post
func (s *Store) UpdatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[post.ID]; !ok {
		return storage.ErrNotFound
	}
	cp := *post
	cp.Author, cp.Category, cp.Location, cp.Comments = nil, nil, nil, nil
	s.posts[post.ID] = &cp
	return nil
}

// DeletePost deletes a post together with its comments
func (s *Store) DeletePost(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.posts, id)
	for cid, comment := range s.comments {
		if comment.PostID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

// annotate clones a post, attaches relations and counts comments.
// Callers must hold at least the read lock.
func (s *Store) annotate(post *models.Post) models.Post {
	cp := *post
	if author, ok := s.users[post.AuthorID]; ok {
		a := *author
		cp.Author = &a
	}
	if post.CategoryID.Valid {
		if category, ok := s.categories[post.CategoryID.Int64]; ok {
			c := *category
			cp.Category = &c
		}
	}
	if post.LocationID.Valid {
		if location, ok := s.locations[post.LocationID.Int64]; ok {
			l := *location
			cp.Location = &l
		}
	}
	cp.CommentCount = 0
	for _, comment := range s.comments {
		if comment.PostID == post.ID {
			cp.CommentCount++
		}
	}
	return cp
}

// feed collects, orders and paginates posts matching the filter.
// Callers must hold at least the read lock.
func (s *Store) feed(filter func(models.Post) bool, page storage.Page) ([]models.Post, int64) {
	matched := make([]models.Post, 0)
	for _, post := range s.posts {
		annotated := s.annotate(post)
		if filter(annotated) {
			matched = append(matched, annotated)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].PubDate.After(matched[j].PubDate)
	})

	total := int64(len(matched))
	start := page.Offset()
	if start >= len(matched) {
		return []models.Post{}, total
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total
}

// PublishedFeed returns one page of the public feed
func (s *Store) PublishedFeed(_ context.Context, page storage.Page) ([]models.Post, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	moment := now()
	posts, total := s.feed(func(p models.Post) bool {
		return p.IsVisible(moment)
	}, page)
	return posts, total, nil
}

// CategoryFeed returns one page of the public feed for a category
func (s *Store) CategoryFeed(_ context.Context, categoryID int64, page storage.Page) ([]models.Post, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	moment := now()
	posts, total := s.feed(func(p models.Post) bool {
		return p.CategoryID.Valid && p.CategoryID.Int64 == categoryID && p.IsVisible(moment)
	}, page)
	return posts, total, nil
}

// AuthorFeed returns one page of an author's posts
func (s *Store) AuthorFeed(_ context.Context, authorID int64, includeHidden bool, page storage.Page) ([]models.Post, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	moment := now()
	posts, total := s.feed(func(p models.Post) bool {
		if p.AuthorID != authorID {
			return false
		}
		return includeHidden || p.IsVisible(moment)
	}, page)
	return posts, total, nil
}

// CreateComment creates a new comment
func (s *Store) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[comment.PostID]; !ok {
		return storage.ErrNotFound
	}
	comment.ID = s.id()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now()
	}
	cp := *comment
	cp.Post, cp.Author = nil, nil
	s.comments[comment.ID] = &cp
	return nil
}

// GetCommentByID retrieves a comment by ID
func (s *Store) GetCommentByID(_ context.Context, id int64) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comment, ok := s.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *comment
	if author, ok := s.users[comment.AuthorID]; ok {
		a := *author
		cp.Author = &a
	}
	return &cp, nil
}

// UpdateComment updates a comment
func (s *Store) UpdateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[comment.ID]; !ok {
		return storage.ErrNotFound
	}
	cp := *comment
	cp.Post, cp.Author = nil, nil
	s.comments[comment.ID] = &cp
	return nil
}

// DeleteComment deletes a comment
func (s *Store) DeleteComment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

// ListComments lists a post's comments oldest first
func (s *Store) ListComments(_ context.Context, postID int64) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Comment, 0)
	for _, comment := range s.comments {
		if comment.PostID != postID {
			continue
		}
		cp := *comment
		if author, ok := s.users[comment.AuthorID]; ok {
			a := *author
			cp.Author = &a
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
