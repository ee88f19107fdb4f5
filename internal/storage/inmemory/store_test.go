package inmemory

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/storage"
)

var page = storage.Page{Number: 1, Size: 10}

// newTestStore creates a store seeded with one author and one published
// category.
func newTestStore(t *testing.T) (*Store, *models.User, *models.Category) {
	t.Helper()
	store := New()
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, store.CreateUser(ctx, user))

	category := &models.Category{Title: "News", Slug: "news", IsPublished: true}
	require.NoError(t, store.CreateCategory(ctx, category))

	return store, user, category
}

func newPost(t *testing.T, store *Store, author *models.User, category *models.Category, title string, pubDate time.Time, published bool) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:       title,
		Text:        "text",
		PubDate:     pubDate,
		IsPublished: published,
		AuthorID:    author.ID,
	}
	if category != nil {
		post.CategoryID = sql.NullInt64{Int64: category.ID, Valid: true}
	}
	require.NoError(t, store.CreatePost(context.Background(), post))
	return post
}

func TestStore_CreateAndGetPost(t *testing.T) {
	store, user, category := newTestStore(t)
	ctx := context.Background()

	post := newPost(t, store, user, category, "A", time.Now().Add(-time.Hour), true)

	retrieved, err := store.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", retrieved.Title)
	require.NotNil(t, retrieved.Author)
	assert.Equal(t, "alice", retrieved.Author.Username)
	require.NotNil(t, retrieved.Category)
	assert.Equal(t, "news", retrieved.Category.Slug)

	_, err = store.GetPostByID(ctx, 9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_FuturePostHiddenFromPublicFeeds(t *testing.T) {
	store, user, category := newTestStore(t)
	ctx := context.Background()

	newPost(t, store, user, category, "scheduled", time.Now().Add(24*time.Hour), true)

	posts, total, err := store.PublishedFeed(ctx, page)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Zero(t, total)

	posts, _, err = store.CategoryFeed(ctx, category.ID, page)
	require.NoError(t, err)
	assert.Empty(t, posts)

	// The author still sees it in their own profile feed
	posts, total, err = store.AuthorFeed(ctx, user.ID, true, page)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "scheduled", posts[0].Title)

	// Other viewers do not
	posts, _, err = store.AuthorFeed(ctx, user.ID, false, page)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestStore_UnpublishedCategoryHidesPosts(t *testing.T) {
	store, user, _ := newTestStore(t)
	ctx := context.Background()

	hidden := &models.Category{Title: "Hidden", Slug: "hidden", IsPublished: false}
	require.NoError(t, store.CreateCategory(ctx, hidden))

	newPost(t, store, user, hidden, "in hidden category", time.Now().Add(-time.Hour), true)

	posts, _, err := store.PublishedFeed(ctx, page)
	require.NoError(t, err)
	assert.Empty(t, posts, "post in unpublished category must not appear regardless of its own flag")
}

func TestStore_PublishToggleScenario(t *testing.T) {
	store, user, category := newTestStore(t)
	ctx := context.Background()

	post := newPost(t, store, user, category, "A", time.Now().Add(-24*time.Hour), true)

	posts, _, err := store.PublishedFeed(ctx, page)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	posts, _, err = store.CategoryFeed(ctx, category.ID, page)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	// Hide the post: it disappears from both feeds
	post.IsPublished = false
	require.NoError(t, store.UpdatePost(ctx, post))

	posts, _, err = store.PublishedFeed(ctx, page)
	require.NoError(t, err)
	assert.Empty(t, posts)

	posts, _, err = store.CategoryFeed(ctx, category.ID, page)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestStore_DeleteCategoryDetachesPosts(t *testing.T) {
	store, user, category := newTestStore(t)
	ctx := context.Background()

	post := newPost(t, store, user, category, "A", time.Now().Add(-time.Hour), true)

	require.NoError(t, store.DeleteCategory(ctx, category.ID))

	retrieved, err := store.GetPostByID(ctx, post.ID)
	require.NoError(t, err, "post must survive its category")
	assert.False(t, retrieved.CategoryID.Valid)

	// Without a published category the post leaves the public feed
	posts, _, err := store.PublishedFeed(ctx, page)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestStore_DeletePostCascadesComments(t *testing.T) {
	store, user, category := newTestStore(t)
	ctx := context.Background()

	post := newPost(t, store, user, category, "A", time.Now().Add(-time.Hour), true)

	comment := &models.Comment{Text: "hi", PostID: post.ID, AuthorID: user.ID, IsPublished: true}
	require.NoError(t, store.CreateComment(ctx, comment))

	require.NoError(t, store.DeletePost(ctx, post.ID))

	_, err := store.GetCommentByID(ctx, comment.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_FeedOrderingAndAnnotation(t *testing.T) {
	store, user, category := newTestStore(t)
	ctx := context.Background()

	older := newPost(t, store, user, category, "older", time.Now().Add(-2*time.Hour), true)
	newer := newPost(t, store, user, category, "newer", time.Now().Add(-time.Hour), true)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.CreateComment(ctx, &models.Comment{
			Text: "c", PostID: older.ID, AuthorID: user.ID, IsPublished: true,
		}))
	}

	posts, total, err := store.PublishedFeed(ctx, page)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, int64(2), total)

	// Newest first
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)

	// Comment counts annotated
	assert.Equal(t, int64(0), posts[0].CommentCount)
	assert.Equal(t, int64(3), posts[1].CommentCount)
}

func TestStore_CommentsOldestFirst(t *testing.T) {
	store, user, category := newTestStore(t)
	ctx := context.Background()

	post := newPost(t, store, user, category, "A", time.Now().Add(-time.Hour), true)

	base := time.Now().Add(-time.Minute)
	for i, text := range []string{"first", "second", "third"} {
		require.NoError(t, store.CreateComment(ctx, &models.Comment{
			Text:        text,
			PostID:      post.ID,
			AuthorID:    user.ID,
			IsPublished: true,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}))
	}

	comments, err := store.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
	assert.Equal(t, "third", comments[2].Text)
}

func TestStore_Pagination(t *testing.T) {
	store, user, category := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		newPost(t, store, user, category, "post", time.Now().Add(-time.Duration(i+1)*time.Hour), true)
	}

	posts, total, err := store.PublishedFeed(ctx, storage.Page{Number: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, posts, 2)

	posts, _, err = store.PublishedFeed(ctx, storage.Page{Number: 3, Size: 2})
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	posts, _, err = store.PublishedFeed(ctx, storage.Page{Number: 4, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestStore_ListOrdering(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCategory(ctx, &models.Category{Title: "Art", Slug: "art", IsPublished: true}))
	require.NoError(t, store.CreateLocation(ctx, &models.Location{Name: "Zurich", IsPublished: true}))
	require.NoError(t, store.CreateLocation(ctx, &models.Location{Name: "Amsterdam", IsPublished: true}))

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Art", categories[0].Title)
	assert.Equal(t, "News", categories[1].Title)

	locations, err := store.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Amsterdam", locations[0].Name)
	assert.Equal(t, "Zurich", locations[1].Name)
}

func TestStore_DeleteLocationDetachesPosts(t *testing.T) {
	store, user, category := newTestStore(t)
	ctx := context.Background()

	location := &models.Location{Name: "Berlin", IsPublished: true}
	require.NoError(t, store.CreateLocation(ctx, location))

	post := newPost(t, store, user, category, "A", time.Now().Add(-time.Hour), true)
	post.LocationID = sql.NullInt64{Int64: location.ID, Valid: true}
	require.NoError(t, store.UpdatePost(ctx, post))

	require.NoError(t, store.DeleteLocation(ctx, location.ID))

	retrieved, err := store.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, retrieved.LocationID.Valid)
}
