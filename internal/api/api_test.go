package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogicum/blogicum/internal/auth"
	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/storage/inmemory"
	"github.com/blogicum/blogicum/pkg/config"
)

type testEnv struct {
	engine *gin.Engine
	store  *inmemory.Store
	tokens *auth.Service
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Blog: config.BlogConfig{
			PageSize:     10,
			MaxLength:    256,
			CommentRows:  5,
			FeedCacheTTL: time.Minute,
		},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: 4,
		},
	}

	store := inmemory.New()
	tokens := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	engine := gin.New()
	router := NewRouter(store, cfg, nil, nil, tokens)
	router.SetupRoutes(engine)

	return &testEnv{engine: engine, store: store, tokens: tokens, cfg: cfg}
}

func (e *testEnv) addUser(t *testing.T, username string, staff bool) (*models.User, string) {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsStaff:      staff,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), user))
	token, err := e.tokens.GenerateToken(user.ID, user.Username, user.IsStaff)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) addCategory(t *testing.T, slug string, published bool) *models.Category {
	t.Helper()
	category := &models.Category{Title: slug, Slug: slug, IsPublished: published}
	require.NoError(t, e.store.CreateCategory(context.Background(), category))
	return category
}

func (e *testEnv) addPost(t *testing.T, author *models.User, category *models.Category, title string, pubDate time.Time, published bool) *models.Post {
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
	require.NoError(t, e.store.CreatePost(context.Background(), post))
	return post
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestIndex_OnlyVisiblePosts(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.addUser(t, "alice", false)
	news := env.addCategory(t, "news", true)
	hidden := env.addCategory(t, "secret", false)

	env.addPost(t, author, news, "visible", time.Now().Add(-time.Hour), true)
	env.addPost(t, author, news, "scheduled", time.Now().Add(24*time.Hour), true)
	env.addPost(t, author, news, "unpublished", time.Now().Add(-time.Hour), false)
	env.addPost(t, author, hidden, "hidden category", time.Now().Add(-time.Hour), true)

	w := env.request(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	results := resp["results"].([]interface{})
	require.Len(t, results, 1)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "visible", first["title"])
	assert.Equal(t, float64(1), resp["count"])
}

func TestCategoryFeed(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.addUser(t, "alice", false)
	news := env.addCategory(t, "news", true)
	env.addCategory(t, "secret", false)

	env.addPost(t, author, news, "A", time.Now().Add(-time.Hour), true)

	w := env.request(t, http.MethodGet, "/category/news", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(1), resp["count"])

	// Unpublished category is a 404
	w = env.request(t, http.MethodGet, "/category/secret", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Missing category is a 404
	w = env.request(t, http.MethodGet, "/category/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileFeed_OwnerSeesHiddenPosts(t *testing.T) {
	env := newTestEnv(t)
	author, authorToken := env.addUser(t, "alice", false)
	_, strangerToken := env.addUser(t, "bob", false)
	news := env.addCategory(t, "news", true)

	env.addPost(t, author, news, "visible", time.Now().Add(-time.Hour), true)
	env.addPost(t, author, news, "scheduled", time.Now().Add(24*time.Hour), true)

	// The owner sees both
	w := env.request(t, http.MethodGet, "/profile/alice", authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["count"])

	// A stranger sees only the published one
	w = env.request(t, http.MethodGet, "/profile/alice", strangerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	// Anonymous too
	w = env.request(t, http.MethodGet, "/profile/alice", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = env.request(t, http.MethodGet, "/profile/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostDetail_VisibilityAndComments(t *testing.T) {
	env := newTestEnv(t)
	author, authorToken := env.addUser(t, "alice", false)
	news := env.addCategory(t, "news", true)
	post := env.addPost(t, author, news, "scheduled", time.Now().Add(24*time.Hour), true)

	path := postDetailPath(post.ID)

	// Author sees their scheduled post
	w := env.request(t, http.MethodGet, path, authorToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Everyone else gets a 404
	w = env.request(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostDetail_CommentsOldestFirst(t *testing.T) {
	env := newTestEnv(t)
	author, token := env.addUser(t, "alice", false)
	news := env.addCategory(t, "news", true)
	post := env.addPost(t, author, news, "A", time.Now().Add(-time.Hour), true)

	for _, text := range []string{"first", "second"} {
		w := env.request(t, http.MethodPost, postDetailPath(post.ID)+"/comment", token,
			map[string]string{"text": text})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.request(t, http.MethodGet, postDetailPath(post.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)

	comments := resp["comments"].([]interface{})
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].(map[string]interface{})["text"])
	assert.Equal(t, "second", comments[1].(map[string]interface{})["text"])

	form := resp["comment_form"].(map[string]interface{})
	assert.Equal(t, float64(5), form["rows"])

	post2, err := env.store.GetPostByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), post2.CommentCount)
}

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alice", false)
	news := env.addCategory(t, "news", true)

	w := env.request(t, http.MethodPost, "/posts", token, map[string]interface{}{
		"title":       "my post",
		"text":        "hello",
		"pub_date":    time.Now().Add(-time.Hour).Format(time.RFC3339),
		"category_id": news.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decode(t, w)
	assert.Equal(t, "/profile/alice", resp["redirect_to"])
	created := resp["post"].(map[string]interface{})
	assert.Equal(t, "my post", created["title"])

	// The author was stamped from the identity, and the post is public
	w = env.request(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, float64(1), decode(t, w)["count"])
}

func TestCreatePost_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/posts", "", map[string]string{"title": "x"})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))
}

func TestCreatePost_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alice", false)

	w := env.request(t, http.MethodPost, "/posts", token, map[string]string{
		"title":    "",
		"text":     "",
		"pub_date": "not-a-date",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	errs := decode(t, w)["errors"].(map[string]interface{})
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "text")
	assert.Contains(t, errs, "pub_date")

	// Nothing persisted
	w = env.request(t, http.MethodGet, "/profile/alice", token, nil)
	assert.Equal(t, float64(0), decode(t, w)["count"])
}

func TestEditPost_NonAuthorRedirected(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.addUser(t, "alice", false)
	_, bobToken := env.addUser(t, "bob", false)
	news := env.addCategory(t, "news", true)
	post := env.addPost(t, author, news, "original", time.Now().Add(-time.Hour), true)

	w := env.request(t, http.MethodPost, postDetailPath(post.ID)+"/edit", bobToken,
		map[string]interface{}{
			"title":    "hijacked",
			"text":     "x",
			"pub_date": time.Now().Format(time.RFC3339),
		})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, postDetailPath(post.ID), w.Header().Get("Location"))

	// No mutation occurred
	unchanged, err := env.store.GetPostByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", unchanged.Title)
}

func TestDeletePost_NonAuthorRedirected(t *testing.T) {
	env := newTestEnv(t)
	author, authorToken := env.addUser(t, "alice", false)
	_, bobToken := env.addUser(t, "bob", false)
	news := env.addCategory(t, "news", true)
	post := env.addPost(t, author, news, "keep me", time.Now().Add(-time.Hour), true)

	w := env.request(t, http.MethodPost, postDetailPath(post.ID)+"/delete", bobToken, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, postDetailPath(post.ID), w.Header().Get("Location"))

	_, err := env.store.GetPostByID(context.Background(), post.ID)
	require.NoError(t, err)

	// The author may delete
	w = env.request(t, http.MethodPost, postDetailPath(post.ID)+"/delete", authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/profile/alice", decode(t, w)["redirect_to"])
}

func TestEditComment_AuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	author, aliceToken := env.addUser(t, "alice", false)
	_, bobToken := env.addUser(t, "bob", false)
	news := env.addCategory(t, "news", true)
	post := env.addPost(t, author, news, "A", time.Now().Add(-time.Hour), true)

	w := env.request(t, http.MethodPost, postDetailPath(post.ID)+"/comment", aliceToken,
		map[string]string{"text": "mine"})
	require.Equal(t, http.StatusCreated, w.Code)
	commentID := int64(decode(t, w)["comment"].(map[string]interface{})["id"].(float64))

	editPath := postDetailPath(post.ID) + "/edit_comment/" + strconv.FormatInt(commentID, 10)

	// Bob can fetch the comment but fails the authorship check
	w = env.request(t, http.MethodPost, editPath, bobToken, map[string]string{"text": "stolen"})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, postDetailPath(post.ID), w.Header().Get("Location"))

	comment, err := env.store.GetCommentByID(context.Background(), commentID)
	require.NoError(t, err)
	assert.Equal(t, "mine", comment.Text)

	// Alice succeeds
	w = env.request(t, http.MethodPost, editPath, aliceToken, map[string]string{"text": "edited"})
	require.Equal(t, http.StatusOK, w.Code)

	comment, err = env.store.GetCommentByID(context.Background(), commentID)
	require.NoError(t, err)
	assert.Equal(t, "edited", comment.Text)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "carol",
		"email":    "carol@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, decode(t, w)["token"])

	// Duplicate username rejected
	w = env.request(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "carol",
		"email":    "other@example.com",
		"password": "correct-horse",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Login with the right password
	w = env.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "carol",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)
	assert.NotEmpty(t, token)

	// And with a wrong one
	w = env.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "carol",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEditProfile(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alice", false)
	env.addUser(t, "bob", false)

	w := env.request(t, http.MethodPost, "/edit", token, map[string]string{
		"first_name": "Alice",
		"last_name":  "Smith",
		"username":   "alice",
		"email":      "alice@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "/profile/alice", resp["redirect_to"])

	// Taking another user's username fails validation
	w = env.request(t, http.MethodPost, "/edit", token, map[string]string{
		"username": "bob",
		"email":    "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutes_StaffOnly(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.addUser(t, "alice", false)
	_, staffToken := env.addUser(t, "root", true)

	body := map[string]interface{}{
		"title":       "Travel",
		"description": "places",
		"slug":        "travel",
	}

	w := env.request(t, http.MethodPost, "/admin/categories", userToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodPost, "/admin/categories", staffToken, body)
	require.Equal(t, http.StatusCreated, w.Code)

	// Slug collision
	w = env.request(t, http.MethodPost, "/admin/categories", staffToken, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/admin/locations", staffToken, map[string]string{
		"name": "Berlin",
	})
	require.Equal(t, http.StatusCreated, w.Code)
}
