package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/storage"
)

func postDetailPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10)
}

func profilePath(username string) string {
	return "/profile/" + username
}

// pathID parses a numeric path parameter. A malformed id behaves like a
// missing record.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		notFound(c, "post")
		return 0, false
	}
	return id, true
}

// PostDetail handles GET /posts/:post_id. Authors see their own hidden and
// scheduled posts; for anyone else those do not exist.
func (r *Router) PostDetail(c *gin.Context) {
	id, ok := pathID(c, "post_id")
	if !ok {
		return
	}

	post, err := r.store.GetPostByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			notFound(c, "post")
			return
		}
		serverError(c, err)
		return
	}

	if post.AuthorID != currentUserID(c) && !post.IsVisible(time.Now().UTC()) {
		notFound(c, "post")
		return
	}

	comments, err := r.store.ListComments(c.Request.Context(), post.ID)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"comments": comments,
		"comment_form": gin.H{
			"rows": r.cfg.Blog.CommentRows,
		},
	})
}

// bindPostForm binds and validates post input, resolving the category and
// location references. It writes the error response itself and reports
// success through ok.
func (r *Router) bindPostForm(c *gin.Context) (form PostForm, pubDate time.Time, ok bool) {
	if err := c.ShouldBind(&form); err != nil {
		validationFailed(c, map[string]string{"__all__": "malformed request body"})
		return form, pubDate, false
	}

	pubDate, fieldErrs := form.Validate(&r.cfg.Blog)
	if fieldErrs == nil {
		fieldErrs = make(map[string]string)
	}

	if form.CategoryID != nil {
		if _, err := r.store.GetCategoryByID(c.Request.Context(), *form.CategoryID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				fieldErrs["category_id"] = "unknown category"
			} else {
				serverError(c, err)
				return form, pubDate, false
			}
		}
	}
	if form.LocationID != nil {
		if _, err := r.store.GetLocationByID(c.Request.Context(), *form.LocationID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				fieldErrs["location_id"] = "unknown location"
			} else {
				serverError(c, err)
				return form, pubDate, false
			}
		}
	}

	if len(fieldErrs) > 0 {
		validationFailed(c, fieldErrs)
		return form, pubDate, false
	}
	return form, pubDate, true
}

// uploadImage stores the optional multipart image and returns its URL,
// empty when no image was submitted.
func (r *Router) uploadImage(c *gin.Context) (string, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		// No image submitted
		return "", true
	}
	if !r.media.Enabled() {
		validationFailed(c, map[string]string{"image": "image storage is not configured"})
		return "", false
	}

	src, err := file.Open()
	if err != nil {
		serverError(c, err)
		return "", false
	}
	defer src.Close()

	url, err := r.media.UploadImage(file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		serverError(c, err)
		return "", false
	}
	return url, true
}

// CreatePost handles POST /posts
func (r *Router) CreatePost(c *gin.Context) {
	form, pubDate, ok := r.bindPostForm(c)
	if !ok {
		return
	}

	imageURL, ok := r.uploadImage(c)
	if !ok {
		return
	}

	post := models.Post{
		Title:       form.Title,
		Text:        form.Text,
		PubDate:     pubDate,
		IsPublished: true,
		ImageURL:    imageURL,
		AuthorID:    currentUserID(c),
	}
	if form.IsPublished != nil {
		post.IsPublished = *form.IsPublished
	}
	if form.CategoryID != nil {
		post.CategoryID = sql.NullInt64{Int64: *form.CategoryID, Valid: true}
	}
	if form.LocationID != nil {
		post.LocationID = sql.NullInt64{Int64: *form.LocationID, Valid: true}
	}

	if err := r.store.CreatePost(c.Request.Context(), &post); err != nil {
		serverError(c, err)
		return
	}
	r.invalidateFeeds()

	r.logger.Info("post created",
		zap.Int64("post_id", post.ID),
		zap.Int64("author_id", post.AuthorID))

	c.JSON(http.StatusCreated, gin.H{
		"post":        post,
		"redirect_to": profilePath(c.GetString(ctxUsername)),
	})
}

// EditPost handles POST /posts/:post_id/edit. A non-author lands back on
// the post detail view with nothing changed.
func (r *Router) EditPost(c *gin.Context) {
	id, ok := pathID(c, "post_id")
	if !ok {
		return
	}

	post, err := r.store.GetPostByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			notFound(c, "post")
			return
		}
		serverError(c, err)
		return
	}

	if !CanModify(currentUserID(c), post) {
		c.Redirect(http.StatusSeeOther, postDetailPath(post.ID))
		return
	}

	form, pubDate, ok := r.bindPostForm(c)
	if !ok {
		return
	}
	imageURL, ok := r.uploadImage(c)
	if !ok {
		return
	}

	post.Title = form.Title
	post.Text = form.Text
	post.PubDate = pubDate
	if form.IsPublished != nil {
		post.IsPublished = *form.IsPublished
	}
	post.CategoryID = sql.NullInt64{}
	if form.CategoryID != nil {
		post.CategoryID = sql.NullInt64{Int64: *form.CategoryID, Valid: true}
	}
	post.LocationID = sql.NullInt64{}
	if form.LocationID != nil {
		post.LocationID = sql.NullInt64{Int64: *form.LocationID, Valid: true}
	}
	if imageURL != "" {
		post.ImageURL = imageURL
	}

	if err := r.store.UpdatePost(c.Request.Context(), post); err != nil {
		serverError(c, err)
		return
	}
	r.invalidateFeeds()

	c.JSON(http.StatusOK, gin.H{
		"post":        post,
		"redirect_to": postDetailPath(post.ID),
	})
}

// DeletePost handles POST /posts/:post_id/delete. Comments go with the
// post; a non-author is redirected to the detail view instead.
func (r *Router) DeletePost(c *gin.Context) {
	id, ok := pathID(c, "post_id")
	if !ok {
		return
	}

	post, err := r.store.GetPostByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			notFound(c, "post")
			return
		}
		serverError(c, err)
		return
	}

	if !CanModify(currentUserID(c), post) {
		c.Redirect(http.StatusSeeOther, postDetailPath(post.ID))
		return
	}

	if err := r.store.DeletePost(c.Request.Context(), post.ID); err != nil {
		serverError(c, err)
		return
	}
	r.invalidateFeeds()

	r.logger.Info("post deleted",
		zap.Int64("post_id", post.ID),
		zap.Int64("author_id", post.AuthorID))

	c.JSON(http.StatusOK, gin.H{
		"redirect_to": profilePath(c.GetString(ctxUsername)),
	})
}
