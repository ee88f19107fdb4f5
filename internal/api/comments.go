package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/storage"
)

// AddComment handles POST /posts/:post_id/comment
func (r *Router) AddComment(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		return
	}

	if _, err := r.store.GetPostByID(c.Request.Context(), postID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			notFound(c, "post")
			return
		}
		serverError(c, err)
		return
	}

	var form CommentForm
	if err := c.ShouldBind(&form); err != nil {
		validationFailed(c, map[string]string{"__all__": "malformed request body"})
		return
	}
	if fieldErrs := form.Validate(); fieldErrs != nil {
		validationFailed(c, fieldErrs)
		return
	}

	comment := models.Comment{
		Text:        form.Text,
		IsPublished: true,
		PostID:      postID,
		AuthorID:    currentUserID(c),
	}
	if err := r.store.CreateComment(c.Request.Context(), &comment); err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"comment":     comment,
		"redirect_to": postDetailPath(postID),
	})
}

// resolveComment fetches the comment addressed by the path and verifies it
// belongs to the post in the path. Any authenticated user may fetch it;
// authorship is checked separately by the caller.
func (r *Router) resolveComment(c *gin.Context) (*models.Comment, bool) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		return nil, false
	}
	commentID, err := strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil || commentID < 1 {
		notFound(c, "comment")
		return nil, false
	}

	comment, err := r.store.GetCommentByID(c.Request.Context(), commentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			notFound(c, "comment")
			return nil, false
		}
		serverError(c, err)
		return nil, false
	}
	if comment.PostID != postID {
		notFound(c, "comment")
		return nil, false
	}
	return comment, true
}

// EditComment handles POST /posts/:post_id/edit_comment/:comment_id
func (r *Router) EditComment(c *gin.Context) {
	comment, ok := r.resolveComment(c)
	if !ok {
		return
	}

	if !CanModify(currentUserID(c), comment) {
		c.Redirect(http.StatusSeeOther, postDetailPath(comment.PostID))
		return
	}

	var form CommentForm
	if err := c.ShouldBind(&form); err != nil {
		validationFailed(c, map[string]string{"__all__": "malformed request body"})
		return
	}
	if fieldErrs := form.Validate(); fieldErrs != nil {
		validationFailed(c, fieldErrs)
		return
	}

	comment.Text = form.Text
	if err := r.store.UpdateComment(c.Request.Context(), comment); err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comment":     comment,
		"redirect_to": postDetailPath(comment.PostID),
	})
}

// DeleteComment handles POST /posts/:post_id/delete_comment/:comment_id
func (r *Router) DeleteComment(c *gin.Context) {
	comment, ok := r.resolveComment(c)
	if !ok {
		return
	}

	if !CanModify(currentUserID(c), comment) {
		c.Redirect(http.StatusSeeOther, postDetailPath(comment.PostID))
		return
	}

	if err := r.store.DeleteComment(c.Request.Context(), comment.ID); err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"redirect_to": postDetailPath(comment.PostID),
	})
}
