package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blogicum/blogicum/internal/storage"
)

// EditProfile handles POST /edit — a user updates their own name, username
// and email.
func (r *Router) EditProfile(c *gin.Context) {
	user, err := r.store.GetUserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			notFound(c, "profile")
			return
		}
		serverError(c, err)
		return
	}

	var form ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		validationFailed(c, map[string]string{"__all__": "malformed request body"})
		return
	}
	if fieldErrs := form.Validate(&r.cfg.Blog); fieldErrs != nil {
		validationFailed(c, fieldErrs)
		return
	}

	if form.Username != user.Username {
		if _, err := r.store.GetUserByUsername(c.Request.Context(), form.Username); err == nil {
			validationFailed(c, map[string]string{"username": "already taken"})
			return
		} else if !errors.Is(err, storage.ErrNotFound) {
			serverError(c, err)
			return
		}
	}

	user.FirstName = form.FirstName
	user.LastName = form.LastName
	user.Username = form.Username
	user.Email = form.Email

	if err := r.store.UpdateUser(c.Request.Context(), user); err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"redirect_to": profilePath(user.Username),
	})
}
