package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blogicum/blogicum/internal/auth"
	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/storage"
)

// Register handles POST /auth/register
func (r *Router) Register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		validationFailed(c, map[string]string{"__all__": "malformed request body"})
		return
	}
	if fieldErrs := form.Validate(); fieldErrs != nil {
		validationFailed(c, fieldErrs)
		return
	}

	if _, err := r.store.GetUserByUsername(c.Request.Context(), form.Username); err == nil {
		validationFailed(c, map[string]string{"username": "already taken"})
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		serverError(c, err)
		return
	}

	hash, err := auth.HashPassword(form.Password, r.cfg.Auth.BcryptCost)
	if err != nil {
		serverError(c, err)
		return
	}

	user := models.User{
		Username:     form.Username,
		Email:        form.Email,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		PasswordHash: hash,
	}
	if err := r.store.CreateUser(c.Request.Context(), &user); err != nil {
		serverError(c, err)
		return
	}

	token, err := r.tokens.GenerateToken(user.ID, user.Username, user.IsStaff)
	if err != nil {
		serverError(c, err)
		return
	}

	r.logger.Info("user registered", zap.String("username", user.Username))

	c.JSON(http.StatusCreated, gin.H{
		"user":  user,
		"token": token,
	})
}

// Login handles POST /auth/login
func (r *Router) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		validationFailed(c, map[string]string{"__all__": "malformed request body"})
		return
	}

	user, err := r.store.GetUserByUsername(c.Request.Context(), form.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		serverError(c, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, form.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := r.tokens.GenerateToken(user.ID, user.Username, user.IsStaff)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}
