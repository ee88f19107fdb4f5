package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/storage"
)

// CreateCategory handles POST /admin/categories
func (r *Router) CreateCategory(c *gin.Context) {
	var form CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		validationFailed(c, map[string]string{"__all__": "malformed request body"})
		return
	}
	if fieldErrs := form.Validate(&r.cfg.Blog); fieldErrs != nil {
		validationFailed(c, fieldErrs)
		return
	}

	if _, err := r.store.GetCategoryBySlug(c.Request.Context(), form.Slug); err == nil {
		validationFailed(c, map[string]string{"slug": "already in use"})
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		serverError(c, err)
		return
	}

	category := models.Category{
		Title:       form.Title,
		Description: form.Description,
		Slug:        form.Slug,
		IsPublished: true,
	}
	if form.IsPublished != nil {
		category.IsPublished = *form.IsPublished
	}

	if err := r.store.CreateCategory(c.Request.Context(), &category); err != nil {
		serverError(c, err)
		return
	}
	r.invalidateFeeds()

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// DeleteCategory handles POST /admin/categories/:category_slug/delete.
// Former posts stay around without a category.
func (r *Router) DeleteCategory(c *gin.Context) {
	slug := c.Param("category_slug")

	category, err := r.store.GetCategoryBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			notFound(c, "category")
			return
		}
		serverError(c, err)
		return
	}

	if err := r.store.DeleteCategory(c.Request.Context(), category.ID); err != nil {
		serverError(c, err)
		return
	}
	r.invalidateFeeds()

	c.JSON(http.StatusOK, gin.H{"deleted": category.Slug})
}

// CreateLocation handles POST /admin/locations
func (r *Router) CreateLocation(c *gin.Context) {
	var form LocationForm
	if err := c.ShouldBind(&form); err != nil {
		validationFailed(c, map[string]string{"__all__": "malformed request body"})
		return
	}
	if fieldErrs := form.Validate(&r.cfg.Blog); fieldErrs != nil {
		validationFailed(c, fieldErrs)
		return
	}

	location := models.Location{
		Name:        form.Name,
		IsPublished: true,
	}
	if form.IsPublished != nil {
		location.IsPublished = *form.IsPublished
	}

	if err := r.store.CreateLocation(c.Request.Context(), &location); err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"location": location})
}

// DeleteLocation handles POST /admin/locations/:location_id/delete.
// Posts referencing the location are detached, not deleted.
func (r *Router) DeleteLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("location_id"), 10, 64)
	if err != nil || id < 1 {
		notFound(c, "location")
		return
	}

	if err := r.store.DeleteLocation(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			notFound(c, "location")
			return
		}
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
