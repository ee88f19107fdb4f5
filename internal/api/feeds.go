package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blogicum/blogicum/internal/storage"
)

func (r *Router) page(c *gin.Context) storage.Page {
	return storage.Page{
		Number: pageParam(c),
		Size:   r.cfg.Blog.PageSize,
	}
}

// Index handles GET / — the paginated public feed
func (r *Router) Index(c *gin.Context) {
	page := r.page(c)

	resp, err := r.cachedFeed([]string{"index", strconv.Itoa(page.Number)}, func() (feedResponse, error) {
		posts, total, err := r.store.PublishedFeed(c.Request.Context(), page)
		if err != nil {
			return feedResponse{}, err
		}
		return newFeedResponse(posts, total, page), nil
	})
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// categoryFeedResponse is a feed page together with its category
type categoryFeedResponse struct {
	Category interface{} `json:"category"`
	feedResponse
}

// CategoryPosts handles GET /category/:category_slug.
// A missing or unpublished category is a 404.
func (r *Router) CategoryPosts(c *gin.Context) {
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
	if !category.IsPublished {
		notFound(c, "category")
		return
	}

	page := r.page(c)

	resp, err := r.cachedFeed([]string{"category", slug, strconv.Itoa(page.Number)}, func() (feedResponse, error) {
		posts, total, err := r.store.CategoryFeed(c.Request.Context(), category.ID, page)
		if err != nil {
			return feedResponse{}, err
		}
		return newFeedResponse(posts, total, page), nil
	})
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, categoryFeedResponse{
		Category:     category,
		feedResponse: resp,
	})
}

// Profile handles GET /profile/:username. The owner sees every post they
// wrote, including scheduled and hidden ones; everyone else sees only the
// publicly visible subset.
func (r *Router) Profile(c *gin.Context) {
	username := c.Param("username")

	user, err := r.store.GetUserByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			notFound(c, "profile")
			return
		}
		serverError(c, err)
		return
	}

	includeHidden := currentUserID(c) == user.ID
	page := r.page(c)

	posts, total, err := r.store.AuthorFeed(c.Request.Context(), user.ID, includeHidden, page)
	if err != nil {
		serverError(c, err)
		return
	}

	resp := newFeedResponse(posts, total, page)
	c.JSON(http.StatusOK, gin.H{
		"profile":   user,
		"count":     resp.Count,
		"page":      resp.Page,
		"pages":     resp.Pages,
		"page_size": resp.PageSize,
		"results":   resp.Results,
	})
}

// Categories handles GET /categories, ordered by title
func (r *Router) Categories(c *gin.Context) {
	categories, err := r.store.ListCategories(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": categories})
}

// Locations handles GET /locations, ordered by name
func (r *Router) Locations(c *gin.Context) {
	locations, err := r.store.ListLocations(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": locations})
}
