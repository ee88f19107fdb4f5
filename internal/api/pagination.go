package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blogicum/blogicum/internal/models"
	"github.com/blogicum/blogicum/internal/storage"
)

// pageParam reads the requested page number, defaulting to 1
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// feedResponse shapes one page of posts
type feedResponse struct {
	Count    int64         `json:"count"`
	Page     int           `json:"page"`
	Pages    int           `json:"pages"`
	PageSize int           `json:"page_size"`
	Results  []models.Post `json:"results"`
}

func newFeedResponse(posts []models.Post, total int64, page storage.Page) feedResponse {
	pages := int((total + int64(page.Size) - 1) / int64(page.Size))
	if pages < 1 {
		pages = 1
	}
	return feedResponse{
		Count:    total,
		Page:     page.Number,
		Pages:    pages,
		PageSize: page.Size,
		Results:  posts,
	}
}
