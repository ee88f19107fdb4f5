package api

import (
	"fmt"
	"time"

	"github.com/blogicum/blogicum/pkg/config"
)

// pubDateLayouts are the accepted publish date formats; the short one
// matches what a datetime-local picker submits.
var pubDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parsePubDate(value string) (time.Time, error) {
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", value)
}

// PostForm maps user input for post create/edit. The author is never taken
// from the form; it is stamped from the authenticated identity.
type PostForm struct {
	Title       string `form:"title" json:"title"`
	Text        string `form:"text" json:"text"`
	PubDate     string `form:"pub_date" json:"pub_date"`
	CategoryID  *int64 `form:"category_id" json:"category_id"`
	LocationID  *int64 `form:"location_id" json:"location_id"`
	IsPublished *bool  `form:"is_published" json:"is_published"`
}

// Validate checks the form against the configured limits and parses the
// publish date. A non-empty map means the form must be re-rendered.
func (f *PostForm) Validate(cfg *config.BlogConfig) (time.Time, map[string]string) {
	errs := make(map[string]string)

	if f.Title == "" {
		errs["title"] = "this field is required"
	} else if len(f.Title) > cfg.MaxLength {
		errs["title"] = fmt.Sprintf("must be at most %d characters", cfg.MaxLength)
	}
	if f.Text == "" {
		errs["text"] = "this field is required"
	}

	var pubDate time.Time
	if f.PubDate == "" {
		errs["pub_date"] = "this field is required"
	} else {
		var err error
		pubDate, err = parsePubDate(f.PubDate)
		if err != nil {
			errs["pub_date"] = "enter a valid date and time"
		}
	}

	if len(errs) > 0 {
		return time.Time{}, errs
	}
	return pubDate, nil
}

// CommentForm maps user input for comments
type CommentForm struct {
	Text string `form:"text" json:"text"`
}

// Validate checks the comment form
func (f *CommentForm) Validate() map[string]string {
	if f.Text == "" {
		return map[string]string{"text": "this field is required"}
	}
	return nil
}

// ProfileForm maps the editable subset of the user record
type ProfileForm struct {
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
}

// Validate checks the profile form
func (f *ProfileForm) Validate(cfg *config.BlogConfig) map[string]string {
	errs := make(map[string]string)
	if f.Username == "" {
		errs["username"] = "this field is required"
	} else if len(f.Username) > 150 {
		errs["username"] = "must be at most 150 characters"
	}
	if f.Email == "" {
		errs["email"] = "this field is required"
	}
	if len(f.FirstName) > 150 {
		errs["first_name"] = "must be at most 150 characters"
	}
	if len(f.LastName) > 150 {
		errs["last_name"] = "must be at most 150 characters"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RegisterForm maps signup input
type RegisterForm struct {
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
}

// Validate checks the signup form
func (f *RegisterForm) Validate() map[string]string {
	errs := make(map[string]string)
	if f.Username == "" {
		errs["username"] = "this field is required"
	}
	if f.Email == "" {
		errs["email"] = "this field is required"
	}
	if len(f.Password) < 8 {
		errs["password"] = "must be at least 8 characters"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// LoginForm maps login input
type LoginForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// CategoryForm maps admin category input
type CategoryForm struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	Slug        string `form:"slug" json:"slug"`
	IsPublished *bool  `form:"is_published" json:"is_published"`
}

// Validate checks the category form
func (f *CategoryForm) Validate(cfg *config.BlogConfig) map[string]string {
	errs := make(map[string]string)
	if f.Title == "" {
		errs["title"] = "this field is required"
	} else if len(f.Title) > cfg.MaxLength {
		errs["title"] = fmt.Sprintf("must be at most %d characters", cfg.MaxLength)
	}
	if f.Slug == "" {
		errs["slug"] = "this field is required"
	} else if !validSlug(f.Slug) {
		errs["slug"] = "letters, digits, hyphens and underscores only"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validSlug(slug string) bool {
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}

// LocationForm maps admin location input
type LocationForm struct {
	Name        string `form:"name" json:"name"`
	IsPublished *bool  `form:"is_published" json:"is_published"`
}

// Validate checks the location form
func (f *LocationForm) Validate(cfg *config.BlogConfig) map[string]string {
	if f.Name == "" {
		return map[string]string{"name": "this field is required"}
	}
	if len(f.Name) > cfg.MaxLength {
		return map[string]string{"name": fmt.Sprintf("must be at most %d characters", cfg.MaxLength)}
	}
	return nil
}
