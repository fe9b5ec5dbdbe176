package books

import "time"

// Book represents a single book submitted by a user.
type Book struct {
	UID           string    `json:"uid"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Publisher     string    `json:"publisher"`
	PublishedDate string    `json:"published_date"` // YYYY-MM-DD
	PageCount     int       `json:"page_count"`
	Language      string    `json:"language"`
	Slug          string    `json:"slug"`
	UserUID       string    `json:"user_uid"` // submitting owner
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Patch holds optional replacement values for a partial update.
type Patch struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Publisher     *string `json:"publisher"`
	PublishedDate *string `json:"published_date"`
	PageCount     *int    `json:"page_count"`
	Language      *string `json:"language"`
}

// Global field names for validation
const (
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldPublisher     = "publisher"
	FieldPublishedDate = "published_date"
	FieldPageCount     = "page_count"
	FieldLanguage      = "language"
)
