package reviews

import "time"

// Review is a rating plus free-text commentary left by a user on a book.
type Review struct {
	UID        string    `json:"uid"`
	Rating     int       `json:"rating"` // 1..5
	ReviewText string    `json:"review_text"`
	UserUID    string    `json:"user_uid"`
	BookUID    string    `json:"book_uid"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Global field names for validation
const (
	FieldRating     = "rating"
	FieldReviewText = "review_text"
)
