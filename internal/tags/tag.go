package tags

import "time"

// Tag is a free-form label users attach to books.
type Tag struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Global field names for validation
const (
	FieldName = "name"
)
