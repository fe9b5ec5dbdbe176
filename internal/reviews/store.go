package reviews

import "context"

// Repository defines the data access contract for reviews.
type Repository interface {
	// ListByBook returns every review for a book, newest first.
	ListByBook(context context.Context, bookUID string, limit, offset int) ([]*Review, int, error)

	// GetByUID returns a single review by primary key.
	GetByUID(context context.Context, uid string) (*Review, error)

	// Create persists a new review.
	Create(context context.Context, review *Review) error

	// Delete removes the review row.
	Delete(context context.Context, uid string) error
}
