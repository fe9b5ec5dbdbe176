package books

import "context"

// Repository defines the data access contract for books.
type Repository interface {
	// List returns books ordered newest first, with the total count.
	List(context context.Context, limit, offset int) ([]*Book, int, error)

	// ListByUser returns the books submitted by one user, newest first.
	ListByUser(context context.Context, userUID string, limit, offset int) ([]*Book, int, error)

	// GetByUID returns a single book by primary key.
	GetByUID(context context.Context, uid string) (*Book, error)

	// Create persists a new book.
	Create(context context.Context, book *Book) error

	// Update persists the mutable fields of an existing book.
	Update(context context.Context, book *Book) error

	// Delete removes the book row (reviews and tag links cascade).
	Delete(context context.Context, uid string) error
}
