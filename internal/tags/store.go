package tags

import "context"

// Repository defines the data access contract for tags and book-tag links.
type Repository interface {
	// List returns every tag ordered by name.
	List(context context.Context) ([]*Tag, error)

	// GetByUID returns a single tag by primary key.
	GetByUID(context context.Context, uid string) (*Tag, error)

	// GetBySlug returns a single tag by its slug.
	GetBySlug(context context.Context, slug string) (*Tag, error)

	// Create persists a new tag.
	Create(context context.Context, tag *Tag) error

	// Delete removes the tag and all its book links.
	Delete(context context.Context, uid string) error

	// Attach links a tag to a book. Idempotent.
	Attach(context context.Context, bookUID, tagUID string) error

	// Detach removes the link between a tag and a book.
	Detach(context context.Context, bookUID, tagUID string) error

	// ListByBook returns the tags attached to one book.
	ListByBook(context context.Context, bookUID string) ([]*Tag, error)
}
