package books_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghai/bookly/internal/books"
	"github.com/danghai/bookly/internal/platform/apperr"
	"github.com/danghai/bookly/internal/platform/sec"
	"github.com/danghai/bookly/pkg/pointer"
)

type fakeRepo struct {
	books map[string]*books.Book
}

func newFakeRepo(seed ...*books.Book) *fakeRepo {
	repo := &fakeRepo{books: make(map[string]*books.Book)}
	for _, book := range seed {
		repo.books[book.UID] = book
	}
	return repo
}

func (repo *fakeRepo) List(_ context.Context, limit, offset int) ([]*books.Book, int, error) {
	all := make([]*books.Book, 0, len(repo.books))
	for _, book := range repo.books {
		all = append(all, book)
	}
	return all, len(all), nil
}

func (repo *fakeRepo) ListByUser(_ context.Context, userUID string, limit, offset int) ([]*books.Book, int, error) {
	owned := make([]*books.Book, 0)
	for _, book := range repo.books {
		if book.UserUID == userUID {
			owned = append(owned, book)
		}
	}
	return owned, len(owned), nil
}

func (repo *fakeRepo) GetByUID(_ context.Context, uid string) (*books.Book, error) {
	if book, ok := repo.books[uid]; ok {
		return book, nil
	}
	return nil, apperr.NotFound("Book")
}

func (repo *fakeRepo) Create(_ context.Context, book *books.Book) error {
	repo.books[book.UID] = book
	return nil
}

func (repo *fakeRepo) Update(_ context.Context, book *books.Book) error {
	repo.books[book.UID] = book
	return nil
}

func (repo *fakeRepo) Delete(_ context.Context, uid string) error {
	delete(repo.books, uid)
	return nil
}

func owner() *sec.Identity {
	return &sec.Identity{UID: "owner-uid", Username: "owner", Role: sec.RoleUser}
}

func admin() *sec.Identity {
	return &sec.Identity{UID: "admin-uid", Username: "admin", Role: sec.RoleAdmin}
}

func stranger() *sec.Identity {
	return &sec.Identity{UID: "stranger-uid", Username: "stranger", Role: sec.RoleUser}
}

func seedBook() *books.Book {
	return &books.Book{
		UID:       "book-uid-1",
		Title:     "Deep Work",
		Author:    "Cal Newport",
		Publisher: "Grand Central",
		PageCount: 304,
		Language:  "en",
		Slug:      "deep-work",
		UserUID:   "owner-uid",
	}
}

func TestService_CreateBook(t *testing.T) {
	repo := newFakeRepo()
	service := books.NewService(repo, slog.Default())

	book := &books.Book{
		Title:         "Deep Work",
		Author:        "Cal Newport",
		PublishedDate: "2016-01-05",
		PageCount:     304,
	}
	require.NoError(t, service.CreateBook(context.Background(), owner(), book))

	assert.NotEmpty(t, book.UID)
	assert.Equal(t, "deep-work", book.Slug)
	// Ownership always comes from the actor, never the payload
	assert.Equal(t, "owner-uid", book.UserUID)

	stored, err := repo.GetByUID(context.Background(), book.UID)
	require.NoError(t, err)
	assert.Equal(t, "Deep Work", stored.Title)
}

func TestService_CreateBook_Invalid(t *testing.T) {
	tests := []struct {
		name string
		book *books.Book
	}{
		{"missing_title", &books.Book{Author: "Cal Newport"}},
		{"missing_author", &books.Book{Title: "Deep Work"}},
		{"negative_page_count", &books.Book{Title: "Deep Work", Author: "Cal Newport", PageCount: -1}},
		{"bad_published_date", &books.Book{Title: "Deep Work", Author: "Cal Newport", PublishedDate: "Jan 2016"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := books.NewService(newFakeRepo(), slog.Default())

			err := service.CreateBook(context.Background(), owner(), tt.book)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestService_PatchBook(t *testing.T) {
	repo := newFakeRepo(seedBook())
	service := books.NewService(repo, slog.Default())

	patch := books.Patch{
		Title:     pointer.To("Digital Minimalism"),
		PageCount: pointer.To(256),
	}
	updated, err := service.PatchBook(context.Background(), owner(), "book-uid-1", patch)
	require.NoError(t, err)

	assert.Equal(t, "Digital Minimalism", updated.Title)
	// Title change refreshes the slug
	assert.Equal(t, "digital-minimalism", updated.Slug)
	assert.Equal(t, 256, updated.PageCount)
	// Omitted fields keep their stored values
	assert.Equal(t, "Cal Newport", updated.Author)
	assert.Equal(t, "Grand Central", updated.Publisher)
}

func TestService_PatchBook_Ownership(t *testing.T) {
	tests := []struct {
		name    string
		actor   *sec.Identity
		allowed bool
	}{
		{"owner_allowed", owner(), true},
		{"admin_allowed", admin(), true},
		{"stranger_forbidden", stranger(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := books.NewService(newFakeRepo(seedBook()), slog.Default())

			_, err := service.PatchBook(context.Background(), tt.actor, "book-uid-1", books.Patch{
				Language: pointer.To("fr"),
			})

			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "FORBIDDEN", appErr.Code)
		})
	}
}

func TestService_DeleteBook(t *testing.T) {
	repo := newFakeRepo(seedBook())
	service := books.NewService(repo, slog.Default())

	// A stranger cannot delete
	err := service.DeleteBook(context.Background(), stranger(), "book-uid-1")
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	// The owner can
	require.NoError(t, service.DeleteBook(context.Background(), owner(), "book-uid-1"))

	_, err = service.GetBook(context.Background(), "book-uid-1")
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestService_GetBook_NotFound(t *testing.T) {
	service := books.NewService(newFakeRepo(), slog.Default())

	book, err := service.GetBook(context.Background(), "missing-uid")
	assert.Nil(t, book)
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
