package reviews_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghai/bookly/internal/books"
	"github.com/danghai/bookly/internal/platform/apperr"
	"github.com/danghai/bookly/internal/platform/sec"
	"github.com/danghai/bookly/internal/reviews"
)

type fakeRepo struct {
	reviews map[string]*reviews.Review
}

func newFakeRepo(seed ...*reviews.Review) *fakeRepo {
	repo := &fakeRepo{reviews: make(map[string]*reviews.Review)}
	for _, review := range seed {
		repo.reviews[review.UID] = review
	}
	return repo
}

func (repo *fakeRepo) ListByBook(_ context.Context, bookUID string, limit, offset int) ([]*reviews.Review, int, error) {
	matched := make([]*reviews.Review, 0)
	for _, review := range repo.reviews {
		if review.BookUID == bookUID {
			matched = append(matched, review)
		}
	}
	return matched, len(matched), nil
}

func (repo *fakeRepo) GetByUID(_ context.Context, uid string) (*reviews.Review, error) {
	if review, ok := repo.reviews[uid]; ok {
		return review, nil
	}
	return nil, apperr.NotFound("Review")
}

func (repo *fakeRepo) Create(_ context.Context, review *reviews.Review) error {
	repo.reviews[review.UID] = review
	return nil
}

func (repo *fakeRepo) Delete(_ context.Context, uid string) error {
	delete(repo.reviews, uid)
	return nil
}

// fakeBooks knows exactly one book.
type fakeBooks struct {
	uid string
}

func (finder *fakeBooks) GetBook(_ context.Context, uid string) (*books.Book, error) {
	if uid == finder.uid {
		return &books.Book{UID: uid, Title: "Deep Work"}, nil
	}
	return nil, apperr.NotFound("Book")
}

func reader() *sec.Identity {
	return &sec.Identity{UID: "reader-uid", Role: sec.RoleUser}
}

func TestService_CreateReview(t *testing.T) {
	repo := newFakeRepo()
	service := reviews.NewService(repo, &fakeBooks{uid: "book-1"}, slog.Default())

	review := &reviews.Review{Rating: 5, ReviewText: "Changed how I schedule my day."}
	require.NoError(t, service.CreateReview(context.Background(), reader(), "book-1", review))

	assert.NotEmpty(t, review.UID)
	assert.Equal(t, "book-1", review.BookUID)
	// Authorship always comes from the actor
	assert.Equal(t, "reader-uid", review.UserUID)
}

func TestService_CreateReview_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		bookUID  string
		review   *reviews.Review
		wantCode string
	}{
		{"rating_too_low", "book-1", &reviews.Review{Rating: 0}, "VALIDATION_ERROR"},
		{"rating_too_high", "book-1", &reviews.Review{Rating: 6}, "VALIDATION_ERROR"},
		{"missing_book", "book-404", &reviews.Review{Rating: 4}, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := reviews.NewService(newFakeRepo(), &fakeBooks{uid: "book-1"}, slog.Default())

			err := service.CreateReview(context.Background(), reader(), tt.bookUID, tt.review)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestService_ListBookReviews_MissingBook(t *testing.T) {
	service := reviews.NewService(newFakeRepo(), &fakeBooks{uid: "book-1"}, slog.Default())

	// A missing book is NotFound, never an empty list
	listed, total, err := service.ListBookReviews(context.Background(), "book-404", 20, 0)
	assert.Nil(t, listed)
	assert.Zero(t, total)
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestService_DeleteReview_Ownership(t *testing.T) {
	seed := &reviews.Review{UID: "review-1", Rating: 4, BookUID: "book-1", UserUID: "reader-uid"}

	tests := []struct {
		name    string
		actor   *sec.Identity
		allowed bool
	}{
		{"author_allowed", reader(), true},
		{"admin_allowed", &sec.Identity{UID: "admin-uid", Role: sec.RoleAdmin}, true},
		{"stranger_forbidden", &sec.Identity{UID: "other-uid", Role: sec.RoleUser}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo(seed)
			service := reviews.NewService(repo, &fakeBooks{uid: "book-1"}, slog.Default())

			err := service.DeleteReview(context.Background(), tt.actor, "review-1")
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			require.NotNil(t, apperr.As(err))
			assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
		})
	}
}
