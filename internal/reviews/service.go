package reviews

import (
	"context"
	"log/slog"

	"github.com/danghai/bookly/internal/books"
	"github.com/danghai/bookly/internal/platform/apperr"
	"github.com/danghai/bookly/internal/platform/sec"
	"github.com/danghai/bookly/internal/platform/validate"
	"github.com/danghai/bookly/pkg/uuidv7"
)

// BookFinder resolves a book before a review is attached to it.
// Satisfied by [books.Service].
type BookFinder interface {
	GetBook(context context.Context, uid string) (*books.Book, error)
}

type Service struct {
	repo      Repository
	bookStore BookFinder
	logger    *slog.Logger
}

func NewService(repo Repository, bookStore BookFinder, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		bookStore: bookStore,
		logger:    logger,
	}
}

func (service *Service) ListBookReviews(context context.Context, bookUID string, limit, offset int) ([]*Review, int, error) {
	// NotFound for the book, not an empty list, when the book is missing
	if _, err := service.bookStore.GetBook(context, bookUID); err != nil {
		return nil, 0, err
	}

	return service.repo.ListByBook(context, bookUID, limit, offset)
}

func (service *Service) GetReview(context context.Context, uid string) (*Review, error) {
	return service.repo.GetByUID(context, uid)
}

func (service *Service) CreateReview(context context.Context, actor *sec.Identity, bookUID string, review *Review) error {
	validator := &validate.Validator{}
	validator.Range(FieldRating, review.Rating, MinRating, MaxRating).
		MaxLen(FieldReviewText, review.ReviewText, 5000)

	if err := validator.Err(); err != nil {
		return err
	}

	// Verify the target book exists before persisting
	if _, err := service.bookStore.GetBook(context, bookUID); err != nil {
		return err
	}

	review.UID = uuidv7.New()
	review.BookUID = bookUID
	review.UserUID = actor.UID

	if err := service.repo.Create(context, review); err != nil {
		return err
	}

	service.logger.Info("review_created",
		slog.String("review_uid", review.UID),
		slog.String("book_uid", bookUID),
		slog.String("user_uid", actor.UID),
	)
	return nil
}

func (service *Service) DeleteReview(context context.Context, actor *sec.Identity, uid string) error {
	review, err := service.repo.GetByUID(context, uid)
	if err != nil {
		return err
	}

	if actor.Role != sec.RoleAdmin && actor.UID != review.UserUID {
		return apperr.Forbidden("You can only delete your own reviews")
	}

	if err := service.repo.Delete(context, uid); err != nil {
		return err
	}

	service.logger.Warn("review_deleted",
		slog.String("review_uid", uid),
		slog.String("actor_uid", actor.UID),
	)
	return nil
}
