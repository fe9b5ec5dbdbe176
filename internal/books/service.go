package books

import (
	"context"
	"log/slog"

	"github.com/danghai/bookly/internal/platform/apperr"
	"github.com/danghai/bookly/internal/platform/sec"
	"github.com/danghai/bookly/internal/platform/validate"
	"github.com/danghai/bookly/pkg/pointer"
	"github.com/danghai/bookly/pkg/slug"
	"github.com/danghai/bookly/pkg/uuidv7"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListBooks(context context.Context, limit, offset int) ([]*Book, int, error) {
	return service.repo.List(context, limit, offset)
}

func (service *Service) ListUserBooks(context context.Context, userUID string, limit, offset int) ([]*Book, int, error) {
	return service.repo.ListByUser(context, userUID, limit, offset)
}

func (service *Service) GetBook(context context.Context, uid string) (*Book, error) {
	return service.repo.GetByUID(context, uid)
}

func (service *Service) CreateBook(context context.Context, actor *sec.Identity, book *Book) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, book.Title).MaxLen(FieldTitle, book.Title, 300).
		Required(FieldAuthor, book.Author).MaxLen(FieldAuthor, book.Author, 200).
		MaxLen(FieldPublisher, book.Publisher, 200).
		Custom(FieldPageCount, book.PageCount < 0, "Must not be negative")

	if book.PublishedDate != "" {
		validator.Date(FieldPublishedDate, book.PublishedDate)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	book.UID = uuidv7.New()
	book.Slug = slug.From(book.Title)
	book.UserUID = actor.UID

	if err := service.repo.Create(context, book); err != nil {
		return err
	}

	service.logger.Info("book_created",
		slog.String("book_uid", book.UID),
		slog.String("user_uid", actor.UID),
	)
	return nil
}

func (service *Service) PatchBook(context context.Context, actor *sec.Identity, uid string, patch Patch) (*Book, error) {
	book, err := service.repo.GetByUID(context, uid)
	if err != nil {
		return nil, err
	}

	if err := requireOwnership(actor, book.UserUID); err != nil {
		return nil, err
	}

	// Title changes also refresh the slug
	if patch.Title != nil {
		book.Title = *patch.Title
		book.Slug = slug.From(book.Title)
	}
	book.Author = pointer.Fallback(patch.Author, book.Author)
	book.Publisher = pointer.Fallback(patch.Publisher, book.Publisher)
	book.PublishedDate = pointer.Fallback(patch.PublishedDate, book.PublishedDate)
	book.PageCount = pointer.Fallback(patch.PageCount, book.PageCount)
	book.Language = pointer.Fallback(patch.Language, book.Language)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, book.Title).MaxLen(FieldTitle, book.Title, 300).
		Required(FieldAuthor, book.Author).MaxLen(FieldAuthor, book.Author, 200).
		Custom(FieldPageCount, book.PageCount < 0, "Must not be negative")

	if book.PublishedDate != "" {
		validator.Date(FieldPublishedDate, book.PublishedDate)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, book); err != nil {
		return nil, err
	}

	service.logger.Info("book_updated", slog.String("book_uid", book.UID))
	return book, nil
}

func (service *Service) DeleteBook(context context.Context, actor *sec.Identity, uid string) error {
	book, err := service.repo.GetByUID(context, uid)
	if err != nil {
		return err
	}

	if err := requireOwnership(actor, book.UserUID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, uid); err != nil {
		return err
	}

	service.logger.Warn("book_deleted",
		slog.String("book_uid", uid),
		slog.String("actor_uid", actor.UID),
	)
	return nil
}

// requireOwnership allows the owner and admins through, everyone else gets Forbidden.
func requireOwnership(actor *sec.Identity, ownerUID string) error {
	if actor.Role == sec.RoleAdmin || actor.UID == ownerUID {
		return nil
	}
	return apperr.Forbidden("You can only modify your own books")
}
