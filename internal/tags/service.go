package tags

import (
	"context"
	"log/slog"

	"github.com/danghai/bookly/internal/books"
	"github.com/danghai/bookly/internal/platform/validate"
	"github.com/danghai/bookly/pkg/slug"
	"github.com/danghai/bookly/pkg/uuidv7"
)

// BookFinder resolves a book before tags are linked to it.
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

func (service *Service) ListTags(context context.Context) ([]*Tag, error) {
	return service.repo.List(context)
}

func (service *Service) GetTag(context context.Context, uid string) (*Tag, error) {
	return service.repo.GetByUID(context, uid)
}

func (service *Service) CreateTag(context context.Context, tag *Tag) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, tag.Name).MaxLen(FieldName, tag.Name, 100)

	if err := validator.Err(); err != nil {
		return err
	}

	tag.UID = uuidv7.New()
	tag.Slug = slug.From(tag.Name)

	if err := service.repo.Create(context, tag); err != nil {
		return err
	}

	service.logger.Info("tag_created", slog.String("tag_uid", tag.UID), slog.String("name", tag.Name))
	return nil
}

func (service *Service) DeleteTag(context context.Context, uid string) error {
	if err := service.repo.Delete(context, uid); err != nil {
		return err
	}

	service.logger.Warn("tag_deleted", slog.String("tag_uid", uid))
	return nil
}

func (service *Service) AttachTag(context context.Context, bookUID, tagUID string) error {
	// Both sides must exist; missing ones surface as NotFound
	if _, err := service.bookStore.GetBook(context, bookUID); err != nil {
		return err
	}
	if _, err := service.repo.GetByUID(context, tagUID); err != nil {
		return err
	}

	return service.repo.Attach(context, bookUID, tagUID)
}

func (service *Service) DetachTag(context context.Context, bookUID, tagUID string) error {
	return service.repo.Detach(context, bookUID, tagUID)
}

func (service *Service) ListBookTags(context context.Context, bookUID string) ([]*Tag, error) {
	if _, err := service.bookStore.GetBook(context, bookUID); err != nil {
		return nil, err
	}

	return service.repo.ListByBook(context, bookUID)
}
