package books

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/danghai/bookly/internal/platform/request"
	"github.com/danghai/bookly/internal/platform/respond"
	"github.com/danghai/bookly/internal/platform/validate"
	"github.com/danghai/bookly/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the book endpoints. The caller wraps the router with
// the token guard and role gate, so every handler can rely on a resolved
// identity being present.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listBooks)
	router.Post("/", handler.createBook)
	router.Get("/user/{user_uid}", handler.listUserBooks)
	router.Get("/{uid}", handler.getBook)
	router.Patch("/{uid}", handler.patchBook)
	router.Delete("/{uid}", handler.deleteBook)
}

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	books, total, err := handler.service.ListBooks(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) listUserBooks(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	userUID := requestutil.Param(request, "user_uid")

	books, total, err := handler.service.ListUserBooks(request.Context(), userUID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	book, err := handler.service.GetBook(request.Context(), requestutil.Param(request, "uid"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Book
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.service.CreateBook(request.Context(), actor, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) patchBook(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Patch
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	book, err := handler.service.PatchBook(request.Context(), actor, requestutil.Param(request, "uid"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteBook(request.Context(), actor, requestutil.Param(request, "uid")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
