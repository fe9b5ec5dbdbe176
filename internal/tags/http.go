package tags

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/danghai/bookly/internal/platform/request"
	"github.com/danghai/bookly/internal/platform/respond"
	"github.com/danghai/bookly/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the tag endpoints. The caller wraps the router with
// the token guard and role gate.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listTags)
	router.Post("/", handler.createTag)
	router.Get("/{uid}", handler.getTag)
	router.Delete("/{uid}", handler.deleteTag)

	// Book links
	router.Get("/book/{book_uid}", handler.listBookTags)
	router.Post("/book/{book_uid}/{uid}", handler.attachTag)
	router.Delete("/book/{book_uid}/{uid}", handler.detachTag)
}

func (handler *Handler) listTags(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.service.ListTags(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}

func (handler *Handler) getTag(writer http.ResponseWriter, request *http.Request) {
	tag, err := handler.service.GetTag(request.Context(), requestutil.Param(request, "uid"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tag)
}

func (handler *Handler) createTag(writer http.ResponseWriter, request *http.Request) {
	var input Tag
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.service.CreateTag(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) deleteTag(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteTag(request.Context(), requestutil.Param(request, "uid")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) listBookTags(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.service.ListBookTags(request.Context(), requestutil.Param(request, "book_uid"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tags)
}

func (handler *Handler) attachTag(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.AttachTag(
		request.Context(),
		requestutil.Param(request, "book_uid"),
		requestutil.Param(request, "uid"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) detachTag(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.DetachTag(
		request.Context(),
		requestutil.Param(request, "book_uid"),
		requestutil.Param(request, "uid"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
