package reviews

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

// RegisterRoutes mounts the review endpoints. The caller wraps the router
// with the token guard and role gate.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/book/{book_uid}", handler.listBookReviews)
	router.Post("/book/{book_uid}", handler.createReview)
	router.Get("/{uid}", handler.getReview)
	router.Delete("/{uid}", handler.deleteReview)
}

func (handler *Handler) listBookReviews(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	bookUID := requestutil.Param(request, "book_uid")

	reviews, total, err := handler.service.ListBookReviews(request.Context(), bookUID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	review, err := handler.service.GetReview(request.Context(), requestutil.Param(request, "uid"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Review
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	bookUID := requestutil.Param(request, "book_uid")
	if err := handler.service.CreateReview(request.Context(), actor, bookUID, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteReview(request.Context(), actor, requestutil.Param(request, "uid")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
