package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"travelbook/internal/commons"
	"travelbook/internal/domain"
	"travelbook/internal/dto"
	"travelbook/internal/session"
)

type CommentService interface {
	List(ctx context.Context, f domain.Filter) ([]domain.Comment, error)
	Get(ctx context.Context, id string) (domain.Comment, error)
	Create(ctx context.Context, sess *session.Session, req dto.CreateCommentRequest) (domain.Comment, error)
	Update(ctx context.Context, id string, c domain.Comment) (domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

type CommentController struct {
	service CommentService
	logger  *zap.Logger
}

func NewCommentController(service CommentService, logger *zap.Logger) *CommentController {
	return &CommentController{service: service, logger: logger}
}

func (c *CommentController) List(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	q := r.URL.Query()
	comments, err := c.service.List(r.Context(), domain.Filter{
		Status: q.Get("status"),
		PlanID: q.Get("planId"),
		Search: q.Get("search"),
	})
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, http.StatusOK, dto.NewListResponse(traceID, dto.FromComments(comments)))
}

func (c *CommentController) Get(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	comment, err := c.service.Get(r.Context(), chi.URLParam(r, "commentId"))
	c.respond(w, logger, traceID, http.StatusOK, comment, err)
}

func (c *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	var req dto.CreateCommentRequest
	if !commons.DecodeJSON(w, r, logger, traceID, &req) {
		return
	}
	comment, err := c.service.Create(r.Context(), session.FromContext(r.Context()), req)
	c.respond(w, logger, traceID, http.StatusCreated, comment, err)
}

func (c *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	var req dto.CommentDTO
	if !commons.DecodeJSON(w, r, logger, traceID, &req) {
		return
	}
	comment, err := req.ToDomain()
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	updated, err := c.service.Update(r.Context(), chi.URLParam(r, "commentId"), comment)
	c.respond(w, logger, traceID, http.StatusOK, updated, err)
}

func (c *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.Trace(c.logger, r)

	if err := c.service.Delete(r.Context(), chi.URLParam(r, "commentId")); err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CommentController) respond(w http.ResponseWriter, logger *zap.Logger, traceID string, status int, comment domain.Comment, err error) {
	if err != nil {
		commons.WriteError(w, logger, traceID, err)
		return
	}
	commons.WriteJSON(w, logger, status, dto.FromComment(comment))
}
