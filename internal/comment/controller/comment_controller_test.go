package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"travelbook/internal/domain"
	"travelbook/internal/dto"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/session"
)

type mockCommentService struct {
	ListFunc   func(ctx context.Context, f domain.Filter) ([]domain.Comment, error)
	GetFunc    func(ctx context.Context, id string) (domain.Comment, error)
	CreateFunc func(ctx context.Context, sess *session.Session, req dto.CreateCommentRequest) (domain.Comment, error)
	UpdateFunc func(ctx context.Context, id string, c domain.Comment) (domain.Comment, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *mockCommentService) List(ctx context.Context, f domain.Filter) ([]domain.Comment, error) {
	return m.ListFunc(ctx, f)
}

func (m *mockCommentService) Get(ctx context.Context, id string) (domain.Comment, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockCommentService) Create(ctx context.Context, sess *session.Session, req dto.CreateCommentRequest) (domain.Comment, error) {
	return m.CreateFunc(ctx, sess, req)
}

func (m *mockCommentService) Update(ctx context.Context, id string, c domain.Comment) (domain.Comment, error) {
	return m.UpdateFunc(ctx, id, c)
}

func (m *mockCommentService) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func newRouter(svc CommentService) http.Handler {
	c := NewCommentController(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &session.Session{Account: "zhangsan", Role: domain.RoleUser}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	})
	r.Get("/comments", c.List)
	r.Post("/comments", c.Create)
	r.Get("/comments/{commentId}", c.Get)
	r.Put("/comments/{commentId}", c.Update)
	r.Delete("/comments/{commentId}", c.Delete)
	return r
}

func sampleComment() domain.Comment {
	return domain.Comment{
		ID: "CMT001", PlanID: "PLN001", OrderID: "ORD003", Account: "zhangsan",
		Content: "Great trip", Rating: 5, Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestCommentController_List(t *testing.T) {
	var gotFilter domain.Filter
	svc := &mockCommentService{
		ListFunc: func(ctx context.Context, f domain.Filter) ([]domain.Comment, error) {
			gotFilter = f
			return []domain.Comment{sampleComment()}, nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/comments?planId=PLN001&status=all", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PLN001", gotFilter.PlanID)
	assert.Equal(t, "all", gotFilter.Status)

	var resp dto.ListResponse[dto.CommentDTO]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "2025-06-10", resp.Items[0].Date)
}

func TestCommentController_CreatePassesSession(t *testing.T) {
	var gotAccount string
	svc := &mockCommentService{
		CreateFunc: func(ctx context.Context, sess *session.Session, req dto.CreateCommentRequest) (domain.Comment, error) {
			gotAccount = sess.Account
			return sampleComment(), nil
		},
	}

	rec := httptest.NewRecorder()
	body := `{"orderId":"ORD003","content":"Great trip","rating":5}`
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/comments", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "zhangsan", gotAccount)
}

func TestCommentController_CreateConflict(t *testing.T) {
	svc := &mockCommentService{
		CreateFunc: func(ctx context.Context, sess *session.Session, req dto.CreateCommentRequest) (domain.Comment, error) {
			return domain.Comment{}, apperrors.NewConflictError("order ORD003 has already been reviewed")
		},
	}

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/comments", strings.NewReader(`{"orderId":"ORD003"}`)))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCommentController_UpdateUsesURLID(t *testing.T) {
	var gotID string
	svc := &mockCommentService{
		UpdateFunc: func(ctx context.Context, id string, c domain.Comment) (domain.Comment, error) {
			gotID = id
			c.ID = id
			return c, nil
		},
	}

	rec := httptest.NewRecorder()
	body := `{"planId":"PLN001","content":"Fine","rating":3,"date":"2025-06-10"}`
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/comments/CMT001", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CMT001", gotID)
	assert.Contains(t, rec.Body.String(), `"rating":3`)
}

func TestCommentController_Delete(t *testing.T) {
	svc := &mockCommentService{
		DeleteFunc: func(ctx context.Context, id string) error {
			if id == "CMT404" {
				return apperrors.NewNotFoundError("comment with id CMT404 not found")
			}
			return nil
		},
	}

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/comments/CMT001", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/comments/CMT404", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
