package client

import (
	"context"
	"net/http"
	"net/url"

	"travelbook/internal/domain"
	"travelbook/internal/dto"
	apperrors "travelbook/internal/errors"
)

// OrderSource serves orders from /api/orders. Orders are never deleted.
type OrderSource struct{ c *Client }

func (c *Client) Orders() *OrderSource { return &OrderSource{c: c} }

func (s *OrderSource) List(ctx context.Context, f domain.Filter) ([]domain.Order, error) {
	var resp dto.ListResponse[dto.OrderDTO]
	if err := s.c.do(ctx, http.MethodGet, "/api/orders", filterQuery(f), nil, &resp); err != nil {
		return nil, err
	}
	return convert(resp.Items, dto.OrderDTO.ToDomain)
}

func (s *OrderSource) FindByID(ctx context.Context, id string) (domain.Order, error) {
	var out dto.OrderDTO
	if err := s.c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return domain.Order{}, err
	}
	return out.ToDomain()
}

func (s *OrderSource) Update(ctx context.Context, o domain.Order) (domain.Order, error) {
	var out dto.OrderDTO
	if err := s.c.do(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(o.ID), nil, dto.FromOrder(o), &out); err != nil {
		return domain.Order{}, err
	}
	return out.ToDomain()
}

func (s *OrderSource) Delete(context.Context, string) error {
	return apperrors.NewForbiddenError("orders cannot be deleted")
}

// Pay, Process and Cancel are the order lifecycle shortcuts.
func (s *OrderSource) Pay(ctx context.Context, id string) (domain.Order, error) {
	return s.action(ctx, http.MethodPost, id, "pay")
}

func (s *OrderSource) Process(ctx context.Context, id string) (domain.Order, error) {
	return s.action(ctx, http.MethodPatch, id, "process")
}

func (s *OrderSource) Cancel(ctx context.Context, id string) (domain.Order, error) {
	return s.action(ctx, http.MethodPatch, id, "cancel")
}

func (s *OrderSource) action(ctx context.Context, method, id, verb string) (domain.Order, error) {
	var out dto.OrderDTO
	if err := s.c.do(ctx, method, "/api/orders/"+url.PathEscape(id)+"/"+verb, nil, nil, &out); err != nil {
		return domain.Order{}, err
	}
	return out.ToDomain()
}

// PlanSource serves plans from /api/plans. Plans are retired by toggling
// their status, never deleted.
type PlanSource struct{ c *Client }

func (c *Client) Plans() *PlanSource { return &PlanSource{c: c} }

func (s *PlanSource) List(ctx context.Context, f domain.Filter) ([]domain.Plan, error) {
	var resp dto.ListResponse[dto.PlanDTO]
	if err := s.c.do(ctx, http.MethodGet, "/api/plans", filterQuery(f), nil, &resp); err != nil {
		return nil, err
	}
	return convert(resp.Items, dto.PlanDTO.ToDomain)
}

func (s *PlanSource) FindByID(ctx context.Context, id string) (domain.Plan, error) {
	var out dto.PlanDTO
	if err := s.c.do(ctx, http.MethodGet, "/api/plans/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return domain.Plan{}, err
	}
	return out.ToDomain()
}

func (s *PlanSource) Update(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	var out dto.PlanDTO
	if err := s.c.do(ctx, http.MethodPut, "/api/plans/"+url.PathEscape(p.ID), nil, dto.FromPlan(p), &out); err != nil {
		return domain.Plan{}, err
	}
	return out.ToDomain()
}

func (s *PlanSource) Delete(context.Context, string) error {
	return apperrors.NewForbiddenError("plans cannot be deleted")
}

type CommentSource struct{ c *Client }

func (c *Client) Comments() *CommentSource { return &CommentSource{c: c} }

func (s *CommentSource) List(ctx context.Context, f domain.Filter) ([]domain.Comment, error) {
	var resp dto.ListResponse[dto.CommentDTO]
	if err := s.c.do(ctx, http.MethodGet, "/api/comments", filterQuery(f), nil, &resp); err != nil {
		return nil, err
	}
	return convert(resp.Items, dto.CommentDTO.ToDomain)
}

func (s *CommentSource) FindByID(ctx context.Context, id string) (domain.Comment, error) {
	var out dto.CommentDTO
	if err := s.c.do(ctx, http.MethodGet, "/api/comments/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return domain.Comment{}, err
	}
	return out.ToDomain()
}

func (s *CommentSource) Update(ctx context.Context, cm domain.Comment) (domain.Comment, error) {
	var out dto.CommentDTO
	if err := s.c.do(ctx, http.MethodPut, "/api/comments/"+url.PathEscape(cm.ID), nil, dto.FromComment(cm), &out); err != nil {
		return domain.Comment{}, err
	}
	return out.ToDomain()
}

func (s *CommentSource) Delete(ctx context.Context, id string) error {
	return s.c.do(ctx, http.MethodDelete, "/api/comments/"+url.PathEscape(id), nil, nil, nil)
}

func convert[D any, T any](items []D, toDomain func(D) (T, error)) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		record, err := toDomain(item)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}
