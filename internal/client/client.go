// Package client talks to the travelbook REST API. Its record sources plug
// into listing.Manager so the console works the same against a remote
// backend as against an in-process store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"travelbook/internal/commons"
	"travelbook/internal/domain"
	"travelbook/internal/dto"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/session"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	mu   sync.RWMutex
	sess *session.Session
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Session returns the session obtained by Login, or nil.
func (c *Client) Session() *session.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sess
}

func (c *Client) Login(ctx context.Context, account, password string) (*session.Session, error) {
	var resp dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", nil, dto.CredentialsRequest{Account: account, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	sess := &session.Session{
		Account:  resp.Account,
		Role:     domain.Role(resp.Role),
		Token:    resp.Token,
		IssuedAt: time.Now().UTC(),
	}
	c.mu.Lock()
	c.sess = sess
	c.mu.Unlock()
	c.logger.Info("logged in", zap.String("account", sess.Account), zap.String("role", resp.Role))
	return sess, nil
}

// Logout ends the session locally even when the backend call fails.
func (c *Client) Logout(ctx context.Context) error {
	if c.Session() == nil {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil, nil)

	c.mu.Lock()
	c.sess = nil
	c.mu.Unlock()
	return err
}

func (c *Client) Register(ctx context.Context, account, password string) error {
	return c.do(ctx, http.MethodPost, "/api/register", nil, dto.CredentialsRequest{Account: account, Password: password}, nil)
}

// VerifyStatusSecret implements statusgate.Authorizer against
// POST /api/staff/verify.
func (c *Client) VerifyStatusSecret(ctx context.Context, secret string) error {
	return c.do(ctx, http.MethodPost, "/api/staff/verify", nil, dto.VerifyRequest{Secret: secret}, nil)
}

func (c *Client) PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (domain.Order, error) {
	var out dto.OrderDTO
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, req, &out); err != nil {
		return domain.Order{}, err
	}
	return out.ToDomain()
}

func (c *Client) CreateComment(ctx context.Context, req dto.CreateCommentRequest) (domain.Comment, error) {
	var out dto.CommentDTO
	if err := c.do(ctx, http.MethodPost, "/api/comments", nil, req, &out); err != nil {
		return domain.Comment{}, err
	}
	return out.ToDomain()
}

func (c *Client) CreatePlan(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	var out dto.PlanDTO
	if err := c.do(ctx, http.MethodPost, "/api/plans", nil, dto.FromPlan(p), &out); err != nil {
		return domain.Plan{}, err
	}
	return out.ToDomain()
}

func (c *Client) PopularPlans(ctx context.Context) ([]domain.PopularPlan, error) {
	var resp dto.ListResponse[dto.PopularPlanDTO]
	if err := c.do(ctx, http.MethodGet, "/api/statistics/popular-plans", nil, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.PopularPlan, len(resp.Items))
	for i, p := range resp.Items {
		out[i] = domain.PopularPlan{ID: p.ID, Title: p.Title, OrderCount: p.OrderCount}
	}
	return out, nil
}

func (c *Client) ProfitablePlans(ctx context.Context) ([]domain.ProfitablePlan, error) {
	var resp dto.ListResponse[dto.ProfitablePlanDTO]
	if err := c.do(ctx, http.MethodGet, "/api/statistics/profit-plans", nil, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.ProfitablePlan, len(resp.Items))
	for i, p := range resp.Items {
		out[i] = domain.ProfitablePlan{ID: p.ID, Title: p.Title, Revenue: p.Revenue}
	}
	return out, nil
}

func (c *Client) PopularLocations(ctx context.Context) ([]domain.PopularLocation, error) {
	var resp dto.ListResponse[dto.PopularLocationDTO]
	if err := c.do(ctx, http.MethodGet, "/api/statistics/famous-places", nil, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.PopularLocation, len(resp.Items))
	for i, l := range resp.Items {
		out[i] = domain.PopularLocation{City: l.City, Count: l.Count}
	}
	return out, nil
}

func filterQuery(f domain.Filter) url.Values {
	q := url.Values{}
	for key, value := range map[string]string{
		"status":      f.Status,
		"planId":      f.PlanID,
		"departure":   f.Departure,
		"destination": f.Destination,
		"search":      f.Search,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}
	return q
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess := c.Session(); sess != nil {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.NewInternalError(resp.Status, err)
	}
	var envelope dto.ErrorResponse
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Code == "" {
		return apperrors.NewInternalError(fmt.Sprintf("%s: %s", resp.Status, strings.TrimSpace(string(data))), nil)
	}
	return commons.ErrorFromResponse(envelope)
}
