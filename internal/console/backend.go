package console

import (
	"context"

	"travelbook/internal/client"
	"travelbook/internal/domain"
	"travelbook/internal/dto"
	"travelbook/internal/listing"
	"travelbook/internal/session"
)

// Backend is everything the console needs from the booking system. Remote
// talks to the REST API; Local runs the services in-process.
type Backend interface {
	Register(ctx context.Context, account, password string) error
	Login(ctx context.Context, account, password string) (*session.Session, error)
	Logout(ctx context.Context) error

	Orders() listing.Source[domain.Order]
	Plans() listing.Source[domain.Plan]
	Comments() listing.Source[domain.Comment]

	Bookings
	VerifyStatusSecret(ctx context.Context, secret string) error

	Statistics
}

// Bookings covers the operations that create records or move an order
// through its lifecycle outside the generic edit flow.
type Bookings interface {
	PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (domain.Order, error)
	PayOrder(ctx context.Context, id string) (domain.Order, error)
	ProcessOrder(ctx context.Context, id string) (domain.Order, error)
	CancelOrder(ctx context.Context, id string) (domain.Order, error)
	CreateComment(ctx context.Context, req dto.CreateCommentRequest) (domain.Comment, error)
	CreatePlan(ctx context.Context, p domain.Plan) (domain.Plan, error)
}

type Statistics interface {
	PopularPlans(ctx context.Context) ([]domain.PopularPlan, error)
	ProfitablePlans(ctx context.Context) ([]domain.ProfitablePlan, error)
	PopularLocations(ctx context.Context) ([]domain.PopularLocation, error)
}

type Remote struct {
	*client.Client
}

func NewRemote(c *client.Client) *Remote {
	return &Remote{Client: c}
}

func (r *Remote) Orders() listing.Source[domain.Order]     { return r.Client.Orders() }
func (r *Remote) Plans() listing.Source[domain.Plan]       { return r.Client.Plans() }
func (r *Remote) Comments() listing.Source[domain.Comment] { return r.Client.Comments() }

func (r *Remote) PayOrder(ctx context.Context, id string) (domain.Order, error) {
	return r.Client.Orders().Pay(ctx, id)
}

func (r *Remote) ProcessOrder(ctx context.Context, id string) (domain.Order, error) {
	return r.Client.Orders().Process(ctx, id)
}

func (r *Remote) CancelOrder(ctx context.Context, id string) (domain.Order, error) {
	return r.Client.Orders().Cancel(ctx, id)
}
