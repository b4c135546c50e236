package console

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"travelbook/internal/account"
	accountservice "travelbook/internal/account/service"
	"travelbook/internal/comment"
	commentservice "travelbook/internal/comment/service"
	"travelbook/internal/config"
	"travelbook/internal/domain"
	"travelbook/internal/dto"
	apperrors "travelbook/internal/errors"
	"travelbook/internal/events"
	"travelbook/internal/infrastructure/memory"
	"travelbook/internal/listing"
	"travelbook/internal/metrics"
	"travelbook/internal/order"
	orderservice "travelbook/internal/order/service"
	"travelbook/internal/order/usecase"
	"travelbook/internal/plan"
	planservice "travelbook/internal/plan/service"
	"travelbook/internal/session"
	"travelbook/internal/statistics"
	statsservice "travelbook/internal/statistics/service"
)

// Local serves the console from an in-process store, applying the same
// role checks the HTTP routes apply.
type Local struct {
	accounts *accountservice.AccountService
	orders   *orderservice.OrderService
	placer   *usecase.PlaceOrderUseCase
	plans    *planservice.PlanService
	comments *commentservice.CommentService
	stats    *statsservice.StatisticsService

	mu   sync.RWMutex
	sess *session.Session
}

func NewLocal(store *memory.Store, cfg *config.Config, logger *zap.Logger) *Local {
	sessions := session.NewStore(cfg.Auth.SessionTTL)
	publisher := events.NewLogPublisher(logger)
	m := metrics.New()

	_, planSvc := plan.NewMemoryModule(store, logger)
	orderSvcs := order.NewMemoryServices(store, cfg, publisher, m, logger)
	_, commentSvc := comment.NewMemoryModule(store, logger)
	_, accountSvc := account.NewMemoryModule(store, cfg, sessions, m, logger)
	_, statsSvc := statistics.NewModule(planSvc, logger)

	return &Local{
		accounts: accountSvc,
		orders:   orderSvcs.Orders,
		placer:   orderSvcs.PlaceOrder,
		plans:    planSvc,
		comments: commentSvc,
		stats:    statsSvc,
	}
}

func (l *Local) Register(ctx context.Context, account, password string) error {
	_, err := l.accounts.Register(ctx, dto.CredentialsRequest{Account: account, Password: password})
	return err
}

func (l *Local) Login(ctx context.Context, account, password string) (*session.Session, error) {
	sess, err := l.accounts.Login(ctx, dto.CredentialsRequest{Account: account, Password: password})
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.sess = sess
	l.mu.Unlock()
	return sess, nil
}

func (l *Local) Logout(context.Context) error {
	l.mu.Lock()
	sess := l.sess
	l.sess = nil
	l.mu.Unlock()

	if sess == nil {
		return nil
	}
	return l.accounts.Logout(sess)
}

func (l *Local) session() (*session.Session, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.sess == nil {
		return nil, apperrors.NewUnauthorizedError("login required")
	}
	return l.sess, nil
}

func (l *Local) staff() (*session.Session, error) {
	sess, err := l.session()
	if err != nil {
		return nil, err
	}
	if !sess.IsStaff() {
		return nil, apperrors.NewForbiddenError("staff role required")
	}
	return sess, nil
}

func (l *Local) VerifyStatusSecret(ctx context.Context, secret string) error {
	sess, err := l.session()
	if err != nil {
		return err
	}
	return l.accounts.VerifyStaffSecret(ctx, sess, secret)
}

func (l *Local) PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (domain.Order, error) {
	sess, err := l.session()
	if err != nil {
		return domain.Order{}, err
	}
	return l.placer.PlaceOrder(ctx, sess, req)
}

func (l *Local) PayOrder(ctx context.Context, id string) (domain.Order, error) {
	sess, err := l.session()
	if err != nil {
		return domain.Order{}, err
	}
	return l.orders.Pay(ctx, sess, id)
}

func (l *Local) ProcessOrder(ctx context.Context, id string) (domain.Order, error) {
	sess, err := l.staff()
	if err != nil {
		return domain.Order{}, err
	}
	return l.orders.Process(ctx, sess, id)
}

func (l *Local) CancelOrder(ctx context.Context, id string) (domain.Order, error) {
	sess, err := l.session()
	if err != nil {
		return domain.Order{}, err
	}
	return l.orders.Cancel(ctx, sess, id)
}

func (l *Local) CreateComment(ctx context.Context, req dto.CreateCommentRequest) (domain.Comment, error) {
	sess, err := l.session()
	if err != nil {
		return domain.Comment{}, err
	}
	return l.comments.Create(ctx, sess, req)
}

func (l *Local) CreatePlan(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	if _, err := l.staff(); err != nil {
		return domain.Plan{}, err
	}
	return l.plans.Create(ctx, p)
}

func (l *Local) PopularPlans(ctx context.Context) ([]domain.PopularPlan, error) {
	if _, err := l.staff(); err != nil {
		return nil, err
	}
	return l.stats.PopularPlans(ctx)
}

func (l *Local) ProfitablePlans(ctx context.Context) ([]domain.ProfitablePlan, error) {
	if _, err := l.staff(); err != nil {
		return nil, err
	}
	return l.stats.ProfitablePlans(ctx)
}

func (l *Local) PopularLocations(ctx context.Context) ([]domain.PopularLocation, error) {
	if _, err := l.staff(); err != nil {
		return nil, err
	}
	return l.stats.PopularLocations(ctx)
}

func (l *Local) Orders() listing.Source[domain.Order]     { return localOrders{l} }
func (l *Local) Plans() listing.Source[domain.Plan]       { return localPlans{l} }
func (l *Local) Comments() listing.Source[domain.Comment] { return localComments{l} }

type localOrders struct{ l *Local }

func (s localOrders) List(ctx context.Context, f domain.Filter) ([]domain.Order, error) {
	sess, err := s.l.session()
	if err != nil {
		return nil, err
	}
	return s.l.orders.List(ctx, sess, f)
}

func (s localOrders) FindByID(ctx context.Context, id string) (domain.Order, error) {
	sess, err := s.l.session()
	if err != nil {
		return domain.Order{}, err
	}
	return s.l.orders.Get(ctx, sess, id)
}

func (s localOrders) Update(ctx context.Context, o domain.Order) (domain.Order, error) {
	sess, err := s.l.session()
	if err != nil {
		return domain.Order{}, err
	}
	return s.l.orders.Update(ctx, sess, o.ID, o)
}

func (s localOrders) Delete(context.Context, string) error {
	return apperrors.NewForbiddenError("orders cannot be deleted")
}

type localPlans struct{ l *Local }

func (s localPlans) List(ctx context.Context, f domain.Filter) ([]domain.Plan, error) {
	return s.l.plans.List(ctx, planservice.Query{Filter: f})
}

func (s localPlans) FindByID(ctx context.Context, id string) (domain.Plan, error) {
	return s.l.plans.Get(ctx, id)
}

func (s localPlans) Update(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	if _, err := s.l.staff(); err != nil {
		return domain.Plan{}, err
	}
	return s.l.plans.Update(ctx, p.ID, p)
}

func (s localPlans) Delete(context.Context, string) error {
	return apperrors.NewForbiddenError("plans cannot be deleted")
}

type localComments struct{ l *Local }

func (s localComments) List(ctx context.Context, f domain.Filter) ([]domain.Comment, error) {
	return s.l.comments.List(ctx, f)
}

func (s localComments) FindByID(ctx context.Context, id string) (domain.Comment, error) {
	return s.l.comments.Get(ctx, id)
}

func (s localComments) Update(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	if _, err := s.l.staff(); err != nil {
		return domain.Comment{}, err
	}
	return s.l.comments.Update(ctx, c.ID, c)
}

func (s localComments) Delete(ctx context.Context, id string) error {
	if _, err := s.l.staff(); err != nil {
		return err
	}
	return s.l.comments.Delete(ctx, id)
}
