package service

import (
	"cmp"
	"context"
	"slices"

	"go.uber.org/zap"

	"travelbook/internal/domain"
)

// TopN bounds every ranking.
const TopN = 10

type PlanLister interface {
	List(ctx context.Context, f domain.Filter) ([]domain.Plan, error)
}

// StatisticsService ranks the plan catalog. Rankings are computed from plan
// order counters, so inactive plans still count.
type StatisticsService struct {
	plans  PlanLister
	logger *zap.Logger
}

func NewStatisticsService(plans PlanLister, logger *zap.Logger) *StatisticsService {
	return &StatisticsService{plans: plans, logger: logger}
}

func (s *StatisticsService) PopularPlans(ctx context.Context) ([]domain.PopularPlan, error) {
	plans, err := s.plans.List(ctx, domain.Filter{Status: domain.StatusAll})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(plans, func(a, b domain.Plan) int {
		return cmp.Compare(b.OrderCount, a.OrderCount)
	})

	out := make([]domain.PopularPlan, 0, min(len(plans), TopN))
	for _, p := range plans[:min(len(plans), TopN)] {
		out = append(out, domain.PopularPlan{ID: p.ID, Title: p.Title, OrderCount: p.OrderCount})
	}
	return out, nil
}

func (s *StatisticsService) ProfitablePlans(ctx context.Context) ([]domain.ProfitablePlan, error) {
	plans, err := s.plans.List(ctx, domain.Filter{Status: domain.StatusAll})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(plans, func(a, b domain.Plan) int {
		return cmp.Compare(b.Revenue(), a.Revenue())
	})

	out := make([]domain.ProfitablePlan, 0, min(len(plans), TopN))
	for _, p := range plans[:min(len(plans), TopN)] {
		out = append(out, domain.ProfitablePlan{ID: p.ID, Title: p.Title, Revenue: p.Revenue()})
	}
	return out, nil
}

// PopularLocations sums order counts per destination. Ties keep the order in
// which destinations first appear in the catalog.
func (s *StatisticsService) PopularLocations(ctx context.Context) ([]domain.PopularLocation, error) {
	plans, err := s.plans.List(ctx, domain.Filter{Status: domain.StatusAll})
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var locations []domain.PopularLocation
	for _, p := range plans {
		i, ok := index[p.Destination]
		if !ok {
			i = len(locations)
			index[p.Destination] = i
			locations = append(locations, domain.PopularLocation{City: p.Destination})
		}
		locations[i].Count += p.OrderCount
	}
	slices.SortStableFunc(locations, func(a, b domain.PopularLocation) int {
		return cmp.Compare(b.Count, a.Count)
	})

	if len(locations) > TopN {
		locations = locations[:TopN]
	}
	s.logger.Debug("computed popular locations", zap.Int("destinations", len(index)))
	return locations, nil
}
