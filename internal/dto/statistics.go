package dto

import "travelbook/internal/domain"

type PopularPlanDTO struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	OrderCount int    `json:"orderCount"`
}

type ProfitablePlanDTO struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Revenue float64 `json:"revenue"`
}

type PopularLocationDTO struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

func FromPopularPlans(in []domain.PopularPlan) []PopularPlanDTO {
	out := make([]PopularPlanDTO, len(in))
	for i, p := range in {
		out[i] = PopularPlanDTO{ID: p.ID, Title: p.Title, OrderCount: p.OrderCount}
	}
	return out
}

func FromProfitablePlans(in []domain.ProfitablePlan) []ProfitablePlanDTO {
	out := make([]ProfitablePlanDTO, len(in))
	for i, p := range in {
		out[i] = ProfitablePlanDTO{ID: p.ID, Title: p.Title, Revenue: p.Revenue}
	}
	return out
}

func FromPopularLocations(in []domain.PopularLocation) []PopularLocationDTO {
	out := make([]PopularLocationDTO, len(in))
	for i, l := range in {
		out[i] = PopularLocationDTO{City: l.City, Count: l.Count}
	}
	return out
}
