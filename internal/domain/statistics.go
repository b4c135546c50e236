package domain

type PopularPlan struct {
	ID         string
	Title      string
	OrderCount int
}

type ProfitablePlan struct {
	ID      string
	Title   string
	Revenue float64
}

type PopularLocation struct {
	City  string
	Count int
}
