package dto

import "travelbook/internal/domain"

type PlanDTO struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Departure        string  `json:"departure"`
	Destination      string  `json:"destination"`
	Price            float64 `json:"price"`
	Days             int     `json:"days"`
	DepartureDate    string  `json:"departureDate"`
	ReturnDate       string  `json:"returnDate"`
	Accommodation    string  `json:"accommodation"`
	Transportation   string  `json:"transportation"`
	IncludedServices string  `json:"includedServices"`
	Status           string  `json:"status"`
	OrderCount       int     `json:"orderCount"`
}

func FromPlan(p domain.Plan) PlanDTO {
	return PlanDTO{
		ID:               p.ID,
		Title:            p.Title,
		Departure:        p.Departure,
		Destination:      p.Destination,
		Price:            p.Price,
		Days:             p.Days,
		DepartureDate:    domain.FormatDate(p.DepartureDate),
		ReturnDate:       domain.FormatDate(p.ReturnDate),
		Accommodation:    p.Accommodation,
		Transportation:   p.Transportation,
		IncludedServices: p.IncludedServices,
		Status:           p.Status,
		OrderCount:       p.OrderCount,
	}
}

func FromPlans(plans []domain.Plan) []PlanDTO {
	out := make([]PlanDTO, len(plans))
	for i, p := range plans {
		out[i] = FromPlan(p)
	}
	return out
}

func (d PlanDTO) ToDomain() (domain.Plan, error) {
	departure, err := parseDate("departureDate", d.DepartureDate)
	if err != nil {
		return domain.Plan{}, err
	}
	ret, err := parseDate("returnDate", d.ReturnDate)
	if err != nil {
		return domain.Plan{}, err
	}
	return domain.Plan{
		ID:               d.ID,
		Title:            d.Title,
		Departure:        d.Departure,
		Destination:      d.Destination,
		Price:            d.Price,
		Days:             d.Days,
		DepartureDate:    departure,
		ReturnDate:       ret,
		Accommodation:    d.Accommodation,
		Transportation:   d.Transportation,
		IncludedServices: d.IncludedServices,
		Status:           d.Status,
		OrderCount:       d.OrderCount,
	}, nil
}
