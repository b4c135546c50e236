package domain

import (
	"strconv"
	"strings"
	"time"

	apperrors "travelbook/internal/errors"
)

type Plan struct {
	ID               string    `yaml:"id"`
	Title            string    `yaml:"title"`
	Departure        string    `yaml:"departure"`
	Destination      string    `yaml:"destination"`
	Price            float64   `yaml:"price"`
	Days             int       `yaml:"days"`
	DepartureDate    time.Time `yaml:"departureDate"`
	ReturnDate       time.Time `yaml:"returnDate"`
	Accommodation    string    `yaml:"accommodation"`
	Transportation   string    `yaml:"transportation"`
	IncludedServices string    `yaml:"includedServices"`
	Status           string    `yaml:"status"`
	OrderCount       int       `yaml:"orderCount"`
}

const (
	PlanStatusActive   = "active"
	PlanStatusInactive = "inactive"
)

func IsPlanStatus(s string) bool {
	return s == PlanStatusActive || s == PlanStatusInactive
}

// ToggledPlanStatus flips active and inactive.
func ToggledPlanStatus(current string) string {
	if current == PlanStatusActive {
		return PlanStatusInactive
	}
	return PlanStatusActive
}

func (p Plan) GetID() string     { return p.ID }
func (p Plan) Kind() Kind        { return KindPlan }
func (p Plan) GetStatus() string { return p.Status }

// Revenue is the plan's gross takings used by the profitability ranking.
func (p Plan) Revenue() float64 {
	return p.Price * float64(p.OrderCount)
}

// Matches reports whether the plan satisfies the departure/destination
// substring search and the status filter.
func (p Plan) Matches(f Filter) bool {
	if !f.matchesStatus(p.Status) {
		return false
	}
	if f.Departure != "" && !strings.Contains(p.Departure, f.Departure) {
		return false
	}
	if f.Destination != "" && !strings.Contains(p.Destination, f.Destination) {
		return false
	}
	if f.Search != "" && !strings.Contains(p.ID, f.Search) && !strings.Contains(p.Title, f.Search) {
		return false
	}
	return true
}

func (p Plan) SortKey(c Criterion) (float64, bool) {
	switch c {
	case SortByPrice:
		return p.Price, true
	case SortByDays:
		return float64(p.Days), true
	case SortByOrderCount:
		return float64(p.OrderCount), true
	case SortByDate:
		return dateKey(p.DepartureDate)
	}
	return 0, false
}

func (p Plan) WithField(name, value string) (Plan, error) {
	switch name {
	case "title":
		if strings.TrimSpace(value) == "" {
			return p, fieldError(name, "title is required")
		}
		p.Title = value
	case "departure":
		if strings.TrimSpace(value) == "" {
			return p, fieldError(name, "departure is required")
		}
		p.Departure = value
	case "destination":
		if strings.TrimSpace(value) == "" {
			return p, fieldError(name, "destination is required")
		}
		p.Destination = value
	case "price":
		price, err := parseAmount(value)
		if err != nil {
			return p, fieldError(name, "price must be a non-negative number")
		}
		p.Price = price
	case "days":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 1 {
			return p, fieldError(name, "days must be a positive integer")
		}
		p.Days = n
	case "departureDate":
		d, err := ParseDate(value)
		if err != nil {
			return p, fieldError(name, err.Error())
		}
		if !p.ReturnDate.IsZero() && p.ReturnDate.Before(d) {
			return p, fieldError(name, "departureDate must not be after returnDate")
		}
		p.DepartureDate = d
	case "returnDate":
		d, err := ParseDate(value)
		if err != nil {
			return p, fieldError(name, err.Error())
		}
		if !p.DepartureDate.IsZero() && d.Before(p.DepartureDate) {
			return p, fieldError(name, "returnDate must not be before departureDate")
		}
		p.ReturnDate = d
	case "accommodation":
		p.Accommodation = value
	case "transportation":
		p.Transportation = value
	case "includedServices":
		p.IncludedServices = value
	case "status":
		if !IsPlanStatus(value) {
			return p, fieldError(name, "status must be active or inactive")
		}
		p.Status = value
	case "orderCount":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return p, fieldError(name, "orderCount must be a non-negative integer")
		}
		p.OrderCount = n
	default:
		return p, unknownField(KindPlan, name)
	}
	return p, nil
}

func (p Plan) Validate() error {
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(p.Title) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(p.Departure) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "departure", Message: "departure is required"})
	}
	if strings.TrimSpace(p.Destination) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "destination", Message: "destination is required"})
	}
	if p.Price < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must be non-negative"})
	}
	if p.Days < 1 {
		details = append(details, apperrors.ValidationDetail{Field: "days", Message: "days must be a positive integer"})
	}
	if !p.ReturnDate.IsZero() && p.ReturnDate.Before(p.DepartureDate) {
		details = append(details, apperrors.ValidationDetail{Field: "returnDate", Message: "returnDate must not be before departureDate"})
	}
	if !IsPlanStatus(p.Status) {
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: "status must be active or inactive"})
	}
	if p.OrderCount < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "orderCount", Message: "orderCount must be non-negative"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid plan", details...)
	}
	return nil
}
