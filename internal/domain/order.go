package domain

import (
	"strconv"
	"strings"
	"time"

	apperrors "travelbook/internal/errors"
)

type Order struct {
	ID              string    `yaml:"id"`
	PlanID          string    `yaml:"planId"`
	Account         string    `yaml:"account"`
	PassengerName   string    `yaml:"passengerName"`
	PassengerPhone  string    `yaml:"passengerPhone"`
	NumOfPassengers int       `yaml:"numOfPassengers"`
	TotalAmount     float64   `yaml:"totalAmount"`
	Status          string    `yaml:"status"`
	OrderDate       time.Time `yaml:"orderDate"`
}

const (
	OrderStatusUnpaid    = "unpaid"
	OrderStatusUnused    = "unused"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

var orderStatuses = []string{
	OrderStatusUnpaid,
	OrderStatusUnused,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// OrderStatuses lists the valid order statuses in lifecycle order.
func OrderStatuses() []string {
	return append([]string(nil), orderStatuses...)
}

func IsOrderStatus(s string) bool {
	for _, st := range orderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// NextOrderStatus returns the status a staff "process" action moves to.
// Completed and cancelled orders do not advance.
func NextOrderStatus(current string) (string, bool) {
	switch current {
	case OrderStatusUnpaid:
		return OrderStatusUnused, true
	case OrderStatusUnused:
		return OrderStatusCompleted, true
	}
	return current, false
}

// CanCancel reports whether an order in the given status may be cancelled.
func CanCancel(status string) bool {
	return status == OrderStatusUnpaid || status == OrderStatusUnused
}

func (o Order) GetID() string     { return o.ID }
func (o Order) Kind() Kind        { return KindOrder }
func (o Order) GetStatus() string { return o.Status }

func (o Order) SortKey(c Criterion) (float64, bool) {
	switch c {
	case SortByTotalAmount:
		return o.TotalAmount, true
	case SortByNumOfPassengers:
		return float64(o.NumOfPassengers), true
	case SortByDate:
		return dateKey(o.OrderDate)
	}
	return 0, false
}

func (o Order) WithField(name, value string) (Order, error) {
	switch name {
	case "planId":
		if strings.TrimSpace(value) == "" {
			return o, fieldError(name, "planId is required")
		}
		o.PlanID = value
	case "passengerName":
		if strings.TrimSpace(value) == "" {
			return o, fieldError(name, "passengerName is required")
		}
		o.PassengerName = value
	case "passengerPhone":
		o.PassengerPhone = value
	case "numOfPassengers":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 1 {
			return o, fieldError(name, "numOfPassengers must be a positive integer")
		}
		o.NumOfPassengers = n
	case "totalAmount":
		amount, err := parseAmount(value)
		if err != nil {
			return o, fieldError(name, "totalAmount must be a non-negative number")
		}
		o.TotalAmount = amount
	case "status":
		if !IsOrderStatus(value) {
			return o, fieldError(name, "status must be one of "+strings.Join(orderStatuses, ", "))
		}
		o.Status = value
	case "orderDate":
		d, err := ParseDate(value)
		if err != nil {
			return o, fieldError(name, err.Error())
		}
		o.OrderDate = d
	default:
		return o, unknownField(KindOrder, name)
	}
	return o, nil
}

// Validate checks the invariants of a complete order.
func (o Order) Validate() error {
	var details []apperrors.ValidationDetail
	if o.PlanID == "" {
		details = append(details, apperrors.ValidationDetail{Field: "planId", Message: "planId is required"})
	}
	if strings.TrimSpace(o.PassengerName) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "passengerName", Message: "passengerName is required"})
	}
	if o.NumOfPassengers < 1 {
		details = append(details, apperrors.ValidationDetail{Field: "numOfPassengers", Message: "numOfPassengers must be a positive integer"})
	}
	if o.TotalAmount < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "totalAmount", Message: "totalAmount must be non-negative"})
	}
	if !IsOrderStatus(o.Status) {
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: "unknown order status"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid order", details...)
	}
	return nil
}

// Matches reports whether the order satisfies f. Search matches the order
// id, plan id or passenger name.
func (o Order) Matches(f Filter) bool {
	if !f.matchesStatus(o.Status) {
		return false
	}
	if f.Account != "" && o.Account != f.Account {
		return false
	}
	if f.PlanID != "" && o.PlanID != f.PlanID {
		return false
	}
	if f.Search != "" &&
		!strings.Contains(o.ID, f.Search) &&
		!strings.Contains(o.PlanID, f.Search) &&
		!strings.Contains(o.PassengerName, f.Search) {
		return false
	}
	return true
}

// PlaceOn completes a new order against plan: the plan must be active, the
// total is price times passengers and the order starts unpaid. The plan is
// returned with its orderCount incremented.
func (o Order) PlaceOn(plan Plan, date time.Time) (Order, Plan, error) {
	if plan.Status != PlanStatusActive {
		return Order{}, plan, apperrors.NewConflictError("plan " + plan.ID + " is not open for booking")
	}
	o.PlanID = plan.ID
	o.TotalAmount = plan.Price * float64(o.NumOfPassengers)
	o.Status = OrderStatusUnpaid
	o.OrderDate = date
	if err := o.Validate(); err != nil {
		return Order{}, plan, err
	}
	plan.OrderCount++
	return o, plan, nil
}
