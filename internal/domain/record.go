package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the discriminant carried by every record. It is fixed by the Go
// type of the record and never derived from the id.
type Kind string

const (
	KindOrder   Kind = "order"
	KindPlan    Kind = "plan"
	KindComment Kind = "comment"
)

func (k Kind) idPrefix() string {
	switch k {
	case KindOrder:
		return "ORD"
	case KindPlan:
		return "PLN"
	case KindComment:
		return "CMT"
	}
	return ""
}

// FormatID renders the n-th id of a kind, e.g. FormatID(KindOrder, 7) == "ORD007".
func FormatID(kind Kind, n int) string {
	return fmt.Sprintf("%s%03d", kind.idPrefix(), n)
}

// ParseSequence extracts the numeric part of an id of the given kind.
func ParseSequence(kind Kind, id string) (int, bool) {
	prefix := kind.idPrefix()
	if prefix == "" || !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(id[len(prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Criterion names a sort key.
type Criterion string

const (
	SortByRating          Criterion = "rating"
	SortByPrice           Criterion = "price"
	SortByDays            Criterion = "days"
	SortByOrderCount      Criterion = "orderCount"
	SortByTotalAmount     Criterion = "totalAmount"
	SortByNumOfPassengers Criterion = "numOfPassengers"
	SortByDate            Criterion = "date"
)

// Record is implemented by the value types Order, Plan and Comment. T is the
// implementing type itself so that WithField can return a typed copy.
type Record[T any] interface {
	GetID() string
	Kind() Kind
	GetStatus() string
	// WithField returns a copy with one field replaced. The receiver is never
	// modified; invalid input yields a *ValidationError.
	WithField(name, value string) (T, error)
	// SortKey reports the numeric key for criterion, or false if the record
	// has no such key. Dates sort by their Unix time.
	SortKey(c Criterion) (float64, bool)
}

// Filter narrows a List call. Empty fields match everything.
type Filter struct {
	Status      string
	Account     string
	PlanID      string
	Departure   string
	Destination string
	Search      string
}

// StatusAll disables status filtering.
const StatusAll = "all"

func (f Filter) matchesStatus(status string) bool {
	return f.Status == "" || f.Status == StatusAll || f.Status == status
}
