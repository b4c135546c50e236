package domain

import (
	"strconv"
	"strings"
	"time"

	apperrors "travelbook/internal/errors"
)

type Comment struct {
	ID      string    `yaml:"id"`
	PlanID  string    `yaml:"planId"`
	OrderID string    `yaml:"orderId"`
	Account string    `yaml:"account"`
	Content string    `yaml:"content"`
	Rating  int       `yaml:"rating"`
	Date    time.Time `yaml:"date"`
}

const (
	MinRating = 1
	MaxRating = 5
)

func (c Comment) GetID() string { return c.ID }
func (c Comment) Kind() Kind    { return KindComment }

// GetStatus is empty: comments have no lifecycle status, so only the "all"
// filter selects them.
func (c Comment) GetStatus() string { return "" }

func (c Comment) Matches(f Filter) bool {
	if f.Status != "" && f.Status != StatusAll {
		return false
	}
	if f.PlanID != "" && c.PlanID != f.PlanID {
		return false
	}
	if f.Account != "" && c.Account != f.Account {
		return false
	}
	if f.Search != "" && !strings.Contains(c.ID, f.Search) &&
		!strings.Contains(c.PlanID, f.Search) && !strings.Contains(c.Content, f.Search) {
		return false
	}
	return true
}

func (c Comment) SortKey(cr Criterion) (float64, bool) {
	switch cr {
	case SortByRating:
		return float64(c.Rating), true
	case SortByDate:
		return dateKey(c.Date)
	}
	return 0, false
}

func (c Comment) WithField(name, value string) (Comment, error) {
	switch name {
	case "content":
		if strings.TrimSpace(value) == "" {
			return c, fieldError(name, "content must not be empty")
		}
		c.Content = value
	case "rating":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < MinRating || n > MaxRating {
			return c, fieldError(name, "rating must be an integer between 1 and 5")
		}
		c.Rating = n
	case "planId":
		if strings.TrimSpace(value) == "" {
			return c, fieldError(name, "planId is required")
		}
		c.PlanID = value
	case "date":
		d, err := ParseDate(value)
		if err != nil {
			return c, fieldError(name, err.Error())
		}
		c.Date = d
	default:
		return c, unknownField(KindComment, name)
	}
	return c, nil
}

func (c Comment) Validate() error {
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(c.Content) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "content", Message: "content must not be empty"})
	}
	if c.Rating < MinRating || c.Rating > MaxRating {
		details = append(details, apperrors.ValidationDetail{Field: "rating", Message: "rating must be an integer between 1 and 5"})
	}
	if c.PlanID == "" {
		details = append(details, apperrors.ValidationDetail{Field: "planId", Message: "planId is required"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid comment", details...)
	}
	return nil
}
