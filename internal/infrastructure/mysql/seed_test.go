package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"travelbook/internal/commons"
	"travelbook/internal/domain"
)

func TestHighestIDs(t *testing.T) {
	fx := &commons.Fixtures{
		Plans:    []domain.Plan{{ID: "PLN002"}, {ID: "PLN007"}, {ID: "PLN003"}},
		Orders:   []domain.Order{{ID: "ORD011"}},
		Comments: []domain.Comment{},
	}

	got := highestIDs(fx)

	assert.Equal(t, 7, got[domain.KindPlan])
	assert.Equal(t, 11, got[domain.KindOrder])
	_, ok := got[domain.KindComment]
	assert.False(t, ok)
}
