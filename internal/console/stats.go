package console

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"travelbook/internal/domain"
)

type report struct {
	popular    []domain.PopularPlan
	profitable []domain.ProfitablePlan
	locations  []domain.PopularLocation
}

// fetchReport loads the three rankings concurrently. The first failure
// cancels the others.
func fetchReport(ctx context.Context, s Statistics) (report, error) {
	var r report
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		r.popular, err = s.PopularPlans(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		r.profitable, err = s.ProfitablePlans(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		r.locations, err = s.PopularLocations(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return report{}, err
	}
	return r, nil
}

func (c *Console) stats(ctx context.Context) error {
	r, err := fetchReport(ctx, c.backend)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, "popular plans (top 10)")
	rows := make([][]string, len(r.popular))
	for i, p := range r.popular {
		rows[i] = []string{strconv.Itoa(i + 1), p.ID, p.Title, strconv.Itoa(p.OrderCount)}
	}
	writeTable(c.out, []string{"#", "ID", "TITLE", "ORDERS"}, rows)

	fmt.Fprintln(c.out, "\nprofitable plans (top 10)")
	rows = make([][]string, len(r.profitable))
	for i, p := range r.profitable {
		rows[i] = []string{strconv.Itoa(i + 1), p.ID, p.Title, money(p.Revenue)}
	}
	writeTable(c.out, []string{"#", "ID", "TITLE", "REVENUE"}, rows)

	fmt.Fprintln(c.out, "\npopular destinations (top 10)")
	rows = make([][]string, len(r.locations))
	for i, l := range r.locations {
		rows[i] = []string{strconv.Itoa(i + 1), l.City, strconv.Itoa(l.Count)}
	}
	writeTable(c.out, []string{"#", "CITY", "ORDERS"}, rows)
	return nil
}
