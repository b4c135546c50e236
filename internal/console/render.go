package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"travelbook/internal/domain"
)

func writeTable(w io.Writer, columns []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no records)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

func writeFields(w io.Writer, fields []field) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", f.name, f.value)
	}
	tw.Flush()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

var orderLayout = layout[domain.Order]{
	columns: []string{"ID", "PLAN", "ACCOUNT", "PASSENGER", "PAX", "TOTAL", "STATUS", "DATE"},
	row: func(o domain.Order) []string {
		return []string{
			o.ID, o.PlanID, o.Account, o.PassengerName, strconv.Itoa(o.NumOfPassengers),
			money(o.TotalAmount), o.Status, domain.FormatDate(o.OrderDate),
		}
	},
	fields: func(o domain.Order) []field {
		return []field{
			{"id", o.ID},
			{"planId", o.PlanID},
			{"account", o.Account},
			{"passengerName", o.PassengerName},
			{"passengerPhone", o.PassengerPhone},
			{"numOfPassengers", strconv.Itoa(o.NumOfPassengers)},
			{"totalAmount", money(o.TotalAmount)},
			{"status", o.Status},
			{"orderDate", domain.FormatDate(o.OrderDate)},
		}
	},
}

var planLayout = layout[domain.Plan]{
	columns: []string{"ID", "TITLE", "ROUTE", "PRICE", "DAYS", "DEPARTS", "STATUS", "ORDERS"},
	row: func(p domain.Plan) []string {
		return []string{
			p.ID, truncate(p.Title, 32), p.Departure + " -> " + p.Destination, money(p.Price),
			strconv.Itoa(p.Days), domain.FormatDate(p.DepartureDate), p.Status, strconv.Itoa(p.OrderCount),
		}
	},
	fields: func(p domain.Plan) []field {
		return []field{
			{"id", p.ID},
			{"title", p.Title},
			{"departure", p.Departure},
			{"destination", p.Destination},
			{"price", money(p.Price)},
			{"days", strconv.Itoa(p.Days)},
			{"departureDate", domain.FormatDate(p.DepartureDate)},
			{"returnDate", domain.FormatDate(p.ReturnDate)},
			{"accommodation", p.Accommodation},
			{"transportation", p.Transportation},
			{"includedServices", p.IncludedServices},
			{"status", p.Status},
			{"orderCount", strconv.Itoa(p.OrderCount)},
		}
	},
}

var commentLayout = layout[domain.Comment]{
	columns: []string{"ID", "PLAN", "ACCOUNT", "RATING", "DATE", "CONTENT"},
	row: func(c domain.Comment) []string {
		return []string{
			c.ID, c.PlanID, c.Account, strconv.Itoa(c.Rating), domain.FormatDate(c.Date), truncate(c.Content, 40),
		}
	},
	fields: func(c domain.Comment) []field {
		return []field{
			{"id", c.ID},
			{"planId", c.PlanID},
			{"orderId", c.OrderID},
			{"account", c.Account},
			{"rating", strconv.Itoa(c.Rating)},
			{"date", domain.FormatDate(c.Date)},
			{"content", c.Content},
		}
	},
}
