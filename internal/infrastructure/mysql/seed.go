package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"travelbook/internal/commons"
	"travelbook/internal/domain"
)

// Seed loads fixtures into an empty or partially seeded database. Rows that
// already exist are left alone, and the id sequences are moved past every
// fixture id.
func Seed(ctx context.Context, db *sql.DB, fx *commons.Fixtures, cost int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, a := range fx.Accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), cost)
		if err != nil {
			return fmt.Errorf("hashing password for %s: %w", a.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT IGNORE INTO Accounts (name, passwordHash, role, createdAt) VALUES (?, ?, ?, ?)`,
			a.Name, string(hash), string(a.Role), now); err != nil {
			return fmt.Errorf("seeding account %s: %w", a.Name, err)
		}
	}

	for _, p := range fx.Plans {
		if _, err := tx.ExecContext(ctx, `
			INSERT IGNORE INTO Plans (id, title, departure, destination, price, days, departureDate, returnDate,
				accommodation, transportation, includedServices, status, orderCount)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Title, p.Departure, p.Destination, p.Price, p.Days, p.DepartureDate, p.ReturnDate,
			p.Accommodation, p.Transportation, p.IncludedServices, p.Status, p.OrderCount); err != nil {
			return fmt.Errorf("seeding plan %s: %w", p.ID, err)
		}
	}

	for _, o := range fx.Orders {
		if _, err := tx.ExecContext(ctx, `
			INSERT IGNORE INTO Orders (id, planId, account, passengerName, passengerPhone, numOfPassengers,
				totalAmount, status, orderDate)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, o.PlanID, o.Account, o.PassengerName, o.PassengerPhone, o.NumOfPassengers,
			o.TotalAmount, o.Status, o.OrderDate); err != nil {
			return fmt.Errorf("seeding order %s: %w", o.ID, err)
		}
	}

	for _, c := range fx.Comments {
		if _, err := tx.ExecContext(ctx, `
			INSERT IGNORE INTO Comments (id, planId, orderId, account, content, rating, date)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.PlanID, c.OrderID, c.Account, c.Content, c.Rating, c.Date); err != nil {
			return fmt.Errorf("seeding comment %s: %w", c.ID, err)
		}
	}

	for kind, n := range highestIDs(fx) {
		if _, err := tx.ExecContext(ctx,
			`UPDATE IdSequences SET nextValue = GREATEST(nextValue, ?) WHERE kind = ?`, n, string(kind)); err != nil {
			return fmt.Errorf("seeding %s sequence: %w", kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}
	return nil
}

func highestIDs(fx *commons.Fixtures) map[domain.Kind]int {
	highest := map[domain.Kind]int{}
	track := func(kind domain.Kind, id string) {
		if n, ok := domain.ParseSequence(kind, id); ok && n > highest[kind] {
			highest[kind] = n
		}
	}
	for _, p := range fx.Plans {
		track(domain.KindPlan, p.ID)
	}
	for _, o := range fx.Orders {
		track(domain.KindOrder, o.ID)
	}
	for _, c := range fx.Comments {
		track(domain.KindComment, c.ID)
	}
	return highest
}
