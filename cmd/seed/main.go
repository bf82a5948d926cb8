// seed inserts an admin, a customer and a handful of orders into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/order-tracker/internal/infrastructure/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "password123"

type userSpec struct {
	first, last, email string
	admin              bool
}

var users = []userSpec{
	{"Ada", "Admin", "admin@test.local", true},
	{"Casey", "Customer", "customer@test.local", false},
}

type orderSpec struct {
	product  string
	quantity int
	status   string
	rating   *int
	review   *string
}

func ptr[T any](v T) *T { return &v }

// All seeded orders belong to the customer.
var orders = []orderSpec{
	{"Mechanical keyboard", 1, "pending", nil, nil},
	{"USB-C cable", 3, "pending", nil, nil},
	{"27\" monitor", 1, "shipped", nil, nil},
	{"Standing desk", 1, "delivered", ptr(5), ptr("Sturdy and quiet. Assembly took 20 minutes.")},
	{"Desk lamp", 2, "delivered", ptr(3), nil},
	{"Noise-cancelling headphones", 1, "canceled", nil, nil},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	ids := make(map[string]string, len(users))
	for _, u := range users {
		var id string
		err := pool.QueryRow(ctx, `
			INSERT INTO users (first_name, last_name, email, password_hash, is_admin)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, updated_at = NOW()
			RETURNING id`,
			u.first, u.last, u.email, string(hash), u.admin,
		).Scan(&id)
		if err != nil {
			log.Fatalf("upsert user %s: %v", u.email, err)
		}
		ids[u.email] = id
	}

	customerID := ids["customer@test.local"]

	// Re-runs replace the customer's orders rather than piling up duplicates.
	var tracking []string
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE user_id = $1`, customerID); err != nil {
			return fmt.Errorf("clear orders: %w", err)
		}
		for _, o := range orders {
			var orderID string
			err := tx.QueryRow(ctx, `
				INSERT INTO orders (user_id, product, quantity, status, rating, review)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`,
				customerID, o.product, o.quantity, o.status, o.rating, o.review,
			).Scan(&orderID)
			if err != nil {
				return fmt.Errorf("insert order %q: %w", o.product, err)
			}

			if o.status != "shipped" && o.status != "delivered" {
				continue
			}
			tn := uuid.NewString()
			_, err = tx.Exec(ctx, `
				INSERT INTO shipments (order_id, tracking_number, delivered_at)
				VALUES ($1, $2, CASE WHEN $3 THEN NOW() END)`,
				orderID, tn, o.status == "delivered")
			if err != nil {
				return fmt.Errorf("insert shipment for %q: %w", o.product, err)
			}
			tracking = append(tracking, tn)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("seed orders: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	for _, u := range users {
		role := "customer"
		if u.admin {
			role = "admin"
		}
		fmt.Printf("  %-8s %s / %s  (id %s)\n", role, u.email, seedPassword, ids[u.email])
	}
	fmt.Printf("  Orders:  %d for customer@test.local\n", len(orders))
	fmt.Println()
	if len(tracking) > 0 {
		fmt.Println("  Tracking numbers:")
		for _, tn := range tracking {
			fmt.Printf("    %s\n", tn)
		}
		fmt.Println()
	}

	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Browser: open http://localhost:8080/login and sign in as customer@test.local")
	fmt.Println()
	fmt.Println("  API:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/api/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"customer@test.local\",\"password\":\"%s\"}'\n", seedPassword)
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/api/order -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  Log in as admin@test.local to move orders along with PUT /api/order/update_status/:id")
}
