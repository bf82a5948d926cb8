package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/ErlanBelekov/order-tracker/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id, user_id, product, quantity, status, rating, review, created_at, updated_at`

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	query := `
		INSERT INTO orders (user_id, product, quantity, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + orderColumns

	row := r.pool.QueryRow(ctx, query, o.UserID, o.Product, o.Quantity, o.Status)
	created, err := scanOrder(row)
	if err != nil && isPgCode(err, foreignKeyViolation) {
		// The owning account was deleted after the caller authenticated.
		return nil, domain.ErrUserNotFound
	}
	return created, err
}

func (r *OrderRepository) GetByID(ctx context.Context, id, userID string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, id, userID)
	return scanOrder(row)
}

func (r *OrderRepository) GetByIDAny(ctx context.Context, id string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

func (r *OrderRepository) List(ctx context.Context, input repository.ListOrdersInput) ([]*domain.Order, error) {
	args := []any{input.UserID}
	where := []string{"user_id = $1"}

	if len(input.Statuses) > 0 {
		statuses := make([]string, len(input.Statuses))
		for i, s := range input.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		where = append(where, fmt.Sprintf("status::text = ANY($%d)", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE %s
		ORDER BY created_at DESC, id DESC`, orderColumns, strings.Join(where, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) UpdateProduct(ctx context.Context, id, userID, product string) error {
	return r.execOne(ctx, "update product", `
		UPDATE orders SET product = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'pending'`, id, userID, product)
}

func (r *OrderRepository) SetStatus(ctx context.Context, id, userID string, from, to domain.OrderStatus) error {
	return r.execOne(ctx, "set status", `
		UPDATE orders SET status = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = $3`, id, userID, from, to)
}

func (r *OrderRepository) DeletePending(ctx context.Context, id, userID string) error {
	return r.execOne(ctx, "delete order",
		`DELETE FROM orders WHERE id = $1 AND user_id = $2 AND status = 'pending'`, id, userID)
}

func (r *OrderRepository) SetRating(ctx context.Context, id, userID string, rating int) error {
	return r.execOne(ctx, "set rating", `
		UPDATE orders SET rating = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'delivered'`, id, userID, rating)
}

func (r *OrderRepository) SetReview(ctx context.Context, id, userID, review string) error {
	return r.execOne(ctx, "set review", `
		UPDATE orders SET review = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'delivered'`, id, userID, review)
}

func (r *OrderRepository) Ship(ctx context.Context, id, trackingNumber string) (*domain.Shipment, error) {
	var shipment *domain.Shipment
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE orders SET status = 'shipped', updated_at = NOW()
			WHERE id = $1 AND status = 'pending'`, id)
		if err != nil {
			if isPgCode(err, invalidTextEncoding) {
				return domain.ErrOrderNotFound
			}
			return fmt.Errorf("mark shipped: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrOrderNotFound
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO shipments (order_id, tracking_number)
			VALUES ($1, $2)
			RETURNING `+shipmentColumns, id, trackingNumber)
		shipment, err = scanShipment(row)
		if err != nil {
			if isPgCode(err, uniqueViolation) {
				return fmt.Errorf("tracking number collision: %w", err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shipment, nil
}

func (r *OrderRepository) Deliver(ctx context.Context, id string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE orders SET status = 'delivered', updated_at = NOW()
			WHERE id = $1 AND status = 'shipped'`, id)
		if err != nil {
			if isPgCode(err, invalidTextEncoding) {
				return domain.ErrOrderNotFound
			}
			return fmt.Errorf("mark delivered: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrOrderNotFound
		}

		// Orders seeded without a shipment still get delivered; the stamp is best-effort.
		if _, err := tx.Exec(ctx,
			`UPDATE shipments SET delivered_at = NOW() WHERE order_id = $1`, id); err != nil {
			return fmt.Errorf("stamp delivery: %w", err)
		}
		return nil
	})
}

func (r *OrderRepository) execOne(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		// Malformed UUIDs in the path are indistinguishable from unknown orders.
		if isPgCode(err, invalidTextEncoding) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := row.Scan(&o.ID, &o.UserID, &o.Product, &o.Quantity, &status,
		&o.Rating, &o.Review, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isPgCode(err, invalidTextEncoding) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}
