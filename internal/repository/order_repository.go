package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tmarwah/shopline-api/internal/database"
	"github.com/tmarwah/shopline-api/internal/models"
	"github.com/tmarwah/shopline-api/pkg/logger"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrDatabase = errors.New("database error")
)

// OrderFilter selects orders for the list endpoint. The service decides
// which combination applies; empty fields are ignored here.
type OrderFilter struct {
	Email    string
	Status   models.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// OrderRepository handles database operations for orders and their items
type OrderRepository struct {
	db         *database.Database
	outboxRepo *OutboxRepository
	logger     logger.Logger
}

// NewOrderRepository creates a new OrderRepository. The outbox repository
// is used to append event rows inside the same transaction as order writes.
func NewOrderRepository(db *database.Database, outboxRepo *OutboxRepository, logger logger.Logger) *OrderRepository {
	return &OrderRepository{
		db:         db,
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

const orderColumns = `id, customer_name, customer_email, customer_phone, shipping_address,
	total_amount, status, payment_method, payment_status, tracking_number,
	estimated_delivery_date, delivered_date, notes, order_date, last_updated`

const itemColumns = `id, order_id, product_id, product_name, product_image_url, quantity, price`

// Create persists an order with its items and the accompanying outbox
// message as one transaction. Nothing is persisted if any insert fails.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order, msg *models.OutboxMessage) error {
	tx, err := r.db.DB.BeginTxx(ctx, nil)

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.logger.Error("Failed to rollback transaction", "error", rbErr)
			}
		}
	}()

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		order.ID,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.ShippingAddress,
		order.TotalAmount,
		order.Status,
		order.PaymentMethod,
		order.PaymentStatus,
		order.TrackingNumber,
		order.EstimatedDeliveryDate,
		order.DeliveredDate,
		order.Notes,
		order.OrderDate,
		order.LastUpdated,
	)

	if err != nil {
		r.logger.Error("Failed to create order", "error", err, "orderID", order.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	itemQuery := `
		INSERT INTO order_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, item := range order.Items {
		_, err = tx.ExecContext(
			ctx,
			itemQuery,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.ProductName,
			item.ProductImageURL,
			item.Quantity,
			item.Price,
		)

		if err != nil {
			r.logger.Error("Failed to create order item", "error", err, "orderID", order.ID, "itemID", item.ID)
			return fmt.Errorf("%w: %v", ErrDatabase, err)
		}
	}

	if msg != nil {
		if err = r.outboxRepo.CreateInTx(tx, msg); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// UpdateAtomic runs mutate on the current order state under a row lock and
// persists the result together with the outbox message mutate returns.
// Concurrent updates to the same order serialize on the lock.
func (r *OrderRepository) UpdateAtomic(
	ctx context.Context,
	id string,
	mutate func(order *models.Order) (*models.OutboxMessage, error),
) (*models.Order, error) {
	tx, err := r.db.DB.BeginTxx(ctx, nil)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.logger.Error("Failed to rollback transaction", "error", rbErr)
			}
		}
	}()

	var order models.Order
	err = tx.GetContext(ctx, &order, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to lock order for update", "error", err, "orderID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	err = tx.SelectContext(ctx, &order.Items,
		`SELECT `+itemColumns+` FROM order_items WHERE order_id = $1 ORDER BY id`, id)

	if err != nil {
		r.logger.Error("Failed to load order items", "error", err, "orderID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	msg, err := mutate(&order)

	if err != nil {
		return nil, err
	}

	query := `
		UPDATE orders
		SET status = $1, payment_status = $2, payment_method = $3,
			tracking_number = $4, estimated_delivery_date = $5, delivered_date = $6,
			notes = $7, last_updated = $8
		WHERE id = $9
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		order.Status,
		order.PaymentStatus,
		order.PaymentMethod,
		order.TrackingNumber,
		order.EstimatedDeliveryDate,
		order.DeliveredDate,
		order.Notes,
		order.LastUpdated,
		order.ID,
	)

	if err != nil {
		r.logger.Error("Failed to update order", "error", err, "orderID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if msg != nil {
		if err = r.outboxRepo.CreateInTx(tx, msg); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &order, nil
}

// GetByID retrieves an order with its items
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.DB.GetContext(ctx, &order, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get order by ID", "error", err, "orderID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	err = r.db.DB.SelectContext(ctx, &order.Items,
		`SELECT `+itemColumns+` FROM order_items WHERE order_id = $1 ORDER BY id`, id)

	if err != nil {
		r.logger.Error("Failed to load order items", "error", err, "orderID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &order, nil
}

// List retrieves orders matching the filter, newest first
func (r *OrderRepository) List(ctx context.Context, filter OrderFilter) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var conditions []string
	var args []interface{}

	appendCondition := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.Email != "" {
		appendCondition("customer_email = $%d", filter.Email)
	}
	if filter.Status != "" {
		appendCondition("status = $%d", filter.Status)
	}
	if filter.DateFrom != nil {
		appendCondition("order_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		appendCondition("order_date <= $%d", *filter.DateTo)
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	query += " ORDER BY order_date DESC"

	var orders []*models.Order
	err := r.db.DB.SelectContext(ctx, &orders, query, args...)

	if err != nil {
		r.logger.Error("Failed to list orders", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// Search retrieves orders whose customer name, email or identifier
// contains the query, case-insensitively, newest first
func (r *OrderRepository) Search(ctx context.Context, query string) ([]*models.Order, error) {
	pattern := "%" + query + "%"

	sqlQuery := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_name ILIKE $1 OR customer_email ILIKE $1 OR id ILIKE $1
		ORDER BY order_date DESC
	`

	var orders []*models.Order
	err := r.db.DB.SelectContext(ctx, &orders, sqlQuery, pattern)

	if err != nil {
		r.logger.Error("Failed to search orders", "error", err, "query", query)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// CountByStatus returns order counts per status plus a "total" entry.
// Statuses with no orders are reported as zero.
func (r *OrderRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows := []struct {
		Status string `db:"status"`
		Count  int64  `db:"count"`
	}{}

	err := r.db.DB.SelectContext(ctx, &rows,
		`SELECT status, COUNT(*) AS count FROM orders GROUP BY status`)

	if err != nil {
		r.logger.Error("Failed to count orders by status", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	stats := map[string]int64{
		"total":     0,
		"pending":   0,
		"confirmed": 0,
		"shipped":   0,
		"delivered": 0,
		"cancelled": 0,
	}

	for _, row := range rows {
		switch models.OrderStatus(row.Status) {
		case models.OrderStatusPending:
			stats["pending"] = row.Count
		case models.OrderStatusConfirmed:
			stats["confirmed"] = row.Count
		case models.OrderStatusShipped:
			stats["shipped"] = row.Count
		case models.OrderStatusDelivered:
			stats["delivered"] = row.Count
		case models.OrderStatusCancelled:
			stats["cancelled"] = row.Count
		}
		stats["total"] += row.Count
	}

	return stats, nil
}

// attachItems loads the items for a batch of orders with a single query
func (r *OrderRepository) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	byID := make(map[string]*models.Order, len(orders))

	for _, order := range orders {
		order.Items = []models.OrderItem{}
		ids = append(ids, order.ID)
		byID[order.ID] = order
	}

	query, args, err := sqlx.In(
		`SELECT `+itemColumns+` FROM order_items WHERE order_id IN (?) ORDER BY id`, ids)

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	query = r.db.DB.Rebind(query)

	var items []models.OrderItem
	if err := r.db.DB.SelectContext(ctx, &items, query, args...); err != nil {
		r.logger.Error("Failed to load order items", "error", err)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	for _, item := range items {
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}

	return nil
}
