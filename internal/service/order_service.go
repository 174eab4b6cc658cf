package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tmarwah/shopline-api/internal/models"
	"github.com/tmarwah/shopline-api/internal/repository"
	apperrors "github.com/tmarwah/shopline-api/pkg/errors"
	"github.com/tmarwah/shopline-api/pkg/logger"
)

// OrderStore is the persistence interface the workflow engine drives.
// Create and UpdateAtomic are atomic against the backing store: the order
// write and the outbox message commit or roll back together, and
// UpdateAtomic serializes concurrent mutations of the same order.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order, msg *models.OutboxMessage) error
	UpdateAtomic(ctx context.Context, id string, mutate func(order *models.Order) (*models.OutboxMessage, error)) (*models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter repository.OrderFilter) ([]*models.Order, error)
	Search(ctx context.Context, query string) ([]*models.Order, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ProductCatalog supplies read-only product lookups for price snapshots
type ProductCatalog interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// OrderService implements the order lifecycle workflow: creation with
// frozen prices, the status state machine, payment/tracking updates,
// queries and the view projection.
type OrderService struct {
	orders  OrderStore
	catalog ProductCatalog
	logger  logger.Logger
	now     func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(orders OrderStore, catalog ProductCatalog, logger logger.Logger) *OrderService {
	return &OrderService{
		orders:  orders,
		catalog: catalog,
		logger:  logger,
		now:     models.GetCurrentTime,
	}
}

// CreateOrder builds an order from a client draft and persists it with
// its items as one atomic unit. Each line's price, product name and image
// are snapshotted from the catalog at call time; the total is the exact
// decimal sum of price x quantity over all lines. Status is forced to
// PENDING and payment fields default when omitted, regardless of input.
func (s *OrderService) CreateOrder(ctx context.Context, draft *models.OrderDraft) (*models.Order, error) {
	if len(draft.Items) == 0 {
		return nil, apperrors.NewInvalidInputError("order must contain at least one item")
	}

	now := s.now()

	order := &models.Order{
		ID:              models.GenerateID("ord"),
		CustomerName:    draft.CustomerName,
		CustomerEmail:   draft.CustomerEmail,
		CustomerPhone:   draft.CustomerPhone,
		ShippingAddress: draft.ShippingAddress,
		Status:          models.OrderStatusPending,
		PaymentMethod:   draft.PaymentMethod,
		PaymentStatus:   draft.PaymentStatus,
		Notes:           draft.Notes,
		OrderDate:       now,
		LastUpdated:     now,
	}

	if order.PaymentStatus == "" {
		order.PaymentStatus = models.PaymentStatusPending
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = models.PaymentMethodCOD
	}

	total := decimal.Zero

	for _, line := range draft.Items {
		if line.Quantity <= 0 {
			return nil, apperrors.NewInvalidInputError(
				fmt.Sprintf("invalid quantity %d for product %s", line.Quantity, line.ProductID))
		}

		product, err := s.catalog.GetByID(ctx, line.ProductID)

		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewNotFoundError("Product not found: " + line.ProductID)
			}
			return nil, err
		}

		item := models.OrderItem{
			ID:              models.GenerateID("itm"),
			OrderID:         order.ID,
			ProductID:       product.ID,
			ProductName:     product.Name,
			ProductImageURL: product.ImageURL,
			Quantity:        line.Quantity,
			Price:           product.Price,
		}

		order.Items = append(order.Items, item)
		total = total.Add(item.Subtotal())
	}

	order.TotalAmount = total

	msg, err := models.NewOrderCreatedEvent(order)

	if err != nil {
		return nil, fmt.Errorf("failed to build order created event: %w", err)
	}

	if err := s.orders.Create(ctx, order, msg); err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		"orderID", order.ID,
		"customerEmail", order.CustomerEmail,
		"totalAmount", order.TotalAmount,
		"items", len(order.Items))

	return order, nil
}

// UpdateOrderStatus moves an order along the fulfillment state machine.
// A transition not in the allowed set (including self-loops and
// unrecognized statuses) is rejected and the order is left unchanged.
// The first transition to DELIVERED stamps the delivered date; it is
// never overwritten afterwards.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, newStatus models.OrderStatus) (*models.Order, error) {
	order, err := s.orders.UpdateAtomic(ctx, id, func(order *models.Order) (*models.OutboxMessage, error) {
		oldStatus := order.Status

		if !oldStatus.CanTransitionTo(newStatus) {
			return nil, apperrors.NewInvalidTransitionError(
				fmt.Sprintf("Invalid status transition from %s to %s", oldStatus, newStatus))
		}

		now := s.now()
		order.Status = newStatus
		order.LastUpdated = now

		if newStatus == models.OrderStatusDelivered && order.DeliveredDate == nil {
			order.DeliveredDate = &now
		}

		return models.NewOrderStatusChangedEvent(order, oldStatus)
	})

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Order not found: " + id)
		}
		return nil, err
	}

	s.logger.Info("Order status updated", "orderID", id, "status", order.Status)
	return order, nil
}

// UpdatePaymentStatus overwrites the payment status unconditionally;
// payment status has no transition constraints.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id string, paymentStatus models.PaymentStatus) (*models.Order, error) {
	order, err := s.orders.UpdateAtomic(ctx, id, func(order *models.Order) (*models.OutboxMessage, error) {
		oldStatus := order.PaymentStatus
		order.PaymentStatus = paymentStatus
		order.LastUpdated = s.now()

		return models.NewPaymentStatusChangedEvent(order, oldStatus)
	})

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Order not found: " + id)
		}
		return nil, err
	}

	s.logger.Info("Payment status updated", "orderID", id, "paymentStatus", order.PaymentStatus)
	return order, nil
}

// UpdateTracking overwrites the tracking number unconditionally. The
// estimated delivery date is only overwritten when a value is supplied;
// a nil value leaves the stored one untouched.
func (s *OrderService) UpdateTracking(ctx context.Context, id string, trackingNumber string, estimatedDelivery *time.Time) (*models.Order, error) {
	order, err := s.orders.UpdateAtomic(ctx, id, func(order *models.Order) (*models.OutboxMessage, error) {
		order.TrackingNumber = &trackingNumber

		if estimatedDelivery != nil {
			order.EstimatedDeliveryDate = estimatedDelivery
		}

		order.LastUpdated = s.now()

		return models.NewTrackingUpdatedEvent(order)
	})

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Order not found: " + id)
		}
		return nil, err
	}

	s.logger.Info("Tracking updated", "orderID", id, "trackingNumber", trackingNumber)
	return order, nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Order not found: " + id)
		}
		return nil, err
	}

	return order, nil
}

// GetOrderView retrieves an order and projects it into the client view shape
func (s *OrderService) GetOrderView(ctx context.Context, id string) (*models.OrderView, error) {
	order, err := s.GetOrder(ctx, id)

	if err != nil {
		return nil, err
	}

	return ProjectOrder(order), nil
}

// ListOrders dispatches to the matching repository filter. Precedence:
// email+status over email-only or status-only; a date range applies only
// when both bounds are present; otherwise all orders are returned.
func (s *OrderService) ListOrders(ctx context.Context, email string, status models.OrderStatus, dateFrom, dateTo *time.Time) ([]*models.Order, error) {
	var filter repository.OrderFilter

	switch {
	case email != "" && status != "":
		filter = repository.OrderFilter{Email: email, Status: status}
	case email != "":
		filter = repository.OrderFilter{Email: email}
	case status != "":
		filter = repository.OrderFilter{Status: status}
	case dateFrom != nil && dateTo != nil:
		filter = repository.OrderFilter{DateFrom: dateFrom, DateTo: dateTo}
	}

	return s.orders.List(ctx, filter)
}

// SearchOrders finds orders whose customer name, email or identifier contains the query
func (s *OrderService) SearchOrders(ctx context.Context, query string) ([]*models.Order, error) {
	return s.orders.Search(ctx, query)
}

// GetOrderStatistics returns order counts keyed by status label plus a total
func (s *OrderService) GetOrderStatistics(ctx context.Context) (map[string]int64, error) {
	return s.orders.CountByStatus(ctx)
}

// ProjectOrder flattens a persisted order into the client-facing view
// model. It is pure: the source order is never mutated.
func ProjectOrder(order *models.Order) *models.OrderView {
	view := &models.OrderView{
		ID:                    order.ID,
		CustomerName:          order.CustomerName,
		CustomerEmail:         order.CustomerEmail,
		CustomerPhone:         order.CustomerPhone,
		ShippingAddress:       order.ShippingAddress,
		TotalAmount:           order.TotalAmount,
		Status:                order.Status,
		PaymentMethod:         order.PaymentMethod,
		PaymentStatus:         order.PaymentStatus,
		TrackingNumber:        order.TrackingNumber,
		EstimatedDeliveryDate: order.EstimatedDeliveryDate,
		DeliveredDate:         order.DeliveredDate,
		Notes:                 order.Notes,
		OrderDate:             order.OrderDate,
		LastUpdated:           order.LastUpdated,
		Items:                 make([]models.OrderItemView, 0, len(order.Items)),
	}

	for _, item := range order.Items {
		view.Items = append(view.Items, models.OrderItemView{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductImageURL: item.ProductImageURL,
			Quantity:        item.Quantity,
			Price:           item.Price,
			Subtotal:        item.Subtotal(),
		})
	}

	return view
}
