package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfillment state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// PaymentStatus is the state of the payment attached to an order
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// PaymentMethod is how the customer pays for an order
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodCOD        PaymentMethod = "COD"
	PaymentMethodNetBanking PaymentMethod = "NET_BANKING"
)

// validStatusTransitions is the directed edge set of the order status
// machine. DELIVERED and CANCELLED are terminal; a status missing from
// the map (including unrecognized strings) has no outgoing edges.
var validStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// CanTransitionTo reports whether the status machine allows moving from s to next.
// Self-loops are not allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is one customer purchase aggregate
type Order struct {
	ID                    string          `db:"id" json:"id"`
	CustomerName          string          `db:"customer_name" json:"customerName"`
	CustomerEmail         string          `db:"customer_email" json:"customerEmail"`
	CustomerPhone         string          `db:"customer_phone" json:"customerPhone"`
	ShippingAddress       string          `db:"shipping_address" json:"shippingAddress"`
	TotalAmount           decimal.Decimal `db:"total_amount" json:"totalAmount"`
	Status                OrderStatus     `db:"status" json:"status"`
	PaymentMethod         PaymentMethod   `db:"payment_method" json:"paymentMethod"`
	PaymentStatus         PaymentStatus   `db:"payment_status" json:"paymentStatus"`
	TrackingNumber        *string         `db:"tracking_number" json:"trackingNumber,omitempty"`
	EstimatedDeliveryDate *time.Time      `db:"estimated_delivery_date" json:"estimatedDeliveryDate,omitempty"`
	DeliveredDate         *time.Time      `db:"delivered_date" json:"deliveredDate,omitempty"`
	Notes                 string          `db:"notes" json:"notes,omitempty"`
	OrderDate             time.Time       `db:"order_date" json:"orderDate"`
	LastUpdated           time.Time       `db:"last_updated" json:"lastUpdated"`
	Items                 []OrderItem     `db:"-" json:"orderItems"`
}

// OrderItem is one product line within an order. Price, product name and
// image are snapshots captured at order creation; they are never
// recomputed from the catalog afterwards.
type OrderItem struct {
	ID              string          `db:"id" json:"id"`
	OrderID         string          `db:"order_id" json:"-"`
	ProductID       string          `db:"product_id" json:"productId"`
	ProductName     string          `db:"product_name" json:"productName"`
	ProductImageURL string          `db:"product_image_url" json:"productImageUrl"`
	Quantity        int             `db:"quantity" json:"quantity"`
	Price           decimal.Decimal `db:"price" json:"price"`
}

// Subtotal returns frozen price x quantity for the line
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderDraft is the client-submitted input for creating an order
type OrderDraft struct {
	CustomerName    string           `json:"customerName"`
	CustomerEmail   string           `json:"customerEmail"`
	CustomerPhone   string           `json:"customerPhone"`
	ShippingAddress string           `json:"shippingAddress"`
	PaymentMethod   PaymentMethod    `json:"paymentMethod,omitempty"`
	PaymentStatus   PaymentStatus    `json:"paymentStatus,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	Items           []OrderDraftItem `json:"orderItems"`
}

// OrderDraftItem is one requested line in an order draft
type OrderDraftItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderView is the flattened client-facing read model of an order
type OrderView struct {
	ID                    string          `json:"id"`
	CustomerName          string          `json:"customerName"`
	CustomerEmail         string          `json:"customerEmail"`
	CustomerPhone         string          `json:"customerPhone"`
	ShippingAddress       string          `json:"shippingAddress"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	Status                OrderStatus     `json:"status"`
	PaymentMethod         PaymentMethod   `json:"paymentMethod"`
	PaymentStatus         PaymentStatus   `json:"paymentStatus"`
	TrackingNumber        *string         `json:"trackingNumber,omitempty"`
	EstimatedDeliveryDate *time.Time      `json:"estimatedDeliveryDate,omitempty"`
	DeliveredDate         *time.Time      `json:"deliveredDate,omitempty"`
	Notes                 string          `json:"notes,omitempty"`
	OrderDate             time.Time       `json:"orderDate"`
	LastUpdated           time.Time       `json:"lastUpdated"`
	Items                 []OrderItemView `json:"orderItems"`
}

// OrderItemView is one projected order line, with the subtotal precomputed
type OrderItemView struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductImageURL string          `json:"productImageUrl"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}
