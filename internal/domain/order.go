package domain

import (
	"errors"
	"strings"
	"time"
)

// OrderStatus values are stored exactly as the storefront displays them.
type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "recebido"
	OrderStatusPreparing OrderStatus = "em preparo"
	OrderStatusDone      OrderStatus = "concluído"
)

// Valid reports whether s is one of the known statuses. Transitions are not
// constrained to move forward; the admin may set any status at any time.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusReceived, OrderStatusPreparing, OrderStatusDone:
		return true
	}
	return false
}

// OrderItem is a point-in-time snapshot of a catalog product. Later edits to
// the product never rewrite past orders.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is immutable after checkout except for Status.
type Order struct {
	ID          string      `json:"id"`
	TenantID    Tenant      `json:"storeId"`
	CreatedAt   time.Time   `json:"date"`
	Items       []OrderItem `json:"items"`
	Subtotal    float64     `json:"subtotal"`
	DeliveryFee float64     `json:"deliveryFee"`
	Total       float64     `json:"total"`
	Status      OrderStatus `json:"status"`
	Customer    Customer    `json:"customer"`
}

var (
	ErrInvalidStatus = errors.New("invalid order status")
	ErrEmptyOrder    = errors.New("order has no items")
)

// Validate applies checkout business rules.
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}
	for _, it := range o.Items {
		if strings.TrimSpace(it.Name) == "" {
			return errors.New("order item name is required")
		}
		if it.Quantity < 1 {
			return errors.New("order item quantity must be at least 1")
		}
		if it.Price < 0 {
			return errors.New("order item price must not be negative")
		}
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	return o.Customer.Validate()
}

// Customer is the delivery contact captured at checkout and kept as a
// per-tenant record, de-duplicated by phone.
type Customer struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	Observations string `json:"observations,omitempty"`
	UpdatedAt    int64  `json:"updatedAt,omitempty"`
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("customer name is required")
	}
	if c.PhoneKey() == "" {
		return errors.New("customer phone is required")
	}
	if strings.TrimSpace(c.Address) == "" {
		return errors.New("customer address is required")
	}
	if strings.TrimSpace(c.Neighborhood) == "" {
		return errors.New("customer neighborhood is required")
	}
	return nil
}

// PhoneKey normalizes the phone to digits only; it is the upsert key.
func (c Customer) PhoneKey() string {
	var b strings.Builder
	for _, r := range c.Phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
