package orders

import (
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/savioluz/deliveryitaueira/internal/checkout"
	"github.com/savioluz/deliveryitaueira/internal/domain"
	"github.com/savioluz/deliveryitaueira/internal/store"
)

// Event topics published on the application bus.
const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status.changed"
)

var (
	ErrUnknownTenant = errors.New("unknown tenant")
	ErrOrderNotFound = errors.New("order not found")
)

// Service owns the order lifecycle: checkout, status updates by the admin,
// and the customer records derived from checkouts.
type Service struct {
	store *store.Store
	node  *snowflake.Node
	bus   EventBus.Bus
}

func NewService(st *store.Store, node *snowflake.Node, bus EventBus.Bus) *Service {
	return &Service{store: st, node: node, bus: bus}
}

// CheckoutResult is what the storefront hands to the customer: the persisted
// order plus the messaging deep link that finalizes it.
type CheckoutResult struct {
	Order domain.Order `json:"order"`
	Link  string       `json:"whatsappUrl"`
}

// Checkout prices the cart, persists the order with status "recebido",
// upserts the customer by phone, and returns the WhatsApp handoff link.
func (s *Service) Checkout(tenant domain.Tenant, items []domain.OrderItem, customer domain.Customer) (*CheckoutResult, error) {
	if !tenant.Valid() {
		return nil, ErrUnknownTenant
	}
	settings, _ := s.store.Records.Settings(tenant)

	subtotal := Subtotal(settings, items)
	order := domain.Order{
		ID:          s.node.Generate().String(),
		TenantID:    tenant,
		CreatedAt:   time.Now(),
		Items:       items,
		Subtotal:    subtotal,
		DeliveryFee: settings.DeliveryFee,
		Total:       subtotal + settings.DeliveryFee,
		Status:      domain.OrderStatusReceived,
		Customer:    customer,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}

	all := append(s.store.Records.Orders(tenant), order)
	if err := s.store.Records.SaveOrders(tenant, all); err != nil {
		return nil, err
	}

	if err := s.upsertCustomer(tenant, customer); err != nil {
		// The order is already placed; a failed customer record must not
		// undo the checkout.
		zap.L().Error("customer upsert failed after checkout",
			zap.String("tenant", tenant.String()),
			zap.String("order", order.ID),
			zap.Error(err))
	}

	s.bus.Publish(TopicOrderCreated, order)

	return &CheckoutResult{
		Order: order,
		Link:  checkout.OrderLink(settings, order),
	}, nil
}

// Subtotal prices the cart. With tiered quantity pricing every piece costs
// the tier price picked by the total piece count; otherwise it is the plain
// sum of price times quantity.
func Subtotal(settings domain.StoreSettings, items []domain.OrderItem) float64 {
	if settings.QuantityPricingEnabled {
		pieces := 0
		for _, it := range items {
			pieces += it.Quantity
		}
		unit := settings.QuantityTier1Price
		if pieces > settings.QuantityTier1Max {
			unit = settings.QuantityTier2Price
		}
		return float64(pieces) * unit
	}
	subtotal := 0.0
	for _, it := range items {
		subtotal += it.Price * float64(it.Quantity)
	}
	return subtotal
}

// UpdateStatus sets the order's status. Any known status is accepted; the
// workflow is not forced to move forward.
func (s *Service) UpdateStatus(tenant domain.Tenant, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	all := s.store.Records.Orders(tenant)
	for i := range all {
		if all[i].ID != orderID {
			continue
		}
		previous := all[i].Status
		all[i].Status = status
		if err := s.store.Records.SaveOrders(tenant, all); err != nil {
			return nil, err
		}
		order := all[i]
		s.bus.Publish(TopicOrderStatusChanged, order, previous)
		return &order, nil
	}
	return nil, ErrOrderNotFound
}

// List returns the tenant's orders, newest first, optionally filtered by
// status.
func (s *Service) List(tenant domain.Tenant, status domain.OrderStatus) []domain.Order {
	all := s.store.Records.Orders(tenant)
	out := make([]domain.Order, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if status != "" && all[i].Status != status {
			continue
		}
		out = append(out, all[i])
	}
	return out
}

func (s *Service) Get(tenant domain.Tenant, orderID string) (*domain.Order, error) {
	for _, o := range s.store.Records.Orders(tenant) {
		if o.ID == orderID {
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// Customers returns the tenant's customer records.
func (s *Service) Customers(tenant domain.Tenant) []domain.Customer {
	return s.store.Records.Customers(tenant)
}

func (s *Service) upsertCustomer(tenant domain.Tenant, customer domain.Customer) error {
	key := customer.PhoneKey()
	customer.Observations = ""
	customer.UpdatedAt = time.Now().UnixMilli()

	all := s.store.Records.Customers(tenant)
	replaced := false
	for i := range all {
		if all[i].PhoneKey() == key {
			all[i] = customer
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, customer)
	}
	return s.store.Records.SaveCustomers(tenant, all)
}
