package orders

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savioluz/deliveryitaueira/internal/domain"
	"github.com/savioluz/deliveryitaueira/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(st, node, EventBus.New()), st
}

func testCustomer() domain.Customer {
	return domain.Customer{
		Name:         "Maria",
		Phone:        "(86) 99948-2285",
		Address:      "Rua A, 10",
		Neighborhood: "Centro",
	}
}

func TestSubtotal(t *testing.T) {
	items := []domain.OrderItem{
		{Name: "Hot Filadélfia", Price: 3.5, Quantity: 5},
		{Name: "Hot Especial", Price: 3.5, Quantity: 4},
	}

	t.Run("PlainSum", func(t *testing.T) {
		settings := domain.DefaultSettings(domain.TenantBurger)
		got := Subtotal(settings, []domain.OrderItem{
			{Name: "X-Burger", Price: 18.5, Quantity: 2},
			{Name: "X-Salada", Price: 20, Quantity: 1},
		})
		assert.Equal(t, 57.0, got)
	})

	t.Run("TierOne", func(t *testing.T) {
		settings := domain.DefaultSettings(domain.TenantSushi)
		// Nine pieces sit exactly at the tier-one ceiling.
		got := Subtotal(settings, items)
		assert.Equal(t, 9*3.5, got)
	})

	t.Run("TierTwo", func(t *testing.T) {
		settings := domain.DefaultSettings(domain.TenantSushi)
		more := append([]domain.OrderItem{{Name: "Uramaki", Quantity: 1}}, items...)
		got := Subtotal(settings, more)
		assert.Equal(t, 10*3.0, got)
	})
}

func TestCheckout(t *testing.T) {
	svc, st := newTestService(t)
	tenant := domain.TenantBurger

	result, err := svc.Checkout(tenant, []domain.OrderItem{
		{ProductID: "p1", Name: "X-Burger", Price: 18.5, Quantity: 2},
	}, testCustomer())
	require.NoError(t, err)

	assert.NotEmpty(t, result.Order.ID)
	assert.Equal(t, domain.OrderStatusReceived, result.Order.Status)
	assert.Equal(t, 37.0, result.Order.Subtotal)
	assert.Equal(t, 4.0, result.Order.DeliveryFee)
	assert.Equal(t, 41.0, result.Order.Total)
	assert.True(t, strings.HasPrefix(result.Link, "https://wa.me/"))

	stored := st.Records.Orders(tenant)
	require.Len(t, stored, 1)
	assert.Equal(t, result.Order.ID, stored[0].ID)

	customers := svc.Customers(tenant)
	require.Len(t, customers, 1)
	assert.Equal(t, "86999482285", customers[0].PhoneKey())
}

func TestCheckoutRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Checkout("padaria", nil, testCustomer())
	assert.ErrorIs(t, err, ErrUnknownTenant)

	_, err = svc.Checkout(domain.TenantBurger, nil, testCustomer())
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)

	_, err = svc.Checkout(domain.TenantBurger, []domain.OrderItem{
		{Name: "X-Burger", Price: 18.5, Quantity: 1},
	}, domain.Customer{Name: "Maria"})
	assert.Error(t, err)
}

func TestCheckoutUpsertsCustomerByPhone(t *testing.T) {
	svc, _ := newTestService(t)
	tenant := domain.TenantBurger
	items := []domain.OrderItem{{Name: "X-Burger", Price: 18.5, Quantity: 1}}

	_, err := svc.Checkout(tenant, items, testCustomer())
	require.NoError(t, err)

	// Same phone in a different format replaces the record.
	updated := testCustomer()
	updated.Phone = "86999482285"
	updated.Address = "Rua B, 20"
	updated.Observations = "Sem cebola"
	_, err = svc.Checkout(tenant, items, updated)
	require.NoError(t, err)

	customers := svc.Customers(tenant)
	require.Len(t, customers, 1)
	assert.Equal(t, "Rua B, 20", customers[0].Address)
	// Per-order notes never stick to the customer record.
	assert.Empty(t, customers[0].Observations)

	// A new phone appends.
	other := testCustomer()
	other.Phone = "(86) 98888-0000"
	_, err = svc.Checkout(tenant, items, other)
	require.NoError(t, err)
	assert.Len(t, svc.Customers(tenant), 2)
}

func TestCheckoutPublishesEvent(t *testing.T) {
	svc, _ := newTestService(t)

	var published []domain.Order
	require.NoError(t, svc.bus.Subscribe(TopicOrderCreated, func(o domain.Order) {
		published = append(published, o)
	}))

	_, err := svc.Checkout(domain.TenantBurger, []domain.OrderItem{
		{Name: "X-Burger", Price: 18.5, Quantity: 1},
	}, testCustomer())
	require.NoError(t, err)

	require.Len(t, published, 1)
	assert.Equal(t, domain.TenantBurger, published[0].TenantID)
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newTestService(t)
	tenant := domain.TenantBurger

	result, err := svc.Checkout(tenant, []domain.OrderItem{
		{Name: "X-Burger", Price: 18.5, Quantity: 1},
	}, testCustomer())
	require.NoError(t, err)

	order, err := svc.UpdateStatus(tenant, result.Order.ID, domain.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPreparing, order.Status)

	stored, err := svc.Get(tenant, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPreparing, stored.Status)

	// Status moves freely, including backwards.
	_, err = svc.UpdateStatus(tenant, result.Order.ID, domain.OrderStatusReceived)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(tenant, result.Order.ID, "cancelado")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.UpdateStatus(tenant, "no-such-order", domain.OrderStatusDone)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrders(t *testing.T) {
	svc, _ := newTestService(t)
	tenant := domain.TenantBurger
	items := []domain.OrderItem{{Name: "X-Burger", Price: 18.5, Quantity: 1}}

	first, err := svc.Checkout(tenant, items, testCustomer())
	require.NoError(t, err)
	second, err := svc.Checkout(tenant, items, testCustomer())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(tenant, first.Order.ID, domain.OrderStatusDone)
	require.NoError(t, err)

	all := svc.List(tenant, "")
	require.Len(t, all, 2)
	assert.Equal(t, second.Order.ID, all[0].ID, "newest first")

	done := svc.List(tenant, domain.OrderStatusDone)
	require.Len(t, done, 1)
	assert.Equal(t, first.Order.ID, done[0].ID)

	assert.Empty(t, svc.List(domain.TenantSushi, ""))
}
