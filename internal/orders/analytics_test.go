package orders

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savioluz/deliveryitaueira/internal/domain"
)

func seedOrder(createdAt time.Time, total float64, items ...domain.OrderItem) domain.Order {
	return domain.Order{
		ID:        fmt.Sprintf("o-%d", createdAt.UnixNano()),
		TenantID:  domain.TenantBurger,
		CreatedAt: createdAt,
		Items:     items,
		Total:     total,
		Status:    domain.OrderStatusDone,
	}
}

func TestAnalyticsWindows(t *testing.T) {
	svc, st := newTestService(t)
	tenant := domain.TenantBurger

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	orders := []domain.Order{
		seedOrder(midnight.Add(time.Second), 40, domain.OrderItem{Name: "X-Burger", Price: 18, Quantity: 2}),
		seedOrder(midnight.Add(-time.Hour), 30, domain.OrderItem{Name: "X-Salada", Price: 20, Quantity: 1}),
		seedOrder(midnight.AddDate(0, 0, -5), 25, domain.OrderItem{Name: "X-Burger", Price: 18, Quantity: 1}),
		seedOrder(midnight.AddDate(0, 0, -40), 100, domain.OrderItem{Name: "Refrigerante", Price: 8, Quantity: 3}),
	}
	require.NoError(t, st.Records.SaveOrders(tenant, orders))

	report := svc.Analytics(tenant, time.Time{})

	assert.Equal(t, 4, report.TotalOrders)
	assert.Equal(t, 195.0, report.TotalRevenue)

	assert.Equal(t, 1, report.Today.Orders)
	assert.Equal(t, 40.0, report.Today.Revenue)

	assert.Equal(t, 1, report.Yesterday.Orders)
	assert.Equal(t, 30.0, report.Yesterday.Revenue)

	// The rolling windows include everything newer than their cutoff.
	assert.Equal(t, 3, report.Week.Orders)
	assert.Equal(t, 3, report.Month.Orders)
}

func TestAnalyticsSinceFilter(t *testing.T) {
	svc, st := newTestService(t)
	tenant := domain.TenantBurger

	now := time.Now()
	orders := []domain.Order{
		seedOrder(now, 40),
		seedOrder(now.AddDate(0, 0, -40), 100),
	}
	require.NoError(t, st.Records.SaveOrders(tenant, orders))

	report := svc.Analytics(tenant, now.AddDate(0, 0, -10))
	assert.Equal(t, 1, report.TotalOrders)
	assert.Equal(t, 40.0, report.TotalRevenue)
}

func TestAnalyticsTopProducts(t *testing.T) {
	svc, st := newTestService(t)
	tenant := domain.TenantBurger
	now := time.Now()

	var orders []domain.Order
	for i := 0; i < 7; i++ {
		orders = append(orders, seedOrder(now.Add(time.Duration(i)*time.Second), 10,
			domain.OrderItem{Name: fmt.Sprintf("Item %d", i), Price: 10, Quantity: i + 1}))
	}
	require.NoError(t, st.Records.SaveOrders(tenant, orders))

	report := svc.Analytics(tenant, time.Time{})

	require.Len(t, report.TopProducts, 5)
	assert.Equal(t, "Item 6", report.TopProducts[0].Name)
	assert.Equal(t, 7, report.TopProducts[0].Quantity)
	assert.Equal(t, "Item 2", report.TopProducts[4].Name)
}

func TestAnalyticsTopProductsTieBreak(t *testing.T) {
	svc, st := newTestService(t)
	tenant := domain.TenantBurger
	now := time.Now()

	orders := []domain.Order{
		seedOrder(now, 10, domain.OrderItem{Name: "B", Price: 5, Quantity: 2}),
		seedOrder(now.Add(time.Second), 10, domain.OrderItem{Name: "A", Price: 5, Quantity: 2}),
	}
	require.NoError(t, st.Records.SaveOrders(tenant, orders))

	report := svc.Analytics(tenant, time.Time{})
	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "A", report.TopProducts[0].Name)
}

func TestAnalyticsEmptyTenant(t *testing.T) {
	svc, _ := newTestService(t)

	report := svc.Analytics(domain.TenantSushi, time.Time{})
	assert.Zero(t, report.TotalOrders)
	assert.Empty(t, report.TopProducts)
}
