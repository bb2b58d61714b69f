package app

import (
	"go.uber.org/zap"

	"github.com/savioluz/deliveryitaueira/internal/domain"
)

// Bus topics mirrored from the orders package; redeclared here to avoid an
// import cycle through the service layer.
const (
	topicOrderCreated       = "order.created"
	topicOrderStatusChanged = "order.status.changed"
)

// initJobs wires the scheduled maintenance and the order-event log.
func (a *Application) initJobs() {
	// One migration pass per tenant at startup picks up records written by
	// releases that still stored images inline.
	for _, tenant := range domain.Tenants {
		count, err := a.store.MigrateInlineImages(tenant)
		if err != nil {
			zap.L().Error("startup image migration failed",
				zap.String("tenant", tenant.String()),
				zap.Error(err))
			continue
		}
		if count > 0 {
			zap.L().Info("startup image migration",
				zap.String("tenant", tenant.String()),
				zap.Int("migrated", count))
		}
	}

	// Orphaned blobs accumulate whenever a record rewrite loses the race
	// with a crash; reclaim them nightly.
	_, err := a.sched.AddFunc("0 4 * * *", func() {
		for _, tenant := range domain.Tenants {
			deleted, err := a.store.CleanOrphanedImages(tenant)
			if err != nil {
				zap.L().Error("scheduled image cleanup failed",
					zap.String("tenant", tenant.String()),
					zap.Error(err))
				continue
			}
			zap.L().Info("scheduled image cleanup",
				zap.String("tenant", tenant.String()),
				zap.Int("deleted", deleted))
		}
	})
	if err != nil {
		zap.L().Error("failed to schedule image cleanup", zap.Error(err))
	}

	if err := a.bus.Subscribe(topicOrderCreated, func(order domain.Order) {
		zap.L().Info("order placed",
			zap.String("tenant", order.TenantID.String()),
			zap.String("order", order.ID),
			zap.Float64("total", order.Total),
			zap.Int("items", len(order.Items)))
	}); err != nil {
		zap.L().Error("failed to subscribe order log", zap.Error(err))
	}

	if err := a.bus.Subscribe(topicOrderStatusChanged, func(order domain.Order, previous domain.OrderStatus) {
		zap.L().Info("order status changed",
			zap.String("tenant", order.TenantID.String()),
			zap.String("order", order.ID),
			zap.String("from", string(previous)),
			zap.String("to", string(order.Status)))
	}); err != nil {
		zap.L().Error("failed to subscribe status log", zap.Error(err))
	}
}

// StartBackgroundJobs starts the cron scheduler.
func (a *Application) StartBackgroundJobs() {
	a.sched.Start()
}
