package orders

import (
	"sort"
	"time"

	"github.com/savioluz/deliveryitaueira/internal/domain"
)

// PeriodStats aggregates orders inside one reporting window.
type PeriodStats struct {
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// ProductStat ranks one product by quantity sold.
type ProductStat struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// Report mirrors the admin dashboard: fixed windows relative to now plus a
// top-products ranking over the whole considered range.
type Report struct {
	TotalOrders  int           `json:"totalOrders"`
	TotalRevenue float64       `json:"totalRevenue"`
	Today        PeriodStats   `json:"today"`
	Yesterday    PeriodStats   `json:"yesterday"`
	Week         PeriodStats   `json:"week"`
	Month        PeriodStats   `json:"month"`
	TopProducts  []ProductStat `json:"topProducts"`
}

const topProductLimit = 5

// Analytics builds the report over the tenant's orders created at or after
// since (zero means everything).
func (s *Service) Analytics(tenant domain.Tenant, since time.Time) Report {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)
	week := today.AddDate(0, 0, -7)
	month := today.AddDate(0, 0, -30)

	var report Report
	byProduct := make(map[string]*ProductStat)

	for _, o := range s.store.Records.Orders(tenant) {
		if !since.IsZero() && o.CreatedAt.Before(since) {
			continue
		}

		report.TotalOrders++
		report.TotalRevenue += o.Total

		switch {
		case !o.CreatedAt.Before(today):
			report.Today.add(o)
		case !o.CreatedAt.Before(yesterday):
			report.Yesterday.add(o)
		}
		if !o.CreatedAt.Before(week) {
			report.Week.add(o)
		}
		if !o.CreatedAt.Before(month) {
			report.Month.add(o)
		}

		for _, it := range o.Items {
			stat, ok := byProduct[it.Name]
			if !ok {
				stat = &ProductStat{Name: it.Name}
				byProduct[it.Name] = stat
			}
			stat.Quantity += it.Quantity
			stat.Revenue += it.Price * float64(it.Quantity)
		}
	}

	report.TopProducts = make([]ProductStat, 0, len(byProduct))
	for _, stat := range byProduct {
		report.TopProducts = append(report.TopProducts, *stat)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		if report.TopProducts[i].Quantity != report.TopProducts[j].Quantity {
			return report.TopProducts[i].Quantity > report.TopProducts[j].Quantity
		}
		return report.TopProducts[i].Name < report.TopProducts[j].Name
	})
	if len(report.TopProducts) > topProductLimit {
		report.TopProducts = report.TopProducts[:topProductLimit]
	}

	return report
}

func (p *PeriodStats) add(o domain.Order) {
	p.Orders++
	p.Revenue += o.Total
}
