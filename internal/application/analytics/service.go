// Package analytics derives read-only revenue and order rollups. Every
// figure is folded from the persisted orders on demand; nothing is stored as
// a separately maintained counter, so the numbers cannot drift from the
// underlying data.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickdash/backend/internal/domain/order"
	"github.com/quickdash/backend/internal/domain/shared"
)

// Period is a supported revenue lookback window
type Period string

const (
	PeriodDay     Period = "1d"
	Period7Days   Period = "7d"
	Period30Days  Period = "30d"
	Period90Days  Period = "90d"
	popularItemsN        = 10
)

// Duration returns the lookback duration for the period
func (p Period) Duration() (time.Duration, bool) {
	switch p {
	case PeriodDay:
		return 24 * time.Hour, true
	case Period7Days:
		return 7 * 24 * time.Hour, true
	case Period30Days:
		return 30 * 24 * time.Hour, true
	case Period90Days:
		return 90 * 24 * time.Hour, true
	}
	return 0, false
}

// Summary aggregates the headline figures for a period
type Summary struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalOrders       int             `json:"total_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	UniqueCustomers   int             `json:"unique_customers"`
}

// RevenuePoint is one day of delivered revenue
type RevenuePoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// StatusCount is one slice of the order status distribution
type StatusCount struct {
	Status order.OrderStatus `json:"status"`
	Count  int               `json:"count"`
}

// PopularItem is one product ranked by quantity sold
type PopularItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// RevenueReport is the full analytics response for a period
type RevenueReport struct {
	Period                  Period         `json:"period"`
	Summary                 Summary        `json:"summary"`
	RevenueChart            []RevenuePoint `json:"revenue_chart"`
	OrderStatusDistribution []StatusCount  `json:"order_status_distribution"`
	PopularItems            []PopularItem  `json:"popular_items"`
}

// Service computes analytics rollups from order history
type Service struct {
	orderRepo order.Repository
	now       func() time.Time
}

// NewService creates an analytics Service
func NewService(orderRepo order.Repository) *Service {
	return &Service{
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

// Revenue folds the period's orders into the revenue report. The read takes
// no locks; a concurrent transition landing mid-scan yields a slightly stale
// but internally consistent snapshot.
func (s *Service) Revenue(ctx context.Context, businessID uuid.UUID, period Period) (*RevenueReport, error) {
	lookback, ok := period.Duration()
	if !ok {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Period must be one of 1d, 7d, 30d, 90d")
	}

	to := s.now()
	from := to.Add(-lookback)

	orders, err := s.orderRepo.FindByDateRange(ctx, businessID, from, to)
	if err != nil {
		return nil, err
	}

	report := &RevenueReport{
		Period: period,
		Summary: Summary{
			TotalRevenue:      decimal.Zero,
			AverageOrderValue: decimal.Zero,
		},
		RevenueChart:            buildRevenueChart(orders, from, to),
		OrderStatusDistribution: buildStatusDistribution(orders),
		PopularItems:            buildPopularItems(orders),
	}

	customers := make(map[uuid.UUID]struct{})
	deliveredCount := 0
	for _, o := range orders {
		report.Summary.TotalOrders++
		customers[o.CustomerID] = struct{}{}
		if o.Status == order.StatusDelivered {
			report.Summary.TotalRevenue = report.Summary.TotalRevenue.Add(o.Pricing.Total)
			deliveredCount++
		}
	}
	report.Summary.UniqueCustomers = len(customers)
	if deliveredCount > 0 {
		report.Summary.AverageOrderValue = report.Summary.TotalRevenue.
			Div(decimal.NewFromInt(int64(deliveredCount))).Round(2)
	}

	return report, nil
}

// buildRevenueChart buckets delivered revenue by calendar day, one point per
// day in the window so the chart has no gaps.
func buildRevenueChart(orders []*order.Order, from, to time.Time) []RevenuePoint {
	byDay := make(map[string]*RevenuePoint)
	for _, o := range orders {
		if o.Status != order.StatusDelivered {
			continue
		}
		day := o.CreatedAt.Format("2006-01-02")
		point, ok := byDay[day]
		if !ok {
			point = &RevenuePoint{Date: day, Revenue: decimal.Zero}
			byDay[day] = point
		}
		point.Revenue = point.Revenue.Add(o.Pricing.Total)
		point.Orders++
	}

	chart := make([]RevenuePoint, 0)
	for d := from.Truncate(24 * time.Hour); !d.After(to); d = d.Add(24 * time.Hour) {
		day := d.Format("2006-01-02")
		if point, ok := byDay[day]; ok {
			chart = append(chart, *point)
		} else {
			chart = append(chart, RevenuePoint{Date: day, Revenue: decimal.Zero})
		}
	}
	return chart
}

func buildStatusDistribution(orders []*order.Order) []StatusCount {
	counts := make(map[order.OrderStatus]int)
	for _, o := range orders {
		counts[o.Status]++
	}

	distribution := make([]StatusCount, 0, len(counts))
	for _, status := range order.AllStatuses() {
		if count, ok := counts[status]; ok {
			distribution = append(distribution, StatusCount{Status: status, Count: count})
		}
	}
	return distribution
}

// buildPopularItems ranks products by quantity across delivered orders,
// ties broken by revenue.
func buildPopularItems(orders []*order.Order) []PopularItem {
	byProduct := make(map[uuid.UUID]*PopularItem)
	for _, o := range orders {
		if o.Status != order.StatusDelivered {
			continue
		}
		for _, item := range o.Items {
			entry, ok := byProduct[item.ProductID]
			if !ok {
				entry = &PopularItem{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					Revenue:     decimal.Zero,
				}
				byProduct[item.ProductID] = entry
			}
			entry.Quantity += item.Quantity
			entry.Revenue = entry.Revenue.Add(item.Subtotal)
		}
	}

	popular := make([]PopularItem, 0, len(byProduct))
	for _, entry := range byProduct {
		popular = append(popular, *entry)
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Quantity != popular[j].Quantity {
			return popular[i].Quantity > popular[j].Quantity
		}
		return popular[i].Revenue.GreaterThan(popular[j].Revenue)
	})
	if len(popular) > popularItemsN {
		popular = popular[:popularItemsN]
	}
	return popular
}
