package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// AlertType classifies an inventory alert
type AlertType string

const (
	AlertOutOfStock   AlertType = "out_of_stock"
	AlertLowStock     AlertType = "low_stock"
	AlertExpiringSoon AlertType = "expiring_soon"
)

// AlertPriority buckets alerts for dashboard display
type AlertPriority string

const (
	PriorityHigh   AlertPriority = "high"
	PriorityMedium AlertPriority = "medium"
	PriorityLow    AlertPriority = "low"
)

// Priority returns the urgency bucket for an alert type. Stock-level alerts
// are high priority; expiry warnings are medium.
func (t AlertType) Priority() AlertPriority {
	switch t {
	case AlertOutOfStock, AlertLowStock:
		return PriorityHigh
	case AlertExpiringSoon:
		return PriorityMedium
	}
	return PriorityLow
}

// alertRank orders alerts within the listing; higher sorts first. Depleted
// stock outranks low stock inside the high-priority bucket.
var alertRank = map[AlertType]int{
	AlertOutOfStock:   3,
	AlertLowStock:     2,
	AlertExpiringSoon: 1,
}

// DefaultExpiryWindow is how far ahead expiring stock is flagged
const DefaultExpiryWindow = 7 * 24 * time.Hour

// Alert is a derived warning about one inventory record. Alerts are never
// stored; they are recomputed from the ledger on every read so they can
// never go stale.
type Alert struct {
	Type           AlertType     `json:"type"`
	Priority       AlertPriority `json:"priority"`
	RecordID       uuid.UUID     `json:"record_id"`
	ProductID      uuid.UUID     `json:"product_id"`
	ProductName    string        `json:"product_name"`
	CurrentStock   int64         `json:"current_stock"`
	Threshold      int64         `json:"threshold,omitempty"`
	ExpirationDate *time.Time    `json:"expiration_date,omitempty"`
	Message        string        `json:"message"`
}

// AlertSummary aggregates alert counts by priority and type for dashboards
type AlertSummary struct {
	Total        int `json:"total"`
	High         int `json:"high"`
	Medium       int `json:"medium"`
	Low          int `json:"low"`
	OutOfStock   int `json:"out_of_stock"`
	LowStock     int `json:"low_stock"`
	ExpiringSoon int `json:"expiring_soon"`
}

// GenerateAlerts derives all current alerts for a set of records. Inactive
// and untracked records produce no alerts. A record can carry several alert
// types at once (e.g. low stock and expiring soon). Results are ordered by
// priority descending, then product name for a stable listing.
func GenerateAlerts(records []*InventoryRecord, now time.Time, expiryWindow time.Duration) []Alert {
	alerts := make([]Alert, 0)

	for _, r := range records {
		if r == nil || !r.IsActive || !r.TrackInventory {
			continue
		}

		if r.IsOutOfStock() {
			alerts = append(alerts, Alert{
				Type:         AlertOutOfStock,
				Priority:     AlertOutOfStock.Priority(),
				RecordID:     r.ID,
				ProductID:    r.ProductID,
				ProductName:  r.ProductName,
				CurrentStock: r.CurrentStock,
				Message:      r.ProductName + " is out of stock",
			})
		} else if r.IsBelowMinimum() {
			alerts = append(alerts, Alert{
				Type:         AlertLowStock,
				Priority:     AlertLowStock.Priority(),
				RecordID:     r.ID,
				ProductID:    r.ProductID,
				ProductName:  r.ProductName,
				CurrentStock: r.CurrentStock,
				Threshold:    r.MinimumStock,
				Message:      r.ProductName + " is below its minimum stock level",
			})
		}

		if r.CurrentStock > 0 && r.IsExpiringWithin(now, expiryWindow) {
			alerts = append(alerts, Alert{
				Type:           AlertExpiringSoon,
				Priority:       AlertExpiringSoon.Priority(),
				RecordID:       r.ID,
				ProductID:      r.ProductID,
				ProductName:    r.ProductName,
				CurrentStock:   r.CurrentStock,
				ExpirationDate: r.ExpirationDate,
				Message:        r.ProductName + " expires within the warning window",
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alertRank[alerts[i].Type] != alertRank[alerts[j].Type] {
			return alertRank[alerts[i].Type] > alertRank[alerts[j].Type]
		}
		return alerts[i].ProductName < alerts[j].ProductName
	})

	return alerts
}

// SummarizeAlerts counts alerts by priority and by type
func SummarizeAlerts(alerts []Alert) AlertSummary {
	summary := AlertSummary{Total: len(alerts)}
	for _, a := range alerts {
		switch a.Priority {
		case PriorityHigh:
			summary.High++
		case PriorityMedium:
			summary.Medium++
		case PriorityLow:
			summary.Low++
		}
		switch a.Type {
		case AlertOutOfStock:
			summary.OutOfStock++
		case AlertLowStock:
			summary.LowStock++
		case AlertExpiringSoon:
			summary.ExpiringSoon++
		}
	}
	return summary
}
