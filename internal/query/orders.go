package query

import (
	"sort"
	"strings"

	"github.com/example/storefront/internal/readmodel"
)

// SortKey orders the result of QueryOrders.
type SortKey string

const (
	SortDateDesc   SortKey = "date-desc"
	SortDateAsc    SortKey = "date-asc"
	SortAmountDesc SortKey = "amount-desc"
	SortAmountAsc  SortKey = "amount-asc"
)

// StatusFilter restricts QueryOrders to one delivery status. Values are the
// normalized form: lowercase with spaces replaced by hyphens.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterDelivered StatusFilter = "delivered"
	FilterInTransit StatusFilter = "in-transit"
	FilterPending   StatusFilter = "pending"
	FilterCancelled StatusFilter = "cancelled"
)

// NormalizeStatus maps a delivery status ("In Transit") to its filter form
// ("in-transit").
func NormalizeStatus(status string) string {
	return strings.ReplaceAll(strings.ToLower(status), " ", "-")
}

// QueryOrders filters then sorts an order list for the order-history view.
// Filtering always precedes sorting; the sort is stable so ties keep their
// prior relative order. The input slice is never mutated.
func QueryOrders(orders []*readmodel.OrderReadModel, status StatusFilter, searchTerm string, sortKey SortKey) []*readmodel.OrderReadModel {
	filtered := make([]*readmodel.OrderReadModel, 0, len(orders))
	for _, o := range orders {
		if status != FilterAll && status != "" && NormalizeStatus(o.DeliveryStatus) != string(status) {
			continue
		}
		if !matchesSearch(o, searchTerm) {
			continue
		}
		filtered = append(filtered, o)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		switch sortKey {
		case SortDateDesc:
			return a.OrderDate.After(b.OrderDate)
		case SortDateAsc:
			return a.OrderDate.Before(b.OrderDate)
		case SortAmountDesc:
			return a.TotalAmount.GreaterThan(b.TotalAmount)
		case SortAmountAsc:
			return a.TotalAmount.LessThan(b.TotalAmount)
		default:
			return false
		}
	})

	return filtered
}

// matchesSearch reports whether the order id or any product name contains
// the term, case-insensitively. An empty term matches everything.
func matchesSearch(o *readmodel.OrderReadModel, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(o.ID), needle) {
		return true
	}
	for _, p := range o.Products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			return true
		}
	}
	return false
}
