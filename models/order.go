package models

import (
	"strings"
	"time"

	"github.com/Luciana-papello/gestao-cs/sheets"
	"github.com/shopspring/decimal"
)

// The order sheet serializes dates unambiguously as year-month-day; anything
// else is treated as unparseable and the row is excluded, not errored.
const orderDateLayout = "2006-01-02 15:04:05"

// Canonical status tokens. Matching is exact on the normalized label so a
// compound label like "primeiro contato" is never misread as a first purchase.
const (
	statusFirst  = "primeiro"
	statusRepeat = "recompra"
)

// Order is one parsed row of the order sheet.
type Order struct {
	CustomerID string
	Status     string // lowercased, trimmed
	Value      decimal.Decimal
	Date       time.Time
}

// OrdersFromTable parses the order sheet. Rows whose date does not match the
// expected layout are dropped; an unparseable value keeps the row with value 0.
func OrdersFromTable(table *sheets.Table) []Order {
	if table.IsEmpty() {
		return nil
	}
	orders := make([]Order, 0, table.Len())
	for _, row := range table.Rows {
		date, err := time.Parse(orderDateLayout, strings.TrimSpace(row["data_pedido_realizado"]))
		if err != nil {
			continue
		}
		orders = append(orders, Order{
			CustomerID: row["cliente_unico_id"],
			Status:     strings.ToLower(strings.TrimSpace(row["status_pedido"])),
			Value:      ParseAmount(row["valor_do_pedido"]),
			Date:       date,
		})
	}
	return orders
}

// RecurrenceMetrics is the first-vs-repeat purchase breakdown for a window.
type RecurrenceMetrics struct {
	FirstOrders    int     `json:"pedidos_primeira"`
	RepeatOrders   int     `json:"pedidos_recompra"`
	ConversionRate float64 `json:"taxa_conversao"`
	FirstTicket    float64 `json:"ticket_primeira"`
	RepeatTicket   float64 `json:"ticket_recompra"`
}

// AnalyzeRecurrence computes the recurrence breakdown over orders whose date
// falls inside [start, end], both bounds inclusive. Zero start and end means
// no window filter. The second return is false when no order survives the
// filter; that signals "no data for this window", not an error.
//
// The conversion rate is the share of customers with a first purchase in the
// window that also placed a repeat purchase in the same window. A customer
// with several first purchases counts once in the rate, though every order
// still counts toward the order totals.
func AnalyzeRecurrence(orders []Order, start, end time.Time) (RecurrenceMetrics, bool) {
	var metrics RecurrenceMetrics

	filtered := orders
	if !start.IsZero() || !end.IsZero() {
		filtered = nil
		for _, o := range orders {
			if o.Date.Before(start) || o.Date.After(end) {
				continue
			}
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return metrics, false
	}

	var firstTotal, repeatTotal decimal.Decimal
	firstCustomers := make(map[string]bool)
	repeatCustomers := make(map[string]bool)

	for _, o := range filtered {
		switch o.Status {
		case statusFirst:
			metrics.FirstOrders++
			firstTotal = firstTotal.Add(o.Value)
			firstCustomers[o.CustomerID] = true
		case statusRepeat:
			metrics.RepeatOrders++
			repeatTotal = repeatTotal.Add(o.Value)
			repeatCustomers[o.CustomerID] = true
		}
	}

	if metrics.FirstOrders > 0 {
		metrics.FirstTicket = firstTotal.Div(decimal.NewFromInt(int64(metrics.FirstOrders))).InexactFloat64()
	}
	if metrics.RepeatOrders > 0 {
		metrics.RepeatTicket = repeatTotal.Div(decimal.NewFromInt(int64(metrics.RepeatOrders))).InexactFloat64()
	}

	if len(firstCustomers) > 0 {
		converted := 0
		for id := range firstCustomers {
			if repeatCustomers[id] {
				converted++
			}
		}
		metrics.ConversionRate = float64(converted) / float64(len(firstCustomers)) * 100
	}

	return metrics, true
}

// latestUpdateLayouts covers the formats seen across sheet exports; the
// freshness stamp is display-only so parsing is lenient here.
var latestUpdateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// LatestOrderDate returns the most recent order date as dd/mm/yyyy, or "N/A"
// when no date in the sheet parses.
func LatestOrderDate(table *sheets.Table) string {
	var latest time.Time
	if table != nil {
		for _, row := range table.Rows {
			raw := strings.TrimSpace(row["data_pedido_realizado"])
			for _, layout := range latestUpdateLayouts {
				if d, err := time.Parse(layout, raw); err == nil {
					if d.After(latest) {
						latest = d
					}
					break
				}
			}
		}
	}
	if latest.IsZero() {
		return "N/A"
	}
	return latest.Format("02/01/2006")
}
