package models

import (
	"testing"
	"time"

	"github.com/Luciana-papello/gestao-cs/sheets"
)

func orderTable(rows ...sheets.Row) *sheets.Table {
	return &sheets.Table{
		Columns: []string{"cliente_unico_id", "status_pedido", "valor_do_pedido", "data_pedido_realizado"},
		Rows:    rows,
	}
}

func orderRow(customer, status, value, date string) sheets.Row {
	return sheets.Row{
		"cliente_unico_id":      customer,
		"status_pedido":         status,
		"valor_do_pedido":       value,
		"data_pedido_realizado": date,
	}
}

func TestOrdersFromTable_DropsUnparseableDates(t *testing.T) {
	table := orderTable(
		orderRow("A", "Primeiro", "100,00", "2025-03-01 10:00:00"),
		orderRow("B", "Recompra", "50,00", "01/03/2025"),
		orderRow("C", "Primeiro", "75,00", ""),
	)
	orders := OrdersFromTable(table)
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1 (ambiguous dates must be excluded)", len(orders))
	}
	if orders[0].CustomerID != "A" {
		t.Fatalf("surviving order is %q, want A", orders[0].CustomerID)
	}
	if orders[0].Status != "primeiro" {
		t.Fatalf("status not normalized: %q", orders[0].Status)
	}
}

func TestOrdersFromTable_UnparseableValueKeepsRow(t *testing.T) {
	table := orderTable(orderRow("A", "Primeiro", "???", "2025-03-01 10:00:00"))
	orders := OrdersFromTable(table)
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}
	if !orders[0].Value.IsZero() {
		t.Fatalf("unparseable value = %v, want 0", orders[0].Value)
	}
}

func TestAnalyzeRecurrence_FirstAndRepeat(t *testing.T) {
	day := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	table := orderTable(
		orderRow("A", "Primeiro", "100,00", "2025-03-01 10:00:00"),
		orderRow("A", "Recompra", "50,00", "2025-03-11 10:00:00"),
	)
	metrics, ok := AnalyzeRecurrence(OrdersFromTable(table), day, day.AddDate(0, 0, 30))
	if !ok {
		t.Fatal("expected data in window")
	}
	if metrics.FirstOrders != 1 || metrics.RepeatOrders != 1 {
		t.Fatalf("counts = %d/%d, want 1/1", metrics.FirstOrders, metrics.RepeatOrders)
	}
	if metrics.ConversionRate != 100.0 {
		t.Fatalf("conversion = %v, want 100", metrics.ConversionRate)
	}
	if metrics.FirstTicket != 100.0 || metrics.RepeatTicket != 50.0 {
		t.Fatalf("tickets = %v/%v, want 100/50", metrics.FirstTicket, metrics.RepeatTicket)
	}
}

func TestAnalyzeRecurrence_FirstPurchaseOutsideWindow(t *testing.T) {
	day := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	table := orderTable(
		orderRow("A", "Primeiro", "100,00", "2025-03-01 10:00:00"),
		orderRow("A", "Recompra", "50,00", "2025-03-11 10:00:00"),
	)
	// Window starts after the first purchase: the repeat order stands alone.
	metrics, ok := AnalyzeRecurrence(OrdersFromTable(table), day.AddDate(0, 0, 5), day.AddDate(0, 0, 30))
	if ok {
		// The window still has the repeat order, so data exists.
		if metrics.FirstOrders != 0 || metrics.RepeatOrders != 1 {
			t.Fatalf("counts = %d/%d, want 0/1", metrics.FirstOrders, metrics.RepeatOrders)
		}
	} else {
		t.Fatal("expected the repeat order inside the window")
	}
	if metrics.ConversionRate != 0 {
		t.Fatalf("conversion with zero first purchases = %v, want 0", metrics.ConversionRate)
	}
	if metrics.FirstTicket != 0 || metrics.RepeatTicket != 50.0 {
		t.Fatalf("tickets = %v/%v, want 0/50", metrics.FirstTicket, metrics.RepeatTicket)
	}
}

func TestAnalyzeRecurrence_WindowBoundsInclusive(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	table := orderTable(
		orderRow("A", "Primeiro", "10,00", "2025-03-01 00:00:00"),
		orderRow("B", "Primeiro", "10,00", "2025-03-31 00:00:00"),
		orderRow("C", "Primeiro", "10,00", "2025-03-31 00:00:01"),
	)
	metrics, ok := AnalyzeRecurrence(OrdersFromTable(table), start, end)
	if !ok {
		t.Fatal("expected data in window")
	}
	if metrics.FirstOrders != 2 {
		t.Fatalf("first orders = %d, want 2 (both bounds inclusive, one second past end excluded)", metrics.FirstOrders)
	}
}

func TestAnalyzeRecurrence_EmptyWindow(t *testing.T) {
	table := orderTable(orderRow("A", "Primeiro", "10,00", "2025-03-01 00:00:00"))
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, ok := AnalyzeRecurrence(OrdersFromTable(table), start, start.AddDate(0, 0, 30)); ok {
		t.Fatal("expected no data for a window with no orders")
	}
}

func TestAnalyzeRecurrence_ExactStatusMatchOnly(t *testing.T) {
	table := orderTable(
		orderRow("A", "  PRIMEIRO  ", "10,00", "2025-03-01 00:00:00"),
		orderRow("B", "primeiro contato", "10,00", "2025-03-02 00:00:00"),
		orderRow("C", "recompra agendada", "10,00", "2025-03-03 00:00:00"),
	)
	metrics, ok := AnalyzeRecurrence(OrdersFromTable(table), time.Time{}, time.Time{})
	if !ok {
		t.Fatal("expected data")
	}
	if metrics.FirstOrders != 1 {
		t.Fatalf("first orders = %d, want 1 (compound labels must not match)", metrics.FirstOrders)
	}
	if metrics.RepeatOrders != 0 {
		t.Fatalf("repeat orders = %d, want 0", metrics.RepeatOrders)
	}
}

func TestAnalyzeRecurrence_RepeatCustomerCountedOnce(t *testing.T) {
	table := orderTable(
		orderRow("A", "Primeiro", "10,00", "2025-03-01 00:00:00"),
		orderRow("A", "Primeiro", "20,00", "2025-03-02 00:00:00"),
		orderRow("A", "Recompra", "30,00", "2025-03-03 00:00:00"),
		orderRow("B", "Primeiro", "40,00", "2025-03-04 00:00:00"),
	)
	metrics, ok := AnalyzeRecurrence(OrdersFromTable(table), time.Time{}, time.Time{})
	if !ok {
		t.Fatal("expected data")
	}
	if metrics.FirstOrders != 3 {
		t.Fatalf("first orders = %d, want 3 (every order counts)", metrics.FirstOrders)
	}
	// Customer A converted, customer B did not: 1 of 2.
	if metrics.ConversionRate != 50.0 {
		t.Fatalf("conversion = %v, want 50", metrics.ConversionRate)
	}
	if metrics.ConversionRate < 0 || metrics.ConversionRate > 100 {
		t.Fatalf("conversion out of range: %v", metrics.ConversionRate)
	}
}

func TestLatestOrderDate(t *testing.T) {
	table := orderTable(
		orderRow("A", "Primeiro", "10,00", "2025-03-01 00:00:00"),
		orderRow("B", "Recompra", "10,00", "2025-04-15 12:30:00"),
		orderRow("C", "Primeiro", "10,00", "not a date"),
	)
	if got := LatestOrderDate(table); got != "15/04/2025" {
		t.Fatalf("LatestOrderDate = %q, want 15/04/2025", got)
	}
	if got := LatestOrderDate(&sheets.Table{}); got != "N/A" {
		t.Fatalf("LatestOrderDate(empty) = %q, want N/A", got)
	}
}
