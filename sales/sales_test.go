package sales

import (
	"testing"
	"time"

	"savoro/models"
)

func TestWindowDaily(t *testing.T) {
	ref := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	start, end, err := Window("daily", ref)
	if err != nil {
		t.Fatal(err)
	}

	wantStart := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) || !end.Equal(wantStart.AddDate(0, 0, 1)) {
		t.Fatalf("window = [%v, %v)", start, end)
	}

	// an order at 23:59:59 yesterday falls outside, 00:00:01 today inside
	yesterday := time.Date(2026, 3, 13, 23, 59, 59, 0, time.UTC)
	today := time.Date(2026, 3, 14, 0, 0, 1, 0, time.UTC)
	if !yesterday.Before(start) {
		t.Error("yesterday's order should be outside the window")
	}
	if today.Before(start) || !today.Before(end) {
		t.Error("today's order should be inside the window")
	}
}

func TestWindowWeeklyAnchorsOnSunday(t *testing.T) {
	// Wednesday 2026-03-11
	ref := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	if ref.Weekday() != time.Wednesday {
		t.Fatal("reference must be a Wednesday")
	}

	start, end, err := Window("weekly", ref)
	if err != nil {
		t.Fatal(err)
	}

	wantStart := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC) // preceding Sunday
	if !start.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", start, wantStart)
	}
	if start.Weekday() != time.Sunday {
		t.Fatalf("start weekday = %v", start.Weekday())
	}
	if !end.Equal(wantStart.AddDate(0, 0, 7)) {
		t.Fatalf("end = %v", end)
	}
}

func TestWindowWeeklyOnSundayItself(t *testing.T) {
	ref := time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC) // a Sunday
	start, _, err := Window("weekly", ref)
	if err != nil {
		t.Fatal(err)
	}
	if !start.Equal(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", start)
	}
}

func TestWindowMonthly(t *testing.T) {
	ref := time.Date(2026, 12, 20, 8, 0, 0, 0, time.UTC)
	start, end, err := Window("monthly", ref)
	if err != nil {
		t.Fatal(err)
	}
	if !start.Equal(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", start)
	}
	if !end.Equal(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end = %v", end)
	}
}

func TestWindowRejectsUnknownPeriod(t *testing.T) {
	if _, _, err := Window("fortnightly", time.Now()); err == nil {
		t.Fatal("expected error for unknown period")
	}
}

func TestSummarizeEmptyWindow(t *testing.T) {
	summary := Summarize(nil)
	if summary.OrderCount != 0 || summary.TotalSales != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.AverageOrderValue != 0 {
		t.Fatalf("average of empty window = %v, want 0", summary.AverageOrderValue)
	}
	for _, s := range []string{"pending", "preparing", "out_for_delivery", "delivered"} {
		if n, ok := summary.StatusCounts[s]; !ok || n != 0 {
			t.Fatalf("status %q missing from zero-filled histogram: %+v", s, summary.StatusCounts)
		}
	}
}

func TestSummarizeTotalsAndHistogram(t *testing.T) {
	orders := []models.Order{
		{TotalAmount: 28.50, DeliveryCharge: 3.00, DeliveryType: models.DeliveryDelivery, Status: models.StatusDelivered},
		{TotalAmount: 12.25, DeliveryCharge: 0, DeliveryType: models.DeliveryPickup, Status: models.StatusDelivered},
		{TotalAmount: 9.99, DeliveryCharge: 2.50, DeliveryType: models.DeliveryDelivery, Status: models.StatusPreparing},
	}

	summary := Summarize(orders)
	if summary.TotalSales != 50.74 {
		t.Errorf("totalSales = %v, want 50.74", summary.TotalSales)
	}
	if summary.OrderCount != 3 {
		t.Errorf("orderCount = %v", summary.OrderCount)
	}
	if summary.TotalDeliveryCharges != 5.50 {
		t.Errorf("totalDeliveryCharges = %v, want 5.50", summary.TotalDeliveryCharges)
	}
	if summary.AverageOrderValue != 16.91 {
		t.Errorf("averageOrderValue = %v, want 16.91", summary.AverageOrderValue)
	}
	if summary.PickupCount != 1 || summary.DeliveryCount != 2 {
		t.Errorf("pickup/delivery = %d/%d", summary.PickupCount, summary.DeliveryCount)
	}
	if summary.StatusCounts["delivered"] != 2 || summary.StatusCounts["preparing"] != 1 {
		t.Errorf("histogram = %v", summary.StatusCounts)
	}
	if summary.StatusCounts["pending"] != 0 || summary.StatusCounts["out_for_delivery"] != 0 {
		t.Errorf("absent statuses not zero-filled: %v", summary.StatusCounts)
	}
}

func TestSummarizeRounding(t *testing.T) {
	orders := []models.Order{
		{TotalAmount: 10.333, DeliveryType: models.DeliveryPickup, Status: models.StatusPending},
		{TotalAmount: 10.333, DeliveryType: models.DeliveryPickup, Status: models.StatusPending},
		{TotalAmount: 10.333, DeliveryType: models.DeliveryPickup, Status: models.StatusPending},
	}
	summary := Summarize(orders)
	if summary.TotalSales != 31.00 {
		t.Errorf("totalSales = %v, want 31.00", summary.TotalSales)
	}
	if summary.AverageOrderValue != 10.33 {
		t.Errorf("averageOrderValue = %v, want 10.33", summary.AverageOrderValue)
	}
}
