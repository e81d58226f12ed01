package orders

import (
	"testing"

	"savoro/models"
)

func TestComputeTotalScenario(t *testing.T) {
	// [{price:10.00, qty:2}, {price:5.50, qty:1}] + deliveryCharge 3.00
	items := []models.OrderItem{
		{Name: "Margherita", Quantity: 2, Price: 10.00},
		{Name: "Garlic Bread", Quantity: 1, Price: 5.50},
	}
	if got := ComputeTotal(items, 3.00); got != 28.50 {
		t.Fatalf("total = %v, want 28.50", got)
	}
}

func TestComputeTotalRoundsToTwoDecimals(t *testing.T) {
	items := []models.OrderItem{{Name: "Combo", Quantity: 3, Price: 3.333}}
	if got := ComputeTotal(items, 0); got != 10.00 {
		t.Fatalf("total = %v, want 10.00", got)
	}
}

func TestComputeTotalNoItems(t *testing.T) {
	if got := ComputeTotal(nil, 2.5); got != 2.5 {
		t.Fatalf("total = %v, want 2.5", got)
	}
}

func TestTransitionTable(t *testing.T) {
	allowed := []struct{ from, to models.OrderStatus }{
		{models.StatusPending, models.StatusPreparing},
		{models.StatusPending, models.StatusCancelled},
		{models.StatusPreparing, models.StatusOutForDelivery},
		{models.StatusPreparing, models.StatusDelivered},
		{models.StatusPreparing, models.StatusCancelled},
		{models.StatusOutForDelivery, models.StatusDelivered},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	rejected := []struct{ from, to models.OrderStatus }{
		{models.StatusDelivered, models.StatusPending},
		{models.StatusDelivered, models.StatusPreparing},
		{models.StatusCancelled, models.StatusPending},
		{models.StatusOutForDelivery, models.StatusPending},
		{models.StatusPending, models.StatusDelivered},
		{models.StatusPending, models.StatusPending},
	}
	for _, tc := range rejected {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.StatusPending, models.StatusPreparing,
		models.StatusOutForDelivery, models.StatusDelivered, models.StatusCancelled,
	} {
		if !ValidStatus(s) {
			t.Errorf("%s should be a valid status", s)
		}
	}
	if ValidStatus("shipped") {
		t.Error("unknown status accepted")
	}
}

func TestCreateRequestValidate(t *testing.T) {
	good := CreateRequest{
		CustomerName: "Ana",
		Phone:        "555-0101",
		DeliveryType: models.DeliveryDelivery,
		Address:      "12 Main St",
		Items:        []models.OrderItem{{Name: "Ramen", Quantity: 1, Price: 9.5}},
	}
	if bad := good.Validate(); len(bad) != 0 {
		t.Fatalf("valid request rejected: %v", bad)
	}

	// address required iff delivery
	noAddr := good
	noAddr.Address = ""
	if bad := noAddr.Validate(); !containsField(bad, "address") {
		t.Fatalf("delivery without address accepted: %v", bad)
	}

	pickup := noAddr
	pickup.DeliveryType = models.DeliveryPickup
	if bad := pickup.Validate(); len(bad) != 0 {
		t.Fatalf("pickup without address rejected: %v", bad)
	}

	zeroQty := good
	zeroQty.Items = []models.OrderItem{{Name: "Ramen", Quantity: 0, Price: 9.5}}
	if bad := zeroQty.Validate(); !containsField(bad, "items") {
		t.Fatalf("zero quantity accepted: %v", bad)
	}

	negCharge := good
	negCharge.DeliveryCharge = -1
	if bad := negCharge.Validate(); !containsField(bad, "deliveryCharge") {
		t.Fatalf("negative delivery charge accepted: %v", bad)
	}
}

func containsField(fields []string, want string) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}
