package orders

import "savoro/models"

// transitions is the closed adjacency table for order status changes.
// delivered and cancelled are terminal; the graph only moves forward, so a
// delivered order can never be reopened (refunds live on payment status).
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:        {models.StatusPreparing, models.StatusCancelled},
	models.StatusPreparing:      {models.StatusOutForDelivery, models.StatusDelivered, models.StatusCancelled},
	models.StatusOutForDelivery: {models.StatusDelivered},
	models.StatusDelivered:      {},
	models.StatusCancelled:      {},
}

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition is a pure mapping (current, requested) -> allowed.
func CanTransition(current, requested models.OrderStatus) bool {
	for _, next := range transitions[current] {
		if next == requested {
			return true
		}
	}
	return false
}
