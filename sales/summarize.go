package sales

import (
	"savoro/models"
	"savoro/utils"
)

// histogramStatuses are the statuses the report always carries, zero-filled
// when absent from the window.
var histogramStatuses = []models.OrderStatus{
	models.StatusPending,
	models.StatusPreparing,
	models.StatusOutForDelivery,
	models.StatusDelivered,
}

// Summarize is a pure aggregation over the orders of one window. Monetary
// outputs are rounded to 2 decimal places; an empty window yields zeros, not
// NaN.
func Summarize(orders []models.Order) models.SalesSummary {
	summary := models.SalesSummary{
		StatusCounts: make(map[string]int, len(histogramStatuses)),
	}
	for _, s := range histogramStatuses {
		summary.StatusCounts[string(s)] = 0
	}

	for _, order := range orders {
		summary.TotalSales += order.TotalAmount
		summary.OrderCount++
		summary.TotalDeliveryCharges += order.DeliveryCharge

		switch order.DeliveryType {
		case models.DeliveryPickup:
			summary.PickupCount++
		case models.DeliveryDelivery:
			summary.DeliveryCount++
		}

		if _, tracked := summary.StatusCounts[string(order.Status)]; tracked {
			summary.StatusCounts[string(order.Status)]++
		}
	}

	summary.TotalSales = utils.Round2(summary.TotalSales)
	summary.TotalDeliveryCharges = utils.Round2(summary.TotalDeliveryCharges)
	if summary.OrderCount > 0 {
		summary.AverageOrderValue = utils.Round2(summary.TotalSales / float64(summary.OrderCount))
	}
	return summary
}
