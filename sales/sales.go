package sales

import (
	"context"
	"net/http"
	"time"

	"savoro/db"
	"savoro/models"
	"savoro/receipts"
	"savoro/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type Handler struct {
	DB *db.DB
}

func NewHandler(database *db.DB) *Handler {
	return &Handler{DB: database}
}

// fetchCompletedOrders pulls every paid order created inside [start, end).
// Any store failure is surfaced whole; there are no partial results.
func (h *Handler) fetchCompletedOrders(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	filter := bson.M{
		"paymentStatus": models.PaymentCompleted,
		"createdAt":     bson.M{"$gte": start, "$lt": end},
	}
	cursor, err := h.DB.Orders.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Report handles GET /api/sales/report?period=daily|weekly|monthly.
// With format=pdf the bundle is rendered as a printable document.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "daily"
	}

	start, end, err := Window(period, time.Now().UTC())
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "period must be one of daily, weekly, monthly")
		return
	}

	orders, err := h.fetchCompletedOrders(r.Context(), start, end)
	if err != nil {
		http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	report := models.SalesReport{
		Period:    period,
		StartDate: start,
		EndDate:   end,
		Summary:   Summarize(orders),
		Orders:    orders,
	}

	if r.URL.Query().Get("format") == "pdf" {
		pdf, err := receipts.BuildSalesReport(report)
		if err != nil {
			http.Error(w, "Failed to generate report", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=sales-"+period+".pdf")
		w.WriteHeader(http.StatusOK)
		w.Write(pdf)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, report)
}

type statsRow struct {
	Status  string  `bson:"_id" json:"status"`
	Count   int     `bson:"count" json:"count"`
	Revenue float64 `bson:"revenue" json:"revenue"`
}

// Stats is the all-time rollup, computed in the store with an aggregation
// pipeline rather than in application code.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pipeline := []bson.M{
		{"$match": bson.M{"paymentStatus": models.PaymentCompleted}},
		{"$group": bson.M{
			"_id":     "$status",
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$totalAmount"},
		}},
		{"$sort": bson.M{"_id": 1}},
	}

	cursor, err := h.DB.Orders.Aggregate(r.Context(), pipeline)
	if err != nil {
		http.Error(w, "Failed to aggregate sales", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	var rows []statsRow
	if err := cursor.All(r.Context(), &rows); err != nil {
		http.Error(w, "Error processing sales stats", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []statsRow{}
	}

	var totalRevenue float64
	var totalOrders int
	for i := range rows {
		rows[i].Revenue = utils.Round2(rows[i].Revenue)
		totalRevenue += rows[i].Revenue
		totalOrders += rows[i].Count
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"totalRevenue": utils.Round2(totalRevenue),
		"totalOrders":  totalOrders,
		"byStatus":     rows,
	})
}
