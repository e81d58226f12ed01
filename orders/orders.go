package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"savoro/db"
	"savoro/models"
	"savoro/mq"
	"savoro/receipts"
	"savoro/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handler struct {
	DB      *db.DB
	Emitter *mq.Emitter
}

func NewHandler(database *db.DB, emitter *mq.Emitter) *Handler {
	return &Handler{DB: database, Emitter: emitter}
}

// CreateRequest is the JSON body for order placement. Item prices are
// snapshots supplied by the caller; the total is always recomputed
// server-side.
type CreateRequest struct {
	CustomerName   string              `json:"customerName"`
	Phone          string              `json:"phone"`
	DeliveryType   models.DeliveryType `json:"deliveryType"`
	Address        string              `json:"address"`
	Items          []models.OrderItem  `json:"items"`
	DeliveryCharge float64             `json:"deliveryCharge"`
}

// Validate returns the offending field names, empty when the request is good.
func (req *CreateRequest) Validate() []string {
	var bad []string

	if strings.TrimSpace(req.CustomerName) == "" {
		bad = append(bad, "customerName")
	}
	if strings.TrimSpace(req.Phone) == "" {
		bad = append(bad, "phone")
	}
	switch req.DeliveryType {
	case models.DeliveryPickup:
	case models.DeliveryDelivery:
		// address is required iff the order is delivered
		if strings.TrimSpace(req.Address) == "" {
			bad = append(bad, "address")
		}
	default:
		bad = append(bad, "deliveryType")
	}
	if len(req.Items) == 0 {
		bad = append(bad, "items")
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" || item.Quantity < 1 || item.Price < 0 {
			bad = append(bad, "items")
			break
		}
	}
	if req.DeliveryCharge < 0 {
		bad = append(bad, "deliveryCharge")
	}
	return bad
}

// ComputeTotal is sum(price x quantity) plus the delivery charge, rounded to
// 2 decimal places.
func ComputeTotal(items []models.OrderItem, deliveryCharge float64) float64 {
	total := deliveryCharge
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return utils.Round2(total)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if bad := req.Validate(); len(bad) > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields: "+strings.Join(bad, ", "))
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}

	now := time.Now().UTC()
	order := models.Order{
		OrderID:        utils.GenerateID(14),
		UserID:         userID,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		Phone:          strings.TrimSpace(req.Phone),
		DeliveryType:   req.DeliveryType,
		Address:        strings.TrimSpace(req.Address),
		Items:          req.Items,
		DeliveryCharge: utils.Round2(req.DeliveryCharge),
		TotalAmount:    ComputeTotal(req.Items, req.DeliveryCharge),
		Status:         models.StatusPending,
		PaymentStatus:  models.PaymentPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := h.DB.Orders.InsertOne(context.TODO(), order); err != nil {
		http.Error(w, "Failed to place order", http.StatusInternalServerError)
		return
	}

	h.Emitter.Emit(context.Background(), models.OrderEvent{
		Type:      "order_created",
		OrderID:   order.OrderID,
		UserID:    order.UserID,
		Status:    order.Status,
		Timestamp: now.Unix(),
	})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"ok":      true,
		"message": "Order placed successfully.",
		"data":    order,
	})
}

func (h *Handler) fetchOrder(w http.ResponseWriter, orderID string) (models.Order, bool) {
	var order models.Order
	err := h.DB.Orders.FindOne(context.TODO(), bson.M{"orderid": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return order, false
	}
	if err != nil {
		http.Error(w, "Failed to fetch order", http.StatusInternalServerError)
		return order, false
	}
	return order, true
}

// GetOrder returns one order; customers can only see their own.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	order, ok := h.fetchOrder(w, ps.ByName("id"))
	if !ok {
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if order.UserID != userID && !utils.Contains(utils.GetRolesFromRequest(r), "admin") {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// GetMyOrders lists the requesting user's orders, newest first.
func (h *Handler) GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Invalid user", http.StatusUnauthorized)
		return
	}
	h.listOrders(w, bson.M{"userid": userID})
}

// GetOrders is the admin listing, optionally filtered by status.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	h.listOrders(w, filter)
}

func (h *Handler) listOrders(w http.ResponseWriter, filter bson.M) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.DB.Orders.Find(context.TODO(), filter, opts)
	if err != nil {
		http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(context.TODO())

	var list []models.Order
	if err := cursor.All(context.TODO(), &list); err != nil {
		http.Error(w, "Error processing orders", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// UpdateStatus advances an order along the transition table and notifies
// subscribers of the order and its owner.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !ValidStatus(body.Status) {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown status")
		return
	}

	order, ok := h.fetchOrder(w, ps.ByName("id"))
	if !ok {
		return
	}

	if !CanTransition(order.Status, body.Status) {
		utils.RespondWithError(w, http.StatusBadRequest, "Cannot move order from "+string(order.Status)+" to "+string(body.Status))
		return
	}

	now := time.Now().UTC()
	_, err := h.DB.Orders.UpdateOne(context.TODO(),
		bson.M{"orderid": order.OrderID},
		bson.M{"$set": bson.M{"status": body.Status, "updatedAt": now}},
	)
	if err != nil {
		http.Error(w, "Failed to update order status", http.StatusInternalServerError)
		return
	}

	h.Emitter.Emit(context.Background(), models.OrderEvent{
		Type:      "order_status",
		OrderID:   order.OrderID,
		UserID:    order.UserID,
		Status:    body.Status,
		Timestamp: now.Unix(),
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "status": body.Status})
}

// UpdatePayment sets the payment status. Orders only count toward sales
// reports once payment is completed.
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	switch body.PaymentStatus {
	case models.PaymentPending, models.PaymentCompleted, models.PaymentFailed:
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown payment status")
		return
	}

	order, ok := h.fetchOrder(w, ps.ByName("id"))
	if !ok {
		return
	}

	_, err := h.DB.Orders.UpdateOne(context.TODO(),
		bson.M{"orderid": order.OrderID},
		bson.M{"$set": bson.M{"paymentStatus": body.PaymentStatus, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		http.Error(w, "Failed to update payment status", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "paymentStatus": body.PaymentStatus})
}

// PrintReceipt renders the order as a printable PDF.
func (h *Handler) PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	order, ok := h.fetchOrder(w, ps.ByName("id"))
	if !ok {
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if order.UserID != userID && !utils.Contains(utils.GetRolesFromRequest(r), "admin") {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	pdf, err := receipts.BuildReceipt(order)
	if err != nil {
		http.Error(w, "Failed to generate receipt", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
