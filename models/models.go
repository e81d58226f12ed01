package models

import (
	"time"
)

// ImageRef points at an asset on the external media host. DeleteRef is the
// opaque id the host hands back for later deletion; only the URL is public.
type ImageRef struct {
	URL       string `bson:"url" json:"url"`
	DeleteRef string `bson:"deleteRef" json:"-"`
}

// Product struct for MongoDB documents
type Product struct {
	ProductID   string    `bson:"productid" json:"productid"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	Category    string    `bson:"category" json:"category"`
	Price       float64   `bson:"price" json:"price"`
	Featured    bool      `bson:"featured" json:"featured"`
	Image       ImageRef  `bson:"image" json:"image"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Offer is a discount code with a validity window and minimum spend
// threshold. Code is stored upper-cased; uniqueness is case-insensitive by
// construction.
type Offer struct {
	OfferID         string    `bson:"offerid" json:"offerid"`
	Title           string    `bson:"title" json:"title"`
	Description     string    `bson:"description" json:"description"`
	DiscountPercent float64   `bson:"discountPercent" json:"discountPercent"`
	Code            string    `bson:"code" json:"code"`
	ValidFrom       time.Time `bson:"validFrom" json:"validFrom"`
	ValidUntil      time.Time `bson:"validUntil" json:"validUntil"`
	IsActive        bool      `bson:"isActive" json:"isActive"`
	MinOrderAmount  float64   `bson:"minOrderAmount" json:"minOrderAmount"`
	Image           ImageRef  `bson:"image" json:"image"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type DeliveryType string

const (
	DeliveryPickup   DeliveryType = "pickup"
	DeliveryDelivery DeliveryType = "delivery"
)

// OrderItem snapshots name and unit price at order time.
type OrderItem struct {
	Name     string  `bson:"name" json:"name"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Price    float64 `bson:"price" json:"price"`
}

type Order struct {
	OrderID        string        `bson:"orderid" json:"orderid"`
	UserID         string        `bson:"userid" json:"userid"`
	CustomerName   string        `bson:"customerName" json:"customerName"`
	Phone          string        `bson:"phone" json:"phone"`
	DeliveryType   DeliveryType  `bson:"deliveryType" json:"deliveryType"`
	Address        string        `bson:"address,omitempty" json:"address,omitempty"`
	Items          []OrderItem   `bson:"items" json:"items"`
	DeliveryCharge float64       `bson:"deliveryCharge" json:"deliveryCharge"`
	TotalAmount    float64       `bson:"totalAmount" json:"totalAmount"`
	Status         OrderStatus   `bson:"status" json:"status"`
	PaymentStatus  PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt" json:"updatedAt"`
}

type User struct {
	UserID    string    `bson:"userid" json:"userid"`
	Username  string    `bson:"username" json:"username"`
	Password  string    `bson:"password" json:"-"`
	Role      []string  `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// SalesSummary is the pure aggregation output for one reporting window.
type SalesSummary struct {
	TotalSales           float64        `json:"totalSales"`
	OrderCount           int            `json:"orderCount"`
	TotalDeliveryCharges float64        `json:"totalDeliveryCharges"`
	AverageOrderValue    float64        `json:"averageOrderValue"`
	PickupCount          int            `json:"pickupCount"`
	DeliveryCount        int            `json:"deliveryCount"`
	StatusCounts         map[string]int `json:"statusCounts"`
}

// SalesReport bundles a summary with its window and the orders behind it.
type SalesReport struct {
	Period    string       `json:"period"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Summary   SalesSummary `json:"summary"`
	Orders    []Order      `json:"orders"`
}

// OrderEvent is the payload published on the order event channel and pushed
// to websocket subscribers.
type OrderEvent struct {
	Type      string      `json:"type"`
	OrderID   string      `json:"orderid"`
	UserID    string      `json:"userid"`
	Status    OrderStatus `json:"status"`
	Timestamp int64       `json:"timestamp"`
}
