package routes

import (
	"savoro/auth"
	"savoro/middleware"
	"savoro/notify"
	"savoro/offers"
	"savoro/orders"
	"savoro/products"
	"savoro/ratelim"
	"savoro/sales"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/login", rl.Limit(h.Login))
}

func AddProductRoutes(router *httprouter.Router, h *products.Handler, a *middleware.Auth, rl *ratelim.RateLimiter) {
	router.GET("/api/products", h.GetProducts)
	router.GET("/api/products/:id", h.GetProduct)
	router.POST("/api/products", rl.Limit(a.Authenticate(a.RequireRole("admin", h.CreateProduct))))
	router.PUT("/api/products/:id", a.Authenticate(a.RequireRole("admin", h.EditProduct)))
	router.DELETE("/api/products/:id", a.Authenticate(a.RequireRole("admin", h.DeleteProduct)))
}

func AddOfferRoutes(router *httprouter.Router, h *offers.Handler, a *middleware.Auth, rl *ratelim.RateLimiter) {
	router.GET("/api/offers", h.GetOffers)
	// httprouter cannot mix /api/offers/all with /api/offers/:id
	router.GET("/api/offers/all", a.Authenticate(a.RequireRole("admin", h.GetAllOffers)))
	router.GET("/api/offers/offer/:id", h.GetOffer)
	router.POST("/api/offers", rl.Limit(a.Authenticate(a.RequireRole("admin", h.CreateOffer))))
	router.PUT("/api/offers/offer/:id", a.Authenticate(a.RequireRole("admin", h.EditOffer)))
	router.DELETE("/api/offers/offer/:id", a.Authenticate(a.RequireRole("admin", h.DeleteOffer)))
}

func AddOrderRoutes(router *httprouter.Router, h *orders.Handler, a *middleware.Auth, rl *ratelim.RateLimiter) {
	router.POST("/api/orders", rl.Limit(a.Authenticate(h.CreateOrder)))
	router.GET("/api/orders", a.Authenticate(a.RequireRole("admin", h.GetOrders)))
	router.GET("/api/orders/mine", a.Authenticate(h.GetMyOrders))
	router.GET("/api/orders/order/:id", a.Authenticate(h.GetOrder))
	router.GET("/api/orders/order/:id/receipt", a.Authenticate(h.PrintReceipt))
	router.PUT("/api/orders/order/:id/status", a.Authenticate(a.RequireRole("admin", h.UpdateStatus)))
	router.PUT("/api/orders/order/:id/payment", a.Authenticate(a.RequireRole("admin", h.UpdatePayment)))
}

func AddSalesRoutes(router *httprouter.Router, h *sales.Handler, a *middleware.Auth) {
	router.GET("/api/sales/report", a.Authenticate(a.RequireRole("admin", h.Report)))
	router.GET("/api/sales/stats", a.Authenticate(a.RequireRole("admin", h.Stats)))
}

func AddNotifyRoutes(router *httprouter.Router, hub *notify.Hub, a *middleware.Auth) {
	router.GET("/ws/orders/:topic", notify.SubscribeHandler(hub, a))
}
