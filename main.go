package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"savoro/auth"
	"savoro/config"
	"savoro/db"
	"savoro/mediahost"
	"savoro/middleware"
	"savoro/mq"
	"savoro/notify"
	"savoro/offers"
	"savoro/orders"
	"savoro/products"
	"savoro/ratelim"
	"savoro/rdx"
	"savoro/routes"
	"savoro/sales"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Database error: %v", err)
	}

	cache := rdx.New(cfg.RedisAddr)
	media := mediahost.New(cfg.MediaHostURL, cfg.MediaHostKey)
	authMW := middleware.NewAuth(cfg.JwtSecret)
	rateLimiter := ratelim.NewRateLimiter()
	emitter := mq.NewEmitter(cache)

	// notification hub + the Redis relay feeding it
	hub := notify.NewHub()
	go hub.Run()
	go mq.StartRelay(ctx, cache, hub)

	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddAuthRoutes(router, auth.NewHandler(database, cfg.JwtSecret), rateLimiter)
	routes.AddProductRoutes(router, products.NewHandler(database, cache, media), authMW, rateLimiter)
	routes.AddOfferRoutes(router, offers.NewHandler(database, media), authMW, rateLimiter)
	routes.AddOrderRoutes(router, orders.NewHandler(database, emitter), authMW, rateLimiter)
	routes.AddSalesRoutes(router, sales.NewHandler(database), authMW)
	routes.AddNotifyRoutes(router, hub, authMW)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Shutting down notification hub...")
		hub.Stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	cancel() // stops the order-event relay
	if err := cache.Close(); err != nil {
		log.Printf("Redis close error: %v", err)
	}
	if err := database.Close(context.Background()); err != nil {
		log.Printf("Mongo disconnect error: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
