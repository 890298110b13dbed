// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/savannahlabs/orders-backend/internal/auth"
	"github.com/savannahlabs/orders-backend/internal/config"
	"github.com/savannahlabs/orders-backend/internal/controller"
	"github.com/savannahlabs/orders-backend/internal/db"
	"github.com/savannahlabs/orders-backend/internal/handler"
	"github.com/savannahlabs/orders-backend/internal/logger"
	"github.com/savannahlabs/orders-backend/internal/model"
	"github.com/savannahlabs/orders-backend/internal/queue"
	"github.com/savannahlabs/orders-backend/internal/repository"
	"github.com/savannahlabs/orders-backend/internal/service"
	"github.com/savannahlabs/orders-backend/internal/sms"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		stdlog.Println("no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("loading config: %v", err)
	}

	log := logger.New(cfg.Log.Level)

	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	defer database.Close()
	log.Info("connected to database")

	customerRepo := &repository.CustomerRepository{DB: database}
	orderRepo := &repository.OrderRepository{DB: database}
	authRepo := &repository.AuthRepository{DB: database}

	if err := authRepo.EnsureSuperuser(model.User{
		Username:  cfg.Superuser.Username,
		Email:     cfg.Superuser.Email,
		FirstName: cfg.Superuser.FirstName,
		LastName:  cfg.Superuser.LastName,
	}, cfg.Superuser.Password); err != nil {
		log.Fatalf("failed to bootstrap superuser: %v", err)
	}
	log.Infof("superuser %q ensured", cfg.Superuser.Username)

	smsClient := sms.NewClient(cfg.SMS, log)
	notificationService := &service.NotificationService{
		OrderRepo: orderRepo,
		SMS:       smsClient,
		Log:       log,
	}

	// With a broker configured the worker binary drains the queue; without
	// one the subscriber runs in-process.
	var q queue.Queue
	if cfg.Queue.URL != "" {
		amqpQueue, err := queue.DialAMQP(cfg.Queue.URL, log)
		if err != nil {
			log.Fatalf("failed to connect to queue: %v", err)
		}
		defer amqpQueue.Close()
		q = amqpQueue
		log.Info("notifications dispatched via AMQP")
	} else {
		memQueue := queue.NewInMemoryQueue(log)
		queue.StartOrderNotificationSubscriber(memQueue, notificationService, log)
		q = memQueue
		log.Info("notifications dispatched via in-memory queue")
	}

	customerService := &service.CustomerService{
		CustomerRepo: customerRepo,
		Log:          log,
	}
	orderService := &service.OrderService{
		OrderRepo: orderRepo,
		Queue:     q,
		Log:       log,
	}

	customerController := &controller.CustomerController{
		CustomerService: customerService,
		Log:             log,
	}
	orderController := &controller.OrderController{
		OrderService: orderService,
		Log:          log,
	}

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authHandler := &handler.AuthHandler{
		AuthRepo: authRepo,
		Tokens:   tokenManager,
		Log:      log,
	}
	log.Warn("POST /api/v1/auth/create-app/ is unauthenticated; anyone can obtain client credentials")

	requireScopes := auth.RequireScopes(tokenManager, authRepo, log, "read", "write")

	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", authHandler.APIRoot)
		r.Get("/auth/info", authHandler.AuthInfo)
		r.Post("/auth/create-app", authHandler.CreateApp)

		r.Group(func(r chi.Router) {
			r.Use(requireScopes)

			r.Get("/customers", customerController.ListCustomers)
			r.Post("/customers", customerController.CreateCustomer)
			r.Get("/customers/{id}", customerController.GetCustomer)
			r.Put("/customers/{id}", customerController.UpdateCustomer)
			r.Patch("/customers/{id}", customerController.PatchCustomer)
			r.Delete("/customers/{id}", customerController.DeleteCustomer)

			r.Get("/orders", orderController.ListOrders)
			r.Post("/orders", orderController.CreateOrder)
			r.Get("/orders/{id}", orderController.GetOrder)
			r.Put("/orders/{id}", orderController.UpdateOrder)
			r.Patch("/orders/{id}", orderController.PatchOrder)
			r.Delete("/orders/{id}", orderController.DeleteOrder)
		})
	})

	r.Post("/oauth/token", authHandler.Token)
	r.Post("/oauth/revoke_token", authHandler.RevokeToken)
	r.Get("/oauth/authorize", authHandler.Authorize)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infof("server running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Info("server stopped gracefully")
}
