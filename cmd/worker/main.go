// cmd/worker/main.go
//
// Drains the order_notifications queue: for each queued order id the worker
// re-fetches the order from the database and sends the SMS. Send failures are
// logged; nothing is retried here.
package main

import (
	stdlog "log"

	"github.com/joho/godotenv"

	"github.com/savannahlabs/orders-backend/internal/config"
	"github.com/savannahlabs/orders-backend/internal/db"
	"github.com/savannahlabs/orders-backend/internal/logger"
	"github.com/savannahlabs/orders-backend/internal/queue"
	"github.com/savannahlabs/orders-backend/internal/repository"
	"github.com/savannahlabs/orders-backend/internal/service"
	"github.com/savannahlabs/orders-backend/internal/sms"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdlog.Println("no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("loading config: %v", err)
	}
	if cfg.Queue.URL == "" {
		stdlog.Fatal("AMQP_URL must be set for the worker")
	}

	log := logger.New(cfg.Log.Level)

	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	defer database.Close()

	orderRepo := &repository.OrderRepository{DB: database}
	smsClient := sms.NewClient(cfg.SMS, log)
	notificationService := &service.NotificationService{
		OrderRepo: orderRepo,
		SMS:       smsClient,
		Log:       log,
	}

	amqpQueue, err := queue.DialAMQP(cfg.Queue.URL, log)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer amqpQueue.Close()

	queue.StartOrderNotificationSubscriber(amqpQueue, notificationService, log)

	log.Info("worker running, waiting for messages...")
	forever := make(chan bool)
	<-forever
}
