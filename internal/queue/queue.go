package queue

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// OrderNotifications is the topic carrying order ids awaiting SMS dispatch.
const OrderNotifications = "order_notifications"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue dispatches payloads to subscribers on goroutines. It backs
// the single-process deployment where no broker is configured.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
	log      *logrus.Logger
}

func NewInMemoryQueue(log *logrus.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
		log:      log,
	}
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		h := handler
		go func() {
			if err := h(payload); err != nil {
				q.log.Errorf("handler failed for topic %s: %v", topic, err)
			}
		}()
	}

	return nil
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// AMQPQueue publishes and consumes JSON payloads over a RabbitMQ channel.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  *logrus.Logger
}

func DialAMQP(url string, log *logrus.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open queue channel: %w", err)
	}
	return &AMQPQueue{conn: conn, ch: ch, log: log}, nil
}

func (q *AMQPQueue) Close() {
	q.ch.Close()
	q.conn.Close()
}

func (q *AMQPQueue) declare(topic string) (amqp.Queue, error) {
	return q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	queue, err := q.declare(topic)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return q.ch.Publish(
		"",
		queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Subscribe consumes the topic with manual acks. Handler errors are logged
// and the delivery is acked anyway; there is no retry at this layer.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	queue, err := q.declare(topic)
	if err != nil {
		return err
	}

	msgs, err := q.ch.Consume(
		queue.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for d := range msgs {
			var payload any
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				q.log.Errorf("invalid payload on %s: %v", topic, err)
				d.Ack(false)
				continue
			}

			if err := handler(payload); err != nil {
				q.log.Errorf("handler failed for topic %s: %v", topic, err)
			}
			d.Ack(false)
		}
	}()

	return nil
}

// NotificationHandler is the worker-side contract for a queued order id.
type NotificationHandler interface {
	SendOrderNotification(orderID string) bool
}

// StartOrderNotificationSubscriber attaches the notification handler to the
// order_notifications topic. The handler reports its outcome through logs
// only; the job never errors, so the queue never retries.
func StartOrderNotificationSubscriber(q Queue, notifier NotificationHandler, log *logrus.Logger) {
	err := q.Subscribe(OrderNotifications, func(payload any) error {
		orderID, ok := payload.(string)
		if !ok {
			log.Warnf("invalid payload type on %s, expected order id string", OrderNotifications)
			return nil // no retry
		}

		log.Infof("processing queued notification for order %s", orderID)
		sent := notifier.SendOrderNotification(orderID)
		log.Infof("notification job for order %s finished: %v", orderID, sent)
		return nil
	})
	if err != nil {
		log.Errorf("failed to start subscriber for %s: %v", OrderNotifications, err)
	}
}
