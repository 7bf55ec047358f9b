package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/linknk/satellite-payments/internal/port/output"
)

const (
	ExchangeName  = "payments"
	QueueName     = "subscription_activation"
	RoutingKey    = "payment.session.finalized"
	PrefetchCount = 1 // Process one message at a time per worker
)

// Acknowledger is the subset of amqp.Delivery the consumer needs
type Acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// Decision tells the consumer what to do with a processed delivery
type Decision int

const (
	Ack Decision = iota
	Requeue
	Drop
)

// EventHandler processes one finalized-session event
type EventHandler func(ctx context.Context, event output.SessionFinalizedEvent) error

// Classifier decides whether a handler error should be requeued
type Classifier func(err error) bool

// RabbitMQClient is a secondary adapter that implements the PaymentEvents output port
type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *log.Logger
}

// NewRabbitMQClient creates a new RabbitMQ client (returns interface for ports)
func NewRabbitMQClient(amqpURL string, logger *log.Logger) (output.PaymentEvents, error) {
	return NewRabbitMQClientConcrete(amqpURL, logger)
}

// NewRabbitMQClientConcrete creates a new RabbitMQ client (returns concrete type for workers)
func NewRabbitMQClientConcrete(amqpURL string, logger *log.Logger) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &RabbitMQClient{
		conn:    conn,
		channel: channel,
		logger:  logger,
	}, nil
}

func declareTopology(channel *amqp.Channel) error {
	err := channel.ExchangeDeclare(
		ExchangeName,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := channel.QueueBind(QueueName, RoutingKey, ExchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	return nil
}

// EncodeEvent builds the AMQP message for an event
func EncodeEvent(event output.SessionFinalizedEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID.String(),
		Body:         body,
		Timestamp:    time.Now(),
	}, nil
}

// PublishSessionFinalized publishes a finalized-session event
func (c *RabbitMQClient) PublishSessionFinalized(ctx context.Context, event output.SessionFinalizedEvent) error {
	msg, err := EncodeEvent(event)
	if err != nil {
		return err
	}

	err = c.channel.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	c.logger.Infof("Published %s event for %s", event.Status, event.CheckoutRequestID)
	return nil
}

// ConsumeSessionEvents starts consuming finalized-session events until ctx is done
func (c *RabbitMQClient) ConsumeSessionEvents(ctx context.Context, handler EventHandler, terminal Classifier) error {
	// Set QoS to process one message at a time
	if err := c.channel.Qos(PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.channel.Consume(
		QueueName,
		"",    // consumer tag
		false, // auto-ack (we'll manually ack after processing)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Started consuming session events...")

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				c.settle(&msg, HandleDelivery(ctx, msg.Body, handler, terminal, c.logger))
			}
		}
	}()

	return nil
}

func (c *RabbitMQClient) settle(msg Acknowledger, decision Decision) {
	var err error
	switch decision {
	case Ack:
		err = msg.Ack(false)
	case Requeue:
		err = msg.Nack(false, true)
	case Drop:
		err = msg.Nack(false, false)
	}
	if err != nil {
		c.logger.Errorf("Failed to settle delivery: %v", err)
	}
}

// HandleDelivery decodes and processes one message body and decides its fate.
// Malformed bodies are dropped, terminal errors acknowledged, others requeued.
func HandleDelivery(ctx context.Context, body []byte, handler EventHandler, terminal Classifier, logger *log.Logger) Decision {
	var event output.SessionFinalizedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Errorf("Error unmarshaling event: %v", err)
		return Drop
	}

	if err := handler(ctx, event); err != nil {
		if terminal != nil && terminal(err) {
			logger.Warnf("Event for %s not retried: %v", event.CheckoutRequestID, err)
			return Ack
		}
		logger.Errorf("Error processing event for %s: %v", event.CheckoutRequestID, err)
		return Requeue
	}

	logger.Infof("Successfully processed event for %s", event.CheckoutRequestID)
	return Ack
}

// Close closes the RabbitMQ connection
func (c *RabbitMQClient) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
