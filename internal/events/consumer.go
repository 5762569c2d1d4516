package events

import (
	"context"
	"errors"
	"fmt"

	applog "budgettracker/internal/log"

	"github.com/rabbitmq/amqp091-go"
)

// Handler processes one state change message. A returned error requeues
// the delivery once; a second failure drops it.
type Handler func(ctx context.Context, msg *StateChangedMessage) error

// AMQPConsumer reads state change messages from the topic exchange the
// publisher writes to.
type AMQPConsumer struct {
	url          string
	exchangeName string
	bindingKey   string
	queueName    string
	logger       *applog.Logger

	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// NewAMQPConsumer binds queueName to exchangeName with bindingKey. An empty
// queueName asks the broker for a private, auto-deleted queue.
func NewAMQPConsumer(url, exchangeName, bindingKey, queueName string, logger *applog.Logger) *AMQPConsumer {
	if logger == nil {
		logger = applog.Nop()
	}
	return &AMQPConsumer{
		url:          url,
		exchangeName: exchangeName,
		bindingKey:   bindingKey,
		queueName:    queueName,
		logger:       logger.WithComponent(applog.ComponentEvents),
	}
}

func (c *AMQPConsumer) setup() (string, error) {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return "", fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return "", fmt.Errorf("open channel: %w", err)
	}
	c.conn, c.channel = conn, channel

	err = channel.ExchangeDeclare(
		c.exchangeName, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return "", fmt.Errorf("declare exchange: %w", err)
	}

	private := c.queueName == ""
	q, err := channel.QueueDeclare(
		c.queueName, // name
		!private,    // durable
		private,     // delete when unused
		private,     // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return "", fmt.Errorf("declare queue: %w", err)
	}

	if err := channel.QueueBind(q.Name, c.bindingKey, c.exchangeName, false, nil); err != nil {
		return "", fmt.Errorf("bind queue: %w", err)
	}
	return q.Name, nil
}

// Consume delivers messages to handler until ctx is done or the broker
// closes the channel.
func (c *AMQPConsumer) Consume(ctx context.Context, handler Handler) error {
	queue, err := c.setup()
	if err != nil {
		c.Close()
		return err
	}

	msgs, err := c.channel.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack (we want manual ack)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.InfoContext(ctx, "Started consuming state changes",
		"exchange", c.exchangeName,
		"queue", queue)

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed")
			}
			c.handleDelivery(ctx, delivery, handler)
		}
	}
}

func (c *AMQPConsumer) handleDelivery(ctx context.Context, d amqp091.Delivery, handler Handler) {
	msg, err := StateChangedMessageFromJSON(d.Body)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to unmarshal message", applog.FieldError, err)
		_ = d.Nack(false, false) // reject and don't requeue
		return
	}

	if err := handler(ctx, msg); err != nil {
		c.logger.ErrorContext(ctx, "Failed to handle message",
			applog.FieldOperation, msg.Operation,
			applog.FieldExpenseID, msg.ExpenseID,
			applog.FieldError, err)
		_ = d.Nack(false, !d.Redelivered)
		return
	}

	_ = d.Ack(false)
}

func (c *AMQPConsumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
