package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	applog "budgettracker/internal/log"

	"github.com/rabbitmq/amqp091-go"
)

// Circuit breaker states
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures    = 5
	openTimeout    = 30 * time.Second
	maxBackoff     = 30 * time.Second
	publishTimeout = 5 * time.Second
	publishRetries = 3
)

// AMQPPublisher publishes change messages to a durable topic exchange. The
// connection is opened on first use. Connection errors are retried with
// backoff only once a dial has succeeded; a broker that is down from the
// start fails the first attempt without waiting. Repeated failures open a
// circuit breaker.
type AMQPPublisher struct {
	url          string
	exchangeName string
	routingKey   string
	logger       *applog.Logger

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
	// connected is set after the first successful dial.
	connected bool

	state        int32
	failureCount int64
	lastFailure  time.Time
}

func NewAMQPPublisher(url, exchangeName, routingKey string, logger *applog.Logger) *AMQPPublisher {
	if logger == nil {
		logger = applog.Nop()
	}
	return &AMQPPublisher{
		url:          url,
		exchangeName: exchangeName,
		routingKey:   routingKey,
		logger:       logger.WithComponent(applog.ComponentEvents),
	}
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp091.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		p.exchangeName, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	p.conn = conn
	p.channel = channel
	p.connected = true
	return nil
}

func (p *AMQPPublisher) ensureChannel() error {
	if p.channel != nil && !p.channel.IsClosed() {
		return nil
	}
	p.closeLocked()
	return p.connect()
}

// PublishStateChanged publishes msg, retrying with exponential backoff on
// connection errors after the publisher has been connected once.
func (p *AMQPPublisher) PublishStateChanged(ctx context.Context, msg *StateChangedMessage) error {
	if p.isCircuitOpen() {
		return errors.New("circuit breaker is open, AMQP publishing suspended")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < publishRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(exponentialBackoff(attempt - 1)):
			}
		}

		lastErr = p.publish(ctx, body)
		if lastErr == nil {
			p.recordSuccess()
			p.logger.DebugContext(ctx, "Published state change",
				applog.FieldOperation, msg.Operation,
				"exchange", p.exchangeName,
				"routing_key", p.routingKey)
			return nil
		}
		if !isConnectionError(lastErr) || !p.hasConnected() {
			break
		}
		p.logger.WarnContext(ctx, "AMQP connection error, retrying",
			"attempt", attempt+1, applog.FieldError, lastErr)
	}

	p.recordFailure()
	return fmt.Errorf("publish message: %w", lastErr)
}

func (p *AMQPPublisher) publish(ctx context.Context, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		p.routingKey,   // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil && isConnectionError(err) {
		p.closeLocked()
	}
	return err
}

func (p *AMQPPublisher) hasConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func (p *AMQPPublisher) isCircuitOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if atomic.LoadInt32(&p.state) != StateOpen {
		return false
	}
	if time.Since(p.lastFailure) > openTimeout {
		atomic.StoreInt32(&p.state, StateHalfOpen)
		return false
	}
	return true
}

func (p *AMQPPublisher) recordSuccess() {
	atomic.StoreInt64(&p.failureCount, 0)
	atomic.StoreInt32(&p.state, StateClosed)
}

func (p *AMQPPublisher) recordFailure() {
	p.mu.Lock()
	p.lastFailure = time.Now()
	p.mu.Unlock()

	if atomic.AddInt64(&p.failureCount, 1) >= maxFailures ||
		atomic.LoadInt32(&p.state) == StateHalfOpen {
		atomic.StoreInt32(&p.state, StateOpen)
	}
}

func (p *AMQPPublisher) closeLocked() {
	if p.channel != nil {
		p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

// exponentialBackoff returns 1s, 2s, 4s, ... capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt >= 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "dial amqp"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
