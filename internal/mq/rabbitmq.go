package mq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/anudeepvarma123/TalentTrack/internal/config"
	"github.com/anudeepvarma123/TalentTrack/internal/logger"
)

var ErrChannelUnavailable = errors.New("rabbitmq channel not available")

const (
	maxConnectAttempts = 5
	maxRetryDelay      = 30 * time.Second
	publishTimeout     = 5 * time.Second
)

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// dialFunc opens a connection and a channel with the exchange declared.
type dialFunc func(url, exchange string) (io.Closer, channel, error)

// RabbitMQ holds one connection and channel for publishing notifications.
type RabbitMQ struct {
	url      string
	exchange string
	dial     dialFunc
	log      *logger.ContextLogger

	mu     sync.RWMutex
	conn   io.Closer
	ch     channel
	closed bool
}

func newRabbitMQ(cfg config.AMQPConfig, dial dialFunc, log *logger.Logger) *RabbitMQ {
	return &RabbitMQ{
		url:      cfg.URL,
		exchange: cfg.Exchange,
		dial:     dial,
		log:      log.WithFields(map[string]any{"exchange": cfg.Exchange}),
	}
}

// NewRabbitMQ dials with backoff and declares the durable topic exchange.
func NewRabbitMQ(ctx context.Context, cfg config.AMQPConfig, log *logger.Logger) (*RabbitMQ, error) {
	mq := newRabbitMQ(cfg, dialAMQP, log)

	retryDelay := time.Second
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		err := mq.connect()
		if err == nil {
			mq.log.Info(logger.Entry{
				Action:     "rabbitmq_connected",
				Message:    "connected",
				Additional: map[string]any{"attempt": attempt},
			})
			return mq, nil
		}

		mq.log.Error(logger.Entry{
			Action:  "rabbitmq_connection_attempt_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"attempt":      attempt,
				"max_retries":  maxConnectAttempts,
				"retry_in_sec": retryDelay.Seconds(),
			},
		})
		if attempt == maxConnectAttempts {
			return nil, fmt.Errorf("connect to rabbitmq after %d attempts: %w", maxConnectAttempts, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
			retryDelay = time.Duration(float64(retryDelay) * 1.5)
			if retryDelay > maxRetryDelay {
				retryDelay = maxRetryDelay
			}
		}
	}
	return nil, fmt.Errorf("connect to rabbitmq: retry loop exhausted")
}

func dialAMQP(url, exchange string) (io.Closer, channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return conn, ch, nil
}

// connect swaps in a fresh connection. After Close it discards the new
// connection and reports ErrChannelUnavailable.
func (mq *RabbitMQ) connect() error {
	conn, ch, err := mq.dial(mq.url, mq.exchange)
	if err != nil {
		return err
	}

	mq.mu.Lock()
	if mq.closed {
		mq.mu.Unlock()
		_ = ch.Close()
		_ = conn.Close()
		return ErrChannelUnavailable
	}
	old := mq.conn
	mq.conn = conn
	mq.ch = ch
	mq.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Publish sends a persistent JSON message. A closed channel is reopened once
// before giving up.
func (mq *RabbitMQ) Publish(ctx context.Context, routingKey string, body []byte) error {
	mq.mu.RLock()
	ch, closed := mq.ch, mq.closed
	mq.mu.RUnlock()
	if closed {
		return ErrChannelUnavailable
	}

	if ch == nil || ch.IsClosed() {
		mq.log.Warn(logger.Entry{Action: "rabbitmq_reconnect", Message: "channel closed, reconnecting"})
		if err := mq.connect(); err != nil {
			if errors.Is(err, ErrChannelUnavailable) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrChannelUnavailable, err)
		}
		mq.mu.RLock()
		ch = mq.ch
		mq.mu.RUnlock()
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return ch.PublishWithContext(publishCtx, mq.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
}

func (mq *RabbitMQ) Close() {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	if mq.closed {
		return
	}
	mq.closed = true

	if mq.ch != nil {
		_ = mq.ch.Close()
	}
	if mq.conn != nil {
		_ = mq.conn.Close()
	}
	mq.log.Info(logger.Entry{Action: "rabbitmq_closed", Message: "connection closed"})
}
