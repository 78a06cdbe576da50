// Copyright 2026 Hangraph Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/panjf2000/ants/v2"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hangraph/hangraph/core"
)

// Handler processes one decoded ingestion event. A returned error wrapping
// core.ErrInvalidEvent marks the event as unprocessable; any other error is
// treated as transient and the delivery is requeued.
type Handler func(ctx context.Context, event *core.Event) error

// Consumer subscribes to the ingestion queue and dispatches deliveries to a
// Handler on a worker pool. Delivery is at-least-once: transient failures
// are requeued, so handlers must tolerate replays.
type Consumer struct {
	config  Config
	conn    *amqp.Connection
	channel *amqp.Channel
	handler Handler
	pool    *ants.Pool
	logger  *slog.Logger
	done    chan struct{}
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ConsumerOption {
	return func(c *Consumer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConsumer connects to the broker, declares the exchange, queue and
// binding, and prepares a worker pool. Consumption starts with Run.
func NewConsumer(config Config, handler Handler, opts ...ConsumerOption) (*Consumer, error) {
	if handler == nil {
		return nil, errors.New("handler required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid consumer config: %w", err)
	}

	conn, err := amqp.Dial(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	channel, err := setupTopology(conn, config)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := channel.Qos(config.Prefetch, 0, false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set prefetch: %w", err)
	}

	pool, err := ants.NewPool(config.Workers)
	if err != nil {
		conn.Close()
		return nil, err
	}

	consumer := &Consumer{
		config:  config,
		conn:    conn,
		channel: channel,
		handler: handler,
		pool:    pool,
		logger:  slog.Default(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(consumer)
	}
	consumer.logger = consumer.logger.With("component", "amqp_consumer")
	return consumer, nil
}

func setupTopology(conn *amqp.Connection, config Config) (*amqp.Channel, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(config.Exchange, "direct", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %q: %w", config.Exchange, err)
	}
	if _, err := channel.QueueDeclare(config.Queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare queue %q: %w", config.Queue, err)
	}
	if err := channel.QueueBind(config.Queue, config.RoutingKey, config.Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind queue %q: %w", config.Queue, err)
	}
	return channel, nil
}

// Run consumes deliveries until the context is canceled or the channel
// closes. Each delivery is handled on the worker pool and acknowledged
// according to the handler outcome.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.channel.ConsumeWithContext(ctx, c.config.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming from %q: %w", c.config.Queue, err)
	}
	c.logger.Info("consuming events",
		"queue", c.config.Queue,
		"workers", c.config.Workers)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			if err := c.pool.Submit(func() {
				c.handleDelivery(ctx, delivery)
			}); err != nil {
				c.logger.Error("failed to submit delivery", "err", err)
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					c.logger.Error("failed to nack delivery", "err", nackErr)
				}
			}
		}
	}
}

// handleDelivery decodes and processes one delivery, then settles it.
// Unprocessable events are acked so the broker drops them; transient
// failures are nacked with requeue for redelivery. Integrity failures are
// dropped too: redelivery cannot fix them, so requeueing would only spin
// the same message until an operator intervenes.
func (c *Consumer) handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	event, err := decodeEvent(delivery.Body)
	if err != nil {
		c.logger.Error("dropping unprocessable event", "err", err)
		c.settle(delivery, false)
		return
	}

	if err := c.handler(ctx, event); err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidEvent):
			c.logger.Error("dropping invalid event",
				"user_id", event.UserID,
				"err", err)
			c.settle(delivery, false)
		case errors.Is(err, core.ErrModelVersionMismatch):
			c.logger.Error("dropping event on archive integrity failure, reembed migration required",
				"user_id", event.UserID,
				"err", err)
			c.settle(delivery, false)
		default:
			c.logger.Warn("event processing failed, requeueing",
				"user_id", event.UserID,
				"err", err)
			c.settle(delivery, true)
		}
		return
	}

	c.settle(delivery, false)
}

// settle acks the delivery, or nacks it with requeue when requeue is true.
func (c *Consumer) settle(delivery amqp.Delivery, requeue bool) {
	var err error
	if requeue {
		err = delivery.Nack(false, true)
	} else {
		err = delivery.Ack(false)
	}
	if err != nil {
		c.logger.Error("failed to settle delivery", "requeue", requeue, "err", err)
	}
}

// Close stops consumption, releases the worker pool, and closes the broker
// connection. Unsettled deliveries are requeued by the broker on close.
func (c *Consumer) Close() error {
	close(c.done)
	c.pool.Release()
	if err := c.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		c.conn.Close()
		return err
	}
	if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	return nil
}
