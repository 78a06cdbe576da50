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
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hangraph/hangraph/core"
)

// Publisher sends ingestion events to the configured exchange. It is used
// by producing clients and by the CLI for manual event injection.
type Publisher struct {
	config  Config
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to the broker and declares the exchange, queue and
// binding so published events are routable even before a consumer starts.
func NewPublisher(config Config) (*Publisher, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid publisher config: %w", err)
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

	return &Publisher{config: config, conn: conn, channel: channel}, nil
}

// Publish validates and sends one event as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, event *core.Event) error {
	body, err := encodeEvent(event)
	if err != nil {
		return err
	}

	err = p.channel.PublishWithContext(ctx, p.config.Exchange, p.config.RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close closes the broker connection.
func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
