// Package events connects the inventory service to the asset_events
// exchange: a long-lived consumer that applies checkout events to the
// asset table, and a publisher for emitting them.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/Pissaia92/assetforge-plataform/internal/db"
	"github.com/Pissaia92/assetforge-plataform/internal/metrics"
	"github.com/Pissaia92/assetforge-plataform/internal/repo"
)

const (
	ExchangeName = "asset_events"
	ExchangeType = "direct"
	QueueName    = "asset_checkout_queue"
	RoutingKey   = "asset.checked.out"

	reconnectInitial = 100 * time.Millisecond
	reconnectMax     = 5 * time.Second
)

// ackDecision is the explicit acknowledgment verdict for one delivery.
// Permanent failures (unparseable or incomplete events, unknown assets)
// are acked so the broker discards them; only transient store failures
// leave the message on the queue.
type ackDecision int

const (
	ackMessage ackDecision = iota
	requeueMessage
)

// Consumer is the long-lived checkout event consumer. It survives broker
// restarts by redialling indefinitely and stops only when its context is
// cancelled.
type Consumer struct {
	url     string
	tag     string
	repo    *repo.AssetRepository
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewConsumer creates a consumer that applies checkout events via the
// given repository.
func NewConsumer(url, tag string, repository *repo.AssetRepository, m *metrics.Metrics, log *zap.Logger) *Consumer {
	return &Consumer{
		url:     url,
		tag:     tag,
		repo:    repository,
		metrics: m,
		log:     log,
	}
}

// declareTopology idempotently declares the durable exchange, queue and
// binding. Repeated declarations with identical parameters do not error.
func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		ExchangeName,
		ExchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(
		QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(QueueName, RoutingKey, ExchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	return nil
}

// Run consumes checkout events until ctx is cancelled. Connection loss is
// never fatal: the loop redials with capped exponential backoff for as
// long as the service lives. Always returns nil on cancellation.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := reconnectInitial
	for {
		connected, err := c.consume(ctx)
		if ctx.Err() != nil {
			c.log.Info("consumer stopped")
			return nil
		}
		if connected {
			backoff = reconnectInitial
		}
		c.log.Warn("consumer connection lost, reconnecting",
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			c.log.Info("consumer stopped")
			return nil
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > reconnectMax {
			backoff = reconnectMax
		}
	}
}

// consume runs one broker session: dial, declare topology, then process
// deliveries until the connection drops or ctx is cancelled. The returned
// bool reports whether a connection was established at all.
func (c *Consumer) consume(ctx context.Context) (bool, error) {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return false, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return true, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := declareTopology(ch); err != nil {
		return true, err
	}

	deliveries, err := ch.Consume(
		QueueName,
		c.tag, // consumer tag
		false, // auto-ack: acknowledgment is decided after processing
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return true, fmt.Errorf("failed to register consumer: %w", err)
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	c.log.Info("consumer ready",
		zap.String("queue", QueueName),
		zap.String("binding", RoutingKey),
	)

	for {
		select {
		case <-ctx.Done():
			return true, nil
		case amqpErr := <-closed:
			if amqpErr == nil {
				return true, errors.New("connection closed")
			}
			return true, amqpErr
		case d, ok := <-deliveries:
			if !ok {
				return true, errors.New("delivery channel closed")
			}
			c.dispatch(ctx, d)
		}
	}
}

// dispatch applies the handler's verdict to the broker. An ack failure is
// only logged: the broker will redeliver and application is idempotent.
func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery) {
	switch c.handle(ctx, d.Body) {
	case requeueMessage:
		if err := d.Nack(false, true); err != nil {
			c.log.Error("failed to nack delivery", zap.Error(err))
		}
	default:
		if err := d.Ack(false); err != nil {
			c.log.Error("failed to ack delivery", zap.Error(err))
		}
	}
}

// handle processes one checkout event payload and returns the
// acknowledgment decision. One bad message never terminates the
// subscription.
func (c *Consumer) handle(ctx context.Context, body []byte) ackDecision {
	var event AssetCheckedOutEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.log.Error("discarding undecodable checkout event",
			zap.ByteString("payload", body),
			zap.Error(err),
		)
		c.metrics.CheckoutEvents.WithLabelValues(metrics.OutcomeDiscarded).Inc()
		return ackMessage
	}

	if event.AssetID == 0 || event.EmployeeID == "" {
		c.log.Error("discarding incomplete checkout event", zap.ByteString("payload", body))
		c.metrics.CheckoutEvents.WithLabelValues(metrics.OutcomeDiscarded).Inc()
		return ackMessage
	}

	_, err := c.repo.UpdateStatusAndAssignee(ctx, event.AssetID, db.StatusInUse, event.EmployeeID)
	if errors.Is(err, repo.ErrAssetNotFound) {
		c.log.Warn("checkout event references unknown asset",
			zap.Int64("asset_id", event.AssetID),
			zap.String("employee_id", event.EmployeeID),
		)
		c.metrics.CheckoutEvents.WithLabelValues(metrics.OutcomeUnknownAsset).Inc()
		return ackMessage
	}
	if err != nil {
		c.log.Error("failed to apply checkout event, leaving for redelivery",
			zap.Int64("asset_id", event.AssetID),
			zap.ByteString("payload", body),
			zap.Error(err),
		)
		c.metrics.CheckoutEvents.WithLabelValues(metrics.OutcomeRequeued).Inc()
		return requeueMessage
	}

	c.log.Info("asset checked out",
		zap.Int64("asset_id", event.AssetID),
		zap.String("employee_id", event.EmployeeID),
	)
	c.metrics.CheckoutEvents.WithLabelValues(metrics.OutcomeApplied).Inc()
	return ackMessage
}
