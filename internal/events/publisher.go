package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher emits checkout events on the asset_events exchange. The
// inventory service itself only consumes; this is used by the checkout
// CLI and by wire-format tests.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *zap.Logger
}

// NewPublisher connects to RabbitMQ and declares the checkout topology.
func NewPublisher(url string, log *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("publisher connected", zap.String("exchange", ExchangeName))

	return &Publisher{
		conn:    conn,
		channel: ch,
		log:     log,
	}, nil
}

// PublishCheckout publishes an asset.checked.out event for the given
// asset/employee pair.
func (p *Publisher) PublishCheckout(ctx context.Context, assetID int64, employeeID string) error {
	if assetID == 0 || employeeID == "" {
		return fmt.Errorf("assetId and employeeId are required for checkout")
	}

	event := AssetCheckedOutEvent{
		AssetID:    assetID,
		EmployeeID: employeeID,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.New().String(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.log.Info("checkout event published",
		zap.Int64("asset_id", assetID),
		zap.String("employee_id", employeeID),
	)
	return nil
}

// IsHealthy checks if the publisher connection is alive.
func (p *Publisher) IsHealthy() bool {
	return p.conn != nil && !p.conn.IsClosed()
}

// Close closes the channel and connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Error("failed to close channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.log.Error("failed to close connection", zap.Error(err))
			return err
		}
	}
	return nil
}
