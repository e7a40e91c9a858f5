package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"countries_fetcher/internal/domain"
)

const (
	EventProgress = "progress"
	EventWarning  = "warning"
	EventComplete = "complete"
	EventFailed   = "failed"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQ publishes load events to a direct exchange. Publish failures are
// logged and never interrupt the load.
type RabbitMQ struct {
	conn       *amqp.Connection
	channel    channel
	exchange   string
	routingKey string
	logger     *slog.Logger
	now        func() time.Time
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	r := newRabbitMQ(ch, cfg.Exchange, cfg.RoutingKey, logger)
	r.conn = conn
	return r, nil
}

func newRabbitMQ(ch channel, exchange, routingKey string, logger *slog.Logger) *RabbitMQ {
	return &RabbitMQ{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger.With("component", "rabbitmq_publisher"),
		now:        time.Now,
	}
}

// LoadEvent is the message body for every published event.
type LoadEvent struct {
	Type      string        `json:"type"`
	LoadID    string        `json:"load_id"`
	Percent   int           `json:"percent,omitempty"`
	Message   string        `json:"message,omitempty"`
	Count     int           `json:"count,omitempty"`
	Origin    domain.Origin `json:"origin,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func (r *RabbitMQ) Progress(ctx context.Context, p domain.Progress) {
	r.publish(ctx, LoadEvent{
		Type:    EventProgress,
		LoadID:  p.LoadID,
		Percent: p.Percent,
		Message: p.Message,
	})
}

func (r *RabbitMQ) Warn(ctx context.Context, loadID, message string) {
	r.publish(ctx, LoadEvent{
		Type:    EventWarning,
		LoadID:  loadID,
		Message: message,
	})
}

func (r *RabbitMQ) Complete(ctx context.Context, result *domain.LoadResult) {
	r.publish(ctx, LoadEvent{
		Type:    EventComplete,
		LoadID:  result.ID,
		Percent: 100,
		Count:   len(result.Countries),
		Origin:  result.Origin,
	})
}

func (r *RabbitMQ) Failed(ctx context.Context, loadID, message string) {
	r.publish(ctx, LoadEvent{
		Type:    EventFailed,
		LoadID:  loadID,
		Message: message,
	})
}

func (r *RabbitMQ) publish(ctx context.Context, event LoadEvent) {
	if err := r.Publish(ctx, event); err != nil {
		r.logger.Warn("failed to publish load event",
			"type", event.Type,
			"load_id", event.LoadID,
			"error", err,
		)
	}
}

// Publish sends one event. The timestamp is set when empty.
func (r *RabbitMQ) Publish(ctx context.Context, event LoadEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = r.now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Type:         event.Type,
			Body:         body,
			Timestamp:    event.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	r.logger.Debug("published load event",
		"type", event.Type,
		"load_id", event.LoadID,
	)

	return nil
}

func (r *RabbitMQ) Close() error {
	if ch, ok := r.channel.(*amqp.Channel); ok && ch != nil {
		ch.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
