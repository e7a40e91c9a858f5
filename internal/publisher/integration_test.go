//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"countries_fetcher/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) config(name string) Config {
	return Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-" + name,
		RoutingKey: "test-routing-key-" + name,
		QueueName:  "test-queue-" + name,
	}
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	pub, err := NewRabbitMQ(s.config("connect"), s.logger)
	s.NoError(err)
	s.NotNil(pub)

	s.NoError(pub.Close())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Progress() {
	cfg := s.config("progress")

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	pub.Progress(s.ctx, domain.Progress{LoadID: "load-1", Percent: 30, Message: "Fetching countries from the API!"})

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	var received LoadEvent
	s.Require().NoError(json.Unmarshal(msg.Body, &received))
	s.Equal(EventProgress, received.Type)
	s.Equal("load-1", received.LoadID)
	s.Equal(30, received.Percent)
	s.Equal("Fetching countries from the API!", received.Message)
	s.False(received.Timestamp.IsZero())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Complete() {
	cfg := s.config("complete")

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	pub.Complete(s.ctx, &domain.LoadResult{
		ID:        "load-2",
		Origin:    domain.OriginCache,
		Countries: []domain.Country{{Name: "Chad"}, {Name: "Mali"}},
	})

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	s.Equal("application/json", msg.ContentType)
	s.Equal(EventComplete, msg.Type)
	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)

	var received LoadEvent
	s.Require().NoError(json.Unmarshal(msg.Body, &received))
	s.Equal("load-2", received.LoadID)
	s.Equal(2, received.Count)
	s.Equal(domain.OriginCache, received.Origin)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_EventOrder() {
	cfg := s.config("order")

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	pub.Progress(s.ctx, domain.Progress{LoadID: "load-3", Percent: 10})
	pub.Warn(s.ctx, "load-3", "not saved")
	pub.Failed(s.ctx, "load-3", "gone")

	var types []string
	for i := 0; i < 3; i++ {
		msg := s.consumeMessage(cfg)
		s.Require().NotNil(msg)
		types = append(types, msg.Type)
	}
	s.Equal([]string{EventProgress, EventWarning, EventFailed}, types)
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msg, ok, err := ch.Get(cfg.QueueName, true)
	deadline := time.Now().Add(5 * time.Second)
	for err == nil && !ok && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
		msg, ok, err = ch.Get(cfg.QueueName, true)
	}
	s.Require().NoError(err)
	if !ok {
		s.Fail("Timeout waiting for message")
		return nil
	}
	return &msg
}
