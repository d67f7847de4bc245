package rewards

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/cuckoo-ai/cuckoo/internal/logger"
)

const (
	// ExchangeName is the topic exchange completion events go to.
	ExchangeName = "cuckoo.rewards"

	// RoutingKeyCompleted is the routing key of course completion events.
	RoutingKeyCompleted = "course.completed"

	publishTimeout = 5 * time.Second
)

// channel is the subset of *amqp091.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher announces completions on a RabbitMQ topic exchange so that an
// external service can disburse rewards. With an empty URI it is disabled
// and every call is a no-op.
type Publisher struct {
	conn    *amqp091.Connection
	channel channel
	enabled bool
	log     *logger.Logger
}

// CompletionEvent is the message body published per completion.
type CompletionEvent struct {
	EventID string     `json:"eventId"`
	Type    string     `json:"type"`
	Data    Completion `json:"data"`
}

// NewPublisher connects to RabbitMQ and declares ExchangeName.
func NewPublisher(uri string, log *logger.Logger) (*Publisher, error) {
	if uri == "" {
		log.Warn("RabbitMQ URI is empty, reward events are disabled")
		return &Publisher{enabled: false, log: log}, nil
	}

	conn, err := amqp091.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		ExchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{conn: conn, channel: ch, enabled: true, log: log}, nil
}

func (p *Publisher) CourseCompleted(ctx context.Context, c Completion) error {
	if !p.enabled {
		return nil
	}

	body, err := json.Marshal(CompletionEvent{
		EventID: fmt.Sprintf("%s:%s", c.UserID, c.CourseID),
		Type:    RoutingKeyCompleted,
		Data:    c,
	})
	if err != nil {
		return fmt.Errorf("marshal completion event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		pubCtx,
		ExchangeName,
		RoutingKeyCompleted,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish completion event: %w", err)
	}

	p.log.Debug("published completion event", "user", c.UserID, "course", c.CourseID)
	return nil
}

func (p *Publisher) Close() error {
	if !p.enabled {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Warn("closing RabbitMQ channel", "error", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close RabbitMQ connection: %w", err)
		}
	}
	return nil
}
