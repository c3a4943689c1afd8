package services

import (
	"context"
	"encoding/json"
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/utils/logger"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RescheduleRoutingKey is the routing key of reschedule notifications
const RescheduleRoutingKey = "appointment.rescheduled"

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPReschedulePublisher publishes reschedule notifications to a topic exchange
type AMQPReschedulePublisher struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	timeout  time.Duration
	logger   logger.Logger
}

// NewAMQPReschedulePublisher dials RabbitMQ and declares the exchange
func NewAMQPReschedulePublisher(cfg *models.Config, log logger.Logger) (*AMQPReschedulePublisher, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.RescheduleExchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.RescheduleExchange, err)
	}

	log.Infof("✅ Reschedule publisher connected, exchange %s", cfg.RescheduleExchange)

	p := newAMQPReschedulePublisher(ch, cfg.RescheduleExchange, cfg.PublishTimeout, log)
	p.conn = conn
	return p, nil
}

func newAMQPReschedulePublisher(ch amqpChannel, exchange string, timeout time.Duration, log logger.Logger) *AMQPReschedulePublisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AMQPReschedulePublisher{
		channel:  ch,
		exchange: exchange,
		timeout:  timeout,
		logger:   log,
	}
}

// PublishReschedule sends msg as a persistent JSON message
func (p *AMQPReschedulePublisher) PublishReschedule(ctx context.Context, msg models.RescheduleMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode reschedule message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, p.exchange, RescheduleRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.New().String(),
		Timestamp:    msg.OccurredAt,
		Type:         RescheduleRoutingKey,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish reschedule of appointment %d: %w", msg.Patch.ID, err)
	}

	p.logger.Debugf("Published reschedule of appointment %d", msg.Patch.ID)
	return nil
}

func (p *AMQPReschedulePublisher) Close() error {
	err := p.channel.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// noopReschedulePublisher is used when no RabbitMQ URL is configured
type noopReschedulePublisher struct{}

func NewNoopReschedulePublisher() ReschedulePublisher {
	return noopReschedulePublisher{}
}

func (noopReschedulePublisher) PublishReschedule(context.Context, models.RescheduleMessage) error {
	return nil
}

func (noopReschedulePublisher) Close() error { return nil }
