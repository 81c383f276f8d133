package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/bloodconnect/bloodconnect-service/internal/config"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

// amqpChannel is the slice of *amqp.Channel the publisher needs.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQBroker implements ports.SyncTarget by publishing every mirrored
// row to a durable queue.
type RabbitMQBroker struct {
	conn      *amqp.Connection
	ch        amqpChannel
	queueName string
	cb        *gobreaker.CircuitBreaker
	now       func() time.Time
}

var _ ports.SyncTarget = (*RabbitMQBroker)(nil)

// MirrorMessage is the JSON body of one published row.
type MirrorMessage struct {
	Target     string    `json:"target"`
	Values     []string  `json:"values"`
	AppendedAt time.Time `json:"appended_at"`
}

func NewRabbitMQBroker(amqpURL, queueName string, logger *zap.Logger) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Declare the queue (idempotent)
	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return newBroker(conn, ch, queueName, logger), nil
}

func newBroker(conn *amqp.Connection, ch amqpChannel, queueName string, logger *zap.Logger) *RabbitMQBroker {
	return &RabbitMQBroker{
		conn:      conn,
		ch:        ch,
		queueName: queueName,
		cb:        config.NewCircuitBreaker(config.RabbitMQBreaker, logger),
		now:       time.Now,
	}
}

func (rmq *RabbitMQBroker) Append(ctx context.Context, target string, values []string) error {
	msg, err := rmq.publishing(target, values)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		return nil, rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			msg,
		)
	})
	return err
}

func (rmq *RabbitMQBroker) publishing(target string, values []string) (amqp.Publishing, error) {
	body, err := json.Marshal(MirrorMessage{
		Target:     target,
		Values:     values,
		AppendedAt: rmq.now().UTC(),
	})
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         target,
		Body:         body,
	}, nil
}

func (rmq *RabbitMQBroker) Close() error {
	if rmq.ch != nil {
		if err := rmq.ch.Close(); err != nil {
			return err
		}
	}
	if rmq.conn != nil {
		return rmq.conn.Close()
	}
	return nil
}
