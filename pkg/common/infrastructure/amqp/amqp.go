// Package amqp wraps the RabbitMQ client into the small publish/subscribe
// surface the services need: durable named queues, JSON payloads,
// at-least-once delivery with ack-after-commit consumers.
package amqp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// Dial connects to the broker, retrying with exponential backoff so services
// survive starting before RabbitMQ is ready.
func Dial(url string) (*amqp.Connection, error) {
	var conn *amqp.Connection
	operation := func() error {
		var err error
		conn, err = amqp.Dial(url)
		if err != nil {
			log.WithError(err).Warn("waiting for rabbitmq")
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = time.Minute
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, errors.Wrap(err, "connect to rabbitmq")
	}
	return conn, nil
}

type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "open publish channel")
	}
	return &Publisher{ch: ch}, nil
}

// Publish marshals the message and sends it to the named durable queue.
// Fire-and-forget: there is no confirm, retry or outbox; a failed publish is
// logged by the caller and the event is lost.
func (p *Publisher) Publish(queue string, message interface{}) error {
	if _, err := p.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return errors.Wrapf(err, "declare queue %s", queue)
	}

	body, err := json.Marshal(message)
	if err != nil {
		return errors.Wrapf(err, "marshal message for %s", queue)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	return errors.Wrapf(err, "publish to %s", queue)
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// HandlerFunc processes one delivery body. A nil result acks the message,
// an error nacks it back onto the queue for redelivery.
type HandlerFunc func(body []byte) error

type Consumer struct {
	conn *amqp.Connection
}

func NewConsumer(conn *amqp.Connection) *Consumer {
	return &Consumer{conn: conn}
}

// Subscribe consumes the named queue until the context is cancelled.
func (c *Consumer) Subscribe(ctx context.Context, queue string, handler HandlerFunc) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return errors.Wrap(err, "open consume channel")
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return errors.Wrapf(err, "declare queue %s", queue)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return errors.Wrap(err, "set prefetch")
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return errors.Wrapf(err, "consume queue %s", queue)
	}

	log.WithField("queue", queue).Info("consumer started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.Errorf("delivery channel for %s closed", queue)
			}
			if err := handler(delivery.Body); err != nil {
				log.WithError(err).WithField("queue", queue).Error("handling message failed, requeueing")
				_ = delivery.Nack(false, true)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}
