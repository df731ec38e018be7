package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"talent-match/internal/config"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

var ErrClosed = errors.New("queue closed")

// ParseRequest asks a worker to parse one uploaded resume.
type ParseRequest struct {
	ResumeID    uuid.UUID `json:"resume_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
}

// Publisher enqueues parse requests.
type Publisher interface {
	PublishParse(ctx context.Context, req ParseRequest) error
}

// Handler processes one delivery. A nil error acks it. A context error
// requeues it for another worker; anything else nacks it without requeue.
type Handler func(ctx context.Context, req ParseRequest) error

type RabbitMQ struct {
	conn   *amqp.Connection
	queue  string
	logger *log.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

func Dial(cfg config.QueueConfig, logger *log.Logger) (*RabbitMQ, error) {
	if logger == nil {
		logger = log.Default()
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declare(ch, cfg.Name); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &RabbitMQ{conn: conn, queue: cfg.Name, logger: logger, ch: ch}, nil
}

func declare(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	return nil
}

func (q *RabbitMQ) PublishParse(ctx context.Context, req ParseRequest) error {
	if q == nil || q.conn == nil {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	err = q.ch.Publish(
		"",      // default exchange
		q.queue, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    req.ResumeID.String(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish parse request %s: %w", req.ResumeID, err)
	}
	return nil
}

// Consume reads deliveries on its own channel until ctx is done or the
// channel closes. Each delivery is passed to h and acked or nacked.
func (q *RabbitMQ) Consume(ctx context.Context, consumer string, prefetch int, h Handler) error {
	if q == nil || q.conn == nil {
		return ErrClosed
	}

	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("open consumer channel: %w", err)
	}
	defer ch.Close()

	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			return fmt.Errorf("set qos: %w", err)
		}
	}

	deliveries, err := ch.Consume(
		q.queue,
		consumer,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume %s: %w", q.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrClosed
			}
			q.handle(ctx, consumer, d, h)
		}
	}
}

func (q *RabbitMQ) handle(ctx context.Context, consumer string, d amqp.Delivery, h Handler) {
	var req ParseRequest
	if err := json.Unmarshal(d.Body, &req); err != nil || req.ResumeID == uuid.Nil {
		q.logger.Printf("queue=%s consumer=%s status=rejected reason=bad_payload err=%v", q.queue, consumer, err)
		_ = d.Nack(false, false)
		return
	}

	if err := h(ctx, req); err != nil {
		requeue := shouldRequeue(err)
		q.logger.Printf("queue=%s consumer=%s resume_id=%s status=failed requeue=%t err=%v", q.queue, consumer, req.ResumeID, requeue, err)
		_ = d.Nack(false, requeue)
		return
	}
	_ = d.Ack(false)
}

func shouldRequeue(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (q *RabbitMQ) Close() error {
	if q == nil || q.conn == nil {
		return nil
	}
	q.mu.Lock()
	if q.ch != nil {
		_ = q.ch.Close()
	}
	q.mu.Unlock()
	return q.conn.Close()
}

func (q *RabbitMQ) Healthy() bool {
	return q != nil && q.conn != nil && !q.conn.IsClosed()
}
