package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher enqueues MailJobs. It satisfies service.Mailer, so the auth flow can
// use it in place of a direct mailer. The connection is opened lazily and
// re-dialed after a failure.
type Publisher struct {
	URL   string
	Queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string, queue string) *Publisher {
	if queue == "" {
		queue = DefaultMailQueue
	}
	return &Publisher{URL: url, Queue: queue}
}

func (p *Publisher) Send(ctx context.Context, to string, subject string, html string) error {
	body, err := json.Marshal(MailJob{To: to, Subject: subject, HTML: html, EnqueuedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal mail job: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx, "", p.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.reset()
		return fmt.Errorf("publish mail job: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	p.ch, p.conn = nil, nil
	return err
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := declare(ch, p.Queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

// DeadLetterQueue names the queue that receives jobs rejected by the worker.
func DeadLetterQueue(queue string) string {
	return queue + ".dead"
}

// RetryQueue names the queue where failed jobs wait out their backoff. It has
// no consumers; expired jobs are dead-lettered back to queue.
func RetryQueue(queue string) string {
	return queue + ".retry"
}

// declare sets up queue with its dead-letter and retry queues. Rejected jobs
// are routed through the default exchange to DeadLetterQueue(queue).
func declare(ch *amqp.Channel, queue string) (amqp.Queue, error) {
	dead := DeadLetterQueue(queue)
	if _, err := ch.QueueDeclare(dead, true, false, false, false, nil); err != nil {
		return amqp.Queue{}, declareError(dead, err)
	}
	retry := RetryQueue(queue)
	if _, err := ch.QueueDeclare(retry, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": queue,
	}); err != nil {
		return amqp.Queue{}, declareError(retry, err)
	}
	q, err := ch.QueueDeclare(queue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dead,
	})
	if err != nil {
		return q, declareError(queue, err)
	}
	return q, nil
}

// declareError names the fix when the broker already holds queue with other
// arguments, which it reports as PRECONDITION_FAILED.
func declareError(queue string, err error) error {
	var amqpErr *amqp.Error
	if errors.As(err, &amqpErr) && amqpErr.Code == amqp.PreconditionFailed {
		return fmt.Errorf("queue %q exists with different arguments, delete it or set MAIL_QUEUE to a new name: %w", queue, err)
	}
	return fmt.Errorf("queue declare %q: %w", queue, err)
}
