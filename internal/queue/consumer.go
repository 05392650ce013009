package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// DeliverFunc sends one job. A returned error schedules a retry until the job
// runs out of attempts.
type DeliverFunc func(ctx context.Context, job MailJob) error

const (
	attemptsHeader = "x-attempts"
	maxAttempts    = 5
	maxRetryDelay  = 30 * time.Second
)

var errMalformedJob = errors.New("malformed mail job")

type disposition int

const (
	dispositionAck disposition = iota
	dispositionRetry
	dispositionDrop
)

// decide picks what happens to a delivery that has already failed attempts times.
func decide(err error, attempts int) disposition {
	switch {
	case err == nil:
		return dispositionAck
	case errors.Is(err, errMalformedJob):
		return dispositionDrop
	case attempts+1 >= maxAttempts:
		return dispositionDrop
	default:
		return dispositionRetry
	}
}

func attemptsOf(headers amqp.Table) int {
	switch v := headers[attemptsHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func retryDelay(attempts int) time.Duration {
	if attempts < 0 || attempts > 5 {
		return maxRetryDelay
	}
	if delay := time.Second << attempts; delay < maxRetryDelay {
		return delay
	}
	return maxRetryDelay
}

// Consume drains queueName until ctx is cancelled, re-dialing with backoff
// whenever the broker connection drops.
func Consume(ctx context.Context, url string, queueName string, deliver DeliverFunc, logger logrus.FieldLogger) error {
	if queueName == "" {
		queueName = DefaultMailQueue
	}
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.WithError(err).WithField("retry_in", backoff.String()).Warn("mail-consumer: dial failed")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, queueName, deliver, logger)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.WithError(err).Warn("mail-consumer: consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queueName string, deliver DeliverFunc, logger logrus.FieldLogger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		logger.WithError(err).Warn("mail-consumer: set QoS failed")
	}
	if _, err := declare(ch, queueName); err != nil {
		return err
	}
	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := settle(ctx, ch, queueName, d, handle(ctx, d.Body, deliver), logger); err != nil {
				return err
			}
		}
	}
}

// settle acks, dead-letters or parks d for a retry. A retry is published to
// RetryQueue(queueName) with a per-message TTL; when it expires the broker
// routes the job back to queueName, so the consume loop never waits on it.
func settle(ctx context.Context, ch *amqp.Channel, queueName string, d amqp.Delivery, err error, logger logrus.FieldLogger) error {
	attempts := attemptsOf(d.Headers)
	switch decide(err, attempts) {
	case dispositionAck:
		return d.Ack(false)
	case dispositionDrop:
		logger.WithError(err).WithField("attempts", attempts+1).Error("mail-consumer: dead-lettering job")
		return d.Nack(false, false)
	}

	msg := retryPublishing(d, attempts, time.Now())
	logger.WithError(err).WithFields(logrus.Fields{
		"attempts": attempts + 1,
		"retry_in": retryDelay(attempts).String(),
	}).Warn("mail-consumer: delivery failed, retrying")

	if pubErr := ch.PublishWithContext(ctx, "", RetryQueue(queueName), false, false, msg); pubErr != nil {
		_ = d.Nack(false, true)
		return fmt.Errorf("republish: %w", pubErr)
	}
	return d.Ack(false)
}

// retryPublishing copies d with the attempt counter bumped and an expiration
// set to the backoff for this attempt.
func retryPublishing(d amqp.Delivery, attempts int, now time.Time) amqp.Publishing {
	headers := amqp.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers[attemptsHeader] = int32(attempts + 1)
	return amqp.Publishing{
		ContentType:  d.ContentType,
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Expiration:   strconv.FormatInt(retryDelay(attempts).Milliseconds(), 10),
		Headers:      headers,
		Body:         d.Body,
	}
}

func handle(ctx context.Context, body []byte, deliver DeliverFunc) error {
	job, err := DecodeJob(body)
	if err != nil {
		return err
	}
	return deliver(ctx, job)
}

// DecodeJob parses a queued message, rejecting jobs without a recipient.
func DecodeJob(body []byte) (MailJob, error) {
	var job MailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return MailJob{}, fmt.Errorf("%w: %v", errMalformedJob, err)
	}
	if job.To == "" || job.Subject == "" {
		return MailJob{}, fmt.Errorf("%w: missing recipient or subject", errMalformedJob)
	}
	return job, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
