package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestDecodeJob(t *testing.T) {
	body, err := json.Marshal(MailJob{To: "a@example.com", Subject: "Reset", HTML: "<p>hi</p>", EnqueuedAt: time.Now()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	job, err := DecodeJob(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if job.To != "a@example.com" || job.Subject != "Reset" {
		t.Fatalf("unexpected job %+v", job)
	}

	for _, bad := range []string{`not json`, `{"subject":"x"}`, `{"to":"a@example.com"}`} {
		if _, err := DecodeJob([]byte(bad)); !errors.Is(err, errMalformedJob) {
			t.Fatalf("%s: err = %v, want errMalformedJob", bad, err)
		}
	}
}

func TestHandlePassesJobToDeliver(t *testing.T) {
	var got MailJob
	deliver := func(_ context.Context, job MailJob) error {
		got = job
		return nil
	}
	if err := handle(context.Background(), []byte(`{"to":"b@example.com","subject":"S","html":"H"}`), deliver); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got.To != "b@example.com" || got.HTML != "H" {
		t.Fatalf("delivered %+v", got)
	}

	boom := errors.New("smtp down")
	err := handle(context.Background(), []byte(`{"to":"b@example.com","subject":"S"}`), func(context.Context, MailJob) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want delivery error", err)
	}
}

func TestDecideRetriesThenDeadLetters(t *testing.T) {
	failed := errors.New("550 mailbox unavailable")
	malformed := fmt.Errorf("%w: bad json", errMalformedJob)
	cases := []struct {
		name     string
		err      error
		attempts int
		want     disposition
	}{
		{"delivered", nil, 0, dispositionAck},
		{"delivered after retries", nil, maxAttempts - 1, dispositionAck},
		{"malformed never retried", malformed, 0, dispositionDrop},
		{"first failure", failed, 0, dispositionRetry},
		{"next to last failure", failed, maxAttempts - 2, dispositionRetry},
		{"out of attempts", failed, maxAttempts - 1, dispositionDrop},
		{"counter past limit", failed, maxAttempts + 3, dispositionDrop},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := decide(tc.err, tc.attempts); got != tc.want {
				t.Fatalf("decide(%v, %d) = %v, want %v", tc.err, tc.attempts, got, tc.want)
			}
		})
	}
}

func TestDecideStopsRequeueingPermanentFailure(t *testing.T) {
	failed := errors.New("recipient rejected")
	attempts := 0
	for decide(failed, attempts) == dispositionRetry {
		attempts++
		if attempts > maxAttempts {
			t.Fatalf("still retrying after %d attempts", attempts)
		}
	}
	if attempts != maxAttempts-1 {
		t.Fatalf("gave up after %d retries, want %d", attempts, maxAttempts-1)
	}
}

func TestAttemptsOf(t *testing.T) {
	cases := []struct {
		headers amqp.Table
		want    int
	}{
		{nil, 0},
		{amqp.Table{}, 0},
		{amqp.Table{attemptsHeader: int32(2)}, 2},
		{amqp.Table{attemptsHeader: int64(3)}, 3},
		{amqp.Table{attemptsHeader: "4"}, 0},
	}
	for _, tc := range cases {
		if got := attemptsOf(tc.headers); got != tc.want {
			t.Fatalf("attemptsOf(%v) = %d, want %d", tc.headers, got, tc.want)
		}
	}
}

func TestRetryDelayIsCapped(t *testing.T) {
	if d := retryDelay(0); d != time.Second {
		t.Fatalf("first retry delay = %v", d)
	}
	if d := retryDelay(2); d != 4*time.Second {
		t.Fatalf("third retry delay = %v", d)
	}
	if d := retryDelay(10); d != maxRetryDelay {
		t.Fatalf("large attempt delay = %v", d)
	}
	if d := retryDelay(80); d != maxRetryDelay {
		t.Fatalf("overflowed delay = %v", d)
	}
}

func TestDeadLetterQueueName(t *testing.T) {
	if got := DeadLetterQueue(DefaultMailQueue); got != "mail.outgoing.dead" {
		t.Fatalf("dead-letter queue = %q", got)
	}
}

func TestSleepHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleep(ctx, time.Hour) {
		t.Fatal("sleep should return false on a cancelled context")
	}
	if !sleep(context.Background(), time.Millisecond) {
		t.Fatal("sleep should return true after the delay")
	}
}

func TestNewPublisherDefaultsQueue(t *testing.T) {
	if p := NewPublisher("amqp://localhost", ""); p.Queue != DefaultMailQueue {
		t.Fatalf("queue = %q", p.Queue)
	}
	if err := NewPublisher("amqp://localhost", "q").Close(); err != nil {
		t.Fatalf("close without connection: %v", err)
	}
}

func TestRetryPublishingCarriesBackoffAsExpiration(t *testing.T) {
	d := amqp.Delivery{
		ContentType: "application/json",
		Headers:     amqp.Table{attemptsHeader: int32(2), "trace": "abc"},
		Body:        []byte(`{"to":"c@example.com","subject":"S"}`),
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	msg := retryPublishing(d, attemptsOf(d.Headers), now)
	if msg.Expiration != "4000" {
		t.Fatalf("expiration = %q, want 4000", msg.Expiration)
	}
	if got := attemptsOf(msg.Headers); got != 3 {
		t.Fatalf("attempts header = %d, want 3", got)
	}
	if msg.Headers["trace"] != "abc" || string(msg.Body) != string(d.Body) {
		t.Fatalf("headers or body not carried over: %+v", msg)
	}
	if d.Headers[attemptsHeader] != int32(2) {
		t.Fatal("original delivery headers were modified")
	}
	if msg.DeliveryMode != amqp.Persistent || !msg.Timestamp.Equal(now) {
		t.Fatalf("publishing = %+v", msg)
	}
}

func TestRetryQueueName(t *testing.T) {
	if got := RetryQueue(DefaultMailQueue); got != "mail.outgoing.retry" {
		t.Fatalf("retry queue = %q", got)
	}
}

func TestDeclareErrorNamesArgumentMismatch(t *testing.T) {
	mismatch := &amqp.Error{Code: amqp.PreconditionFailed, Reason: "PRECONDITION_FAILED - inequivalent arg 'x-dead-letter-exchange'"}
	err := declareError("mail.outgoing", mismatch)
	if !errors.Is(err, mismatch) {
		t.Fatalf("err = %v, want wrapped broker error", err)
	}
	if !strings.Contains(err.Error(), "exists with different arguments") {
		t.Fatalf("err = %v, want hint about existing queue", err)
	}

	other := declareError("mail.outgoing", &amqp.Error{Code: amqp.AccessRefused, Reason: "ACCESS_REFUSED"})
	if strings.Contains(other.Error(), "different arguments") {
		t.Fatalf("unexpected hint on %v", other)
	}
}
