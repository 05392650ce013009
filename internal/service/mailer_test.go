package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestUnconfiguredMailersFail(t *testing.T) {
	ctx := context.Background()
	if err := NewResendMailer("", "from@example.com").Send(ctx, "to@example.com", "s", "b"); err == nil {
		t.Fatal("resend mailer without key should fail")
	}
	if err := NewSMTPMailer("", 0, "", "", "from@example.com").Send(ctx, "to@example.com", "s", "b"); err == nil {
		t.Fatal("smtp mailer without host should fail")
	}
	if err := (LogMailer{Logger: quietLogger()}).Send(ctx, "to@example.com", "s", "b"); err != nil {
		t.Fatalf("log mailer: %v", err)
	}
}

func TestResendMailerStopsAtDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	mailer := NewResendMailer("re_test", "from@example.com")
	base, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	mailer.client.BaseURL = base

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- mailer.Send(ctx, "to@example.com", "s", "b") }()
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("send past the deadline should fail")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("send ignored the context deadline")
	}
}
