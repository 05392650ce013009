// Package queue carries outgoing mail through RabbitMQ so the API never waits
// on an SMTP or mail-API round trip.
package queue

import "time"

const DefaultMailQueue = "mail.outgoing"

type MailJob struct {
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	HTML       string    `json:"html"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
