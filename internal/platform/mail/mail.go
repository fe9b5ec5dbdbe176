// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

/*
Package mail provides outbound transactional email delivery.

It carries account-lifecycle messages only: email verification links after
signup and password reset links on request. Delivery is best-effort and
asynchronous so a slow SMTP relay never blocks an HTTP response.

Core Responsibilities:

  - Composition: Builds RFC 5322 messages with proper headers.
  - Delivery: Sends via a configured SMTP relay.
  - Isolation: Exposes a Dispatcher interface so services stay testable.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"
)

// sendTimeout bounds a single SMTP delivery attempt.
const sendTimeout = 10 * time.Second

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Dispatcher delivers transactional email.
//
// Implementations must be safe for concurrent use.
type Dispatcher interface {
	// Send delivers the message, honoring context cancellation.
	Send(ctx context.Context, message Message) error
}

// # SMTP Dispatcher

// SMTPDispatcher delivers mail through a plain SMTP relay.
type SMTPDispatcher struct {
	addr   string // host:port of the relay
	from   string // envelope and header From address
	logger *slog.Logger
}

// NewSMTPDispatcher creates a dispatcher for the given relay address.
//
// # Parameters
//   - addr: SMTP relay in host:port form.
//   - from: Sender address used for both envelope and headers.
//   - logger: Structured logger for delivery events.
func NewSMTPDispatcher(addr string, from string, logger *slog.Logger) *SMTPDispatcher {
	return &SMTPDispatcher{
		addr:   addr,
		from:   from,
		logger: logger,
	}
}

// Send implements [Dispatcher] over net/smtp.
func (dispatcher *SMTPDispatcher) Send(ctx context.Context, message Message) error {
	payload := dispatcher.compose(message)

	// net/smtp has no context support; run it in a goroutine and race
	// against the deadline.
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(dispatcher.addr, nil, dispatcher.from, []string{message.To}, payload)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mail: delivery to %s failed: %w", message.To, err)
		}
		return nil
	case <-sendCtx.Done():
		return fmt.Errorf("mail: delivery to %s timed out: %w", message.To, sendCtx.Err())
	}
}

// compose builds the raw RFC 5322 payload.
func (dispatcher *SMTPDispatcher) compose(message Message) []byte {
	var builder strings.Builder

	builder.WriteString("From: " + dispatcher.from + "\r\n")
	builder.WriteString("To: " + message.To + "\r\n")
	builder.WriteString("Subject: " + message.Subject + "\r\n")
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(message.Body)
	builder.WriteString("\r\n")

	return []byte(builder.String())
}

// # Async Helper

/*
SendAsync dispatches the message on a background goroutine.

Failures are logged, never returned: account flows must not fail because a
relay is down. The detached context deliberately outlives the HTTP request.
*/
func SendAsync(dispatcher Dispatcher, logger *slog.Logger, message Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := dispatcher.Send(ctx, message); err != nil {
			logger.Error("mail_delivery_failed",
				slog.String("to", message.To),
				slog.String("subject", message.Subject),
				slog.Any("error", err),
			)
			return
		}

		logger.Info("mail_delivered",
			slog.String("to", message.To),
			slog.String("subject", message.Subject),
		)
	}()
}
