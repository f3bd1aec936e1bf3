/*
Package notify pushes text messages to the clinic's chat group.

PURPOSE:
  Fire-and-forget push of submission confirmations and daily reminders.
  The caller never consumes a delivery receipt; failures on the caller's
  side are best-effort (logged, not fatal).

IMPLEMENTATIONS:
  - LineClient: LINE Messaging API push (the clinic's group chat)
  - LogSender:  slog-only sender for development and tests
*/
package notify

import "context"

// Sender pushes a text message to a destination id.
type Sender interface {
	Push(ctx context.Context, to, text string) error
}
