package mailer

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Dispatcher drains the queue and hands each job to the sender.
// Jobs are fire-and-forget: a failed send is logged and dropped.
type Dispatcher struct {
	queue  Queue
	sender Sender
	log    zerolog.Logger

	mutex  sync.Mutex
	sent   int
	failed int
}

func NewDispatcher(queue Queue, sender Sender, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{queue: queue, sender: sender, log: log.With().Str("component", "mailer").Logger()}
}

// Run blocks until ctx is cancelled or the queue is closed.
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.Info().Msg("email dispatcher started")
	defer d.log.Info().Msg("email dispatcher stopped")

	for {
		msg, err := d.queue.Dequeue(ctx)
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrQueueClosed):
			return
		default:
			d.log.Error().Err(err).Msg("failed to read email job")
			continue
		}

		if err := d.sender.Send(ctx, msg); err != nil {
			d.record(false)
			d.log.Error().Err(err).Str("to", msg.To).Str("subject", msg.Subject).Msg("failed to send email")
			continue
		}
		d.record(true)
		d.log.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("email sent")
	}
}

func (d *Dispatcher) record(ok bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if ok {
		d.sent++
	} else {
		d.failed++
	}
}

// Stats returns how many jobs were sent and how many failed.
func (d *Dispatcher) Stats() (sent, failed int) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.sent, d.failed
}
