package sqs

import (
	"context"
	"time"

	"forumlake/internal/platform/logger"
)

// Source is what a consumer needs from the queue
// *Client satisfies it
type Source interface {
	Receive(ctx context.Context, max int32, waitSeconds int32) ([]Message, error)
	Delete(ctx context.Context, receiptHandle string) error
}

// ReceiverConfig bounds one long-poll cycle
type ReceiverConfig struct {
	MaxMessages int32
	WaitSeconds int32
}

// Receiver long-polls a Source and hands messages to a channel
type Receiver struct {
	src Source
	cfg ReceiverConfig
	log *logger.Logger
}

// NewReceiver builds a Receiver, applying defaults for zero config values
func NewReceiver(src Source, cfg ReceiverConfig) *Receiver {
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = 10
	}
	if cfg.WaitSeconds <= 0 {
		cfg.WaitSeconds = 20
	}
	return &Receiver{src: src, cfg: cfg, log: logger.Named("sqs.receiver")}
}

// Start pumps messages into out until ctx is done, then closes out.
// Receive errors are logged and retried after a short pause
func (r *Receiver) Start(ctx context.Context, out chan<- Message) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("receiver shutting down")
			return
		default:
		}

		msgs, err := r.src.Receive(ctx, r.cfg.MaxMessages, r.cfg.WaitSeconds)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.log.Error().Err(err).Msg("receive failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		for _, m := range msgs {
			select {
			case <-ctx.Done():
				return
			case out <- m:
			}
		}
	}
}
