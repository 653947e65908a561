package service

import (
	"context"
	"sync"

	"forumlake/internal/adapters/ingest/sqs"
	"forumlake/internal/platform/logger"
	"forumlake/internal/services/ingestor/domain"
)

// ConsumerConfig sizes the worker pool and the receive cycle.
// Workers maps to upstream partitions; one worker preserves per-partition order
type ConsumerConfig struct {
	Workers     int
	MaxMessages int32
	WaitSeconds int32
}

// Consumer drains the queue through the router.
// A message is deleted only after Ingest returns nil; everything else stays
// on the queue for redelivery
type Consumer struct {
	src sqs.Source
	svc domain.IngestPort
	cfg ConsumerConfig
	log *logger.Logger
}

// NewConsumer builds a Consumer, applying defaults for zero config values
func NewConsumer(src sqs.Source, svc domain.IngestPort, cfg ConsumerConfig) *Consumer {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Consumer{src: src, svc: svc, cfg: cfg, log: logger.Named("ingestor.consumer")}
}

// Run consumes until ctx is done. Per-message failures never stop the loop
func (c *Consumer) Run(ctx context.Context) {
	recv := sqs.NewReceiver(c.src, sqs.ReceiverConfig{
		MaxMessages: c.cfg.MaxMessages,
		WaitSeconds: c.cfg.WaitSeconds,
	})

	msgs := make(chan sqs.Message, c.cfg.Workers)
	go recv.Start(ctx, msgs)

	c.log.Info().Int("workers", c.cfg.Workers).Msg("consumer started")

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range msgs {
				if err := c.svc.Ingest(ctx, m.Body); err != nil {
					c.log.Warn().Err(err).Msg("unit of work failed, message left for redelivery")
					continue
				}
				if err := c.src.Delete(ctx, m.ReceiptHandle); err != nil {
					c.log.Warn().Err(err).Msg("ack failed, message may be redelivered")
				}
			}
		}()
	}
	wg.Wait()
	c.log.Info().Msg("consumer stopped")
}
