package module

import "forumlake/internal/platform/config"

// Options holds configuration settings for the ingestor module
type Options struct {
	Workers     int
	MaxMessages int
	WaitSeconds int

	QueueRegion   string
	QueueURL      string
	QueueEndpoint string
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	inf := cfg.Prefix("INGEST_")
	return Options{
		Workers:     inf.MayInt("WORKERS", 1),
		MaxMessages: inf.MayInt("MAX_MESSAGES", 10),
		WaitSeconds: inf.MayInt("WAIT_SECONDS", 20),

		QueueRegion:   inf.MayString("SQS_REGION", "us-east-1"),
		QueueURL:      inf.MayString("SQS_QUEUE_URL", ""),
		QueueEndpoint: inf.MayString("SQS_ENDPOINT", ""),
	}
}
