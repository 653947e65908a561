// Package domain defines the ingestion ports
package domain

import "context"

// IngestPort accepts one raw envelope from any transport.
// A nil return means the message is fully handled (including every
// classified-and-dropped case) and may be acknowledged; a non-nil return
// means the unit of work failed and the message must be redelivered
type IngestPort interface {
	Ingest(ctx context.Context, raw []byte) error
}
