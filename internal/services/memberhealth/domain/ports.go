package domain

import "context"

// RunnerPort triggers one scoring pass; the timer that fires it lives with
// the binary, not the service
type RunnerPort interface {
	Run(ctx context.Context) (processed int, err error)
}
