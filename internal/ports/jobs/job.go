package jobs

import (
	"context"
	"time"
)

// Job периодическая задача: выполняется сразу при старте планировщика,
// затем через каждый Interval до отмены контекста
type Job interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context) error
}
