package core

import (
	"context"
	"time"
)

type Worker interface {
	Name() string
	Schedule() string
	Ready(now time.Time) bool
	Execute(ctx context.Context)
}
