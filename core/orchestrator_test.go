package core

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"go.uber.org/zap"
)

type stubWorker struct {
	schedule string
	ready    bool
	runs     atomic.Int32
	done     chan struct{}
}

func (w *stubWorker) Name() string         { return "stub" }
func (w *stubWorker) Schedule() string     { return w.schedule }
func (w *stubWorker) Ready(time.Time) bool { return w.ready }

func (w *stubWorker) Execute(context.Context) {
	w.runs.Add(1)
	w.done <- struct{}{}
}

func TestJobRunsReadyWorker(t *testing.T) {
	c := qt.New(t)

	w := &stubWorker{schedule: "@every 1m", ready: true, done: make(chan struct{}, 1)}
	o := NewOrchestrator(zap.NewNop(), []Worker{w})

	o.job(context.Background(), w)()

	select {
	case <-w.done:
	case <-time.After(time.Second):
		c.Fatal("worker was not executed")
	}
	c.Assert(w.runs.Load(), qt.Equals, int32(1))
}

func TestJobSkipsBusyWorker(t *testing.T) {
	c := qt.New(t)

	w := &stubWorker{schedule: "@every 1m", ready: false, done: make(chan struct{}, 1)}
	o := NewOrchestrator(zap.NewNop(), []Worker{w})

	o.job(context.Background(), w)()

	c.Assert(w.runs.Load(), qt.Equals, int32(0))
}

func TestJobSkipsAfterCancel(t *testing.T) {
	c := qt.New(t)

	w := &stubWorker{schedule: "@every 1m", ready: true, done: make(chan struct{}, 1)}
	o := NewOrchestrator(zap.NewNop(), []Worker{w})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o.job(ctx, w)()

	c.Assert(w.runs.Load(), qt.Equals, int32(0))
}

func TestStartRejectsBadSchedule(t *testing.T) {
	c := qt.New(t)

	w := &stubWorker{schedule: "not a schedule", done: make(chan struct{}, 1)}
	o := NewOrchestrator(zap.NewNop(), []Worker{w})

	cr, err := o.Start(context.Background())
	c.Assert(err, qt.IsNotNil)
	c.Assert(cr, qt.IsNil)
}
