package workers

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"lifeline/services"
)

// DefaultTickInterval is how often deadlines are checked against the clock.
const DefaultTickInterval = time.Second

// MonitorWorker drives the safety state machine by evaluating deadlines on
// a fixed tick. A single goroutine does all evaluation so ticks never overlap.
type MonitorWorker struct {
	guardian *services.GuardianService
	clock    services.Clock
	interval time.Duration

	isRunning bool
	mutex     sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMonitorWorker(guardian *services.GuardianService, clock services.Clock) *MonitorWorker {
	ctx, cancel := context.WithCancel(context.Background())
	return &MonitorWorker{
		guardian: guardian,
		clock:    clock,
		interval: DefaultTickInterval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetInterval overrides the tick interval. Must be called before Start.
func (w *MonitorWorker) SetInterval(interval time.Duration) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if !w.isRunning && interval > 0 {
		w.interval = interval
	}
}

// Start launches the tick loop.
func (w *MonitorWorker) Start() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.isRunning {
		logrus.Warn("Monitor worker is already running")
		return
	}
	w.isRunning = true

	w.wg.Add(1)
	go w.run()

	logrus.Info("✅ Monitor worker started")
}

// Stop shuts down the tick loop and waits for it to exit.
func (w *MonitorWorker) Stop() {
	w.mutex.Lock()
	if !w.isRunning {
		w.mutex.Unlock()
		return
	}
	w.isRunning = false
	w.mutex.Unlock()

	w.cancel()
	w.wg.Wait()

	logrus.Info("Monitor worker stopped")
}

// IsRunning reports whether the tick loop is active.
func (w *MonitorWorker) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.isRunning
}

func (w *MonitorWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Evaluate once at startup so a deadline that expired while the
	// process was down is acted on immediately.
	w.guardian.Evaluate(w.clock.Now())

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.guardian.Evaluate(w.clock.Now())
		}
	}
}
