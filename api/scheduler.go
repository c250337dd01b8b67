/*
scheduler.go - Automated year-end scheduler

PURPOSE:
  Periodically checks whether a new calendar year has started and, when it
  has, initializes the new year's accounts for all active employees and
  runs the expiry cleanup for the year that just ended.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Both jobs it triggers are idempotent (account init upserts, cleanup
    creates no entries on re-run), so a restart mid-year is harmless
  - Per-user failures inside the jobs are logged and do not abort the run

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewYearEndScheduler(engine)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: InitAccounts / Cleanup endpoints (manual trigger)
  - leave/engine.go: InitAllAccounts, CleanupYear
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/leave-ledger/leave"
)

// YearEndScheduler handles automated new-year account initialization and
// prior-year expiry cleanup.
type YearEndScheduler struct {
	Engine        *leave.Engine
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex

	lastProcessedYear int
}

// NewYearEndScheduler creates a new scheduler.
func NewYearEndScheduler(engine *leave.Engine) *YearEndScheduler {
	return &YearEndScheduler{
		Engine:        engine,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (ys *YearEndScheduler) Start() {
	ys.mu.Lock()
	defer ys.mu.Unlock()

	if !ys.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ys.ticker = time.NewTicker(ys.CheckInterval)
	ys.wg.Add(1)

	go ys.run()

	log.Printf("[Scheduler] Started with check interval: %v", ys.CheckInterval)
}

// Stop stops the scheduler.
func (ys *YearEndScheduler) Stop() {
	ys.mu.Lock()
	defer ys.mu.Unlock()

	if ys.ticker != nil {
		ys.ticker.Stop()
		close(ys.stop)
		ys.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (ys *YearEndScheduler) run() {
	defer ys.wg.Done()

	// Run immediately on start: catches up after a restart across New Year.
	ys.checkAndProcess()

	for {
		select {
		case <-ys.ticker.C:
			ys.checkAndProcess()
		case <-ys.stop:
			return
		}
	}
}

func (ys *YearEndScheduler) checkAndProcess() {
	ctx := context.Background()
	year := time.Now().Year()

	ys.mu.Lock()
	done := ys.lastProcessedYear == year
	ys.mu.Unlock()
	if done {
		return
	}

	log.Printf("[Scheduler] Processing year rollover into %d", year)

	initResult, err := ys.Engine.InitAllAccounts(ctx, year)
	if err != nil {
		log.Printf("[Scheduler] Account init for %d failed: %v", year, err)
		return
	}

	cleanupResult, err := ys.Engine.CleanupYear(ctx, year-1)
	if err != nil {
		log.Printf("[Scheduler] Cleanup for %d failed: %v", year-1, err)
		return
	}

	ys.mu.Lock()
	ys.lastProcessedYear = year
	ys.mu.Unlock()

	log.Printf("[Scheduler] Year rollover done: %d accounts initialized (%d failed), %s days expired from %d",
		initResult.Succeeded, initResult.Failed+cleanupResult.Failed, cleanupResult.TotalExpired, year-1)
}

// RunNow triggers an immediate check (for testing/admin).
func (ys *YearEndScheduler) RunNow() {
	ys.checkAndProcess()
}
