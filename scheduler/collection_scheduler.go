package scheduler

import (
	"log"

	"shelfwatch/collector"

	"github.com/robfig/cron/v3"
)

// CollectionScheduler runs the collector on a fixed cron schedule. Runs
// themselves stay strictly sequential; the cron job is skipped while a
// previous run is still in flight.
type CollectionScheduler struct {
	cron      *cron.Cron
	collector *collector.Collector
	spec      string
	running   chan struct{}
}

func NewCollectionScheduler(c *collector.Collector, spec string) *CollectionScheduler {
	if spec == "" {
		// Every 12 hours, at 00:00 and 12:00.
		spec = "0 0 */12 * * *"
	}
	return &CollectionScheduler{
		cron:      cron.New(cron.WithSeconds()),
		collector: c,
		spec:      spec,
		running:   make(chan struct{}, 1),
	}
}

// Start schedules periodic collection runs.
func (cs *CollectionScheduler) Start() {
	_, err := cs.cron.AddFunc(cs.spec, cs.runOnce)
	if err != nil {
		log.Printf("Failed to schedule collection runs: %v", err)
		return
	}

	cs.cron.Start()
	log.Printf("Collection scheduled with spec %q", cs.spec)
}

// Stop stops the scheduler. An in-flight run completes on its own.
func (cs *CollectionScheduler) Stop() {
	if cs.cron != nil {
		cs.cron.Stop()
	}
}

func (cs *CollectionScheduler) runOnce() {
	select {
	case cs.running <- struct{}{}:
		defer func() { <-cs.running }()
	default:
		log.Println("Previous collection run still in progress, skipping")
		return
	}

	log.Println("Starting scheduled price collection")
	if _, err := cs.collector.Run(); err != nil {
		log.Printf("Scheduled collection failed: %v", err)
	}
}
