package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/BruksfildServices01/homefix/internal/logger"
	"github.com/BruksfildServices01/homefix/internal/metrics"
)

// Sweepable is a store that needs expired entries removed by hand.
type Sweepable interface {
	Sweep() int
}

// Purger deletes audit rows older than a cutoff.
type Purger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Config struct {
	SweepSchedule string
	PurgeSchedule string
	Retention     time.Duration
}

// Scheduler runs the periodic maintenance jobs.
type Scheduler struct {
	cron      *cron.Cron
	store     Sweepable
	purger    Purger
	retention time.Duration
	log       *logger.Logger
	now       func() time.Time
}

// New registers the jobs. store and purger may be nil, in which case
// their job is skipped.
func New(cfg Config, store Sweepable, purger Purger, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		store:     store,
		purger:    purger,
		retention: cfg.Retention,
		log:       log,
		now:       time.Now,
	}

	if store != nil {
		if _, err := s.cron.AddFunc(cfg.SweepSchedule, s.SweepExpired); err != nil {
			return nil, err
		}
	}
	if purger != nil && cfg.Retention > 0 {
		if _, err := s.cron.AddFunc(cfg.PurgeSchedule, s.PurgeAudit); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Schedule adds another periodic job, such as pruning idle rate limit
// buckets.
func (s *Scheduler) Schedule(spec string, job func()) error {
	_, err := s.cron.AddFunc(spec, job)
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) SweepExpired() {
	n := s.store.Sweep()
	metrics.RecordSweep(n)
	if n > 0 {
		s.log.With("removed", n).Debug("expired keys swept")
	}
}

func (s *Scheduler) PurgeAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := s.now().Add(-s.retention)
	n, err := s.purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		s.log.WithError(err).Error("audit purge failed")
		return
	}
	s.log.With("removed", n).Info("audit logs purged")
}
