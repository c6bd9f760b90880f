package monitor

import (
	"context"
	"errors"
	"time"

	"ipwatch/internal/domain/metrics"
	"ipwatch/internal/domain/monitor"

	"github.com/rs/zerolog/log"
)

// Locker elects a single publisher per tick when several replicas run
// against the same inventory. A nil Locker means no election.
type Locker interface {
	TryAcquire(ctx context.Context, key string) (bool, func(context.Context) error, error)
}

const lockKeyPrefix = "ipwatch/collect/"

// Runner invokes the collector on a fixed cadence. It is the in-process
// stand-in for an external scheduler: one pass per tick, failures are logged
// and left for the next tick, never retried within a tick.
type Runner struct {
	service   *Service
	store     *SnapshotStore
	networkID string
	interval  time.Duration
	locker    Locker
	notify    func(*monitor.UtilizationSnapshot)
}

// NewRunner creates a runner collecting networkID every interval.
// locker and notify are optional.
func NewRunner(service *Service, store *SnapshotStore, networkID string, interval time.Duration, locker Locker, notify func(*monitor.UtilizationSnapshot)) *Runner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Runner{
		service:   service,
		store:     store,
		networkID: networkID,
		interval:  interval,
		locker:    locker,
		notify:    notify,
	}
}

// Start launches the tick loop in a goroutine. The first pass runs
// immediately, then every interval until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.tick(ctx)
		for {
			select {
			case <-ctx.Done():
				log.Info().Str("network_id", r.networkID).Msg("collection runner stopping")
				return
			case <-ticker.C:
				r.tick(ctx)
			}
		}
	}()
}

// RunOnce performs a single collection pass, for one-shot invocations under
// an external scheduler (cron, CronJob). The snapshot is still stored and
// broadcast so observers see the result.
func (r *Runner) RunOnce(ctx context.Context) error {
	return r.collect(ctx)
}

func (r *Runner) tick(ctx context.Context) {
	start := time.Now()
	if err := r.collect(ctx); err != nil {
		log.Error().Err(err).Str("network_id", r.networkID).Msg("collection pass failed")
		return
	}
	log.Debug().Str("network_id", r.networkID).Dur("elapsed", time.Since(start)).Msg("collection pass finished")
}

func (r *Runner) collect(ctx context.Context) error {
	if r.locker != nil {
		ok, release, err := r.locker.TryAcquire(ctx, lockKeyPrefix+r.networkID)
		if err != nil {
			return err
		}
		if !ok {
			log.Debug().Str("network_id", r.networkID).Msg("another replica holds the collection lock; skipping tick")
			return nil
		}
		defer func() {
			if err := release(ctx); err != nil {
				log.Warn().Err(err).Msg("release collection lock")
			}
		}()
	}

	snap, err := r.service.Run(ctx, r.networkID)
	if err != nil {
		// A publish failure still yields a usable snapshot; keep it so the
		// read API serves the freshest data even when the sink is down.
		if snap != nil && errors.Is(err, metrics.ErrPublishFailed) {
			r.store.Put(snap)
			log.Warn().Err(err).
				Str("run_id", snap.RunID).
				Str("network_id", snap.NetworkID).
				Msg("snapshot computed but not published")
		}
		return err
	}

	r.store.Put(snap)
	if r.notify != nil {
		r.notify(snap)
	}

	log.Info().
		Str("run_id", snap.RunID).
		Str("network_id", snap.NetworkID).
		Uint64("total_ips", snap.TotalIPs).
		Uint64("used_ips", snap.UsedIPs).
		Uint64("available_ips", snap.AvailableIPs).
		Float64("utilization_percent", snap.UtilizationPercent).
		Int("eni_count", snap.InterfaceCount).
		Msg("utilization metrics published")
	return nil
}
