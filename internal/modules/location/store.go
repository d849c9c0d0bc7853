// README: Best-effort Redis GEO mirror of available-driver positions.
package location

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"lifeline/internal/types"
)

const (
	driverGeoKey = "lifeline:drivers:available"
	opTimeout    = 2 * time.Second
	opQueueSize  = 256
)

// Store mirrors the in-memory driver pool into a Redis GEO key for external
// observation (ops dashboards, nearby queries from other tooling). Dispatch
// never reads it back; the in-memory pool stays authoritative. Writes are
// queued and applied by Run in order, so the mirror converges even though
// callers never wait on Redis.
type Store struct {
	redis  *redis.Client
	logger *slog.Logger
	ops    chan func(ctx context.Context)
}

func NewStore(rdb *redis.Client, logger *slog.Logger) *Store {
	return &Store{
		redis:  rdb,
		logger: logger,
		ops:    make(chan func(ctx context.Context), opQueueSize),
	}
}

// DriverAvailable records that a driver is in the pool at pos.
func (s *Store) DriverAvailable(id types.ID, pos types.Point) {
	s.enqueue(func(ctx context.Context) {
		err := s.redis.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
			Name:      string(id),
			Longitude: pos.Lng,
			Latitude:  pos.Lat,
		}).Err()
		if err != nil {
			s.logger.Warn("telemetry geoadd failed", "driver", id, "error", err)
		}
	})
}

// DriverUnavailable records that a driver left the pool (assigned or gone).
func (s *Store) DriverUnavailable(id types.ID) {
	s.enqueue(func(ctx context.Context) {
		if err := s.redis.ZRem(ctx, driverGeoKey, string(id)).Err(); err != nil {
			s.logger.Warn("telemetry zrem failed", "driver", id, "error", err)
		}
	})
}

// enqueue never blocks the caller; when the queue is full the update is
// dropped, which only costs mirror freshness.
func (s *Store) enqueue(op func(ctx context.Context)) {
	select {
	case s.ops <- op:
	default:
		s.logger.Warn("telemetry queue full, dropping update")
	}
}

// Run applies queued mirror updates until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-s.ops:
			opCtx, cancel := context.WithTimeout(ctx, opTimeout)
			op(opCtx)
			cancel()
		}
	}
}
