package store

//go:generate go run go.uber.org/mock/mockgen -source=./store.go -destination=../mocks/store_mock.go -package=mocks

import (
	"context"

	"github.com/rs/zerolog/log"

	"atrium/config"
	"atrium/infras/otel"
	"atrium/infras/postgres"
	"atrium/internal/domains/booking/model"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Store is the availability store: the single owner of the invariant that no
// two live bookings for the same room overlap.
//
// Reserve is the correctness-critical primitive. The overlap check and the
// insert are one indivisible operation: of two concurrent reservations for
// overlapping intervals on the same room, exactly one succeeds and the other
// fails with failure.OverlapError. Reservations on different rooms never
// contend.
//
// IsFree is advisory. A room reported free may be reserved by another caller
// before this caller reserves; Reserve's result is the authoritative signal.
type Store interface {
	IsFree(ctx context.Context, roomID string, interval model.Interval) (bool, error)
	Reserve(ctx context.Context, booking model.Booking) error
	Cancel(ctx context.Context, bookingID string) error
}

// New selects the configured backend. Postgres enforces no-overlap with a
// range-exclusion constraint; memory enforces it with a per-room mutex over
// an interval list.
func New(cfg *config.Config, db *postgres.Connection, otel otel.Otel) Store {
	if cfg.Availability.Backend == BackendMemory {
		log.Warn().Msg("Using in-memory availability store; bookings will not survive a restart")

		return NewMemory(cfg.Resolver.CountTouchingAsOverlap)
	}

	return NewPostgres(cfg, db, otel)
}
