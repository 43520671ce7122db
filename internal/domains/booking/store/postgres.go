package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"atrium/config"
	"atrium/infras/otel"
	"atrium/infras/postgres"
	"atrium/internal/domains/booking/model"
	"atrium/shared/constant"
	"atrium/shared/failure"
	"atrium/shared/logger"
)

const otelStoreScopeName = "store"

// postgresStore backs the availability store with the room_bookings table.
// The no-overlap invariant is enforced by the storage engine itself: the
// migration declares EXCLUDE USING gist (room_id WITH =,
// tstzrange(start_time, end_time, '[)') WITH &&), so Reserve is a plain
// insert and a conflicting concurrent insert surfaces as an exclusion
// violation, never as two accepted bookings.
type postgresStore struct {
	db   *postgres.Connection
	cfg  *config.Config
	otel otel.Otel
}

func NewPostgres(cfg *config.Config, db *postgres.Connection, otel otel.Otel) Store {
	return &postgresStore{
		db:   db,
		cfg:  cfg,
		otel: otel,
	}
}

// rangeBounds only widens the IsFree probe. The exclusion constraint itself
// stays '[)' as declared in the migration, so with CountTouchingAsOverlap set
// a touching Reserve still succeeds on this backend until the constraint is
// migrated to closed bounds.
func (s *postgresStore) rangeBounds() string {
	if s.cfg.Resolver.CountTouchingAsOverlap {
		return "[]"
	}

	return "[)"
}

func (s *postgresStore) IsFree(ctx context.Context, roomID string, interval model.Interval) (free bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, otelStoreScopeName, otelStoreScopeName+".IsFree")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`SELECT NOT EXISTS(
		SELECT 1 FROM %s
		WHERE %s = $1
		AND tstzrange(%s, %s, '[)') && tstzrange($2, $3, '%s')
	)`, model.TableName, model.FieldRoomID, model.FieldStartTime, model.FieldEndTime, s.rangeBounds())
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = s.db.Read.GetContext(ctx, &free, query, roomID, interval.Start, interval.End)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check availability (%s): %w", model.EntityName, err)
	}

	return free, nil
}

func (s *postgresStore) Reserve(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := s.otel.NewScope(ctx, otelStoreScopeName, otelStoreScopeName+".Reserve")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`INSERT INTO %s
		(id, room_id, start_time, end_time, booked_by, title, created_by, modified_by)
		VALUES (:id, :room_id, :start_time, :end_time, :booked_by, :title, :created_by, :modified_by)`,
		model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err = s.db.Write.NamedExecContext(ctx, query, booking)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeExclusionViolation {
			return failure.OverlapError // nolint:wrapcheck
		}

		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to reserve room (%s): %w", model.EntityName, err)
	}

	return nil
}

func (s *postgresStore) Cancel(ctx context.Context, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, otelStoreScopeName, otelStoreScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", model.TableName, model.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	// Cancelling an unknown booking is a no-op, not an error.
	_, err = s.db.Write.ExecContext(ctx, query, bookingID)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to cancel booking (%s): %w", model.EntityName, err)
	}

	return nil
}
