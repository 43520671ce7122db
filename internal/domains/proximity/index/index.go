package index

//go:generate go run go.uber.org/mock/mockgen -source=./index.go -destination=../mocks/index_mock.go -package=mocks

import (
	"context"
	"fmt"

	"atrium/infras/otel"
	"atrium/infras/postgres"
	"atrium/internal/domains/proximity/model"
	"atrium/shared/constant"
	"atrium/shared/failure"
	"atrium/shared/logger"
)

const otelIndexScopeName = "index"

// Index answers nearest-room queries for a grid cell. Results come back in
// ascending distance order, ties broken by room id, never more than limit
// entries. Asking about a grid cell the index does not know fails with an
// unprocessable-entity failure rather than an empty result, so callers can
// tell "no rooms nearby" apart from "no such cell".
type Index interface {
	NearestRooms(ctx context.Context, gridCell string, limit int) ([]model.Entry, error)
}

type indexImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Index {
	return &indexImpl{
		db:   db,
		otel: otel,
	}
}

func (idx *indexImpl) NearestRooms(ctx context.Context, gridCell string, limit int) (entries []model.Entry, err error) {
	ctx, scope := idx.otel.NewScope(ctx, otelIndexScopeName, otelIndexScopeName+".NearestRooms")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s
		WHERE %s = $1
		ORDER BY %s ASC, %s ASC
		LIMIT $2`,
		model.FieldGridCell, model.FieldRoomID, model.FieldDistance, model.TableEntries,
		model.FieldGridCell,
		model.FieldDistance, model.FieldRoomID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	entries = []model.Entry{}

	err = idx.db.Read.SelectContext(ctx, &entries, query, gridCell, limit)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to query nearest rooms (%s): %w", model.EntityName, err)
	}

	// An empty result is only legitimate when the grid cell itself exists.
	if len(entries) == 0 {
		known, err := idx.gridExists(ctx, gridCell)
		if err != nil {
			return nil, err
		}

		if !known {
			return nil, failure.UnprocessableEntity(fmt.Sprintf("unknown grid cell: %s", gridCell)) // nolint:wrapcheck
		}
	}

	return entries, nil
}

func (idx *indexImpl) gridExists(ctx context.Context, gridCell string) (exists bool, err error) {
	ctx, scope := idx.otel.NewScope(ctx, otelIndexScopeName, otelIndexScopeName+".gridExists")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)",
		model.TableGridCells, model.FieldCell)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = idx.db.Read.GetContext(ctx, &exists, query, gridCell)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check grid cell (%s): %w", model.EntityName, err)
	}

	return exists, nil
}
