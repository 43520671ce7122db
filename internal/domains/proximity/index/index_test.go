package index_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atrium/infras/otel/mocks"
	"atrium/infras/postgres"
	"atrium/internal/domains/proximity/index"
	"atrium/shared/failure"
)

func newMockIndex(t *testing.T) (index.Index, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	conn := &postgres.Connection{Read: sqlxDB, Write: sqlxDB}

	return index.New(conn, mocks.NewOtel()), mock
}

func TestIndex_NearestRooms(t *testing.T) {
	t.Run("rooms ordered by distance", func(t *testing.T) {
		idx, mock := newMockIndex(t)

		mock.ExpectQuery("SELECT grid_cell, room_id, distance FROM proximity_entries").
			WithArgs("G2", 3).
			WillReturnRows(sqlmock.NewRows([]string{"grid_cell", "room_id", "distance"}).
				AddRow("G2", "R1", 2.5).
				AddRow("G2", "R3", 4.0).
				AddRow("G2", "R2", 7.5))

		entries, err := idx.NearestRooms(context.Background(), "G2", 3)

		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "R1", entries[0].RoomID)
		assert.Equal(t, 2.5, entries[0].Distance)
		assert.Equal(t, "R2", entries[2].RoomID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("known grid cell with no nearby rooms", func(t *testing.T) {
		idx, mock := newMockIndex(t)

		mock.ExpectQuery("SELECT grid_cell, room_id, distance FROM proximity_entries").
			WithArgs("H9", 3).
			WillReturnRows(sqlmock.NewRows([]string{"grid_cell", "room_id", "distance"}))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("H9").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		entries, err := idx.NearestRooms(context.Background(), "H9", 3)

		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown grid cell", func(t *testing.T) {
		idx, mock := newMockIndex(t)

		mock.ExpectQuery("SELECT grid_cell, room_id, distance FROM proximity_entries").
			WithArgs("Z99", 3).
			WillReturnRows(sqlmock.NewRows([]string{"grid_cell", "room_id", "distance"}))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("Z99").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		entries, err := idx.NearestRooms(context.Background(), "Z99", 3)

		require.Error(t, err)
		assert.Nil(t, entries)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
		assert.Contains(t, err.Error(), "Z99")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
