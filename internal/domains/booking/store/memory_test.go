package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"atrium/internal/domains/booking/model"
	"atrium/internal/domains/booking/store"
	"atrium/shared/failure"
)

func booking(id, roomID string, startHour, endHour int) model.Booking {
	day := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	return model.Booking{
		ID:        id,
		RoomID:    roomID,
		StartTime: day.Add(time.Duration(startHour) * time.Hour),
		EndTime:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestMemoryStore_ReserveAndIsFree(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(false)

	assert.NoError(t, s.Reserve(ctx, booking("b1", "R1", 9, 10)))

	free, err := s.IsFree(ctx, "R1", booking("", "R1", 9, 10).Interval())
	assert.NoError(t, err)
	assert.False(t, free)

	// Another room is unaffected.
	free, err = s.IsFree(ctx, "R2", booking("", "R2", 9, 10).Interval())
	assert.NoError(t, err)
	assert.True(t, free)
}

func TestMemoryStore_OverlappingReserveFails(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(false)

	assert.NoError(t, s.Reserve(ctx, booking("b1", "R1", 9, 11)))

	err := s.Reserve(ctx, booking("b2", "R1", 10, 12))
	assert.ErrorIs(t, err, failure.OverlapError)

	// The interval freed by the failed attempt stays free.
	free, err := s.IsFree(ctx, "R1", booking("", "R1", 11, 12).Interval())
	assert.NoError(t, err)
	assert.True(t, free)
}

func TestMemoryStore_BackToBackBookings(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(false)

	assert.NoError(t, s.Reserve(ctx, booking("b1", "R1", 9, 10)))
	assert.NoError(t, s.Reserve(ctx, booking("b2", "R1", 10, 11)))
}

func TestMemoryStore_TouchingCountsWhenConfigured(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(true)

	assert.NoError(t, s.Reserve(ctx, booking("b1", "R1", 9, 10)))

	err := s.Reserve(ctx, booking("b2", "R1", 10, 11))
	assert.ErrorIs(t, err, failure.OverlapError)
}

func TestMemoryStore_CancelFreesInterval(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(false)

	assert.NoError(t, s.Reserve(ctx, booking("b1", "R1", 9, 10)))
	assert.NoError(t, s.Cancel(ctx, "b1"))

	free, err := s.IsFree(ctx, "R1", booking("", "R1", 9, 10).Interval())
	assert.NoError(t, err)
	assert.True(t, free)

	assert.NoError(t, s.Reserve(ctx, booking("b2", "R1", 9, 10)))
}

func TestMemoryStore_CancelIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(false)

	assert.NoError(t, s.Cancel(ctx, "missing"))

	assert.NoError(t, s.Reserve(ctx, booking("b1", "R1", 9, 10)))
	assert.NoError(t, s.Cancel(ctx, "b1"))
	assert.NoError(t, s.Cancel(ctx, "b1"))
}

func TestMemoryStore_ConcurrentReserveExactlyOneWins(t *testing.T) {
	ctx := context.Background()

	const attempts = 64

	for range 20 {
		s := store.NewMemory(false)

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)

		for i := range attempts {
			wg.Add(1)

			go func(i int) {
				defer wg.Done()

				err := s.Reserve(ctx, booking(fmt.Sprintf("b%d", i), "R1", 9, 10))

				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()

					return
				}

				assert.ErrorIs(t, err, failure.OverlapError)
			}(i)
		}

		wg.Wait()

		assert.Equal(t, 1, succeeded)
	}
}

func TestMemoryStore_ConcurrentDisjointRooms(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory(false)

	const rooms = 32

	var wg sync.WaitGroup

	errs := make([]error, rooms)

	for i := range rooms {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			errs[i] = s.Reserve(ctx, booking(fmt.Sprintf("b%d", i), fmt.Sprintf("R%d", i), 9, 10))
		}(i)
	}

	wg.Wait()

	for i := range rooms {
		assert.NoError(t, errs[i])
	}
}
