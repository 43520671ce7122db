package store

import (
	"context"
	"sort"
	"sync"

	"atrium/internal/domains/booking/model"
	"atrium/shared/failure"
)

// memoryStore keeps bookings in per-room interval lists. Each room has its
// own mutex, so the overlap check and the insert happen atomically per room
// while reservations on different rooms proceed in parallel.
type memoryStore struct {
	countTouching bool

	mu    sync.RWMutex
	rooms map[string]*roomIntervals

	indexMu sync.Mutex
	index   map[string]string // booking id -> room id
}

type roomIntervals struct {
	mu       sync.Mutex
	bookings []model.Booking // sorted by StartTime
}

func NewMemory(countTouching bool) Store {
	return &memoryStore{
		countTouching: countTouching,
		rooms:         make(map[string]*roomIntervals),
		index:         make(map[string]string),
	}
}

func (s *memoryStore) room(roomID string) *roomIntervals {
	s.mu.RLock()
	room, ok := s.rooms[roomID]
	s.mu.RUnlock()

	if ok {
		return room
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if room, ok = s.rooms[roomID]; ok {
		return room
	}

	room = &roomIntervals{}
	s.rooms[roomID] = room

	return room
}

func (r *roomIntervals) anyOverlap(interval model.Interval, countTouching bool) bool {
	for _, booked := range r.bookings {
		if booked.Interval().Overlaps(interval, countTouching) {
			return true
		}
	}

	return false
}

func (s *memoryStore) IsFree(_ context.Context, roomID string, interval model.Interval) (bool, error) {
	room := s.room(roomID)

	room.mu.Lock()
	defer room.mu.Unlock()

	return !room.anyOverlap(interval, s.countTouching), nil
}

func (s *memoryStore) Reserve(_ context.Context, booking model.Booking) error {
	room := s.room(booking.RoomID)

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.anyOverlap(booking.Interval(), s.countTouching) {
		return failure.OverlapError // nolint:wrapcheck
	}

	room.bookings = append(room.bookings, booking)
	sort.Slice(room.bookings, func(i, j int) bool {
		return room.bookings[i].StartTime.Before(room.bookings[j].StartTime)
	})

	s.indexMu.Lock()
	s.index[booking.ID] = booking.RoomID
	s.indexMu.Unlock()

	return nil
}

func (s *memoryStore) Cancel(_ context.Context, bookingID string) error {
	s.indexMu.Lock()
	roomID, ok := s.index[bookingID]
	delete(s.index, bookingID)
	s.indexMu.Unlock()

	if !ok {
		return nil
	}

	room := s.room(roomID)

	room.mu.Lock()
	defer room.mu.Unlock()

	for i, booked := range room.bookings {
		if booked.ID == bookingID {
			room.bookings = append(room.bookings[:i], room.bookings[i+1:]...)

			break
		}
	}

	return nil
}
