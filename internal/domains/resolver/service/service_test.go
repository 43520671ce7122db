package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"atrium/config"
	"atrium/infras/otel/mocks"
	bookingMocks "atrium/internal/domains/booking/mocks"
	proximityMocks "atrium/internal/domains/proximity/mocks"
	proximityModel "atrium/internal/domains/proximity/model"
	roomMocks "atrium/internal/domains/room/mocks"
	roomModel "atrium/internal/domains/room/model"
	"atrium/internal/domains/resolver/model/dto"
	"atrium/internal/domains/resolver/service"
	cacheMocks "atrium/shared/cache/mocks"
	"atrium/shared/failure"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Resolver.DefaultLimit = 3
	cfg.Resolver.CandidateFanout = 20
	cfg.Resolver.GatherTimeoutSeconds = 5
	cfg.Resolver.BestEffortPenalty = 50
	cfg.Cache.TTL = 3600

	return cfg
}

func intPtr(v int) *int {
	return &v
}

func activeRoom(id, grid string, capacity int) roomModel.Room {
	return roomModel.Room{
		ID:       id,
		Name:     "Room " + id,
		Grid:     grid,
		Capacity: intPtr(capacity),
		Type:     "meeting",
		Active:   true,
	}
}

func TestResolverService_Resolve(t *testing.T) {
	validReq := dto.ResolveRequest{
		Participants: []string{"A1", "B2"},
		Start:        "2026-08-25T10:00:00Z",
		End:          "2026-08-25T11:00:00Z",
	}

	t.Run("strict intersection ranked by average distance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockIndex := proximityMocks.NewMockIndex(ctrl)
		mockStore := bookingMocks.NewMockStore(ctrl)
		mockRoomRepo := roomMocks.NewMockRoom(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		svc := service.New(mockIndex, mockStore, mockRoomRepo, testConfig(), mockCache, mocks.NewOtel())

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
		mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		mockIndex.EXPECT().NearestRooms(gomock.Any(), "A1", 20).Return([]proximityModel.Entry{
			{GridCell: "A1", RoomID: "R1", Distance: 4},
			{GridCell: "A1", RoomID: "R2", Distance: 10},
			{GridCell: "A1", RoomID: "R3", Distance: 1},
		}, nil)
		mockIndex.EXPECT().NearestRooms(gomock.Any(), "B2", 20).Return([]proximityModel.Entry{
			{GridCell: "B2", RoomID: "R1", Distance: 6},
			{GridCell: "B2", RoomID: "R2", Distance: 4},
		}, nil)

		mockRoomRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{
			activeRoom("R1", "C1", 4),
			activeRoom("R2", "C2", 12),
			activeRoom("R3", "C3", 6),
		}, nil)

		mockStore.EXPECT().IsFree(gomock.Any(), "R1", gomock.Any()).Return(true, nil)
		mockStore.EXPECT().IsFree(gomock.Any(), "R2", gomock.Any()).Return(true, nil)

		res, err := svc.Resolve(context.Background(), validReq)

		assert.NoError(t, err)
		assert.False(t, res.BestEffort)
		assert.Len(t, res.Candidates, 2)
		assert.Equal(t, "R1", res.Candidates[0].RoomID)
		assert.InDelta(t, 5.0, res.Candidates[0].Score, 1e-9)
		assert.Equal(t, "R2", res.Candidates[1].RoomID)
		assert.InDelta(t, 7.0, res.Candidates[1].Score, 1e-9)
	})

	t.Run("stops checking availability once limit is reached", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockIndex := proximityMocks.NewMockIndex(ctrl)
		mockStore := bookingMocks.NewMockStore(ctrl)
		mockRoomRepo := roomMocks.NewMockRoom(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		svc := service.New(mockIndex, mockStore, mockRoomRepo, testConfig(), mockCache, mocks.NewOtel())

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
		mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		mockIndex.EXPECT().NearestRooms(gomock.Any(), "A1", 20).Return([]proximityModel.Entry{
			{GridCell: "A1", RoomID: "R1", Distance: 1},
			{GridCell: "A1", RoomID: "R2", Distance: 2},
			{GridCell: "A1", RoomID: "R3", Distance: 3},
		}, nil)

		mockRoomRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{
			activeRoom("R1", "C1", 4),
			activeRoom("R2", "C2", 4),
			activeRoom("R3", "C3", 4),
		}, nil)

		// Only the top-ranked room may be probed; probing R2 or R3 would
		// fail the unexpected-call check.
		mockStore.EXPECT().IsFree(gomock.Any(), "R1", gomock.Any()).Return(true, nil).Times(1)

		req := dto.ResolveRequest{
			Participants: []string{"A1"},
			Start:        "2026-08-25T10:00:00Z",
			End:          "2026-08-25T11:00:00Z",
			Limit:        1,
		}

		res, err := svc.Resolve(context.Background(), req)

		assert.NoError(t, err)
		assert.Len(t, res.Candidates, 1)
		assert.Equal(t, "R1", res.Candidates[0].RoomID)
	})

	t.Run("occupied rooms are skipped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockIndex := proximityMocks.NewMockIndex(ctrl)
		mockStore := bookingMocks.NewMockStore(ctrl)
		mockRoomRepo := roomMocks.NewMockRoom(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		svc := service.New(mockIndex, mockStore, mockRoomRepo, testConfig(), mockCache, mocks.NewOtel())

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
		mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		mockIndex.EXPECT().NearestRooms(gomock.Any(), "A1", 20).Return([]proximityModel.Entry{
			{GridCell: "A1", RoomID: "R1", Distance: 1},
			{GridCell: "A1", RoomID: "R2", Distance: 2},
		}, nil)

		mockRoomRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{
			activeRoom("R1", "C1", 4),
			activeRoom("R2", "C2", 4),
		}, nil)

		mockStore.EXPECT().IsFree(gomock.Any(), "R1", gomock.Any()).Return(false, nil)
		mockStore.EXPECT().IsFree(gomock.Any(), "R2", gomock.Any()).Return(true, nil)

		req := dto.ResolveRequest{
			Participants: []string{"A1"},
			Start:        "2026-08-25T10:00:00Z",
			End:          "2026-08-25T11:00:00Z",
		}

		res, err := svc.Resolve(context.Background(), req)

		assert.NoError(t, err)
		assert.Len(t, res.Candidates, 1)
		assert.Equal(t, "R2", res.Candidates[0].RoomID)
	})

	t.Run("best effort admits partially covered rooms", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockIndex := proximityMocks.NewMockIndex(ctrl)
		mockStore := bookingMocks.NewMockStore(ctrl)
		mockRoomRepo := roomMocks.NewMockRoom(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		svc := service.New(mockIndex, mockStore, mockRoomRepo, testConfig(), mockCache, mocks.NewOtel())

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
		mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		mockIndex.EXPECT().NearestRooms(gomock.Any(), "A1", 20).Return([]proximityModel.Entry{
			{GridCell: "A1", RoomID: "R1", Distance: 4},
		}, nil)
		mockIndex.EXPECT().NearestRooms(gomock.Any(), "B2", 20).Return([]proximityModel.Entry{
			{GridCell: "B2", RoomID: "R2", Distance: 4},
		}, nil)

		mockRoomRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{
			activeRoom("R1", "C1", 4),
			activeRoom("R2", "C2", 4),
		}, nil)

		mockStore.EXPECT().IsFree(gomock.Any(), "R1", gomock.Any()).Return(true, nil)
		mockStore.EXPECT().IsFree(gomock.Any(), "R2", gomock.Any()).Return(true, nil)

		req := validReq
		req.Options.IntersectionSlack = intPtr(1)

		res, err := svc.Resolve(context.Background(), req)

		assert.NoError(t, err)
		assert.True(t, res.BestEffort)
		assert.Len(t, res.Candidates, 2)

		for _, candidate := range res.Candidates {
			assert.Equal(t, "BEST_EFFORT_PARTIAL_COVERAGE", candidate.Reason)
		}
	})

	t.Run("equal scores break the tie on capacity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockIndex := proximityMocks.NewMockIndex(ctrl)
		mockStore := bookingMocks.NewMockStore(ctrl)
		mockRoomRepo := roomMocks.NewMockRoom(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		svc := service.New(mockIndex, mockStore, mockRoomRepo, testConfig(), mockCache, mocks.NewOtel())

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
		mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		// Both rooms average 7.0; the larger room must come first.
		mockIndex.EXPECT().NearestRooms(gomock.Any(), "A1", 20).Return([]proximityModel.Entry{
			{GridCell: "A1", RoomID: "R1", Distance: 5},
			{GridCell: "A1", RoomID: "R2", Distance: 8},
		}, nil)
		mockIndex.EXPECT().NearestRooms(gomock.Any(), "B2", 20).Return([]proximityModel.Entry{
			{GridCell: "B2", RoomID: "R2", Distance: 6},
			{GridCell: "B2", RoomID: "R1", Distance: 9},
		}, nil)

		mockRoomRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{
			activeRoom("R1", "C1", 4),
			activeRoom("R2", "C2", 12),
		}, nil)

		mockStore.EXPECT().IsFree(gomock.Any(), "R1", gomock.Any()).Return(true, nil)
		mockStore.EXPECT().IsFree(gomock.Any(), "R2", gomock.Any()).Return(true, nil)

		res, err := svc.Resolve(context.Background(), validReq)

		assert.NoError(t, err)
		assert.Len(t, res.Candidates, 2)
		assert.Equal(t, "R2", res.Candidates[0].RoomID)
		assert.Equal(t, "CAPACITY_MATCH", res.Candidates[0].Reason)
		assert.Equal(t, "R1", res.Candidates[1].RoomID)
		assert.InDelta(t, res.Candidates[0].Score, res.Candidates[1].Score, 1e-9)
	})

	t.Run("gather deadline expiry is an unresolved participant", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockIndex := proximityMocks.NewMockIndex(ctrl)
		mockStore := bookingMocks.NewMockStore(ctrl)
		mockRoomRepo := roomMocks.NewMockRoom(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		svc := service.New(mockIndex, mockStore, mockRoomRepo, testConfig(), mockCache, mocks.NewOtel())

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()

		mockIndex.EXPECT().NearestRooms(gomock.Any(), "A1", 20).
			Return(nil, fmt.Errorf("failed to query nearest rooms: %w", context.DeadlineExceeded))

		req := dto.ResolveRequest{
			Participants: []string{"A1"},
			Start:        "2026-08-25T10:00:00Z",
			End:          "2026-08-25T11:00:00Z",
		}

		_, err := svc.Resolve(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
		assert.Contains(t, err.Error(), "A1")
	})

	t.Run("empty intersection without slack yields empty result", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockIndex := proximityMocks.NewMockIndex(ctrl)
		mockStore := bookingMocks.NewMockStore(ctrl)
		mockRoomRepo := roomMocks.NewMockRoom(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		svc := service.New(mockIndex, mockStore, mockRoomRepo, testConfig(), mockCache, mocks.NewOtel())

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
		mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		mockIndex.EXPECT().NearestRooms(gomock.Any(), "A1", 20).Return([]proximityModel.Entry{
			{GridCell: "A1", RoomID: "R1", Distance: 4},
		}, nil)
		mockIndex.EXPECT().NearestRooms(gomock.Any(), "B2", 20).Return([]proximityModel.Entry{
			{GridCell: "B2", RoomID: "R2", Distance: 4},
		}, nil)

		mockRoomRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{
			activeRoom("R1", "C1", 4),
			activeRoom("R2", "C2", 4),
		}, nil)

		res, err := svc.Resolve(context.Background(), validReq)

		assert.NoError(t, err)
		assert.Empty(t, res.Candidates)
	})

	t.Run("unknown grid cell fails the resolution", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockIndex := proximityMocks.NewMockIndex(ctrl)
		mockStore := bookingMocks.NewMockStore(ctrl)
		mockRoomRepo := roomMocks.NewMockRoom(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		svc := service.New(mockIndex, mockStore, mockRoomRepo, testConfig(), mockCache, mocks.NewOtel())

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()

		lookupErr := failure.UnprocessableEntity("unknown grid cell: Z9")

		mockIndex.EXPECT().NearestRooms(gomock.Any(), "Z9", 20).Return(nil, lookupErr)

		req := dto.ResolveRequest{
			Participants: []string{"Z9"},
			Start:        "2026-08-25T10:00:00Z",
			End:          "2026-08-25T11:00:00Z",
		}

		_, err := svc.Resolve(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, lookupErr, err)
	})

	t.Run("inverted interval is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockIndex := proximityMocks.NewMockIndex(ctrl)
		mockStore := bookingMocks.NewMockStore(ctrl)
		mockRoomRepo := roomMocks.NewMockRoom(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		svc := service.New(mockIndex, mockStore, mockRoomRepo, testConfig(), mockCache, mocks.NewOtel())

		req := dto.ResolveRequest{
			Participants: []string{"A1"},
			Start:        "2026-08-25T11:00:00Z",
			End:          "2026-08-25T10:00:00Z",
		}

		_, err := svc.Resolve(context.Background(), req)

		assert.ErrorIs(t, err, failure.InvalidQueryError)
	})

	t.Run("duplicate participants are counted once", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockIndex := proximityMocks.NewMockIndex(ctrl)
		mockStore := bookingMocks.NewMockStore(ctrl)
		mockRoomRepo := roomMocks.NewMockRoom(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		svc := service.New(mockIndex, mockStore, mockRoomRepo, testConfig(), mockCache, mocks.NewOtel())

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
		mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		mockIndex.EXPECT().NearestRooms(gomock.Any(), "A1", 20).Return([]proximityModel.Entry{
			{GridCell: "A1", RoomID: "R1", Distance: 4},
		}, nil).Times(1)

		mockRoomRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]roomModel.Room{
			activeRoom("R1", "C1", 4),
		}, nil)

		mockStore.EXPECT().IsFree(gomock.Any(), "R1", gomock.Any()).Return(true, nil)

		req := dto.ResolveRequest{
			Participants: []string{"A1", "A1", "A1"},
			Start:        "2026-08-25T10:00:00Z",
			End:          "2026-08-25T11:00:00Z",
		}

		res, err := svc.Resolve(context.Background(), req)

		assert.NoError(t, err)
		assert.Len(t, res.Candidates, 1)
		assert.InDelta(t, 4.0, res.Candidates[0].Score, 1e-9)
	})
}
