package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"atrium/config"
	kafkaMocks "atrium/infras/kafka/mocks"
	"atrium/infras/otel/mocks"
	bookingMocks "atrium/internal/domains/booking/mocks"
	"atrium/internal/domains/booking/model"
	"atrium/internal/domains/booking/model/dto"
	"atrium/internal/domains/booking/service"
	roomMocks "atrium/internal/domains/room/mocks"
	cacheMocks "atrium/shared/cache/mocks"
	"atrium/shared/constant"
	gDto "atrium/shared/dto"
	"atrium/shared/failure"
)

type serviceMocks struct {
	store    *bookingMocks.MockStore
	repo     *bookingMocks.MockBooking
	roomRepo *roomMocks.MockRoom
	cache    *cacheMocks.MockRedisCache
	kafka    *kafkaMocks.MockClient
}

func newService(t *testing.T) (service.Booking, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := serviceMocks{
		store:    bookingMocks.NewMockStore(ctrl),
		repo:     bookingMocks.NewMockBooking(ctrl),
		roomRepo: roomMocks.NewMockRoom(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		kafka:    kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.store, m.repo, m.roomRepo, cfg, m.cache, m.kafka, mocks.NewOtel())

	return svc, m
}

func TestBookingService_Reserve(t *testing.T) {
	validReq := dto.CreateBookingRequest{
		RoomID: "R1",
		Start:  "2026-08-25T10:00:00Z",
		End:    "2026-08-25T11:00:00Z",
		Title:  "Weekly sync",
	}

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")

	t.Run("successful reservation", func(t *testing.T) {
		svc, m := newService(t)

		m.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.store.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(nil)
		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.Reserve(ctx, validReq)

		assert.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "R1", res.RoomID)
		assert.Equal(t, "user-1", res.BookedBy)
	})

	t.Run("overlap failure from the store", func(t *testing.T) {
		svc, m := newService(t)

		m.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.store.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(failure.OverlapError)

		_, err := svc.Reserve(ctx, validReq)

		assert.ErrorIs(t, err, failure.OverlapError)
	})

	t.Run("unknown room", func(t *testing.T) {
		svc, m := newService(t)

		m.roomRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := svc.Reserve(ctx, validReq)

		assert.Error(t, err)
	})

	t.Run("inverted interval", func(t *testing.T) {
		svc, _ := newService(t)

		req := validReq
		req.Start = "2026-08-25T12:00:00Z"

		_, err := svc.Reserve(ctx, req)

		assert.Error(t, err)
	})

	t.Run("unparseable time", func(t *testing.T) {
		svc, _ := newService(t)

		req := validReq
		req.Start = "today at ten"

		_, err := svc.Reserve(ctx, req)

		assert.Error(t, err)
	})
}

func TestBookingService_Get(t *testing.T) {
	t.Run("cache miss falls back to repository", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "b1", RoomID: "R1"}, nil)
		m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.Get(context.Background(), "b1")

		assert.NoError(t, err)
		assert.Equal(t, "b1", res.ID)
	})

	t.Run("missing booking", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.Error(t, err)
	})
}

func TestBookingService_GetAll(t *testing.T) {
	svc, m := newService(t)

	m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
	m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{{ID: "b1", RoomID: "R1"}}, nil)
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Bookings, 1)
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("existing booking", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "b1", RoomID: "R1"}, nil)
		m.store.EXPECT().Cancel(gomock.Any(), "b1").Return(nil)
		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		assert.NoError(t, svc.Cancel(context.Background(), "b1"))
	})

	t.Run("unknown booking still succeeds", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
		m.store.EXPECT().Cancel(gomock.Any(), "missing").Return(nil)
		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		assert.NoError(t, svc.Cancel(context.Background(), "missing"))
	})

	t.Run("store failure propagates", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{ID: "b1"}, nil)
		m.store.EXPECT().Cancel(gomock.Any(), "b1").Return(errors.New("database down"))

		assert.Error(t, svc.Cancel(context.Background(), "b1"))
	})
}
