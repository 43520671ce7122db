//go:build wireinject
// +build wireinject

package di

import (
	"atrium/config"
	"atrium/infras/jwt"
	"atrium/infras/kafka"
	"atrium/infras/otel"
	"atrium/infras/postgres"
	"atrium/infras/redis"
	"atrium/permissions"
	"atrium/shared/cache"
	"atrium/transport/http"
	"atrium/transport/http/middleware"
	"atrium/transport/http/router"

	bookingRepository "atrium/internal/domains/booking/repository"
	bookingService "atrium/internal/domains/booking/service"
	bookingStore "atrium/internal/domains/booking/store"
	proximityIndex "atrium/internal/domains/proximity/index"
	resolverService "atrium/internal/domains/resolver/service"
	roomRepository "atrium/internal/domains/room/repository"
	roomService "atrium/internal/domains/room/service"

	bookingHandler "atrium/internal/handlers/booking"
	resolverHandler "atrium/internal/handlers/resolver"
	roomHandler "atrium/internal/handlers/room"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingStore.New,
	bookingService.New,
)

var resolverDomain = wire.NewSet(
	proximityIndex.New,
	resolverService.New,
)

var domains = wire.NewSet(
	roomDomain,
	bookingDomain,
	resolverDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	roomHandler.New,
	bookingHandler.New,
	resolverHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
