package router

import (
	"github.com/go-chi/chi/v5"

	"atrium/internal/handlers/booking"
	"atrium/internal/handlers/resolver"
	"atrium/internal/handlers/room"
	"atrium/transport/http/middleware"
)

type DomainHandlers struct {
	Room     room.Handler
	Booking  booking.Handler
	Resolver resolver.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey)
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Resolver.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
