package resolver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"atrium/infras/otel"
	"atrium/internal/domains/resolver/model/dto"
	"atrium/internal/domains/resolver/service"
	"atrium/shared/constant"
	"atrium/shared/validator"
	"atrium/transport/http/response"
)

type Handler struct {
	service service.Resolver
	otel    otel.Otel
}

func New(service service.Resolver, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/resolve", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.Resolve)
	})
}

// Resolve recommends available rooms for a set of participants.
// @Summary Resolve meeting rooms
// @Description Rank rooms by average distance to all participants and return the best ones still free in the requested interval.
// @Tags Resolver
// @Accept json
// @Produce json
// @Param request body dto.ResolveRequest true "Resolve Request"
// @Success 200 {object} response.Data[dto.ResolveResponse] "Ranked candidate rooms"
// @Failure 400 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/resolve [post]
// @Security BearerAuth
func (handler *Handler) Resolve(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Resolve")
	defer scope.End()

	req := dto.ResolveRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	result, err := handler.service.Resolve(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to resolve rooms")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Rooms resolved successfully")

	response.WithJSON(writer, http.StatusOK, result)
}
