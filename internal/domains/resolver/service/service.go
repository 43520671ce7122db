package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"atrium/config"
	"atrium/infras/otel"
	"atrium/internal/domains/booking/store"
	"atrium/internal/domains/proximity/index"
	proximityModel "atrium/internal/domains/proximity/model"
	roomModel "atrium/internal/domains/room/model"
	roomRepo "atrium/internal/domains/room/repository"
	"atrium/internal/domains/resolver/model/dto"
	"atrium/shared"
	"atrium/shared/cache"
	"atrium/shared/constant"
	gDto "atrium/shared/dto"
	"atrium/shared/failure"
)

const cacheNearestRooms = "proximity:nearest"

type Resolver interface {
	Resolve(ctx context.Context, req dto.ResolveRequest) (dto.ResolveResponse, error)
}

type serviceImpl struct {
	index    index.Index
	store    store.Store
	roomRepo roomRepo.Room
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(index index.Index, store store.Store, roomRepo roomRepo.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Resolver {
	return &serviceImpl{
		index:    index,
		store:    store,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// Resolve finds the best available rooms for a set of participants and a
// time window. The pipeline is gather, aggregate, filter: nearest-room lists
// are gathered per participant, aggregated into one ranked list, then walked
// in rank order against the availability store until limit free rooms are
// found. The walk stops as soon as the limit is reached, so rooms ranked
// below the cut are never checked for availability.
func (s *serviceImpl) Resolve(ctx context.Context, req dto.ResolveRequest) (res dto.ResolveResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()
	defer scope.TraceIfError(err)

	res.Candidates = []dto.CandidateResult{}

	interval, err := req.Interval()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse resolve interval")

		return res, failure.InvalidQueryError // nolint:wrapcheck
	}

	if !interval.IsValid(s.cfg.Resolver.AllowZeroLength) {
		return res, failure.InvalidQueryError // nolint:wrapcheck
	}

	participants := dedupe(req.Participants)
	if len(participants) == 0 {
		return res, failure.InvalidQueryError // nolint:wrapcheck
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.Resolver.DefaultLimit
	}

	slack := s.cfg.Resolver.IntersectionSlack
	if req.Options.IntersectionSlack != nil {
		slack = *req.Options.IntersectionSlack
	}

	penalty := s.cfg.Resolver.BestEffortPenalty
	if req.Options.BestEffortPenalty != nil {
		penalty = *req.Options.BestEffortPenalty
	}

	lists, err := s.gather(ctx, participants)
	if err != nil {
		return res, err
	}

	rooms, err := s.candidateRooms(ctx, lists)
	if err != nil {
		return res, err
	}

	capacities := make(map[string]*int, len(rooms))
	for id, room := range rooms {
		capacities[id] = room.Capacity
	}

	// Inactive or unknown rooms may still sit in the proximity index; they
	// are not bookable, so they leave the pool before ranking.
	for grid, entries := range lists {
		kept := entries[:0]

		for _, entry := range entries {
			if _, ok := rooms[entry.RoomID]; ok {
				kept = append(kept, entry)
			}
		}

		lists[grid] = kept
	}

	ranked := rankCandidates(lists, slack, penalty, capacities)

	for _, candidate := range ranked {
		if len(res.Candidates) >= limit {
			break
		}

		free, err := s.store.IsFree(ctx, candidate.RoomID, interval)
		if err != nil {
			log.Error().Err(err).Str("roomID", candidate.RoomID).Msg("failed to check room availability")

			return res, fmt.Errorf("failed to check room availability: %w", err)
		}

		if !free {
			continue
		}

		room := rooms[candidate.RoomID]

		res.Candidates = append(res.Candidates, dto.CandidateResult{
			RoomID:    candidate.RoomID,
			Name:      room.Name,
			Level:     room.Level,
			Grid:      room.Grid,
			Capacity:  room.Capacity,
			Type:      room.Type,
			Score:     candidate.Score,
			Distances: candidate.Distances,
			Reason:    candidate.Reason,
		})

		if candidate.Partial {
			res.BestEffort = true
		}
	}

	scope.AddEvent("Resolved " + strconv.Itoa(len(res.Candidates)) + " candidate rooms")

	return res, nil
}

// gather fetches the nearest-room list for every participant concurrently,
// bounded by the configured gather timeout. Any participant failure fails
// the whole resolution: a ranking computed from partial inputs would be
// silently wrong.
func (s *serviceImpl) gather(ctx context.Context, participants []string) (map[string][]proximityModel.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Resolver.GatherTimeoutSeconds)*time.Second)
	defer cancel()

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		gatherErr error
	)

	lists := make(map[string][]proximityModel.Entry, len(participants))

	for _, grid := range participants {
		wg.Add(1)

		go func(grid string) {
			defer wg.Done()

			entries, err := s.nearestRooms(ctx, grid)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if gatherErr == nil {
					gatherErr = err
				}

				return
			}

			lists[grid] = entries
		}(grid)
	}

	wg.Wait()

	if gatherErr != nil {
		return nil, gatherErr
	}

	return lists, nil
}

func (s *serviceImpl) nearestRooms(ctx context.Context, grid string) (entries []proximityModel.Entry, err error) {
	fanout := s.cfg.Resolver.CandidateFanout
	cacheKey := shared.BuildCacheKey(cacheNearestRooms, grid, strconv.Itoa(fanout))

	err = s.cache.Get(ctx, cacheKey, &entries)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for nearest rooms")

		return entries, nil
	}

	entries, err = s.index.NearestRooms(ctx, grid, fanout)
	if err != nil {
		// A gather deadline expiry means the participant could not be
		// resolved in time, not that the service broke.
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, failure.UnprocessableEntity(fmt.Sprintf("timed out resolving participant grid cell: %s", grid)) // nolint:wrapcheck
		}

		return nil, err // nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, entries, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save nearest rooms to cache")
		}
	}()

	return entries, nil
}

// candidateRooms loads every active room mentioned in any nearest-room list,
// keyed by id.
func (s *serviceImpl) candidateRooms(ctx context.Context, lists map[string][]proximityModel.Entry) (map[string]roomModel.Room, error) {
	ids := []string{}
	seen := map[string]bool{}

	for _, entries := range lists {
		for _, entry := range entries {
			if !seen[entry.RoomID] {
				seen[entry.RoomID] = true

				ids = append(ids, entry.RoomID)
			}
		}
	}

	rooms := make(map[string]roomModel.Room, len(ids))
	if len(ids) == 0 {
		return rooms, nil
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    roomModel.FieldID,
				Operator: gDto.FilterOperatorIn,
				Value:    ids,
				Table:    roomModel.TableName,
			},
			gDto.Filter{
				Field:    roomModel.FieldActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    roomModel.TableName,
			},
		},
	}

	models, err := s.roomRepo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to load candidate rooms")

		return nil, fmt.Errorf("failed to load candidate rooms: %w", err)
	}

	for _, room := range models {
		rooms[room.ID] = room
	}

	return rooms, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))

	for _, value := range values {
		if value == "" || seen[value] {
			continue
		}

		seen[value] = true

		result = append(result, value)
	}

	return result
}
