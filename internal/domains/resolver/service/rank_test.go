package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	proximityModel "atrium/internal/domains/proximity/model"
)

func intPtr(v int) *int {
	return &v
}

func entries(pairs ...any) []proximityModel.Entry {
	result := make([]proximityModel.Entry, 0, len(pairs)/2)

	for i := 0; i < len(pairs); i += 2 {
		result = append(result, proximityModel.Entry{
			RoomID:   pairs[i].(string),
			Distance: pairs[i+1].(float64),
		})
	}

	return result
}

func TestRankCandidates_StrictIntersection(t *testing.T) {
	lists := map[string][]proximityModel.Entry{
		"A1": entries("R1", 4.0, "R2", 10.0, "R3", 2.0),
		"B2": entries("R1", 6.0, "R2", 4.0),
	}

	ranked := rankCandidates(lists, 0, 50, map[string]*int{})

	// R3 is missing from B2's list, so only R1 and R2 qualify.
	assert.Len(t, ranked, 2)
	assert.Equal(t, "R1", ranked[0].RoomID)
	assert.InDelta(t, 5.0, ranked[0].Score, 1e-9)
	assert.Equal(t, "R2", ranked[1].RoomID)
	assert.InDelta(t, 7.0, ranked[1].Score, 1e-9)
}

func TestRankCandidates_EmptyIntersectionWithoutSlack(t *testing.T) {
	lists := map[string][]proximityModel.Entry{
		"A1": entries("R1", 4.0),
		"B2": entries("R2", 4.0),
	}

	ranked := rankCandidates(lists, 0, 50, map[string]*int{})

	assert.Empty(t, ranked)
}

func TestRankCandidates_BestEffortSlack(t *testing.T) {
	lists := map[string][]proximityModel.Entry{
		"A1": entries("R1", 4.0),
		"B2": entries("R2", 4.0),
	}

	ranked := rankCandidates(lists, 1, 50, map[string]*int{})

	// Each room is missing from one list; both come back penalised.
	assert.Len(t, ranked, 2)

	for _, candidate := range ranked {
		assert.True(t, candidate.Partial)
		assert.Equal(t, ReasonBestEffortPartialCover, candidate.Reason)
		assert.InDelta(t, 27.0, candidate.Score, 1e-9)
	}

	// Equal scores and no capacities: lexicographic room id decides.
	assert.Equal(t, "R1", ranked[0].RoomID)
	assert.Equal(t, "R2", ranked[1].RoomID)
}

func TestRankCandidates_StrictWinsOverPartial(t *testing.T) {
	lists := map[string][]proximityModel.Entry{
		"A1": entries("R1", 40.0, "R2", 1.0),
		"B2": entries("R1", 40.0),
	}

	ranked := rankCandidates(lists, 1, 0, map[string]*int{})

	// R2 would score better with a zero penalty, but a non-empty strict
	// intersection means partial candidates are never considered.
	assert.Len(t, ranked, 1)
	assert.Equal(t, "R1", ranked[0].RoomID)
	assert.False(t, ranked[0].Partial)
}

func TestRankCandidates_CapacityTieBreak(t *testing.T) {
	lists := map[string][]proximityModel.Entry{
		"A1": entries("R1", 6.0, "R2", 8.0),
		"B2": entries("R1", 8.0, "R2", 6.0),
	}

	capacities := map[string]*int{
		"R1": intPtr(4),
		"R2": intPtr(12),
	}

	ranked := rankCandidates(lists, 0, 50, capacities)

	// Both rooms average 7.0; the larger room wins and reports the
	// capacity win as its reason.
	assert.Len(t, ranked, 2)
	assert.Equal(t, "R2", ranked[0].RoomID)
	assert.Equal(t, ReasonCapacityMatch, ranked[0].Reason)
	assert.Equal(t, "R1", ranked[1].RoomID)
	assert.Equal(t, ReasonClosestAverageDistance, ranked[1].Reason)
}

func TestRankCandidates_UnknownCapacitySortsLast(t *testing.T) {
	lists := map[string][]proximityModel.Entry{
		"A1": entries("R1", 7.0, "R2", 7.0),
	}

	capacities := map[string]*int{
		"R1": nil,
		"R2": intPtr(2),
	}

	ranked := rankCandidates(lists, 0, 50, capacities)

	assert.Equal(t, "R2", ranked[0].RoomID)
	assert.Equal(t, "R1", ranked[1].RoomID)
}

func TestRankCandidates_IDTieBreakAfterCapacity(t *testing.T) {
	lists := map[string][]proximityModel.Entry{
		"A1": entries("R9", 5.0, "R2", 5.0),
	}

	capacities := map[string]*int{
		"R9": intPtr(8),
		"R2": intPtr(8),
	}

	ranked := rankCandidates(lists, 0, 50, capacities)

	assert.Equal(t, "R2", ranked[0].RoomID)
	assert.Equal(t, ReasonClosestAverageDistance, ranked[0].Reason)
	assert.Equal(t, "R9", ranked[1].RoomID)
}

func TestRankCandidates_NoParticipants(t *testing.T) {
	ranked := rankCandidates(map[string][]proximityModel.Entry{}, 0, 50, map[string]*int{})

	assert.Empty(t, ranked)
}

func TestRankCandidates_SlackBound(t *testing.T) {
	lists := map[string][]proximityModel.Entry{
		"A1": entries("R1", 1.0),
		"B2": entries("R2", 1.0),
		"C3": entries("R3", 1.0),
	}

	// Missing from two lists with slack 1: nothing qualifies.
	ranked := rankCandidates(lists, 1, 10, map[string]*int{})

	assert.Empty(t, ranked)
}

func TestRankCandidates_DeterministicOrder(t *testing.T) {
	lists := map[string][]proximityModel.Entry{
		"A1": entries("R3", 3.0, "R1", 3.0, "R2", 3.0),
	}

	for range 50 {
		ranked := rankCandidates(lists, 0, 50, map[string]*int{})

		assert.Equal(t, "R1", ranked[0].RoomID)
		assert.Equal(t, "R2", ranked[1].RoomID)
		assert.Equal(t, "R3", ranked[2].RoomID)
	}
}
