package service

import (
	"math"
	"sort"

	proximityModel "atrium/internal/domains/proximity/model"
)

const (
	ReasonClosestAverageDistance = "CLOSEST_AVERAGE_DISTANCE"
	ReasonCapacityMatch          = "CAPACITY_MATCH"
	ReasonBestEffortPartialCover = "BEST_EFFORT_PARTIAL_COVERAGE"
)

const scoreEpsilon = 1e-9

// rankedCandidate is a room ordered by how well it serves every participant.
// Score is the mean distance across participants; for partial candidates the
// missing participants contribute the configured penalty instead of a real
// distance.
type rankedCandidate struct {
	RoomID    string
	Score     float64
	Distances map[string]float64
	Partial   bool
	Reason    string
}

// rankCandidates aggregates the per-participant nearest-room lists into one
// ranked list. Strict intersection first: only rooms present in every
// participant's list qualify. When that set is empty and slack allows it, a
// single best-effort pass admits rooms missing from at most slack lists,
// charging penalty distance units per missing participant.
//
// Ordering is ascending score, ties broken by larger capacity, then by room
// id. Rooms with unknown capacity sort below rooms whose capacity is known.
// The result is never truncated here; availability filtering downstream
// decides how many survive.
func rankCandidates(lists map[string][]proximityModel.Entry, slack int, penalty float64, capacities map[string]*int) []rankedCandidate {
	total := len(lists)
	if total == 0 {
		return []rankedCandidate{}
	}

	coverage := map[string]map[string]float64{}

	for grid, entries := range lists {
		for _, entry := range entries {
			if coverage[entry.RoomID] == nil {
				coverage[entry.RoomID] = make(map[string]float64, total)
			}

			coverage[entry.RoomID][grid] = entry.Distance
		}
	}

	strict := collect(coverage, total, 0, penalty)
	if len(strict) > 0 {
		return order(strict, capacities)
	}

	if slack <= 0 {
		return []rankedCandidate{}
	}

	return order(collect(coverage, total, slack, penalty), capacities)
}

func collect(coverage map[string]map[string]float64, total, slack int, penalty float64) []rankedCandidate {
	candidates := []rankedCandidate{}

	for roomID, distances := range coverage {
		missing := total - len(distances)
		if missing > slack {
			continue
		}

		sum := 0.0
		for _, distance := range distances {
			sum += distance
		}

		sum += penalty * float64(missing)

		candidates = append(candidates, rankedCandidate{
			RoomID:    roomID,
			Score:     sum / float64(total),
			Distances: distances,
			Partial:   missing > 0,
		})
	}

	return candidates
}

func order(candidates []rankedCandidate, capacities map[string]*int) []rankedCandidate {
	sort.Slice(candidates, func(i, j int) bool {
		if !scoresEqual(candidates[i].Score, candidates[j].Score) {
			return candidates[i].Score < candidates[j].Score
		}

		ci, cj := capacities[candidates[i].RoomID], capacities[candidates[j].RoomID]
		if capacityGreater(ci, cj) {
			return true
		}

		if capacityGreater(cj, ci) {
			return false
		}

		return candidates[i].RoomID < candidates[j].RoomID
	})

	for i := range candidates {
		candidates[i].Reason = reasonFor(candidates, capacities, i)
	}

	return candidates
}

// reasonFor tags each candidate with why it holds its position. A partial
// candidate always reports partial coverage; a candidate that outranks an
// equal-score neighbour on capacity reports the capacity win; everything
// else simply had the closest average distance.
func reasonFor(candidates []rankedCandidate, capacities map[string]*int, i int) string {
	if candidates[i].Partial {
		return ReasonBestEffortPartialCover
	}

	if i+1 < len(candidates) &&
		scoresEqual(candidates[i].Score, candidates[i+1].Score) &&
		capacityGreater(capacities[candidates[i].RoomID], capacities[candidates[i+1].RoomID]) {
		return ReasonCapacityMatch
	}

	return ReasonClosestAverageDistance
}

func scoresEqual(a, b float64) bool {
	return math.Abs(a-b) < scoreEpsilon
}

// capacityGreater treats unknown capacity as smaller than any known one.
func capacityGreater(a, b *int) bool {
	if a == nil {
		return false
	}

	if b == nil {
		return true
	}

	return *a > *b
}
