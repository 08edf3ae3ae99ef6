package tournament_services

import (
	"github.com/google/uuid"
	common "github.com/padel-api/padel-api/pkg/domain"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
)

// MatchPairing is one scheduled match: the partnership {0,1} plays {2,3}.
type MatchPairing [4]uuid.UUID

// AmericanoScheduler builds the full round schedule for an Americano
// tournament. For a roster of N players it produces N-1 rounds of N/4 matches
// such that every pair of players partners exactly once, every pair faces each
// other at least once, and each round uses every player exactly once. Output
// is deterministic for a fixed input order.
type AmericanoScheduler struct{}

// NewAmericanoScheduler creates the scheduler. It is stateless; a single
// instance can serve concurrent callers.
func NewAmericanoScheduler() *AmericanoScheduler {
	return &AmericanoScheduler{}
}

// TotalRounds is the number of rounds for n players.
func TotalRounds(n int) int {
	return n - 1
}

// MatchesPerRound is the number of simultaneous matches for n players.
func MatchesPerRound(n int) int {
	return n / 4
}

// TotalMatches is the size of the whole schedule for n players.
func TotalMatches(n int) int {
	return TotalRounds(n) * MatchesPerRound(n)
}

// GenerateRounds builds the complete schedule for the roster, in input order.
func (s *AmericanoScheduler) GenerateRounds(players []uuid.UUID) ([][]MatchPairing, error) {
	n := len(players)
	if n < tournament_entities.MinPlayers || n > tournament_entities.MaxPlayers || n%4 != 0 {
		return nil, common.NewErrInvalidRoster("americano requires 4..24 players divisible by 4, got %d", n)
	}

	factorisation := oneFactorisation(n)

	// Opposition pairs covered so far, keyed min*n+max.
	covered := make(map[int]bool, n*(n-1)/2)
	allPairs := n * (n - 1) / 2

	rounds := make([][]MatchPairing, 0, n-1)
	for _, matching := range factorisation {
		best := chooseEdgePairing(matching, covered, allPairs, n)

		roundMatches := make([]MatchPairing, 0, n/4)
		for _, pair := range best {
			a, b := pair[0][0], pair[0][1]
			c, d := pair[1][0], pair[1][1]
			for _, u := range [2]int{a, b} {
				for _, v := range [2]int{c, d} {
					covered[crossKey(u, v, n)] = true
				}
			}
			roundMatches = append(roundMatches, MatchPairing{players[a], players[b], players[c], players[d]})
		}
		rounds = append(rounds, roundMatches)
	}
	return rounds, nil
}

type edge [2]int
type edgePair [2]edge

// oneFactorisation decomposes K_n into n-1 perfect matchings using the circle
// method: vertex 0 stays fixed while the remaining n-1 vertices rotate.
func oneFactorisation(n int) [][]edge {
	top := make([]int, n-1)
	for i := range top {
		top[i] = i + 1
	}

	rounds := make([][]edge, 0, n-1)
	for r := 0; r < n-1; r++ {
		arrangement := append([]int{0}, top...)
		pairs := make([]edge, 0, n/2)
		for i := 0; i < n/2; i++ {
			pairs = append(pairs, edge{arrangement[i], arrangement[n-1-i]})
		}
		rounds = append(rounds, pairs)

		// right-rotate the moving vertices
		last := top[n-2]
		copy(top[1:], top[:n-2])
		top[0] = last
	}
	return rounds
}

// chooseEdgePairing picks the partition of the matching's edges into disjoint
// pairs that introduces the most opposition pairs not yet covered. Ties keep
// the first partition in generation order, which makes the schedule
// deterministic. Enumeration is (m-1)!! partitions for m edges; at the
// supported maximum of 12 edges that is 10395 candidates.
func chooseEdgePairing(matching []edge, covered map[int]bool, allPairs, n int) []edgePair {
	var best []edgePair
	bestNew := -1
	remaining := allPairs - len(covered)

	current := make([]edgePair, 0, len(matching)/2)
	var recurse func(edges []edge) bool
	recurse = func(edges []edge) bool {
		if len(edges) == 0 {
			score := 0
			for _, pair := range current {
				a, b := pair[0][0], pair[0][1]
				c, d := pair[1][0], pair[1][1]
				for _, u := range [2]int{a, b} {
					for _, v := range [2]int{c, d} {
						if !covered[crossKey(u, v, n)] {
							score++
						}
					}
				}
			}
			if score > bestNew {
				bestNew = score
				best = append(best[:0:0], current...)
				// nothing left to cover this round: stop enumerating
				if bestNew == remaining {
					return true
				}
			}
			return false
		}
		first := edges[0]
		rest := edges[1:]
		for i := range rest {
			current = append(current, edgePair{first, rest[i]})
			next := make([]edge, 0, len(rest)-1)
			next = append(next, rest[:i]...)
			next = append(next, rest[i+1:]...)
			stop := recurse(next)
			current = current[:len(current)-1]
			if stop {
				return true
			}
		}
		return false
	}
	recurse(matching)
	return best
}

func crossKey(u, v, n int) int {
	if u > v {
		u, v = v, u
	}
	return u*n + v
}
