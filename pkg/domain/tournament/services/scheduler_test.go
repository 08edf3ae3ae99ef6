package tournament_services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	common "github.com/padel-api/padel-api/pkg/domain"
)

func roster(n int) []uuid.UUID {
	players := make([]uuid.UUID, n)
	for i := range players {
		players[i] = uuid.New()
	}
	return players
}

type pairKey [2]uuid.UUID

func newPairKey(a, b uuid.UUID) pairKey {
	if a.String() > b.String() {
		a, b = b, a
	}
	return pairKey{a, b}
}

func TestGenerateRoundsProperties(t *testing.T) {
	scheduler := NewAmericanoScheduler()

	for _, n := range []int{4, 8, 12, 16, 20, 24} {
		t.Run(fmt.Sprintf("players_%d", n), func(t *testing.T) {
			players := roster(n)
			rounds, err := scheduler.GenerateRounds(players)
			require.NoError(t, err)
			require.Len(t, rounds, TotalRounds(n))

			partnerships := make(map[pairKey]int)
			oppositions := make(map[pairKey]bool)

			for _, round := range rounds {
				require.Len(t, round, MatchesPerRound(n))

				// each round uses every player exactly once
				seen := make(map[uuid.UUID]bool, n)
				for _, match := range round {
					for _, id := range match {
						assert.False(t, seen[id], "player scheduled twice in one round")
						seen[id] = true
					}
					partnerships[newPairKey(match[0], match[1])]++
					partnerships[newPairKey(match[2], match[3])]++
					for _, u := range match[:2] {
						for _, v := range match[2:] {
							oppositions[newPairKey(u, v)] = true
						}
					}
				}
				assert.Len(t, seen, n)
			}

			// every pair partners exactly once
			assert.Len(t, partnerships, n*(n-1)/2)
			for pair, count := range partnerships {
				assert.Equal(t, 1, count, "pair %v partnered %d times", pair, count)
			}

			// every pair faces each other at least once
			assert.Len(t, oppositions, n*(n-1)/2)
		})
	}
}

func TestGenerateRoundsDeterministic(t *testing.T) {
	scheduler := NewAmericanoScheduler()
	players := roster(12)

	first, err := scheduler.GenerateRounds(players)
	require.NoError(t, err)
	second, err := scheduler.GenerateRounds(players)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateRoundsFourPlayers(t *testing.T) {
	scheduler := NewAmericanoScheduler()
	players := roster(4)

	rounds, err := scheduler.GenerateRounds(players)
	require.NoError(t, err)
	require.Len(t, rounds, 3)

	// three rounds of one match each, rotating partnerships
	partnerships := make(map[pairKey]bool)
	for _, round := range rounds {
		require.Len(t, round, 1)
		match := round[0]
		partnerships[newPairKey(match[0], match[1])] = true
		partnerships[newPairKey(match[2], match[3])] = true
	}
	assert.Len(t, partnerships, 6)
}

func TestGenerateRoundsRejectsInvalidRosters(t *testing.T) {
	scheduler := NewAmericanoScheduler()

	for _, n := range []int{0, 2, 3, 5, 6, 10, 26, 28} {
		_, err := scheduler.GenerateRounds(roster(n))
		require.Error(t, err, "roster of %d accepted", n)
		assert.Equal(t, common.KindInvalidRoster, common.KindOf(err))
	}
}

func TestScheduleSizeHelpers(t *testing.T) {
	assert.Equal(t, 7, TotalRounds(8))
	assert.Equal(t, 2, MatchesPerRound(8))
	assert.Equal(t, 14, TotalMatches(8))
	assert.Equal(t, 3, TotalMatches(4))
	assert.Equal(t, 138, TotalMatches(24))
}
