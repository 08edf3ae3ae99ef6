package tournament_services

import (
	common "github.com/padel-api/padel-api/pkg/domain"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
)

// Planner defaults for Americano sessions.
const (
	DefaultPointsPerGame   = 21
	DefaultSecondsPerPoint = 25
	DefaultRestSeconds     = 60

	maxPlannedPoints = 48
	minPlannedPoints = 16
)

func validatePlannerInput(numPlayers, courts int) error {
	if numPlayers < tournament_entities.MinPlayers || numPlayers > tournament_entities.MaxPlayers || numPlayers%4 != 0 {
		return common.NewErrInvalidRoster("planner requires a player count divisible by 4 between %d and %d, got %d",
			tournament_entities.MinPlayers, tournament_entities.MaxPlayers, numPlayers)
	}
	if courts < 1 {
		return common.NewErrInvalidInput("courts must be >= 1, got %d", courts)
	}
	return nil
}

// EstimateDuration returns the expected wall-clock minutes for a full
// tournament and the number of rounds it will take.
func EstimateDuration(numPlayers, courts, pointsPerGame, secondsPerPoint, restSeconds int) (minutes int, rounds int, err error) {
	if err := validatePlannerInput(numPlayers, courts); err != nil {
		return 0, 0, err
	}
	if pointsPerGame < 1 {
		return 0, 0, common.NewErrInvalidInput("points per game must be >= 1, got %d", pointsPerGame)
	}

	totalMatches := TotalMatches(numPlayers)
	secondsPerMatch := pointsPerGame*secondsPerPoint + restSeconds
	minutesPerMatch := float64(secondsPerMatch) / 60.0
	total := float64(totalMatches) * minutesPerMatch / float64(courts)
	return int(total), TotalRounds(numPlayers), nil
}

// OptimalPointsPerMatch finds the highest point target that fits the available
// time, searching downward from 48 in steps of 4. Falls back to 16 when even
// the shortest games overrun the budget.
func OptimalPointsPerMatch(numPlayers, courts int, availableHours float64, secondsPerPoint, restSeconds int) (int, error) {
	if err := validatePlannerInput(numPlayers, courts); err != nil {
		return 0, err
	}
	if availableHours <= 0 {
		return 0, common.NewErrInvalidInput("available hours must be positive, got %v", availableHours)
	}

	totalMatches := TotalMatches(numPlayers)
	availableMinutes := availableHours * 60

	for points := maxPlannedPoints; points >= minPlannedPoints; points -= 4 {
		secondsPerMatch := points*secondsPerPoint + restSeconds
		minutesPerMatch := float64(secondsPerMatch) / 60.0
		needed := float64(totalMatches) * minutesPerMatch / float64(courts)
		if needed <= availableMinutes {
			return points, nil
		}
	}
	return minPlannedPoints, nil
}
