package tournament_usecases

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	iam_out "github.com/padel-api/padel-api/pkg/domain/iam/ports/out"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_in "github.com/padel-api/padel-api/pkg/domain/tournament/ports/in"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
	tournament_services "github.com/padel-api/padel-api/pkg/domain/tournament/services"
)

// TournamentQueriesUseCase is the read side: schedules, leaderboards and final
// results, with display names resolved through the user repository. Reads run
// outside transactions; a leaderboard is a snapshot of completed matches at
// query time.
type TournamentQueriesUseCase struct {
	tournamentRepository tournament_out.TournamentRepository
	matchRepository      tournament_out.MatchRepository
	resultRepository     tournament_out.ResultRepository
	userRepository       iam_out.UserRepository
	scoreboard           *tournament_services.Scoreboard
	logger               *slog.Logger
}

func NewTournamentQueriesUseCase(
	tournamentRepository tournament_out.TournamentRepository,
	matchRepository tournament_out.MatchRepository,
	resultRepository tournament_out.ResultRepository,
	userRepository iam_out.UserRepository,
	scoreboard *tournament_services.Scoreboard,
	logger *slog.Logger,
) *TournamentQueriesUseCase {
	return &TournamentQueriesUseCase{
		tournamentRepository: tournamentRepository,
		matchRepository:      matchRepository,
		resultRepository:     resultRepository,
		userRepository:       userRepository,
		scoreboard:           scoreboard,
		logger:               logger,
	}
}

func (uc *TournamentQueriesUseCase) Get(ctx context.Context, tournamentID uuid.UUID) (*tournament_entities.Tournament, error) {
	return uc.tournamentRepository.FindByID(ctx, tournamentID)
}

func (uc *TournamentQueriesUseCase) List(ctx context.Context, filters tournament_out.TournamentFilters) ([]*tournament_entities.Tournament, error) {
	return uc.tournamentRepository.Search(ctx, filters)
}

func (uc *TournamentQueriesUseCase) CurrentRoundMatches(ctx context.Context, tournamentID uuid.UUID) ([]*tournament_entities.Match, error) {
	t, err := uc.tournamentRepository.FindByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return uc.matchRepository.FindByRound(ctx, tournamentID, t.CurrentRound)
}

func (uc *TournamentQueriesUseCase) AllRounds(ctx context.Context, tournamentID uuid.UUID) ([]tournament_in.RoundView, error) {
	if _, err := uc.tournamentRepository.FindByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	matches, err := uc.matchRepository.FindByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	byRound := make(map[int][]*tournament_entities.Match)
	for _, m := range matches {
		byRound[m.RoundNumber] = append(byRound[m.RoundNumber], m)
	}
	numbers := make([]int, 0, len(byRound))
	for n := range byRound {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	views := make([]tournament_in.RoundView, 0, len(numbers))
	for _, n := range numbers {
		views = append(views, tournament_in.RoundView{RoundNumber: n, Matches: byRound[n]})
	}
	return views, nil
}

func (uc *TournamentQueriesUseCase) Leaderboard(ctx context.Context, tournamentID uuid.UUID) ([]tournament_in.LeaderboardRow, error) {
	t, err := uc.tournamentRepository.FindByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	matches, err := uc.matchRepository.FindByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	board := uc.scoreboard.Leaderboard(t.Players, matches)
	names := uc.resolveNames(ctx, t.Players)

	rows := make([]tournament_in.LeaderboardRow, 0, len(board))
	for i, stats := range board {
		rows = append(rows, tournament_in.LeaderboardRow{
			Rank:       i + 1,
			PlayerID:   stats.PlayerID,
			PlayerName: names[stats.PlayerID],
			Stats:      stats,
		})
	}
	return rows, nil
}

func (uc *TournamentQueriesUseCase) PlayerScores(ctx context.Context, tournamentID uuid.UUID) (map[uuid.UUID]int, error) {
	t, err := uc.tournamentRepository.FindByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	matches, err := uc.matchRepository.FindByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	scores := make(map[uuid.UUID]int, len(t.Players))
	for _, stats := range uc.scoreboard.ComputeStats(t.Players, matches) {
		scores[stats.PlayerID] = stats.TotalPoints
	}
	return scores, nil
}

func (uc *TournamentQueriesUseCase) Winner(ctx context.Context, tournamentID uuid.UUID) (*tournament_in.LeaderboardRow, error) {
	rows, err := uc.Leaderboard(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (uc *TournamentQueriesUseCase) Results(ctx context.Context, tournamentID uuid.UUID) ([]*tournament_entities.TournamentResult, error) {
	if _, err := uc.tournamentRepository.FindByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	return uc.resultRepository.FindByTournament(ctx, tournamentID)
}

// resolveNames is best-effort: a lookup failure degrades to blank names rather
// than failing the read.
func (uc *TournamentQueriesUseCase) resolveNames(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(ids))
	users, err := uc.userRepository.FindByIDs(ctx, ids)
	if err != nil {
		uc.logger.WarnContext(ctx, "name resolution failed", "error", err)
		return names
	}
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names
}

var _ tournament_in.TournamentQueries = (*TournamentQueriesUseCase)(nil)
