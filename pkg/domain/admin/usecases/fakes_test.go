package admin_usecases

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	common "github.com/padel-api/padel-api/pkg/domain"
	admin_entities "github.com/padel-api/padel-api/pkg/domain/admin/entities"
	admin_out "github.com/padel-api/padel-api/pkg/domain/admin/ports/out"
	iam_entities "github.com/padel-api/padel-api/pkg/domain/iam/entities"
	iam_out "github.com/padel-api/padel-api/pkg/domain/iam/ports/out"
	tournament_entities "github.com/padel-api/padel-api/pkg/domain/tournament/entities"
	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func adminCtx() context.Context {
	ctx := context.WithValue(context.Background(), common.AuthenticatedKey, true)
	return context.WithValue(ctx, common.ResourceOwnerKey, common.ResourceOwner{UserID: uuid.New(), IsSuperuser: true})
}

func regularCtx() context.Context {
	ctx := context.WithValue(context.Background(), common.AuthenticatedKey, true)
	return context.WithValue(ctx, common.ResourceOwnerKey, common.ResourceOwner{UserID: uuid.New()})
}

type fakeAuditRepo struct {
	entries []*admin_entities.AuditEntry
}

func (f *fakeAuditRepo) Append(_ context.Context, entry *admin_entities.AuditEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) Search(_ context.Context, filters admin_out.AuditFilters) ([]*admin_entities.AuditEntry, error) {
	out := make([]*admin_entities.AuditEntry, 0, len(f.entries))
	for _, e := range f.entries {
		if filters.Action != nil && e.Action != *filters.Action {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeAuditRepo) Stats(context.Context) (*admin_out.AuditStats, error) {
	stats := &admin_out.AuditStats{CountsByAction: make(map[admin_entities.ActionType]int)}
	for _, e := range f.entries {
		stats.TotalEntries++
		stats.CountsByAction[e.Action]++
	}
	return stats, nil
}

func (f *fakeAuditRepo) TargetHistory(_ context.Context, targetType admin_entities.TargetType, targetID string) ([]*admin_entities.AuditEntry, error) {
	out := make([]*admin_entities.AuditEntry, 0)
	for _, e := range f.entries {
		if e.TargetType == targetType && e.TargetID == targetID {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ admin_out.AuditRepository = (*fakeAuditRepo)(nil)

// rollbackTxRunner imitates an aborting transaction: audit entries appended
// inside a callback that returns an error are discarded.
type rollbackTxRunner struct {
	audit *fakeAuditRepo
}

func (r rollbackTxRunner) InTx(ctx context.Context, fn func(context.Context) error) error {
	checkpoint := len(r.audit.entries)
	if err := fn(ctx); err != nil {
		r.audit.entries = r.audit.entries[:checkpoint]
		return err
	}
	return nil
}

var _ common.TxRunner = rollbackTxRunner{}

type fakeTournamentRepo struct {
	tournaments map[uuid.UUID]*tournament_entities.Tournament
}

func newFakeTournamentRepo(ts ...*tournament_entities.Tournament) *fakeTournamentRepo {
	repo := &fakeTournamentRepo{tournaments: make(map[uuid.UUID]*tournament_entities.Tournament)}
	for _, t := range ts {
		repo.tournaments[t.ID] = t
	}
	return repo
}

func (f *fakeTournamentRepo) FindByID(_ context.Context, id uuid.UUID) (*tournament_entities.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, common.NewErrNotFound("tournament", id)
	}
	return t, nil
}

func (f *fakeTournamentRepo) FindByJoinCode(_ context.Context, code string) (*tournament_entities.Tournament, error) {
	return nil, common.NewErrNotFound("tournament join code", code)
}

func (f *fakeTournamentRepo) Search(_ context.Context, filters tournament_out.TournamentFilters) ([]*tournament_entities.Tournament, error) {
	out := make([]*tournament_entities.Tournament, 0)
	for _, t := range f.tournaments {
		if filters.PlayerID != nil && !t.HasPlayer(*filters.PlayerID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTournamentRepo) Save(_ context.Context, t *tournament_entities.Tournament) error {
	f.tournaments[t.ID] = t
	return nil
}

func (f *fakeTournamentRepo) Update(_ context.Context, t *tournament_entities.Tournament) error {
	f.tournaments[t.ID] = t
	return nil
}

func (f *fakeTournamentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.tournaments, id)
	return nil
}

var _ tournament_out.TournamentRepository = (*fakeTournamentRepo)(nil)

type fakeMatchRepo struct {
	matches map[uuid.UUID]*tournament_entities.Match
}

func newFakeMatchRepo(ms ...*tournament_entities.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{matches: make(map[uuid.UUID]*tournament_entities.Match)}
	for _, m := range ms {
		repo.matches[m.ID] = m
	}
	return repo
}

func (f *fakeMatchRepo) FindByID(_ context.Context, id uuid.UUID) (*tournament_entities.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, common.NewErrNotFound("match", id)
	}
	return m, nil
}

func (f *fakeMatchRepo) FindByTournament(_ context.Context, tournamentID uuid.UUID) ([]*tournament_entities.Match, error) {
	out := make([]*tournament_entities.Match, 0)
	for _, m := range f.matches {
		if m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) FindByRound(_ context.Context, tournamentID uuid.UUID, roundNumber int) ([]*tournament_entities.Match, error) {
	out := make([]*tournament_entities.Match, 0)
	for _, m := range f.matches {
		if m.TournamentID == tournamentID && m.RoundNumber == roundNumber {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) FindCompleted(_ context.Context, tournamentID uuid.UUID) ([]*tournament_entities.Match, error) {
	out := make([]*tournament_entities.Match, 0)
	for _, m := range f.matches {
		if m.TournamentID == tournamentID && m.IsCompleted {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) SaveAll(_ context.Context, matches []*tournament_entities.Match) error {
	for _, m := range matches {
		f.matches[m.ID] = m
	}
	return nil
}

func (f *fakeMatchRepo) Update(_ context.Context, match *tournament_entities.Match) error {
	f.matches[match.ID] = match
	return nil
}

var _ tournament_out.MatchRepository = (*fakeMatchRepo)(nil)

type fakeResultRepo struct {
	results map[uuid.UUID][]*tournament_entities.TournamentResult
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{results: make(map[uuid.UUID][]*tournament_entities.TournamentResult)}
}

func (f *fakeResultRepo) FindByTournament(_ context.Context, tournamentID uuid.UUID) ([]*tournament_entities.TournamentResult, error) {
	return f.results[tournamentID], nil
}

func (f *fakeResultRepo) FindByTournamentAndPlayer(_ context.Context, tournamentID, playerID uuid.UUID) (*tournament_entities.TournamentResult, error) {
	for _, r := range f.results[tournamentID] {
		if r.PlayerID == playerID {
			return r, nil
		}
	}
	return nil, common.NewErrNotFound("tournament result", playerID)
}

func (f *fakeResultRepo) ReplaceForTournament(_ context.Context, tournamentID uuid.UUID, results []*tournament_entities.TournamentResult) error {
	f.results[tournamentID] = results
	return nil
}

var _ tournament_out.ResultRepository = (*fakeResultRepo)(nil)

type fakeUserRepo struct {
	users   map[uuid.UUID]*iam_entities.User
	deleted []uuid.UUID
}

func newFakeUserRepo(users ...*iam_entities.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*iam_entities.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*iam_entities.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.NewErrNotFound("user", id)
	}
	return u, nil
}

func (f *fakeUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*iam_entities.User, error) {
	out := make([]*iam_entities.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Search(context.Context, string, int) ([]*iam_entities.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Save(_ context.Context, user *iam_entities.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *iam_entities.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

var _ iam_out.UserRepository = (*fakeUserRepo)(nil)

func activeTournament(t *testing.T, players int) *tournament_entities.Tournament {
	t.Helper()
	tournament, err := tournament_entities.NewTournament(
		"Club Night", tournament_entities.SystemAmericano, uuid.New(),
		players, 32, 2, "", time.Now(),
	)
	require.NoError(t, err)
	for i := 0; i < players; i++ {
		require.NoError(t, tournament.AddPlayer(uuid.New()))
	}
	require.NoError(t, tournament.Start(1000))
	return tournament
}
