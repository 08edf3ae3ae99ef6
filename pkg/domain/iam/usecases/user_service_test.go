package iam_usecases

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	common "github.com/padel-api/padel-api/pkg/domain"
	iam_entities "github.com/padel-api/padel-api/pkg/domain/iam/entities"
	iam_out "github.com/padel-api/padel-api/pkg/domain/iam/ports/out"
)

type fakeUserRepo struct {
	users       map[uuid.UUID]*iam_entities.User
	searchLimit int
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

func (f *fakeUserRepo) Search(_ context.Context, query string, limit int) ([]*iam_entities.User, error) {
	f.searchLimit = limit
	out := make([]*iam_entities.User, 0)
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.FullName), strings.ToLower(query)) {
			out = append(out, u)
		}
	}
	return out, nil
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
	return nil
}

var _ iam_out.UserRepository = (*fakeUserRepo)(nil)

func newService(repo *fakeUserRepo) *UserServiceUseCase {
	return NewUserServiceUseCase(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func userCtx() context.Context {
	ctx := context.WithValue(context.Background(), common.AuthenticatedKey, true)
	return context.WithValue(ctx, common.ResourceOwnerKey, common.ResourceOwner{UserID: uuid.New()})
}

func TestGetUser(t *testing.T) {
	user := iam_entities.NewUser("ana@example.com", "Ana Petrova")
	svc := newService(newFakeUserRepo(user))

	found, err := svc.Get(userCtx(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, found)
	assert.False(t, found.IsGuest())

	_, err = svc.Get(userCtx(), uuid.New())
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	_, err = svc.Get(context.Background(), user.ID)
	assert.Equal(t, common.KindAuthorization, common.KindOf(err))
}

func TestSearchUsers(t *testing.T) {
	ana := iam_entities.NewUser("ana@example.com", "Ana Petrova")
	repo := newFakeUserRepo(ana, iam_entities.NewUser("bo@example.com", "Bo Chen"))
	svc := newService(repo)

	found, err := svc.Search(userCtx(), "  ana ", 5)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, ana.ID, found[0].ID)
	assert.Equal(t, 5, repo.searchLimit)

	// out-of-range limits fall back to the default
	_, err = svc.Search(userCtx(), "a", 500)
	require.NoError(t, err)
	assert.Equal(t, defaultSearchLimit, repo.searchLimit)

	_, err = svc.Search(userCtx(), "   ", 5)
	assert.Equal(t, common.KindInvalidInput, common.KindOf(err))
}

func TestCreateGuest(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo)

	guest, err := svc.CreateGuest(userCtx(), "  Walk-in Four  ")
	require.NoError(t, err)
	assert.Equal(t, "Walk-in Four", guest.FullName)
	assert.True(t, guest.IsGuest())
	assert.True(t, guest.IsActive)
	assert.Contains(t, repo.users, guest.ID)

	_, err = svc.CreateGuest(userCtx(), "   ")
	assert.Equal(t, common.KindInvalidInput, common.KindOf(err))

	_, err = svc.CreateGuest(context.Background(), "Walk-in")
	assert.Equal(t, common.KindAuthorization, common.KindOf(err))
}
