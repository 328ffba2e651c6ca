package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban/internal/domain"
)

func TestCreateUser(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	users := repo.Users()

	res, id, err := users.Create(ctx, domain.UserCreate{Name: "rafa", Email: "rafa@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.ResultCreated, res)
	assert.Greater(t, id, 0)

	t.Run("duplicate email", func(t *testing.T) {
		res, id, err := users.Create(ctx, domain.UserCreate{Name: "other", Email: "rafa@example.com"})
		require.NoError(t, err)
		assert.Equal(t, domain.ResultConflict, res)
		assert.Equal(t, domain.NoID, id)

		all, err := users.Read(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestReadUsers(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	empty, err := repo.Users().Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	rafa := seedUser(t, repo, "rafa", "rafa@example.com")
	jouj := seedUser(t, repo, "jouj", "jouj@example.com")
	bemi := seedUser(t, repo, "bemi", "bemi@example.com")

	all, err := repo.Users().Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.User{
		{ID: rafa, Name: "rafa", Email: "rafa@example.com"},
		{ID: jouj, Name: "jouj", Email: "jouj@example.com"},
		{ID: bemi, Name: "bemi", Email: "bemi@example.com"},
	}, all)
}

func TestFindUser(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	id := seedUser(t, repo, "rafa", "rafa@example.com")

	user, err := repo.Users().Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "rafa", user.Name)

	_, err = repo.Users().Find(ctx, id+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	users := repo.Users()

	rafa := seedUser(t, repo, "rafa", "rafa@example.com")
	seedUser(t, repo, "jouj", "jouj@example.com")

	tests := []struct {
		name     string
		update   domain.UserUpdate
		expected domain.Result
	}{
		{"rename", domain.UserUpdate{ID: rafa, Name: "Rafael", Email: "rafa@example.com"}, domain.ResultUpdated},
		{"new email", domain.UserUpdate{ID: rafa, Name: "Rafael", Email: "rafael@example.com"}, domain.ResultUpdated},
		{"email taken", domain.UserUpdate{ID: rafa, Name: "Rafael", Email: "jouj@example.com"}, domain.ResultConflict},
		{"missing user", domain.UserUpdate{ID: 999, Name: "ghost", Email: "ghost@example.com"}, domain.ResultNotFound},
		{"conflict wins over missing", domain.UserUpdate{ID: 999, Name: "ghost", Email: "jouj@example.com"}, domain.ResultConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := users.Update(ctx, tt.update)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res)
		})
	}

	user, err := users.Find(ctx, rafa)
	require.NoError(t, err)
	assert.Equal(t, domain.User{ID: rafa, Name: "Rafael", Email: "rafael@example.com"}, *user)
}

func TestDeleteUser(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	users := repo.Users()

	t.Run("unassigned", func(t *testing.T) {
		id := seedUser(t, repo, "bemi", "bemi@example.com")
		res, err := users.Delete(ctx, id, false)
		require.NoError(t, err)
		assert.Equal(t, domain.ResultDeleted, res)

		_, err = users.Find(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("missing", func(t *testing.T) {
		res, err := users.Delete(ctx, 999, true)
		require.NoError(t, err)
		assert.Equal(t, domain.ResultNotFound, res)
	})

	t.Run("assigned", func(t *testing.T) {
		id := seedUser(t, repo, "Brian", "brian@example.com")
		item := seedItem(t, repo, domain.WorkItemCreate{Title: "Clean Office", AssignedToID: &id})

		res, err := users.Delete(ctx, id, false)
		require.NoError(t, err)
		assert.Equal(t, domain.ResultConflict, res)

		_, err = users.Find(ctx, id)
		require.NoError(t, err)

		res, err = users.Delete(ctx, id, true)
		require.NoError(t, err)
		assert.Equal(t, domain.ResultDeleted, res)

		details, err := repo.WorkItems().Find(ctx, item)
		require.NoError(t, err)
		assert.Empty(t, details.AssignedToName)

		mine, err := repo.WorkItems().ReadByUser(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, mine)
	})
}
