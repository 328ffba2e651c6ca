package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban/internal/domain"
)

// seedBoard loads the sample board used across the work item tests
func seedBoard(t *testing.T, repo *Repository) (brian int) {
	t.Helper()
	for _, name := range []string{"Cleaning", "Urgent", "TBD"} {
		seedTag(t, repo, name)
	}
	brian = seedUser(t, repo, "Brian", "brian@example.com")
	seedUser(t, repo, "rafa", "rafa@example.com")

	office := seedItem(t, repo, domain.WorkItemCreate{
		Title:        "Clean Office",
		AssignedToID: &brian,
		Tags:         []string{"Cleaning", "Urgent"},
	})
	seedItem(t, repo, domain.WorkItemCreate{Title: "Do Taxes", Tags: []string{"Urgent"}})
	run := seedItem(t, repo, domain.WorkItemCreate{Title: "Go For A Run", AssignedToID: &brian})

	setState(t, repo, office, domain.StateActive)
	setState(t, repo, run, domain.StateResolved)
	return brian
}

func titles(items []domain.WorkItemSummary) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

func TestCreateWorkItem(t *testing.T) {
	repo, clock := newTestRepo(t)
	ctx := context.Background()
	items := repo.WorkItems()

	seedTag(t, repo, "Cleaning")
	seedTag(t, repo, "Urgent")
	brian := seedUser(t, repo, "Brian", "brian@example.com")

	res, id, err := items.Create(ctx, domain.WorkItemCreate{
		Title:        "Clean Office",
		Description:  "desks and windows",
		AssignedToID: &brian,
		Tags:         []string{"Urgent", "Cleaning", "Unknown"},
	})
	require.NoError(t, err)
	require.Equal(t, domain.ResultCreated, res)

	details, err := items.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkItemDetails{
		ID:             id,
		Title:          "Clean Office",
		Description:    "desks and windows",
		Created:        clock.t,
		AssignedToName: "Brian",
		Tags:           []string{"Cleaning", "Urgent"},
		State:          domain.StateNew,
		StateUpdated:   clock.t,
	}, *details)

	t.Run("duplicate title returns existing id", func(t *testing.T) {
		res, existing, err := items.Create(ctx, domain.WorkItemCreate{Title: "Clean Office"})
		require.NoError(t, err)
		assert.Equal(t, domain.ResultConflict, res)
		assert.Equal(t, id, existing)
	})

	t.Run("unknown assignee", func(t *testing.T) {
		res, id, err := items.Create(ctx, domain.WorkItemCreate{Title: "Do Taxes", AssignedToID: ptr(999)})
		require.NoError(t, err)
		assert.Equal(t, domain.ResultBadRequest, res)
		assert.Equal(t, domain.NoID, id)

		all, err := items.Read(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("unassigned without tags", func(t *testing.T) {
		res, id, err := items.Create(ctx, domain.WorkItemCreate{Title: "Go For A Run"})
		require.NoError(t, err)
		require.Equal(t, domain.ResultCreated, res)

		details, err := items.Find(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, details.AssignedToName)
		assert.Equal(t, []string{}, details.Tags)
	})

	t.Run("tags are not duplicated", func(t *testing.T) {
		tags, err := repo.Tags().Read(ctx)
		require.NoError(t, err)
		assert.Len(t, tags, 2)
	})
}

func TestFindWorkItemMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.WorkItems().Find(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReadWorkItems(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	brian := seedBoard(t, repo)
	items := repo.WorkItems()

	all, err := items.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Clean Office", "Do Taxes", "Go For A Run"}, titles(all))
	assert.Equal(t, domain.WorkItemSummary{
		ID:             all[0].ID,
		Title:          "Clean Office",
		AssignedToName: "Brian",
		Tags:           []string{"Cleaning", "Urgent"},
		State:          domain.StateActive,
	}, all[0])

	tests := []struct {
		name     string
		read     func() ([]domain.WorkItemSummary, error)
		expected []string
	}{
		{"by state active", func() ([]domain.WorkItemSummary, error) { return items.ReadByState(ctx, domain.StateActive) }, []string{"Clean Office"}},
		{"by state new", func() ([]domain.WorkItemSummary, error) { return items.ReadByState(ctx, domain.StateNew) }, []string{"Do Taxes"}},
		{"by state closed", func() ([]domain.WorkItemSummary, error) { return items.ReadByState(ctx, domain.StateClosed) }, []string{}},
		{"by tag urgent", func() ([]domain.WorkItemSummary, error) { return items.ReadByTag(ctx, "Urgent") }, []string{"Clean Office", "Do Taxes"}},
		{"by tag cleaning", func() ([]domain.WorkItemSummary, error) { return items.ReadByTag(ctx, "Cleaning") }, []string{"Clean Office"}},
		{"by unused tag", func() ([]domain.WorkItemSummary, error) { return items.ReadByTag(ctx, "TBD") }, []string{}},
		{"by unknown tag", func() ([]domain.WorkItemSummary, error) { return items.ReadByTag(ctx, "Nope") }, []string{}},
		{"by user", func() ([]domain.WorkItemSummary, error) { return items.ReadByUser(ctx, brian) }, []string{"Clean Office", "Go For A Run"}},
		{"by unknown user", func() ([]domain.WorkItemSummary, error) { return items.ReadByUser(ctx, 999) }, []string{}},
		{"removed", func() ([]domain.WorkItemSummary, error) { return items.ReadRemoved(ctx) }, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.read()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, titles(got))
		})
	}

	t.Run("filtered rows keep all tags", func(t *testing.T) {
		got, err := items.ReadByTag(ctx, "Cleaning")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, []string{"Cleaning", "Urgent"}, got[0].Tags)
	})
}

func TestUpdateWorkItem(t *testing.T) {
	repo, clock := newTestRepo(t)
	ctx := context.Background()
	items := repo.WorkItems()

	seedTag(t, repo, "Cleaning")
	seedTag(t, repo, "Urgent")
	seedTag(t, repo, "TBD")
	brian := seedUser(t, repo, "Brian", "brian@example.com")
	rafa := seedUser(t, repo, "rafa", "rafa@example.com")

	id := seedItem(t, repo, domain.WorkItemCreate{
		Title:        "Clean Office",
		Description:  "desks",
		AssignedToID: &brian,
		Tags:         []string{"Cleaning"},
	})
	other := seedItem(t, repo, domain.WorkItemCreate{Title: "Do Taxes"})
	created := clock.t

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name     string
			update   domain.WorkItemUpdate
			expected domain.Result
		}{
			{"missing", domain.WorkItemUpdate{ID: 999, Title: "Do Taxes", AssignedToID: ptr(999), State: "bogus"}, domain.ResultNotFound},
			{"title taken", domain.WorkItemUpdate{ID: id, Title: "Do Taxes", AssignedToID: ptr(999), State: "bogus"}, domain.ResultConflict},
			{"unknown assignee", domain.WorkItemUpdate{ID: id, Title: "Clean Office", AssignedToID: ptr(999), State: "bogus"}, domain.ResultBadRequest},
			{"invalid state", domain.WorkItemUpdate{ID: id, Title: "Clean Office", State: "bogus"}, domain.ResultBadRequest},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				res, err := items.Update(ctx, tt.update)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, res)
			})
		}

		details, err := items.Find(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Clean Office", details.Title)
		assert.Equal(t, domain.StateNew, details.State)
	})

	t.Run("nil fields are kept", func(t *testing.T) {
		clock.advance(time.Hour)
		res, err := items.Update(ctx, domain.WorkItemUpdate{ID: id, Title: "Clean The Office", State: domain.StateActive})
		require.NoError(t, err)
		require.Equal(t, domain.ResultUpdated, res)

		details, err := items.Find(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Clean The Office", details.Title)
		assert.Equal(t, "desks", details.Description)
		assert.Equal(t, "Brian", details.AssignedToName)
		assert.Equal(t, []string{"Cleaning"}, details.Tags)
		assert.Equal(t, domain.StateActive, details.State)
		assert.Equal(t, created, details.Created)
		assert.Equal(t, clock.t, details.StateUpdated)
	})

	t.Run("all fields", func(t *testing.T) {
		res, err := items.Update(ctx, domain.WorkItemUpdate{
			ID:           id,
			Title:        "Clean The Office",
			Description:  ptr("windows too"),
			AssignedToID: &rafa,
			Tags:         []string{"Urgent", "Cleaning"},
			State:        domain.StateResolved,
		})
		require.NoError(t, err)
		require.Equal(t, domain.ResultUpdated, res)

		details, err := items.Find(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "windows too", details.Description)
		assert.Equal(t, "rafa", details.AssignedToName)
		assert.Equal(t, []string{"Cleaning", "Urgent"}, details.Tags)
		assert.Equal(t, domain.StateResolved, details.State)
	})

	t.Run("replace tags", func(t *testing.T) {
		res, err := items.Update(ctx, domain.WorkItemUpdate{
			ID:    id,
			Title: "Clean The Office",
			Tags:  []string{"Urgent"},
			State: domain.StateResolved,
		})
		require.NoError(t, err)
		require.Equal(t, domain.ResultUpdated, res)

		details, err := items.Find(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []string{"Urgent"}, details.Tags)
	})

	t.Run("unknown tag names are dropped", func(t *testing.T) {
		res, err := items.Update(ctx, domain.WorkItemUpdate{
			ID:    id,
			Title: "Clean The Office",
			Tags:  []string{"Urgent", "TBD", "Ghost", "Urgent"},
			State: domain.StateResolved,
		})
		require.NoError(t, err)
		require.Equal(t, domain.ResultUpdated, res)

		details, err := items.Find(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []string{"TBD", "Urgent"}, details.Tags)

		catalogue, err := repo.Tags().Read(ctx)
		require.NoError(t, err)
		names := make([]string, 0, len(catalogue))
		for _, tag := range catalogue {
			names = append(names, tag.Name)
		}
		assert.Equal(t, []string{"Cleaning", "Urgent", "TBD"}, names)
	})

	t.Run("empty tags clear the set", func(t *testing.T) {
		res, err := items.Update(ctx, domain.WorkItemUpdate{
			ID:    id,
			Title: "Clean The Office",
			Tags:  []string{},
			State: domain.StateResolved,
		})
		require.NoError(t, err)
		require.Equal(t, domain.ResultUpdated, res)

		details, err := items.Find(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []string{}, details.Tags)

		tagged, err := items.ReadByTag(ctx, "Urgent")
		require.NoError(t, err)
		assert.Empty(t, tagged)
	})

	t.Run("other item untouched", func(t *testing.T) {
		details, err := items.Find(ctx, other)
		require.NoError(t, err)
		assert.Equal(t, "Do Taxes", details.Title)
		assert.Equal(t, domain.StateNew, details.State)
	})
}

func TestDeleteWorkItem(t *testing.T) {
	repo, clock := newTestRepo(t)
	ctx := context.Background()
	items := repo.WorkItems()
	seedBoard(t, repo)

	all, err := items.Read(ctx)
	require.NoError(t, err)
	byTitle := make(map[string]int, len(all))
	for _, item := range all {
		byTitle[item.Title] = item.ID
	}

	t.Run("missing", func(t *testing.T) {
		res, err := items.Delete(ctx, 999)
		require.NoError(t, err)
		assert.Equal(t, domain.ResultNotFound, res)
	})

	t.Run("new item is deleted", func(t *testing.T) {
		res, err := items.Delete(ctx, byTitle["Do Taxes"])
		require.NoError(t, err)
		assert.Equal(t, domain.ResultDeleted, res)

		_, err = items.Find(ctx, byTitle["Do Taxes"])
		assert.ErrorIs(t, err, domain.ErrNotFound)

		// the tag itself survives
		res, _, err = repo.Tags().Create(ctx, domain.TagCreate{Name: "Urgent"})
		require.NoError(t, err)
		assert.Equal(t, domain.ResultConflict, res)
	})

	t.Run("active item is removed", func(t *testing.T) {
		clock.advance(time.Hour)
		res, err := items.Delete(ctx, byTitle["Clean Office"])
		require.NoError(t, err)
		assert.Equal(t, domain.ResultUpdated, res)

		details, err := items.Find(ctx, byTitle["Clean Office"])
		require.NoError(t, err)
		assert.Equal(t, domain.StateRemoved, details.State)
		assert.Equal(t, clock.t, details.StateUpdated)
		assert.Equal(t, []string{"Cleaning", "Urgent"}, details.Tags)

		removed, err := items.ReadRemoved(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Clean Office"}, titles(removed))
	})

	t.Run("removed item is refused", func(t *testing.T) {
		res, err := items.Delete(ctx, byTitle["Clean Office"])
		require.NoError(t, err)
		assert.Equal(t, domain.ResultConflict, res)
	})

	t.Run("resolved item is refused", func(t *testing.T) {
		res, err := items.Delete(ctx, byTitle["Go For A Run"])
		require.NoError(t, err)
		assert.Equal(t, domain.ResultConflict, res)

		details, err := items.Find(ctx, byTitle["Go For A Run"])
		require.NoError(t, err)
		assert.Equal(t, domain.StateResolved, details.State)
	})

	t.Run("closed item is refused", func(t *testing.T) {
		id := byTitle["Go For A Run"]
		setState(t, repo, id, domain.StateClosed)
		before, err := items.Find(ctx, id)
		require.NoError(t, err)

		clock.advance(time.Hour)
		res, err := items.Delete(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ResultConflict, res)

		after, err := items.Find(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StateClosed, after.State)
		assert.Equal(t, before.StateUpdated, after.StateUpdated)
	})
}
