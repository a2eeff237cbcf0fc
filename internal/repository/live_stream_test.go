package repository

import (
	"context"
	"testing"

	"brrads/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeStreamCount(t *testing.T, repo LiveStreamRepository) int64 {
	t.Helper()
	count, err := repo.CountActive(context.Background())
	require.NoError(t, err)
	return count
}

func TestLiveStreamRepository_CreateActiveDeactivatesOthers(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewLiveStreamRepository(db)
	ctx := context.Background()

	admin := seedUser(t, users, "admin")

	first := &models.LiveStream{Title: "Monday stream", YoutubeURL: "https://youtube.com/watch?v=a", CreatedBy: admin.ID}
	require.NoError(t, repo.CreateActive(ctx, first))
	assert.EqualValues(t, 1, activeStreamCount(t, repo))

	second := &models.LiveStream{Title: "Tuesday stream", YoutubeURL: "https://youtube.com/watch?v=b", CreatedBy: admin.ID}
	require.NoError(t, repo.CreateActive(ctx, second))

	assert.EqualValues(t, 1, activeStreamCount(t, repo))

	reloaded, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	assert.NotNil(t, reloaded.EndedAt)

	current, err := repo.GetCurrent(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, second.ID, current.ID)
}

func TestLiveStreamRepository_ActivateExclusive(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewLiveStreamRepository(db)
	ctx := context.Background()

	admin := seedUser(t, users, "admin")

	a := &models.LiveStream{Title: "A", YoutubeURL: "https://youtube.com/watch?v=a", CreatedBy: admin.ID}
	require.NoError(t, repo.CreateActive(ctx, a))
	b := &models.LiveStream{Title: "B", YoutubeURL: "https://youtube.com/watch?v=b", CreatedBy: admin.ID}
	require.NoError(t, repo.CreateActive(ctx, b))

	// Re-activate the older stream; the invariant must hold throughout.
	activated, err := repo.ActivateExclusive(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, activated)
	assert.True(t, activated.IsActive)
	assert.Nil(t, activated.EndedAt)
	assert.NotNil(t, activated.StartedAt)

	assert.EqualValues(t, 1, activeStreamCount(t, repo))

	// Unknown id reports absence, not an error.
	missing, err := repo.ActivateExclusive(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLiveStreamRepository_Deactivate(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewLiveStreamRepository(db)
	ctx := context.Background()

	admin := seedUser(t, users, "admin")

	s := &models.LiveStream{Title: "S", YoutubeURL: "https://youtube.com/watch?v=s", CreatedBy: admin.ID}
	require.NoError(t, repo.CreateActive(ctx, s))

	deactivated, err := repo.Deactivate(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, deactivated)
	assert.False(t, deactivated.IsActive)
	assert.NotNil(t, deactivated.EndedAt)
	assert.EqualValues(t, 0, activeStreamCount(t, repo))

	current, err := repo.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}
