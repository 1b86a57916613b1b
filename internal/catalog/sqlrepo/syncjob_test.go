package sqlrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/musiccore/internal/catalog"
)

func TestSyncJobRepoInsertAndFindByID(t *testing.T) {
	repos := newTestRepos(t)

	job := catalog.SyncJob{ID: catalog.NewID(), ProviderKind: "GoogleDrive", SyncType: catalog.SyncFull, Status: catalog.JobRunning}
	require.NoError(t, repos.SyncJobs.Insert(context.Background(), &job))

	found, err := repos.SyncJobs.FindByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.JobRunning, found.Status)
	assert.Equal(t, catalog.SyncFull, found.SyncType)
}

func TestSyncJobRepoFindByIDNotFound(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.SyncJobs.FindByID(context.Background(), catalog.NewID())
	assert.Error(t, err)
}

func TestSyncJobRepoUpdate(t *testing.T) {
	repos := newTestRepos(t)

	job := catalog.SyncJob{ID: catalog.NewID(), ProviderKind: "GoogleDrive", SyncType: catalog.SyncFull, Status: catalog.JobRunning}
	require.NoError(t, repos.SyncJobs.Insert(context.Background(), &job))

	job.Status = catalog.JobCompleted
	job.Stats = catalog.JobStats{Added: 3}
	now := time.Now().UTC()
	job.FinishedAt = &now
	require.NoError(t, repos.SyncJobs.Update(context.Background(), &job))

	found, err := repos.SyncJobs.FindByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.JobCompleted, found.Status)
	assert.Equal(t, 3, found.Stats.Added)
	require.NotNil(t, found.FinishedAt)
}

func TestSyncJobRepoUpdateNotFound(t *testing.T) {
	repos := newTestRepos(t)

	err := repos.SyncJobs.Update(context.Background(), &catalog.SyncJob{ID: catalog.NewID(), ProviderKind: "x"})
	assert.Error(t, err)
}

func TestSyncJobRepoFindActive(t *testing.T) {
	repos := newTestRepos(t)

	job := catalog.SyncJob{ID: catalog.NewID(), ProviderKind: "GoogleDrive", SyncType: catalog.SyncFull, Status: catalog.JobRunning}
	require.NoError(t, repos.SyncJobs.Insert(context.Background(), &job))

	active, err := repos.SyncJobs.FindActive(context.Background(), "GoogleDrive")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, job.ID, active.ID)

	none, err := repos.SyncJobs.FindActive(context.Background(), "OneDrive")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSyncJobRepoFindActiveIgnoresTerminalJobs(t *testing.T) {
	repos := newTestRepos(t)

	job := catalog.SyncJob{ID: catalog.NewID(), ProviderKind: "GoogleDrive", SyncType: catalog.SyncFull, Status: catalog.JobCompleted}
	require.NoError(t, repos.SyncJobs.Insert(context.Background(), &job))

	active, err := repos.SyncJobs.FindActive(context.Background(), "GoogleDrive")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestSyncJobRepoQueryPagination(t *testing.T) {
	repos := newTestRepos(t)

	for i := 0; i < 3; i++ {
		job := catalog.SyncJob{ID: catalog.NewID(), ProviderKind: "GoogleDrive", SyncType: catalog.SyncFull, Status: catalog.JobCompleted}
		require.NoError(t, repos.SyncJobs.Insert(context.Background(), &job))
	}

	page, err := repos.SyncJobs.Query(context.Background(), catalog.PageRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalItems)
	assert.Len(t, page.Items, 2)
}
