package sqlrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/musiccore/internal/catalog"
)

func TestFolderRepoInsertAndFindByID(t *testing.T) {
	repos := newTestRepos(t)
	provider := insertTestProvider(t, repos)

	f := catalog.Folder{ID: catalog.NewID(), ProviderID: provider.ID, ProviderFolderID: "root", Name: "Music", Path: "/Music"}
	require.NoError(t, repos.Folders.Insert(context.Background(), &f))

	found, err := repos.Folders.FindByID(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Music", found.Name)
	assert.Equal(t, "/Music", found.Path)
}

func TestFolderRepoInsertRejectsMissingProvider(t *testing.T) {
	repos := newTestRepos(t)

	err := repos.Folders.Insert(context.Background(), &catalog.Folder{ID: catalog.NewID(), Name: "x"})
	assert.Error(t, err)
}

func TestFolderRepoFindByProviderFolderID(t *testing.T) {
	repos := newTestRepos(t)
	provider := insertTestProvider(t, repos)

	f := catalog.Folder{ID: catalog.NewID(), ProviderID: provider.ID, ProviderFolderID: "abc", Name: "Jazz"}
	require.NoError(t, repos.Folders.Insert(context.Background(), &f))

	found, err := repos.Folders.FindByProviderFolderID(context.Background(), provider.ID, "abc")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, f.ID, found.ID)

	notFound, err := repos.Folders.FindByProviderFolderID(context.Background(), provider.ID, "missing")
	require.NoError(t, err)
	assert.Nil(t, notFound)
}

func TestFolderRepoDelete(t *testing.T) {
	repos := newTestRepos(t)
	provider := insertTestProvider(t, repos)

	f := catalog.Folder{ID: catalog.NewID(), ProviderID: provider.ID, ProviderFolderID: "x", Name: "Temp"}
	require.NoError(t, repos.Folders.Insert(context.Background(), &f))

	require.NoError(t, repos.Folders.Delete(context.Background(), f.ID))

	_, err := repos.Folders.FindByID(context.Background(), f.ID)
	assert.Error(t, err)
}

func TestFolderRepoChildrenAtRoot(t *testing.T) {
	repos := newTestRepos(t)
	provider := insertTestProvider(t, repos)

	root := catalog.Folder{ID: catalog.NewID(), ProviderID: provider.ID, ProviderFolderID: "root", Name: "Root"}
	require.NoError(t, repos.Folders.Insert(context.Background(), &root))

	child := catalog.Folder{ID: catalog.NewID(), ProviderID: provider.ID, ProviderFolderID: "child", ParentID: &root.ID, Name: "Child"}
	require.NoError(t, repos.Folders.Insert(context.Background(), &child))

	rootChildren, err := repos.Folders.Children(context.Background(), nil, provider.ID)
	require.NoError(t, err)
	require.Len(t, rootChildren, 1)
	assert.Equal(t, root.ID, rootChildren[0].ID)

	grandchildren, err := repos.Folders.Children(context.Background(), &root.ID, provider.ID)
	require.NoError(t, err)
	require.Len(t, grandchildren, 1)
	assert.Equal(t, child.ID, grandchildren[0].ID)
}
