package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "portward", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	runs := []Run{
		{LoginID: "Emma", Project: "blog", PortsUsed: 2, Conflicts: 0, IsValid: true, RanAt: now.Add(-2 * time.Hour)},
		{LoginID: "Emma", Project: "shop", PortsUsed: 3, Conflicts: 1, IsValid: false, RanAt: now.Add(-1 * time.Hour)},
		{LoginID: "Emma", Project: "blog", PortsUsed: 2, Conflicts: 0, IsValid: true, RanAt: now},
	}
	for _, run := range runs {
		require.NoError(t, store.Record(run))
	}

	got, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first.
	assert.Equal(t, "blog", got[0].Project)
	assert.True(t, got[0].RanAt.Equal(now))
	assert.Equal(t, "shop", got[1].Project)
	assert.False(t, got[1].IsValid)
	assert.Equal(t, 1, got[1].Conflicts)
}

func TestListLimit(t *testing.T) {
	store := openStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(Run{LoginID: "Emma", Project: "blog", IsValid: true}))
	}

	got, err := store.List(2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListEmpty(t *testing.T) {
	store := openStore(t)

	got, err := store.List(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPrune(t *testing.T) {
	store := openStore(t)

	old := Run{LoginID: "Emma", Project: "stale", IsValid: true,
		RanAt: time.Now().UTC().AddDate(0, 0, -30)}
	fresh := Run{LoginID: "Emma", Project: "fresh", IsValid: true,
		RanAt: time.Now().UTC()}
	require.NoError(t, store.Record(old))
	require.NoError(t, store.Record(fresh))

	removed, err := store.Prune(7)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	got, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].Project)
}

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Record(Run{LoginID: "Emma", Project: "p", IsValid: true}))
}
