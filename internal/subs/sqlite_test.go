package subs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "subs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteSubscribeIsIdempotent(t *testing.T) {
	store := newSQLiteStore(t)

	added, err := store.Subscribe("guild1", "chan1", "Jane Doe", "user1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = store.Subscribe("guild1", "chan1", "Jane Doe", "user1")
	require.NoError(t, err)
	assert.False(t, added)

	users, err := store.Subscribers("guild1", "chan1", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, []string{"user1"}, users)
}

func TestSQLiteEntriesGroupsByTriple(t *testing.T) {
	store := newSQLiteStore(t)

	for _, user := range []string{"user1", "user2"} {
		_, err := store.Subscribe("guild1", "chan1", "Jane Doe", user)
		require.NoError(t, err)
	}
	_, err := store.Subscribe(DMScope, "chan2", "Bob Smith", "user3")
	require.NoError(t, err)

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byAuthor := map[string]Entry{}
	for _, e := range entries {
		byAuthor[e.Author] = e
	}
	assert.ElementsMatch(t, []string{"user1", "user2"}, byAuthor["Jane Doe"].Subscribers)
	assert.Equal(t, []string{"user3"}, byAuthor["Bob Smith"].Subscribers)
}

func TestSQLiteClear(t *testing.T) {
	store := newSQLiteStore(t)

	_, err := store.Subscribe("g", "c", "Jane Doe", "user1")
	require.NoError(t, err)
	_, err = store.Subscribe("g", "c", "Bob Smith", "user1")
	require.NoError(t, err)

	require.NoError(t, store.Clear("g", "c", "Jane Doe"))

	users, err := store.Subscribers("g", "c", "Jane Doe")
	require.NoError(t, err)
	assert.Empty(t, users)

	users, err = store.Subscribers("g", "c", "Bob Smith")
	require.NoError(t, err)
	assert.Equal(t, []string{"user1"}, users, "clearing one author leaves others alone")
}

func TestSQLiteRemoveDeletesOnlyGivenUsers(t *testing.T) {
	store := newSQLiteStore(t)

	for _, user := range []string{"user1", "user2", "user3"} {
		_, err := store.Subscribe("g", "c", "Jane Doe", user)
		require.NoError(t, err)
	}
	_, err := store.Subscribe("g", "c", "Bob Smith", "user1")
	require.NoError(t, err)

	require.NoError(t, store.Remove("g", "c", "Jane Doe", []string{"user1", "user3"}))

	users, err := store.Subscribers("g", "c", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, []string{"user2"}, users)

	users, err = store.Subscribers("g", "c", "Bob Smith")
	require.NoError(t, err)
	assert.Equal(t, []string{"user1"}, users, "removal is scoped to the author")
}

func TestSQLiteRemoveWithNoUsersIsNoop(t *testing.T) {
	store := newSQLiteStore(t)

	_, err := store.Subscribe("g", "c", "Jane Doe", "user1")
	require.NoError(t, err)
	require.NoError(t, store.Remove("g", "c", "Jane Doe", nil))

	users, err := store.Subscribers("g", "c", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, []string{"user1"}, users)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subs.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = store.Subscribe("g", "c", "Jane Doe", "user1")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	users, err := reopened.Subscribers("g", "c", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, []string{"user1"}, users)
}
