package progress_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tkaraca/lingotrack/internal/api"
	mock_api "github.com/tkaraca/lingotrack/internal/mocks/api"
	"github.com/tkaraca/lingotrack/internal/progress"
	"github.com/tkaraca/lingotrack/internal/testutil"
	"github.com/tkaraca/lingotrack/internal/timeutil"
)

func TestGameKey(t *testing.T) {
	assert.Equal(t, "memory:animals", progress.GameKey("memory", "animals"))
}

func TestGamesStore_saveSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	local := testutil.NewTestLocalStore(t)
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	store := progress.NewGamesStore(progress.StoreOptions{Local: local, Clock: clock})
	require.NoError(t, store.Load(ctx))

	key := progress.GameKey("memory", "animals")
	require.NoError(t, store.Save(ctx, key, progress.NewRoundEntry(4)))
	store.Close()

	reopened := progress.NewGamesStore(progress.StoreOptions{Local: local, Clock: clock})
	defer reopened.Close()
	require.NoError(t, reopened.Load(ctx))

	entry, ok := reopened.Get(key)
	require.True(t, ok)
	assert.Equal(t, progress.NewRoundEntry(4), entry)
}

func TestGamesStore_getMissingKey(t *testing.T) {
	store := progress.NewGamesStore(progress.StoreOptions{
		Local: testutil.NewTestLocalStore(t),
		Clock: timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)),
	})
	defer store.Close()
	require.NoError(t, store.Load(context.Background()))

	_, ok := store.Get("memory:animals")
	assert.False(t, ok)
}

func TestGamesStore_loadMergesRemoteCollection(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	client := mock_api.NewMockClient(ctrl)
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	local := testutil.NewTestLocalStore(t)

	seed := progress.NewGamesStore(progress.StoreOptions{Local: local, Clock: clock})
	require.NoError(t, seed.Load(ctx))
	require.NoError(t, seed.Save(ctx, "memory:animals", progress.NewRoundEntry(3)))
	seed.Close()

	client.EXPECT().FetchGameProgress(gomock.Any()).Return(map[string]json.RawMessage{
		"memory:animals": json.RawMessage(`7`),
		"match:colors":   json.RawMessage(`{"correct":2,"total":6}`),
		"broken:entry":   json.RawMessage(`{invalid`),
	}, nil)

	store := progress.NewGamesStore(progress.StoreOptions{
		UserID: "user-1",
		Local:  local,
		Client: client,
		Clock:  clock,
	})
	defer store.Close()
	require.NoError(t, store.Load(ctx))

	entry, ok := store.Get("memory:animals")
	require.True(t, ok)
	assert.Equal(t, progress.NewRoundEntry(7), entry, "remote high round wins the merge")

	entry, ok = store.Get("match:colors")
	require.True(t, ok)
	assert.Equal(t, progress.NewCorrectTotalEntry(2, 6), entry)

	_, ok = store.Get("broken:entry")
	assert.False(t, ok, "a malformed remote value is skipped, not fatal")
}

func TestGamesStore_debouncedPushCarriesFinalState(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	client := mock_api.NewMockClient(ctrl)
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	client.EXPECT().FetchGameProgress(gomock.Any()).Return(nil, nil)

	var pushed map[string]json.RawMessage
	client.EXPECT().SyncGameProgress(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, data map[string]json.RawMessage) (map[string]json.RawMessage, error) {
			pushed = data
			return data, nil
		})

	store := progress.NewGamesStore(progress.StoreOptions{
		UserID:   "user-1",
		Local:    testutil.NewTestLocalStore(t),
		Client:   client,
		Clock:    clock,
		Debounce: 2 * time.Second,
	})
	defer store.Close()
	require.NoError(t, store.Load(ctx))

	key := progress.GameKey("memory", "animals")
	require.NoError(t, store.Save(ctx, key, progress.NewRoundEntry(1)))
	require.NoError(t, store.Save(ctx, key, progress.NewRoundEntry(2)))
	require.NoError(t, store.Save(ctx, key, progress.NewRoundEntry(3)))

	clock.Advance(2 * time.Second)

	require.Len(t, pushed, 1)
	assert.JSONEq(t, `3`, string(pushed[key]))
	assert.False(t, store.Syncing())
}

func TestGamesStore_clearRemovesEverything(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	client := mock_api.NewMockClient(ctrl)
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	local := testutil.NewTestLocalStore(t)

	client.EXPECT().FetchGameProgress(gomock.Any()).Return(nil, nil).Times(2)
	client.EXPECT().ClearGameProgress(gomock.Any()).Return(api.ErrNotFound)

	store := progress.NewGamesStore(progress.StoreOptions{
		UserID: "user-1",
		Local:  local,
		Client: client,
		Clock:  clock,
	})
	defer store.Close()
	require.NoError(t, store.Load(ctx))
	require.NoError(t, store.Save(ctx, "memory:animals", progress.NewRoundEntry(5)))
	require.NoError(t, store.Save(ctx, "hangman:basics", progress.NewFlagEntry(true)))

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, store.All())

	reopened := progress.NewGamesStore(progress.StoreOptions{
		UserID: "user-1",
		Local:  local,
		Client: client,
		Clock:  clock,
	})
	defer reopened.Close()
	require.NoError(t, reopened.Load(ctx))
	assert.Empty(t, reopened.All())
}
