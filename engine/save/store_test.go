package save

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to create miniredis")
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store, err := NewRedisStore(client, time.Hour)
	require.NoError(t, err)
	return store, mr
}

func testFiles(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

// exercise runs the contract every store must honour.
func exercise(t *testing.T, store Store) {
	ctx := context.Background()
	a, b := NewID(), NewID()

	require.NoError(t, store.Put(ctx, a, []byte(`{"a":1}`)))
	require.NoError(t, store.Put(ctx, b, []byte(`{"b":1}`)))
	require.NoError(t, store.Put(ctx, a, []byte(`{"a":2}`)))

	data, err := store.Get(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, ids)

	require.NoError(t, store.Delete(ctx, a))
	_, err = store.Get(ctx, a)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, a), ErrNotFound)

	assert.Error(t, store.Put(ctx, "../escape", nil))
	_, err = store.Get(ctx, "not-a-uuid")
	assert.Error(t, err)
}

func TestFileStore(t *testing.T) {
	exercise(t, testFiles(t))
}

func TestRedisStore(t *testing.T) {
	store, _ := testRedis(t)
	exercise(t, store)
}

func TestRedisStore_ExpiredSavesLeaveTheIndex(t *testing.T) {
	store, mr := testRedis(t)
	ctx := context.Background()
	id := NewID()
	require.NoError(t, store.Put(ctx, id, []byte("{}")))
	assert.True(t, mr.Exists(gameKeyPrefix+id))

	mr.FastForward(2 * time.Hour)
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
	members, err := mr.Members(gameIndexKey)
	if err == nil {
		assert.Empty(t, members)
	}
}

// failCommand makes every call of one redis command fail.
type failCommand struct {
	name string
	err  error
}

func (f failCommand) DialHook(next redis.DialHook) redis.DialHook { return next }

func (f failCommand) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == f.name {
			cmd.SetErr(f.err)
			return f.err
		}
		return next(ctx, cmd)
	}
}

func (f failCommand) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisStore_ListReportsPruneFailure(t *testing.T) {
	store, mr := testRedis(t)
	ctx := context.Background()
	id := NewID()
	require.NoError(t, store.Put(ctx, id, []byte("{}")))
	mr.FastForward(2 * time.Hour)

	boom := errors.New("index unavailable")
	store.client.AddHook(failCommand{name: "srem", err: boom})
	_, err := store.List(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "pruning "+id)
}

func TestNewStores_Validate(t *testing.T) {
	_, err := NewRedisStore(nil, 0)
	assert.Error(t, err)
	_, err = NewFileStore("")
	assert.Error(t, err)
	_, err = DialRedis(context.Background(), "")
	assert.Error(t, err)
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	store, _ := testRedis(t)
	ctx := context.Background()
	s := testState(t)
	id := NewID()
	data, err := Save(id, s)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, id, data))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	snap, err := Load(got)
	require.NoError(t, err)
	assert.Equal(t, id, snap.ID)
	assert.Equal(t, s.Quest.Name, snap.State.Quest.Name)
}
