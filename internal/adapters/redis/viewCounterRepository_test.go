package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCounter(t *testing.T) (*ViewCounterRedis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewViewCounterRedis(client), mr
}

func TestViewKey(t *testing.T) {
	assert.Equal(t, "post:views:42", viewKey(42))
	assert.NotEqual(t, dirtyViewsKey, viewKey(0))
}

func TestIncrMarksPostDirty(t *testing.T) {
	counter, mr := newTestCounter(t)
	ctx := context.Background()

	require.NoError(t, counter.Incr(ctx, 1))
	require.NoError(t, counter.Incr(ctx, 1))
	require.NoError(t, counter.Incr(ctx, 2))

	got, err := mr.Get(viewKey(1))
	require.NoError(t, err)
	assert.Equal(t, "2", got)
	members, err := mr.Members(dirtyViewsKey)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2"}, members)
}

func TestDrainTakesCountsAndClearsThem(t *testing.T) {
	counter, mr := newTestCounter(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, counter.Incr(ctx, 1))
	}
	require.NoError(t, counter.Incr(ctx, 2))

	deltas, popped, err := counter.Drain(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, popped)
	assert.Equal(t, map[uint]int64{1: 3, 2: 1}, deltas)
	assert.False(t, mr.Exists(viewKey(1)))
	assert.False(t, mr.Exists(dirtyViewsKey))

	deltas, popped, err = counter.Drain(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, popped)
	assert.Empty(t, deltas)
}

func TestDrainRespectsLimit(t *testing.T) {
	counter, _ := newTestCounter(t)
	ctx := context.Background()
	for id := uint(1); id <= 5; id++ {
		require.NoError(t, counter.Incr(ctx, id))
	}

	total := 0
	for {
		deltas, popped, err := counter.Drain(ctx, 2)
		require.NoError(t, err)
		assert.LessOrEqual(t, popped, 2)
		if popped == 0 {
			break
		}
		total += len(deltas)
	}
	assert.Equal(t, 5, total)
}

func TestRestorePutsDeltasBack(t *testing.T) {
	counter, _ := newTestCounter(t)
	ctx := context.Background()
	require.NoError(t, counter.Incr(ctx, 1))
	require.NoError(t, counter.Incr(ctx, 1))

	deltas, _, err := counter.Drain(ctx, 10)
	require.NoError(t, err)

	// a view arriving while the batch is out is added on top
	require.NoError(t, counter.Incr(ctx, 1))
	require.NoError(t, counter.Restore(ctx, deltas))

	deltas, popped, err := counter.Drain(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, popped)
	assert.Equal(t, map[uint]int64{1: 3}, deltas)
}

func TestIncrBetweenPopAndGetDelIsCountedOnce(t *testing.T) {
	counter, _ := newTestCounter(t)
	ctx := context.Background()
	client := counter.Client
	require.NoError(t, counter.Incr(ctx, 1))
	require.NoError(t, counter.Incr(ctx, 1))

	// first half of a drain, then a view, then the second half
	popped, err := client.SPopN(ctx, dirtyViewsKey, 10).Result()
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, popped)
	require.NoError(t, counter.Incr(ctx, 1))
	n, err := client.GetDel(ctx, viewKey(1)).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// the id was marked again but its count is already taken
	deltas, count, err := counter.Drain(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Empty(t, deltas)
}
