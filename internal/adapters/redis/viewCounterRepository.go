package redis

import (
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"
)

const (
	viewKeyPrefix = "post:views:"
	dirtyViewsKey = "post:views:dirty"
)

// ViewCounterRedis buffers per-post view deltas until the flush worker applies them.
type ViewCounterRedis struct {
	Client *redis.Client
}

func NewViewCounterRedis(client *redis.Client) *ViewCounterRedis {
	return &ViewCounterRedis{
		Client: client,
	}
}

func viewKey(postID uint) string {
	return viewKeyPrefix + strconv.FormatUint(uint64(postID), 10)
}

// Incr records one view and marks the post dirty.
func (r *ViewCounterRedis) Incr(ctx context.Context, postID uint) error {
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, viewKey(postID))
		pipe.SAdd(ctx, dirtyViewsKey, postID)
		return nil
	})
	return err
}

// Drain pops up to limit dirty posts and takes their pending counts. An id
// re-marked by an Incr between SPOP and GETDEL comes back with no count on
// the next drain and is skipped.
func (r *ViewCounterRedis) Drain(ctx context.Context, limit int64) (map[uint]int64, int, error) {
	members, err := r.Client.SPopN(ctx, dirtyViewsKey, limit).Result()
	if err != nil && err != redis.Nil {
		return nil, 0, err
	}
	if len(members) == 0 {
		return map[uint]int64{}, 0, nil
	}

	ids := make([]uint, 0, len(members))
	cmds := make([]*redis.StringCmd, 0, len(members))
	_, err = r.Client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, m := range members {
			id, perr := strconv.ParseUint(m, 10, 64)
			if perr != nil {
				continue
			}
			ids = append(ids, uint(id))
			cmds = append(cmds, pipe.GetDel(ctx, viewKey(uint(id))))
		}
		return nil
	})
	if err != nil && err != redis.Nil {
		return nil, 0, err
	}

	deltas := make(map[uint]int64, len(ids))
	for i, cmd := range cmds {
		n, cerr := cmd.Int64()
		if cerr != nil || n <= 0 {
			continue
		}
		deltas[ids[i]] = n
	}
	return deltas, len(members), nil
}

// Restore puts deltas back after a failed flush.
func (r *ViewCounterRedis) Restore(ctx context.Context, deltas map[uint]int64) error {
	if len(deltas) == 0 {
		return nil
	}
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for id, n := range deltas {
			pipe.IncrBy(ctx, viewKey(id), n)
			pipe.SAdd(ctx, dirtyViewsKey, id)
		}
		return nil
	})
	return err
}
