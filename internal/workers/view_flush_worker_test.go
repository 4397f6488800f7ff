package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	postPort "travelhub/internal/ports/post"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// memCounter hands out its pending deltas in batches of at most limit posts.
// Ids in stale are dirty but carry no count any more.
type memCounter struct {
	pending  map[uint]int64
	stale    map[uint]bool
	restored map[uint]int64
}

func (m *memCounter) Incr(_ context.Context, id uint) error {
	m.pending[id]++
	return nil
}

func (m *memCounter) Drain(_ context.Context, limit int64) (map[uint]int64, int, error) {
	out := map[uint]int64{}
	popped := 0
	for id := range m.stale {
		if int64(popped) == limit {
			break
		}
		delete(m.stale, id)
		popped++
	}
	for id, n := range m.pending {
		if int64(popped) == limit {
			break
		}
		out[id] = n
		delete(m.pending, id)
		popped++
	}
	return out, popped, nil
}

func (m *memCounter) Restore(_ context.Context, deltas map[uint]int64) error {
	for id, n := range deltas {
		m.restored[id] += n
		m.pending[id] += n
	}
	return nil
}

type viewSink struct {
	postPort.PostRepository
	views map[uint]int64
	err   error
}

func (s *viewSink) AddViews(_ context.Context, deltas map[uint]int64) error {
	if s.err != nil {
		return s.err
	}
	for id, n := range deltas {
		s.views[id] += n
	}
	return nil
}

func newCounter() *memCounter {
	return &memCounter{pending: map[uint]int64{}, stale: map[uint]bool{}, restored: map[uint]int64{}}
}

func TestFlushOnceKeepsGoingPastEmptyIDs(t *testing.T) {
	counter := newCounter()
	counter.stale[7] = true
	counter.stale[8] = true
	_ = counter.Incr(context.Background(), 1)
	_ = counter.Incr(context.Background(), 2)

	sink := &viewSink{views: map[uint]int64{}}
	w := NewViewFlushWorker(counter, sink, 2, time.Second, zap.NewNop())

	assert.Equal(t, 2, w.FlushOnce(context.Background()))
	assert.Equal(t, map[uint]int64{1: 1, 2: 1}, sink.views)
	assert.Empty(t, counter.pending)
	assert.Empty(t, counter.stale)
}

func TestFlushOnceDrainsEverything(t *testing.T) {
	counter := newCounter()
	for i := 0; i < 3; i++ {
		_ = counter.Incr(context.Background(), 1)
	}
	_ = counter.Incr(context.Background(), 2)
	_ = counter.Incr(context.Background(), 3)

	sink := &viewSink{views: map[uint]int64{}}
	w := NewViewFlushWorker(counter, sink, 2, time.Second, zap.NewNop())

	assert.Equal(t, 3, w.FlushOnce(context.Background()))
	assert.Equal(t, map[uint]int64{1: 3, 2: 1, 3: 1}, sink.views)
	assert.Empty(t, counter.pending)
}

func TestFlushOnceRestoresOnFailure(t *testing.T) {
	counter := newCounter()
	_ = counter.Incr(context.Background(), 7)

	sink := &viewSink{views: map[uint]int64{}, err: errors.New("db down")}
	w := NewViewFlushWorker(counter, sink, 10, time.Second, zap.NewNop())

	assert.Zero(t, w.FlushOnce(context.Background()))
	assert.Equal(t, int64(1), counter.pending[7])
	assert.Equal(t, int64(1), counter.restored[7])

	sink.err = nil
	assert.Equal(t, 1, w.FlushOnce(context.Background()))
	assert.Equal(t, int64(1), sink.views[7])
}

func TestRunFlushesOnShutdown(t *testing.T) {
	counter := newCounter()
	_ = counter.Incr(context.Background(), 5)
	sink := &viewSink{views: map[uint]int64{}}
	w := NewViewFlushWorker(counter, sink, 10, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, int64(1), sink.views[5])
}
