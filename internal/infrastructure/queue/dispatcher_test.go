package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitez/platform/internal/api/metrics"
	"github.com/bitez/platform/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.AuthEvent
	block  chan struct{}
	err    error
}

func (r *recordingRepo) Insert(_ context.Context, e *domain.AuthEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return r.err
}

func (r *recordingRepo) snapshot() []domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuthEvent(nil), r.events...)
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	d.Start(context.Background())

	kinds := []domain.AuthEventType{domain.EventRegister, domain.EventLogin, domain.EventRefresh, domain.EventLogout}
	for _, k := range kinds {
		d.Record(domain.AuthEvent{Type: k, UserID: "u-1"})
		d.Record(domain.AuthEvent{Type: k, UserID: "u-2"})
	}
	require.NoError(t, d.Stop(context.Background()))

	var u1 []domain.AuthEventType
	for _, e := range repo.snapshot() {
		if e.UserID == "u-1" {
			u1 = append(u1, e.Type)
		}
	}
	assert.Equal(t, kinds, u1)
	assert.Len(t, repo.snapshot(), 8)
}

func TestDispatcher_ShardIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingRepo{}, zerolog.Nop())
	a := d.shardIndex("user-123")
	for i := 0; i < 10; i++ {
		assert.Equal(t, a, d.shardIndex("user-123"))
	}
	assert.Less(t, a, 8)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &recordingRepo{block: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	before := testutil.ToFloat64(metrics.AuthAuditDroppedTotal)

	done := make(chan struct{})
	go func() {
		// one event is held by the blocked worker, channelBuffer fill the
		// shard, the rest must be dropped without blocking
		for i := 0; i < channelBuffer+10; i++ {
			d.Record(domain.AuthEvent{Type: domain.EventLogin, UserID: "u"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full buffer")
	}

	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.AuthAuditDroppedTotal)-before, float64(9))
	close(repo.block)
	require.NoError(t, d.Stop(context.Background()))
}

func TestDispatcher_RecordAfterStopDrops(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(2, repo, zerolog.Nop())
	d.Start(context.Background())
	require.NoError(t, d.Stop(context.Background()))
	require.NoError(t, d.Stop(context.Background()))

	before := testutil.ToFloat64(metrics.AuthAuditDroppedTotal)
	d.Record(domain.AuthEvent{Type: domain.EventLogin})
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AuthAuditDroppedTotal))
	assert.Empty(t, repo.snapshot())
}

func TestDispatcher_WriteErrorDoesNotStopWorker(t *testing.T) {
	repo := &recordingRepo{err: errors.New("mongo down")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())

	d.Record(domain.AuthEvent{Type: domain.EventLogin, UserID: "u"})
	d.Record(domain.AuthEvent{Type: domain.EventLogout, UserID: "u"})
	require.NoError(t, d.Stop(context.Background()))

	assert.Len(t, repo.snapshot(), 2)
}

func TestDispatcher_StopHonoursDeadline(t *testing.T) {
	repo := &recordingRepo{block: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start(context.Background())
	d.Record(domain.AuthEvent{Type: domain.EventLogin, UserID: "u"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Stop(ctx), context.DeadlineExceeded)
	close(repo.block)
}
