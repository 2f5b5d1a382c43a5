package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hyperlocal/community/internal/core/domain"
)

type memoryRepo struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
	fail   bool
}

func (r *memoryRepo) Insert(_ context.Context, ev *domain.ActivityEvent) error {
	if r.fail {
		return errors.New("insert failed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *ev)
	return nil
}

func (r *memoryRepo) Recent(context.Context, int) ([]*domain.ActivityEvent, error) {
	return nil, nil
}

func (r *memoryRepo) snapshot() []domain.ActivityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ActivityEvent(nil), r.events...)
}

func TestDispatcher_ShardIndexDeterministic(t *testing.T) {
	d := NewDispatcher(4, &memoryRepo{}, zerolog.Nop())
	for _, id := range []string{"r1", "r2", "65f000000000000000000001", ""} {
		first := d.shardIndex(id)
		if first < 0 || first >= 4 {
			t.Fatalf("shard %d out of range for %q", first, id)
		}
		for i := 0; i < 10; i++ {
			if d.shardIndex(id) != first {
				t.Fatalf("shard for %q is not stable", id)
			}
		}
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &memoryRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestDispatcher_PersistsInOrderPerEntity(t *testing.T) {
	repo := &memoryRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for i := 0; i < 20; i++ {
		d.Record(domain.ActivityEvent{Kind: domain.ActivityRequestStatusChanged, EntityID: "r1", Detail: fmt.Sprint(i)})
		d.Record(domain.ActivityEvent{Kind: domain.ActivityNoticePosted, EntityID: "n1", Detail: fmt.Sprint(i)})
	}

	cancel()
	d.Wait()

	events := repo.snapshot()
	if len(events) != 40 {
		t.Fatalf("expected 40 events persisted, got %d", len(events))
	}

	next := map[string]int{}
	for _, ev := range events {
		if ev.Detail != fmt.Sprint(next[ev.EntityID]) {
			t.Fatalf("entity %s out of order: got %s, want %d", ev.EntityID, ev.Detail, next[ev.EntityID])
		}
		next[ev.EntityID]++
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &memoryRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())

	// Workers are not started, so the channel fills up.
	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.ActivityEvent{EntityID: "x"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected full buffer of %d, got %d", channelBuffer, got)
	}
}

func TestDispatcher_InsertFailureDoesNotStopWorker(t *testing.T) {
	repo := &memoryRepo{fail: true}
	d := NewDispatcher(1, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Record(domain.ActivityEvent{EntityID: "a"})
	d.Record(domain.ActivityEvent{EntityID: "b"})
	cancel()
	d.Wait()

	if len(repo.snapshot()) != 0 {
		t.Fatalf("no event should be stored when inserts fail")
	}
}
