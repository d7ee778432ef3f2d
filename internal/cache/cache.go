// Package cache keeps recently read days in memory in front of a task store.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/task"
)

// Defaults used when New receives zero values.
const (
	DefaultTTL  = 5 * time.Minute
	DefaultSize = 64
)

type entry struct {
	tasks     []*task.Task
	expiresAt time.Time
}

// Stats reports cache effectiveness.
type Stats struct {
	Size   int
	Hits   int
	Misses int
}

// Requests is the number of lookups served.
func (s Stats) Requests() int {
	return s.Hits + s.Misses
}

// HitRate returns hits as a percentage of lookups.
func (s Stats) HitRate() float64 {
	if s.Requests() == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Requests()) * 100
}

// Repository decorates a task.Repository with a per-date list cache.
// Writes go straight to the underlying store and drop the affected day.
type Repository struct {
	next  task.Repository
	days  *lru.Cache
	ttl   time.Duration
	clock dateutil.Clock

	mu     sync.Mutex
	owners map[string]string // task ID -> cached date key
	epoch  uint64            // bumped by every invalidation
	hits   int
	misses int
}

var _ task.Repository = (*Repository)(nil)

// New wraps next. A non-positive ttl or size falls back to the defaults.
func New(next task.Repository, ttl time.Duration, size int, clock dateutil.Clock) (*Repository, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if size <= 0 {
		size = DefaultSize
	}
	if clock == nil {
		clock = dateutil.SystemClock{}
	}

	r := &Repository{
		next:   next,
		ttl:    ttl,
		clock:  clock,
		owners: make(map[string]string),
	}

	days, err := lru.NewWithEvict(size, r.onEvict)
	if err != nil {
		return nil, fmt.Errorf("creating day cache: %w", err)
	}
	r.days = days
	return r, nil
}

func (r *Repository) onEvict(key, value any) {
	e, ok := value.(entry)
	if !ok {
		return
	}
	for _, t := range e.tasks {
		if r.owners[t.ID] == key {
			delete(r.owners, t.ID)
		}
	}
}

// ListTasksForDate serves a day from memory while its entry is fresh.
// Callers receive copies and may modify them freely.
func (r *Repository) ListTasksForDate(ctx context.Context, date time.Time) ([]*task.Task, error) {
	key := dateutil.DateString(date)

	r.mu.Lock()
	if v, ok := r.days.Get(key); ok {
		e := v.(entry)
		if r.clock.Now().Before(e.expiresAt) {
			r.hits++
			r.mu.Unlock()
			return cloneAll(e.tasks), nil
		}
		r.days.Remove(key)
	}
	r.misses++
	epoch := r.epoch
	r.mu.Unlock()

	tasks, err := r.next.ListTasksForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// A write landed during the read; the list may predate it.
	if r.epoch != epoch {
		return tasks, nil
	}
	r.days.Add(key, entry{tasks: cloneAll(tasks), expiresAt: r.clock.Now().Add(r.ttl)})
	for _, t := range tasks {
		r.owners[t.ID] = key
	}
	return tasks, nil
}

// GetTask is never cached.
func (r *Repository) GetTask(ctx context.Context, id string) (*task.Task, error) {
	return r.next.GetTask(ctx, id)
}

// CreateTask stores t and drops its day.
func (r *Repository) CreateTask(ctx context.Context, t *task.Task) error {
	if err := r.next.CreateTask(ctx, t); err != nil {
		return err
	}
	r.Invalidate(t.Date)
	return nil
}

// UpdateTask updates a task and drops the day it belongs to.
func (r *Repository) UpdateTask(ctx context.Context, id string, u task.TaskUpdate) error {
	err := r.next.UpdateTask(ctx, id, u)
	r.invalidateOwner(id)
	return err
}

// DeleteTask removes a task and drops the day it belonged to.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	err := r.next.DeleteTask(ctx, id)
	r.invalidateOwner(id)
	return err
}

// ToggleCompletion flips a task and drops the day it belongs to.
func (r *Repository) ToggleCompletion(ctx context.Context, id string) (bool, error) {
	done, err := r.next.ToggleCompletion(ctx, id)
	r.invalidateOwner(id)
	return done, err
}

// Close closes the underlying store.
func (r *Repository) Close() error {
	r.Purge()
	return r.next.Close()
}

// Invalidate drops the cached list for date.
func (r *Repository) Invalidate(date time.Time) {
	r.mu.Lock()
	r.epoch++
	r.days.Remove(dateutil.DateString(date))
	r.mu.Unlock()
}

// invalidateOwner drops the day holding id. When that day is unknown the
// whole cache is cleared, since the task may sit in any cached list.
func (r *Repository) invalidateOwner(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.epoch++
	key, ok := r.owners[id]
	if !ok {
		r.days.Purge()
		return
	}
	r.days.Remove(key)
	delete(r.owners, id)
}

// Purge empties the cache and resets the counters.
func (r *Repository) Purge() {
	r.mu.Lock()
	r.epoch++
	r.days.Purge()
	r.owners = make(map[string]string)
	r.hits, r.misses = 0, 0
	r.mu.Unlock()
}

// Stats returns a snapshot of the counters.
func (r *Repository) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{Size: r.days.Len(), Hits: r.hits, Misses: r.misses}
}

func cloneAll(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
