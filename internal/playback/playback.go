// Package playback plays audio buffers on background tasks.
//
// Playback is fire-and-forget: a Task cannot be cancelled, the caller is not
// required to wait for it, and overlapping Play calls are not serialized, so
// two tasks started back to back play over each other.
package playback

import (
	"context"
	"sync"

	"github.com/maauso/audiotrim/internal/audio"
	"github.com/maauso/audiotrim/internal/playback/id"
)

// Player starts playback of a buffer and returns immediately.
type Player interface {
	// Play begins playing buf on a detached background task. Cancelling ctx
	// after Play returns does not stop playback.
	Play(ctx context.Context, buf *audio.Buffer) *Task
}

// Task is a handle to one detached playback. It exposes completion only.
type Task struct {
	id   string
	done chan struct{}

	mu  sync.Mutex
	err error
}

func newTask() *Task {
	return &Task{
		id:   id.Generate(),
		done: make(chan struct{}),
	}
}

// ID returns the task identifier.
func (t *Task) ID() string {
	return t.id
}

// Done is closed when playback has finished or failed.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the playback error once Done is closed. Before that it returns nil.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Wait blocks until the task finishes or ctx ends, and returns the playback
// error. Returning early on ctx does not stop playback.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Task) finish(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
	close(t.done)
}

// Go runs fn on a detached goroutine and returns its Task. fn receives a
// context that is never cancelled by the caller's context.
func Go(ctx context.Context, fn func(ctx context.Context) error) *Task {
	t := newTask()
	detached := context.WithoutCancel(ctx)
	go func() {
		t.finish(fn(detached))
	}()
	return t
}
