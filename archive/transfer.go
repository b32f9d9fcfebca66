package archive

import (
	"context"
	"sync"
)

// Progress is a snapshot of an upload
type Progress struct {
	Done  int64 `json:"done"`
	Total int64 `json:"total"`
}

// Percent returns 0-100; an empty upload counts as complete
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 100
	}
	return float64(p.Done) / float64(p.Total) * 100
}

// Location is where an archived file can be retrieved
type Location struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// Transfer tracks one archival write. Progress snapshots are delivered
// best effort; the terminal state is always observable through Done and
// Result.
type Transfer struct {
	path     string
	progress chan Progress
	done     chan struct{}

	mu       sync.Mutex
	last     Progress
	location Location
	err      error
	closed   bool
}

func newTransfer(path string) *Transfer {
	return &Transfer{
		path:     path,
		progress: make(chan Progress, 16),
		done:     make(chan struct{}),
	}
}

// Path returns the destination path
func (t *Transfer) Path() string {
	return t.path
}

// Progress streams snapshots and is closed when the transfer ends. Slow
// readers miss intermediate snapshots.
func (t *Transfer) Progress() <-chan Progress {
	return t.progress
}

// Done is closed once the transfer succeeded or failed
func (t *Transfer) Done() <-chan struct{} {
	return t.done
}

// Last returns the most recent progress snapshot
func (t *Transfer) Last() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Result blocks until the transfer ends
func (t *Transfer) Result() (Location, error) {
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.location, t.err
}

// Wait is Result bounded by ctx
func (t *Transfer) Wait(ctx context.Context) (Location, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		return Location{}, ctx.Err()
	}
}

func (t *Transfer) report(done, total int64) {
	p := Progress{Done: done, Total: total}
	t.mu.Lock()
	defer t.mu.Unlock()
	// the body may still be read after the write returned
	if t.closed {
		return
	}
	t.last = p

	select {
	case t.progress <- p:
	default:
	}
}

func (t *Transfer) finish(loc Location, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.location = loc
	t.err = err

	close(t.progress)
	close(t.done)
}
