package assets

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/assetgridgo/internal/ctxlog"
)

// initialCapacity is the element count a fresh store allocates room for.
// Capacity doubles whenever an add would overflow it and never shrinks.
const initialCapacity = 8

// anyStore is the type-erased view the Server holds of each store. Typed
// reads and writes go through the generic package functions, which assert
// back to the concrete *store[T]; the Server itself only needs the
// operations that are independent of the element type.
type anyStore interface {
	typeName() string
	count() int
	capacity() int
	has(path string) bool
	removePath(ctx context.Context, path string)

	// claim and finalize implement the store's side of the single-flight
	// load protocol; see Server.ensure.
	claim(path string) (tr *tracker, winner bool)
	finalize(ctx context.Context, path string, tr *tracker, loadErr error) error
}

// store holds every asset of one registered type. The buffer is grown by
// hand so that capacity doubling stays observable and elements of one type
// stay contiguous; len(buf) is the capacity, n the logical length.
//
// Invariant: for every i < n, index[i] is the unique path whose tracker
// index is i. Every mutation below restores this bijection before
// releasing mu.
type store[T any] struct {
	name string

	mu    sync.RWMutex
	buf   []T
	n     int
	paths map[string]*tracker
	index []string
}

func newStore[T any](name string) *store[T] {
	return &store[T]{
		name:  name,
		buf:   make([]T, initialCapacity),
		paths: make(map[string]*tracker),
		index: make([]string, 0, initialCapacity),
	}
}

func (st *store[T]) typeName() string { return st.name }

func (st *store[T]) count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.n
}

func (st *store[T]) capacity() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.buf)
}

// has reports whether path currently holds a loaded element. A tracker
// whose load is still in flight does not count as present.
func (st *store[T]) has(path string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	tr, ok := st.paths[path]
	return ok && tr.populated
}

// add inserts value under path, growing the buffer if the logical length
// would exceed capacity. A path that is already populated is routed to an
// in-place overwrite instead; inserting a duplicate entry for the same path
// would break the index bijection. A pending tracker (load in flight) is
// filled rather than replaced, so the load winner's waiters see the element
// the callback stored.
func (st *store[T]) add(path string, value T, org origin) {
	st.mu.Lock()
	defer st.mu.Unlock()

	tr := st.paths[path]
	if tr != nil && tr.populated {
		st.buf[tr.index] = value
		return
	}
	if tr == nil {
		tr = newSettledTracker()
		st.paths[path] = tr
	}

	if st.n == len(st.buf) {
		next := make([]T, len(st.buf)*2)
		copy(next, st.buf[:st.n])
		st.buf = next
	}

	tr.index = st.n
	tr.populated = true
	tr.origin = org
	st.buf[st.n] = value
	st.index = append(st.index, path)
	st.n++
}

// overwrite replaces the element at path's tracked index in place, leaving
// length, provenance and the reverse map untouched. It reports false when
// the path holds no loaded element, in which case the caller falls back to
// add.
func (st *store[T]) overwrite(path string, value T) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	tr, ok := st.paths[path]
	if !ok || !tr.populated {
		return false
	}
	st.buf[tr.index] = value
	return true
}

// get returns the element stored under path by copy. It reports false when
// the path holds no loaded element: a concurrent Remove may legitimately
// land between a completed load and this read, and the Server reacts by
// re-running the load rather than treating the gap as fatal.
func (st *store[T]) get(path string) (T, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	tr, ok := st.paths[path]
	if !ok || !tr.populated {
		var zero T
		return zero, false
	}
	return st.buf[tr.index], true
}

// removePath removes path's element by swap-compaction. Removing a path
// that does not exist is logged and ignored.
func (st *store[T]) removePath(ctx context.Context, path string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if tr, ok := st.paths[path]; !ok || !tr.populated {
		ctxlog.FromContext(ctx).Warn("Ignoring removal of unknown asset path.",
			"type", st.name, "path", path)
		return
	}
	st.removeLocked(path)
}

// removeLocked does the actual swap-compaction; callers hold mu and have
// verified the path is populated. The last element moves into the removed
// slot, the moved path's tracker is re-pointed, and the removed path's
// tracker is destroyed. All other paths stay valid; their indices may not.
func (st *store[T]) removeLocked(path string) {
	tr := st.paths[path]
	last := st.n - 1
	moved := st.index[last]

	st.buf[tr.index] = st.buf[last]
	st.index[tr.index] = moved
	if moved != path {
		st.paths[moved].index = tr.index
	}

	st.index = st.index[:last]
	st.n = last
	delete(st.paths, path)

	var zero T
	st.buf[last] = zero // let the stale copy's referents be collected
}

// claim is step one of the single-flight protocol: under the write lock it
// either returns the existing tracker (someone already added or is loading
// this path) or inserts a pending one, making the caller the load winner.
func (st *store[T]) claim(path string) (*tracker, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if tr, ok := st.paths[path]; ok {
		return tr, false
	}
	tr := newPendingTracker()
	st.paths[path] = tr
	return tr, true
}

// finalize is the load winner's last step. It settles the pending tracker
// and wakes every waiter. A load that returned no error but never stored
// the path is treated as a failure; a failed load destroys the tracker (and
// any element the callback managed to store) so a later request may retry.
// The returned error is the definitive outcome waiters will also observe.
func (st *store[T]) finalize(ctx context.Context, path string, tr *tracker, loadErr error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if loadErr == nil && !tr.populated {
		loadErr = fmt.Errorf("assets: loader for type %q returned without storing %q", st.name, path)
	}
	if loadErr != nil {
		tr.err = loadErr
		if tr.populated {
			st.removeLocked(path)
		} else {
			delete(st.paths, path)
		}
		ctxlog.FromContext(ctx).Debug("Discarded tracker after failed load.",
			"type", st.name, "path", path)
	}
	close(tr.done)
	return loadErr
}
