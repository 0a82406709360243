package assets

import "time"

// originKind distinguishes how an asset entered its store.
type originKind uint8

const (
	// originFile marks an asset read from a file under the server's root.
	originFile originKind = iota
	// originDerived marks an asset built from other assets rather than a
	// file, carrying the Handles it was derived from.
	originDerived
)

// origin is the provenance a tracker records for its asset.
type origin struct {
	kind    originKind
	modTime time.Time // last-modified time of the backing file, file kind only
	deps    []Handle  // sub-assets this one was derived from, derived kind only
}

// tracker is the per-path metadata inside one store. Exactly one path entry
// owns a tracker; it is always heap-allocated and referenced by pointer so
// the completion channel never moves while goroutines wait on it.
//
// index, populated and origin are guarded by the owning store's mutex.
// err is written once by the load winner before done is closed; the channel
// close orders that write before any waiter's read.
type tracker struct {
	index     int
	populated bool
	origin    origin

	err  error
	done chan struct{} // closed when the load (or direct add) has completed
}

// newPendingTracker creates the tracker a load winner inserts: the done
// channel stays open until the load callback has returned.
func newPendingTracker() *tracker {
	return &tracker{index: -1, done: make(chan struct{})}
}

// newSettledTracker creates a tracker for a direct add, where there is
// nothing to wait for.
func newSettledTracker() *tracker {
	t := &tracker{index: -1, done: make(chan struct{})}
	close(t.done)
	return t
}
