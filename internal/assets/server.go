package assets

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/assetgridgo/internal/ctxlog"
	"github.com/vk/assetgridgo/internal/fsutil"
)

// LoadFunc is the callback an asset-type module registers for its type. It
// is invoked at most once per in-flight path and must store the payload for
// that same path via Add, Update or AddDerived before returning; returning
// nil without storing anything fails the load. The path is the storage key;
// srv.AbsPath(path) resolves it for file access. A LoadFunc that blocks
// forever wedges every waiter for its path — there is no timeout around it.
type LoadFunc func(ctx context.Context, srv *Server, path string) error

// Module is implemented by asset-type packages so the application can
// register them all in one place.
type Module interface {
	Register(srv *Server)
}

// Server is the top-level asset registry. It maps each registered Go type
// to a storage slot — assigned at registration, monotonically, never
// reused — and to the load callback that fills that type's assets on first
// use. All operations are safe for concurrent use; registration must
// complete before any other call references the type.
type Server struct {
	root string

	mu      sync.RWMutex
	slots   map[reflect.Type]int
	names   map[string]int
	stores  []anyStore
	loaders []LoadFunc
}

// NewServer creates an empty registry. All asset paths are resolved against
// root by plain concatenation, so root normally ends with a separator.
func NewServer(root string) *Server {
	return &Server{
		root:  root,
		slots: make(map[reflect.Type]int),
		names: make(map[string]int),
	}
}

// AbsPath resolves a relative asset path against the server's asset root.
// It is a pure string join: no cleaning, no traversal checks, no caching.
func (s *Server) AbsPath(path string) string {
	return s.root + path
}

// typeOf returns the reflect.Type for T without requiring a value of T.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register gives T a storage slot under the given manifest name and records
// its load callback. Registration is idempotent: if T already has a slot
// the call is a no-op and the first registration — including its loader —
// stays in effect permanently.
func Register[T any](s *Server, name string, loader LoadFunc) {
	t := typeOf[T]()

	s.mu.Lock()
	defer s.mu.Unlock()

	if slot, ok := s.slots[t]; ok {
		slog.Debug("Asset type already registered, keeping original loader.",
			"type", t.String(), "name", name, "slot", slot)
		return
	}

	slot := len(s.stores)
	s.slots[t] = slot
	if bound, taken := s.names[name]; taken {
		// Two types competing for one manifest name would silently reroute
		// Ensure; the first binding wins, like the first registration does.
		slog.Warn("Manifest name already bound to another type, keeping the first binding.",
			"name", name, "bound_slot", bound, "type", t.String())
	} else {
		s.names[name] = slot
	}
	s.stores = append(s.stores, newStore[T](name))
	s.loaders = append(s.loaders, loader)
	slog.Debug("Registered asset type.", "type", t.String(), "name", name, "slot", slot)
}

// storeFor resolves T's slot to its concrete store. Calling any asset
// operation for an unregistered type is an initialization-order bug, not a
// runtime condition, so it panics.
func storeFor[T any](s *Server) *store[T] {
	t := typeOf[T]()

	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.slots[t]
	if !ok {
		panic(fmt.Sprintf("assets: type %s was never registered", t))
	}
	return s.stores[slot].(*store[T])
}

// loaderFor returns the store and loader for T, with the same fatal
// precondition as storeFor.
func loaderFor[T any](s *Server) (*store[T], LoadFunc) {
	t := typeOf[T]()

	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.slots[t]
	if !ok {
		panic(fmt.Sprintf("assets: type %s was never registered", t))
	}
	return s.stores[slot].(*store[T]), s.loaders[slot]
}

// Get returns the asset stored under path, loading it through T's
// registered callback if this is the first request for the path. Get blocks
// until the load — ours or a concurrent caller's — completes, and returns
// the value by copy. The error is non-nil only when the load itself failed;
// an unregistered T panics.
func Get[T any](ctx context.Context, s *Server, path string) (T, error) {
	st, loader := loaderFor[T](s)
	for {
		if err := s.ensure(ctx, st, loader, path); err != nil {
			var zero T
			return zero, err
		}
		if value, ok := st.get(path); ok {
			return value, nil
		}
		// A concurrent Remove won the race between our load completing and
		// this read. The path is simply absent again; go around and reload.
	}
}

// Add inserts (or replaces) the asset stored under path. For a new path the
// backing file's last-modified time is recorded on its tracker; a path that
// cannot be stat'ed fails the add without touching the store. Panics if T
// was never registered.
func Add[T any](s *Server, path string, value T) error {
	st := storeFor[T](s)
	if st.overwrite(path, value) {
		return nil
	}
	modTime, err := fsutil.ModTime(s.AbsPath(path))
	if err != nil {
		return fmt.Errorf("assets: add %q: %w", path, err)
	}
	st.add(path, value, origin{kind: originFile, modTime: modTime})
	return nil
}

// AddDerived inserts (or replaces) an asset that has no backing file of its
// own, recording on its tracker the Handles it was derived from. No file
// metadata is read. Panics if T was never registered.
func AddDerived[T any](s *Server, path string, value T, deps ...Handle) {
	st := storeFor[T](s)
	if st.overwrite(path, value) {
		return
	}
	st.add(path, value, origin{kind: originDerived, deps: deps})
}

// Update overwrites the asset stored under path in place; if the path is
// absent it delegates to Add. Panics if T was never registered.
func Update[T any](s *Server, path string, value T) error {
	st := storeFor[T](s)
	if st.overwrite(path, value) {
		return nil
	}
	return Add(s, path, value)
}

// Exists reports whether path currently holds a loaded asset of type T. It
// never triggers a load. Panics if T was never registered.
func Exists[T any](s *Server, path string) bool {
	return storeFor[T](s).has(path)
}

// Remove drops the asset stored under path. Removing an unknown path is
// logged as a warning and ignored. Indices of remaining assets may change
// (swap-compaction); paths and Handles stay valid. Panics if T was never
// registered.
func Remove[T any](ctx context.Context, s *Server, path string) {
	storeFor[T](s).removePath(ctx, path)
}

// Ensure forces the asset under path to be loaded, addressing the type by
// its registered manifest name instead of a Go type. Manifest names are
// data, not code, so an unknown name is a recoverable error here rather
// than a panic.
func (s *Server) Ensure(ctx context.Context, typeName, path string) error {
	s.mu.RLock()
	slot, ok := s.names[typeName]
	var (
		st     anyStore
		loader LoadFunc
	)
	if ok {
		st = s.stores[slot]
		loader = s.loaders[slot]
	}
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("assets: no asset type registered under name %q", typeName)
	}
	return s.ensure(ctx, st, loader, path)
}

// ensure is the single-flight load protocol shared by Get and Ensure. The
// goroutine that inserts the path's tracker wins and runs the loader; every
// other goroutine parks on the tracker's completion channel. The callback
// therefore executes at most once per tracker lifetime, however many
// first-time callers race.
func (s *Server) ensure(ctx context.Context, st anyStore, loader LoadFunc, path string) error {
	tr, winner := st.claim(path)
	if !winner {
		// Already present, or another goroutine owns the load. Settled
		// trackers answer immediately, even when the context is already
		// cancelled: a loaded asset always reads.
		select {
		case <-tr.done:
			return tr.err
		default:
		}
		select {
		case <-tr.done:
			return tr.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	logger := ctxlog.FromContext(ctx).With(
		"type", st.typeName(), "path", path, "load_id", uuid.NewString())
	logger.Debug("Loading asset.")

	err := st.finalize(ctx, path, tr, loader(ctx, s, path))
	if err != nil {
		logger.Error("Asset load failed.", "error", err)
		return fmt.Errorf("load %q: %w", path, err)
	}
	logger.Debug("Asset loaded.")
	return nil
}

// TypeStats describes one registered type's store for diagnostics.
type TypeStats struct {
	Type     string `json:"type"`
	Count    int    `json:"count"`
	Capacity int    `json:"capacity"`
}

// Stats returns a snapshot of every store, in slot order.
func (s *Server) Stats() []TypeStats {
	s.mu.RLock()
	stores := s.stores
	s.mu.RUnlock()

	out := make([]TypeStats, 0, len(stores))
	for _, st := range stores {
		out = append(out, TypeStats{
			Type:     st.typeName(),
			Count:    st.count(),
			Capacity: st.capacity(),
		})
	}
	return out
}
