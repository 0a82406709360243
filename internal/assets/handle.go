package assets

import (
	"context"
	"fmt"
	"reflect"
)

// Handle is a lightweight, copyable capability for one asset: a server
// reference, a path and the asset's Go type. A Handle never owns the asset
// (the type's store does); it only guarantees that the asset was loaded
// when the Handle was constructed, so dereferences are plain lookups.
type Handle struct {
	srv  *Server
	path string
	typ  reflect.Type
}

// NewHandle returns a Handle for the asset under path, forcing the load now
// rather than at first dereference. The error is the load's outcome.
func NewHandle[T any](ctx context.Context, s *Server, path string) (Handle, error) {
	if _, err := Get[T](ctx, s, path); err != nil {
		return Handle{}, err
	}
	return Handle{srv: s, path: path, typ: typeOf[T]()}, nil
}

// Deref returns the asset the handle refers to, by copy. Dereferencing with
// a type other than the one the handle was created for is a programming
// error and panics.
func Deref[T any](ctx context.Context, h Handle) (T, error) {
	if t := typeOf[T](); t != h.typ {
		panic(fmt.Sprintf("assets: handle for %s dereferenced as %s", h.typ, t))
	}
	return Get[T](ctx, h.srv, h.path)
}

// Path returns the asset path the handle refers to.
func (h Handle) Path() string { return h.path }

// TypeName returns the Go type name the handle was created for.
func (h Handle) TypeName() string {
	if h.typ == nil {
		return ""
	}
	return h.typ.String()
}
