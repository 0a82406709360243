// Package assets implements the runtime's asset registry: lazy, path-keyed
// storage for typed payloads (textures, meshes, materials) that is safe to
// use from multiple worker goroutines.
//
// # Model
//
// A Server owns one store per registered Go type. Each store keeps its
// elements in a manually grown buffer, a path → tracker map, and an
// index → path reverse map; the two maps stay a bijection across every
// insert, update, and removal. Removal is swap-compaction: the last element
// moves into the removed slot in O(1), so logical indices are not stable
// across removals and are never exposed outside the package. Callers hold
// paths or Handles, never indices.
//
// # Lazy loading
//
// A Get for a path that was never added runs the type's registered load
// callback exactly once, no matter how many goroutines ask first: the
// goroutine that inserts the path's tracker wins the load, everyone else
// parks on the tracker's completion channel. Loads of distinct paths
// proceed in parallel, including within one store.
//
// # Errors
//
// Using a type that was never registered is an initialization-order bug and
// panics. Data-level problems (a loader failing, a source file missing its
// metadata, removing an unknown path) are surfaced as ordinary errors or
// logged warnings and never take the process down.
package assets
