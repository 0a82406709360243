package assets

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustGet reads a path that the test expects to be present.
func mustGet[T any](t *testing.T, st *store[T], path string) T {
	t.Helper()
	v, ok := st.get(path)
	require.True(t, ok, "path %q not present", path)
	return v
}

// checkBijection asserts the store's core invariant: for every occupied
// index i, index[i] is the unique path whose tracker points back at i.
func checkBijection[T any](t *testing.T, st *store[T]) {
	t.Helper()

	populated := 0
	for path, tr := range st.paths {
		if !tr.populated {
			continue
		}
		populated++
		require.Less(t, tr.index, st.n, "tracker for %q points past the logical length", path)
		assert.Equal(t, path, st.index[tr.index], "reverse map out of sync for %q", path)
	}
	assert.Equal(t, st.n, populated, "logical length disagrees with populated tracker count")
	assert.Len(t, st.index, st.n)
}

func TestStore_AddAndGet(t *testing.T) {
	t.Parallel()

	st := newStore[int]("int")
	st.add("a", 1, origin{kind: originDerived})
	st.add("b", 2, origin{kind: originDerived})

	assert.Equal(t, 1, mustGet(t, st, "a"))
	assert.Equal(t, 2, mustGet(t, st, "b"))
	assert.Equal(t, 2, st.count())
	checkBijection(t, st)
}

func TestStore_AddExistingPathOverwritesInPlace(t *testing.T) {
	t.Parallel()

	st := newStore[int]("int")
	st.add("a", 1, origin{kind: originDerived})
	st.add("b", 2, origin{kind: originDerived})

	// A second add for "a" must route to an in-place overwrite, not insert
	// a duplicate entry.
	st.add("a", 99, origin{kind: originDerived})

	assert.Equal(t, 99, mustGet(t, st, "a"))
	assert.Equal(t, 2, st.count())
	checkBijection(t, st)
}

func TestStore_GrowthDoublesCapacityOnce(t *testing.T) {
	t.Parallel()

	st := newStore[int]("int")
	require.Equal(t, initialCapacity, st.capacity())

	// Fill to capacity: no growth yet.
	for i := 0; i < initialCapacity; i++ {
		st.add(fmt.Sprintf("asset-%d", i), i, origin{kind: originDerived})
	}
	assert.Equal(t, initialCapacity, st.capacity())

	// One more element doubles capacity exactly once.
	st.add("overflow", initialCapacity, origin{kind: originDerived})
	assert.Equal(t, 2*initialCapacity, st.capacity())
	assert.Equal(t, initialCapacity+1, st.count())

	// Every previously stored value survives the reallocation at its path.
	for i := 0; i < initialCapacity; i++ {
		assert.Equal(t, i, mustGet(t, st, fmt.Sprintf("asset-%d", i)))
	}
	assert.Equal(t, initialCapacity, mustGet(t, st, "overflow"))
	checkBijection(t, st)
}

func TestStore_SwapRemovalMovesLastElement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newStore[string]("string")
	st.add("A", "alpha", origin{kind: originDerived})
	st.add("B", "beta", origin{kind: originDerived})
	st.add("C", "gamma", origin{kind: originDerived})

	st.removePath(ctx, "A")

	require.Equal(t, 2, st.count())
	// C was at index 2 and must now occupy A's old slot 0; B is untouched.
	assert.Equal(t, 0, st.paths["C"].index)
	assert.Equal(t, 1, st.paths["B"].index)
	assert.Equal(t, "gamma", mustGet(t, st, "C"))
	assert.Equal(t, "beta", mustGet(t, st, "B"))
	assert.False(t, st.has("A"))
	checkBijection(t, st)
}

func TestStore_RemoveLastElement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newStore[int]("int")
	st.add("only", 7, origin{kind: originDerived})

	st.removePath(ctx, "only")

	assert.Equal(t, 0, st.count())
	assert.False(t, st.has("only"))
	checkBijection(t, st)
}

func TestStore_RemoveUnknownPathIsNoOp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newStore[int]("int")
	st.add("a", 1, origin{kind: originDerived})

	require.NotPanics(t, func() {
		st.removePath(ctx, "nope")
	})
	assert.Equal(t, 1, st.count())
	checkBijection(t, st)
}

func TestStore_OverwriteAbsentPathReportsFalse(t *testing.T) {
	t.Parallel()

	st := newStore[int]("int")
	assert.False(t, st.overwrite("missing", 1))

	st.add("present", 1, origin{kind: originDerived})
	assert.True(t, st.overwrite("present", 2))
	assert.Equal(t, 2, mustGet(t, st, "present"))
}

func TestStore_GetUntrackedPathReportsMissing(t *testing.T) {
	t.Parallel()

	st := newStore[int]("int")
	_, ok := st.get("never-loaded")
	assert.False(t, ok)

	// A pending tracker (load in flight) is not readable either.
	_, winner := st.claim("in-flight")
	require.True(t, winner)
	_, ok = st.get("in-flight")
	assert.False(t, ok)
}

func TestStore_FinalizeWithoutStoreFailsLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newStore[int]("int")

	tr, winner := st.claim("ghost.png")
	require.True(t, winner)

	// Loader "returned nil" but never stored the path.
	err := st.finalize(ctx, "ghost.png", tr, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "without storing")

	// The tracker is destroyed so a later request can retry.
	_, winner = st.claim("ghost.png")
	assert.True(t, winner)
}
