package assets

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type glyph struct {
	Rune rune
}

func TestNewHandle_ForcesLoadEagerly(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	ctx := context.Background()
	var calls atomic.Int32
	Register[glyph](srv, "glyph", func(ctx context.Context, s *Server, path string) error {
		calls.Add(1)
		AddDerived(s, path, glyph{Rune: 'g'})
		return nil
	})

	h, err := NewHandle[glyph](ctx, srv, "fonts/g")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "handle creation loads, it does not defer")
	assert.Equal(t, "fonts/g", h.Path())

	// Dereferencing is a plain lookup; the loader does not run again.
	got, err := Deref[glyph](ctx, h)
	require.NoError(t, err)
	assert.Equal(t, 'g', got.Rune)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewHandle_PropagatesLoadFailure(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	Register[glyph](srv, "glyph", func(ctx context.Context, s *Server, path string) error {
		return assert.AnError
	})

	_, err := NewHandle[glyph](context.Background(), srv, "fonts/bad")
	require.ErrorIs(t, err, assert.AnError)
}

func TestDeref_WrongTypePanics(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	ctx := context.Background()
	Register[glyph](srv, "glyph", func(ctx context.Context, s *Server, path string) error {
		AddDerived(s, path, glyph{Rune: 'x'})
		return nil
	})
	Register[pixels](srv, "pixels", func(ctx context.Context, s *Server, path string) error {
		AddDerived(s, path, pixels{})
		return nil
	})

	h, err := NewHandle[glyph](ctx, srv, "fonts/x")
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = Deref[pixels](ctx, h)
	})
}

func TestHandle_SurvivesSwapRemovalOfOtherPaths(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	ctx := context.Background()
	Register[glyph](srv, "glyph", func(ctx context.Context, s *Server, path string) error {
		AddDerived(s, path, glyph{Rune: rune(path[len(path)-1])})
		return nil
	})

	hA, err := NewHandle[glyph](ctx, srv, "a")
	require.NoError(t, err)
	hC, err := NewHandle[glyph](ctx, srv, "c")
	require.NoError(t, err)
	_, err = NewHandle[glyph](ctx, srv, "b")
	require.NoError(t, err)

	// Removing a path reshuffles indices; handles address by path and must
	// not notice.
	Remove[glyph](ctx, srv, "a")

	got, err := Deref[glyph](ctx, hC)
	require.NoError(t, err)
	assert.Equal(t, 'c', got.Rune)

	assert.Equal(t, "glyph", hA.TypeName()[len(hA.TypeName())-len("glyph"):])
}
