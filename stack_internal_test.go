package ascell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestStackABAResistance exercises the classic ABA scenario: hold a
// FastHandle pinned to the node currently on top, let the stack drain and
// get repopulated behind its back (so a node the allocator is free to
// reuse at the same address ends up on top again), then resume. Because
// the packed word's control-block handle changes on every publish rather
// than tracking only the payload's address, a stale CompareExchange
// attempt built from the held handle cannot be fooled by the coincidental
// address reuse.
func TestStackABAResistance(t *testing.T) {
	s := NewStack[int]()
	s.Push(1)
	s.Push(2)

	fh := s.top.GetFast()
	top, ok := fh.Get()
	require.True(t, ok)
	require.Equal(t, 2, top.value)
	staleHandle := fh.cbHandle()

	// drain and repopulate the stack while the stale handle is still held.
	_, _ = s.Pop()
	_, _ = s.Pop()
	s.Push(3)
	s.Push(2)

	freshFH := s.top.GetFast()
	require.NotEqual(t, staleHandle, freshFH.cbHandle(),
		"a freshly published node must mint a new control-block handle even if its payload looks identical")
	freshFH.Release()
	fh.Release()

	v, ok := s.Pop()
	require.True(t, ok)
	require.Equal(t, 2, v)
	v, ok = s.Pop()
	require.True(t, ok)
	require.Equal(t, 3, v)
}
