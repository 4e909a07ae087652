package ascell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestControlBlockStartsAtOne(t *testing.T) {
	cb := newControlBlock(7)
	require.Equal(t, 7, cb.payload)
	require.Equal(t, uint64(1), cb.inner.Load())
}

func TestControlBlockReleaseInnerReportsZeroTransition(t *testing.T) {
	cb := newControlBlock("x")
	cb.addInner(2) // inner == 3

	require.False(t, cb.releaseInner()) // 3 -> 2
	require.False(t, cb.releaseInner()) // 2 -> 1
	require.True(t, cb.releaseInner())  // 1 -> 0
}

func TestControlBlockReleaseInnerNMatchesAddInner(t *testing.T) {
	cb := newControlBlock(0)
	cb.addInner(999) // inner == 1000

	require.False(t, cb.releaseInnerN(999)) // 1000 -> 1
	require.True(t, cb.releaseInnerN(1))    // 1 -> 0
}
