package ascell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrongHandleCloneAddsInner(t *testing.T) {
	sh := NewStrong(10)
	clone := sh.Clone()
	require.Equal(t, uint64(2), sh.cb.inner.Load())

	v, ok := clone.Get()
	require.True(t, ok)
	require.Equal(t, 10, *v)
}

func TestStrongHandleReleaseIsIdempotent(t *testing.T) {
	sh := NewStrong(1)
	sh.Release()
	require.True(t, sh.IsNull())
	require.NotPanics(t, func() { sh.Release() })
}

func TestStrongHandleTakeNullsSource(t *testing.T) {
	sh := NewStrong(1)
	cb := sh.take()
	require.NotNil(t, cb)
	require.True(t, sh.IsNull())
}

// chainLink is a minimal unlinker used to exercise releaseChain's iterative
// teardown without pulling in the stack's node type.
type chainLink struct {
	next StrongHandle[chainLink]
}

func (c *chainLink) unlinkNext() *controlBlock[chainLink] {
	return c.next.take()
}

func TestReleaseChainTearsDownLongChainIteratively(t *testing.T) {
	const depth = 100000

	var head StrongHandle[chainLink]
	for i := 0; i < depth; i++ {
		head = NewStrong(chainLink{next: head})
	}

	// releasing the head must tear down every link without recursing once
	// per node; a recursive implementation would blow the goroutine stack
	// at this depth.
	head.Release()

	require.True(t, head.IsNull())
}

func TestReleaseChainStopsAtSharedLink(t *testing.T) {
	shared := NewStrong(chainLink{})
	sharedClone := shared.Clone()

	// move shared's count into outer's link rather than copying the
	// handle struct, matching the package's move-not-duplicate contract.
	outer := NewStrong(chainLink{next: adoptStrong(shared.take())})
	outer.Release()

	// the chain's decrement only accounted for one of the two inner
	// counts on the shared block, so sharedClone still observes it.
	_, ok := sharedClone.Get()
	require.True(t, ok)
	sharedClone.Release()
}
