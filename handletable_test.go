package ascell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleTableMintResolveRetire(t *testing.T) {
	tbl := newHandleTable[int]()
	cb := newControlBlock(42)

	h := tbl.mint(cb)
	require.NotZero(t, h)
	require.Same(t, cb, tbl.resolve(h))

	tbl.retire(h)
	require.Panics(t, func() { tbl.resolve(h) })
}

func TestHandleTableResolveZeroIsNil(t *testing.T) {
	tbl := newHandleTable[int]()
	require.Nil(t, tbl.resolve(0))
}

func TestHandleTableMintNeverReusesHandles(t *testing.T) {
	tbl := newHandleTable[int]()
	cb := newControlBlock(0)

	h1 := tbl.mint(cb)
	tbl.retire(h1)
	h2 := tbl.mint(cb)

	require.NotEqual(t, h1, h2)
}
