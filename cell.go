package ascell

import "sync/atomic"

// AtomicSharedCell is a lock-free, atomically-updatable shared-ownership
// pointer. It owns a packed pointer word plus the handle table that word's
// high bits indirect through, publishes new control blocks via
// compare-and-swap, and hands out StrongHandles and FastHandles over
// whichever block currently occupies the slot.
//
// The zero value is not usable; construct one with NewAtomicSharedCell.
type AtomicSharedCell[T any] struct {
	word  atomic.Uint64
	table *handleTable[T]
}

// NewAtomicSharedCell allocates a fresh control block holding value and
// installs it as the cell's sole occupant.
func NewAtomicSharedCell[T any](value T) *AtomicSharedCell[T] {
	c := &AtomicSharedCell[T]{table: newHandleTable[T]()}
	cb := newControlBlock(value)
	h := c.table.mint(cb)
	c.word.Store(packWord(h, 0))
	return c
}

// newEmptyAtomicSharedCell returns a cell with no occupant at all (packed
// word zero). NewAtomicSharedCell always starts with an occupant; Stack is
// the one caller that needs a genuinely empty slot to represent an empty
// stack. handleTable.resolve maps handle 0 to a nil control block, and
// Get, CompareExchange and Close each check for that nil block (or handle
// 0) explicitly.
func newEmptyAtomicSharedCell[T any]() *AtomicSharedCell[T] {
	return &AtomicSharedCell[T]{table: newHandleTable[T]()}
}

// Get produces an independent StrongHandle on the cell's current occupant.
// It performs the outer-touch fetch-add, promotes it to a true inner-count
// reference, and releases the transient outer unit.
func (c *AtomicSharedCell[T]) Get() StrongHandle[T] {
	fh := acquireFast(&c.word, c.table)
	if fh.cb == nil {
		fh.Release()
		return StrongHandle[T]{}
	}
	cb := fh.cb
	cb.addInner(1)
	fh.Release()
	return adoptStrong(cb)
}

// GetFast produces a FastHandle pinned to the cell's packed pointer word,
// amortizing the inner-count update that Get always pays for.
func (c *AtomicSharedCell[T]) GetFast() FastHandle[T] {
	return acquireFast(&c.word, c.table)
}

// Store publishes value unconditionally, replacing whatever the cell
// currently holds.
func (c *AtomicSharedCell[T]) Store(value T) {
	sh := NewStrong(value)
	c.StoreHandle(&sh)
}

// StoreHandle publishes sh unconditionally. On return sh has been consumed
// (its handle is null): ownership moved into the cell's slot. The one
// exception is an sh whose payload is already the cell's current payload:
// CompareExchange then reports success without publishing, and sh is left
// as it was.
func (c *AtomicSharedCell[T]) StoreHandle(sh *StrongHandle[T]) {
	for {
		fh := acquireFast(&c.word, c.table)
		expected, _ := fh.Get()
		fh.Release()
		if c.CompareExchange(expected, sh) {
			return
		}
	}
}

// CompareExchange has strong compare-and-swap semantics: it returns true
// iff publication happened, i.e. iff the slot pointed at a control block
// whose payload address equalled expected. On success, newSH is consumed
// (its handle becomes null); on failure, newSH is left untouched so the
// caller can retry or reuse it.
//
// It also returns true without mutating anything when expected already
// equals newSH's own payload address, even if the slot currently points
// elsewhere: the swap would be a no-op either way.
func (c *AtomicSharedCell[T]) CompareExchange(expected *T, newSH *StrongHandle[T]) bool {
	if p, ok := newSH.Get(); samePointer(p, ok, expected) {
		return true
	}

	fh := acquireFast(&c.word, c.table)
	if p, ok := fh.Get(); !samePointer(p, ok, expected) {
		fh.Release()
		return false
	}

	cbOld := fh.cb
	handleOld := fh.cbHandle()

	var handleNew uint64
	if cbNew := newSH.cb; cbNew != nil {
		handleNew = c.table.mint(cbNew)
	}

	for {
		cur := c.word.Load()
		if wordHandle(cur) != handleOld {
			// a concurrent writer already replaced this slot.
			if handleNew != 0 {
				c.table.retire(handleNew)
			}
			fh.Release()
			return false
		}

		if outer := wordOuter(cur); outer != 0 {
			// drain outstanding outer units into the inner count before
			// swapping, so none of them are lost across the publish. When
			// cbOld is nil the slot was empty and these are ghost units
			// from a reader's fetch-add racing this publish: there is no
			// control block to fold them into, so just clear them.
			if cbOld != nil {
				cbOld.addInner(outer)
			}
			if !c.word.CompareAndSwap(cur, packWord(handleOld, 0)) {
				if cbOld != nil {
					cbOld.releaseInnerN(outer)
				}
			}
			continue
		}

		if c.word.CompareAndSwap(packWord(handleOld, 0), packWord(handleNew, 0)) {
			newSH.take()
			fh.Release()
			if cbOld != nil {
				c.table.retire(handleOld)
				releaseChain(cbOld)
			}
			return true
		}
	}
}

// Close reconciles any outstanding outer units into the cell's current
// occupant and releases the slot's own inner count, tearing the occupant
// down through the release worklist rather than recursively.
func (c *AtomicSharedCell[T]) Close() {
	cur := c.word.Swap(0)
	h := wordHandle(cur)
	if h == 0 {
		return
	}
	cb := c.table.resolve(h)
	if diff := wordOuter(cur); diff != 0 {
		cb.addInner(diff)
	}
	c.table.retire(h)
	releaseChain(cb)
}

func samePointer[T any](p *T, ok bool, expected *T) bool {
	if !ok {
		return expected == nil
	}
	return p == expected
}
