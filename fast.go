package ascell

import "sync/atomic"

// FastHandle is a short-lived, read-only borrow produced by
// AtomicSharedCell.GetFast. It represents one unit of outer count on the
// specific packed-pointer word it was acquired from, deferring the more
// expensive inner-count update that a full Get performs.
//
// FastHandle is not safe to copy; always Release it exactly once.
type FastHandle[T any] struct {
	known uint64          // PPW snapshot taken right after the fetch-add that acquired this
	word  *atomic.Uint64  // nil once reconciled into an inner count
	table *handleTable[T] // the owning cell's handle table
	cb    *controlBlock[T]
}

// acquireFast performs the fetch-add "outer touch" against word and returns
// a FastHandle for it, opportunistically reconciling the outer counter into
// the inner count when it has climbed past reconcileThreshold.
//
// word may have no occupant at all — Stack's empty-stack slot starts this
// way, and Close leaves a cell in the same state; table.resolve reports
// that as a nil control block rather than a panic. The fetch-add still
// happens — there is no way to peek the slot and fetch-add it as one
// atomic step — but the returned FastHandle keeps word and known so
// Release can still hand the outer unit back correctly even though there
// is nothing to reconcile it into.
func acquireFast[T any](word *atomic.Uint64, table *handleTable[T]) FastHandle[T] {
	k := word.Add(1)
	h := wordHandle(k)
	cb := table.resolve(h)
	if cb == nil {
		return FastHandle[T]{known: k, word: word, table: table}
	}

	snap := k
	diff := wordOuter(k)
	for diff > reconcileThreshold {
		cb.addInner(diff)
		if word.CompareAndSwap(k, k-diff) {
			return FastHandle[T]{known: k - diff, table: table, cb: cb}
		}
		// undo the speculative migration and retry against the new word,
		// unless the slot has moved on to a different block entirely.
		cb.releaseInnerN(diff)
		k = word.Load()
		if wordHandle(k) != h {
			break
		}
		diff = wordOuter(k)
	}
	return FastHandle[T]{known: snap, word: word, table: table, cb: cb}
}

// Get returns the payload this handle observed, or false if the slot was
// empty when this handle was acquired.
func (f *FastHandle[T]) Get() (*T, bool) {
	if f.cb == nil {
		return nil, false
	}
	return &f.cb.payload, true
}

// cbHandle returns the handle value encoded in this FastHandle's snapshot,
// for callers (CompareExchange) that need to compare CB identity.
func (f *FastHandle[T]) cbHandle() uint64 {
	return wordHandle(f.known)
}

// Release tries to hand the outer unit straight back via CAS; if the slot
// moved on or was already drained by a reconciling writer, the unit has
// already been migrated into the inner count, so release that instead. A
// FastHandle acquired over an empty slot (cb == nil) still holds a real
// outer unit on word and must go through the same dance to give it back.
func (f *FastHandle[T]) Release() {
	if f.word == nil {
		if f.cb != nil {
			// already reconciled into an inner count during acquisition.
			f.freeIfZero()
		}
		return
	}

	expected := f.known
	for {
		if f.word.CompareAndSwap(expected, expected-1) {
			f.word = nil
			f.cb = nil
			return
		}
		current := f.word.Load()
		if wordHandle(current) != wordHandle(f.known) || wordOuter(current) == 0 {
			f.freeIfZero()
			return
		}
		expected = current
	}
}

func (f *FastHandle[T]) freeIfZero() {
	cb := f.cb
	f.cb = nil
	f.word = nil
	if cb != nil {
		releaseChain(cb)
	}
}
