package ascell

import "sync/atomic"

// controlBlock is the heap cell backing every reference-counted payload in
// this package. It is never exposed directly; callers only ever see a
// StrongHandle, a FastHandle, or an AtomicSharedCell wrapping one.
//
// inner starts at 1, attributable to whichever StrongHandle or
// AtomicSharedCell slot first produced the block. It is the authoritative
// reference count: the block and its payload are torn down the instant it
// reaches zero.
type controlBlock[T any] struct {
	payload T
	inner   atomic.Uint64
}

func newControlBlock[T any](value T) *controlBlock[T] {
	cb := &controlBlock[T]{payload: value}
	cb.inner.Store(1)
	return cb
}

// addInner adds n to the inner count. The increment itself needs no
// ordering stronger than Go's sequentially-consistent atomics already give
// it: it can never race with the decrement that frees the block, because
// every increment is performed while some other reference (the one doing
// the incrementing) is known to be live.
func (cb *controlBlock[T]) addInner(n uint64) {
	cb.inner.Add(n)
}

// releaseInner drops the inner count by one and reports whether this call
// observed the 0 transition, i.e. whether the caller is now responsible for
// tearing down payload and block.
func (cb *controlBlock[T]) releaseInner() (destroyed bool) {
	return cb.releaseInnerN(1)
}

func (cb *controlBlock[T]) releaseInnerN(n uint64) (destroyed bool) {
	newVal := cb.inner.Add(^(n - 1)) // two's complement: adds -n
	return newVal == 0
}
