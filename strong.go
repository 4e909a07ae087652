package ascell

// StrongHandle is a single-owner reference to a control block: it holds
// exactly one unit of the block's inner count for as long as it is
// non-null.
//
// The zero value is a null handle. A StrongHandle must not be copied by
// value after first use except through Clone — Go cannot enforce that for
// us, so callers are responsible for treating a StrongHandle the way they
// would a unique_ptr: move it, don't duplicate it, unless you mean to
// Clone.
type StrongHandle[T any] struct {
	cb *controlBlock[T]
}

// NewStrong allocates a fresh control block holding value and returns a
// StrongHandle owning its single inner count.
func NewStrong[T any](value T) StrongHandle[T] {
	return StrongHandle[T]{cb: newControlBlock(value)}
}

// adoptStrong wraps an already-owned inner count on cb. Internal to the
// package: every caller of adoptStrong must already hold a count on cb that
// it is transferring, not creating.
func adoptStrong[T any](cb *controlBlock[T]) StrongHandle[T] {
	return StrongHandle[T]{cb: cb}
}

// IsNull reports whether h holds no reference.
func (h StrongHandle[T]) IsNull() bool {
	return h.cb == nil
}

// Clone produces an independent StrongHandle on the same control block,
// adding one to its inner count.
func (h StrongHandle[T]) Clone() StrongHandle[T] {
	if h.cb == nil {
		return StrongHandle[T]{}
	}
	h.cb.addInner(1)
	return StrongHandle[T]{cb: h.cb}
}

// Get returns the payload and true, or the zero value and false if h is
// null or has already been released.
func (h StrongHandle[T]) Get() (*T, bool) {
	if h.cb == nil {
		return nil, false
	}
	return &h.cb.payload, true
}

// Release drops h's inner count. If it was the last reference, the payload
// and control block are torn down through a worklist rather than
// recursively, so releasing a long chain (e.g. dropping a stack with many
// nodes) runs in constant Go call-stack depth. Release is idempotent:
// releasing an already-null handle is a no-op.
func (h *StrongHandle[T]) Release() {
	if h.cb == nil {
		return
	}
	cb := h.cb
	h.cb = nil
	releaseChain(cb)
}

// take hands cb's inner count to the caller and nulls h, so h's own
// Release (if ever called) no longer touches it. Used internally when an
// AtomicSharedCell absorbs a StrongHandle's count into its slot.
func (h *StrongHandle[T]) take() *controlBlock[T] {
	cb := h.cb
	h.cb = nil
	return cb
}

// unlinker lets a payload expose one chained StrongHandle so that
// releaseChain can walk it iteratively instead of recursing through
// Release. The stack's node[T] implements this over its "next" link.
type unlinker[T any] interface {
	unlinkNext() *controlBlock[T]
}

// releaseChain is the release worklist: it decrements
// first's inner count and, whenever that reaches zero, checks whether the
// now-dead payload links to another control block (via unlinker) and if so
// continues the loop on that block instead of calling back into Release.
func releaseChain[T any](first *controlBlock[T]) {
	queue := []*controlBlock[T]{first}
	for len(queue) > 0 {
		cb := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		if !cb.releaseInner() {
			continue
		}
		if lk, ok := any(&cb.payload).(unlinker[T]); ok {
			if next := lk.unlinkNext(); next != nil {
				queue = append(queue, next)
			}
		}
	}
}
