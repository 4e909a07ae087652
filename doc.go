// Package ascell implements a lock-free, atomically-updatable
// shared-ownership pointer using differential reference counting, and a
// lock-free LIFO stack built on top of it.
//
// Ownership of the payload a cell currently holds is tracked with two
// counters instead of one: a small "outer" counter packed alongside a
// control-block handle in a single atomic word, and an "inner" counter
// living on the control block itself. Readers bump the outer counter with
// a single fetch-add and fold it into the inner counter later, rather than
// updating the control block's inner counter on every read.
//
// An AtomicSharedCell packs a control-block handle and a small transient
// "outer" counter into one atomic word, letting a reader publish intent to
// acquire a strong reference with a single fetch-add (GetFast) instead of
// touching the control block's own "inner" counter on every read. Readers
// reconcile outer units into the inner counter either opportunistically,
// when the outer counter climbs too high, or whenever the slot's occupant
// changes.
package ascell
