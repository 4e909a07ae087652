package ascell

// The packed pointer word (PPW) is a single uint64 split into a 48-bit
// control-block handle and a 16-bit outer counter. outerBits and outerMask
// give the split; reconcileThreshold is how far the outer counter is
// allowed to climb before a reader migrates it into the control block's
// inner count.
const (
	outerBits = 16
	outerMask = uint64(1)<<outerBits - 1

	// reconcileThreshold is the heuristic point past which a reader folds
	// its accumulated outer count into the control block's inner count.
	reconcileThreshold = 1000
	// maxOuter names a ceiling for the outer counter; no code in this
	// package checks the counter against it.
	maxOuter = 4096
)

func packWord(handle uint64, outer uint64) uint64 {
	return handle<<outerBits | (outer & outerMask)
}

func wordHandle(w uint64) uint64 {
	return w >> outerBits
}

func wordOuter(w uint64) uint64 {
	return w & outerMask
}
