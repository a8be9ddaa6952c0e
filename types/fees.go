package types

import (
	"fmt"
	"maps"
	"slices"
)

// FeeEstimates maps a confirmation target in blocks to a fee rate in
// sat/vbyte.
type FeeEstimates struct {
	Fees map[uint32]uint64 `json:"fees"`
}

// Validate requires the fees object to be present.
func (f *FeeEstimates) Validate() error {
	if f.Fees == nil {
		return fmt.Errorf("%w: fees", ErrMissingField)
	}
	return nil
}

// Targets returns the confirmation targets in ascending order.
func (f FeeEstimates) Targets() []uint32 {
	return slices.Sorted(maps.Keys(f.Fees))
}

// ForTarget returns the rate for confirming within blocks. Without an exact
// entry the nearest faster target is used; a target faster than all known
// ones uses the fastest. The second result is false when there are no
// estimates at all.
func (f FeeEstimates) ForTarget(blocks uint32) (uint64, bool) {
	targets := f.Targets()
	if len(targets) == 0 {
		return 0, false
	}
	best := targets[0]
	for _, t := range targets {
		if t > blocks {
			break
		}
		best = t
	}
	return f.Fees[best], true
}
