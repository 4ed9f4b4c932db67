package conditions

import (
	"sync/atomic"

	"github.com/solatis/disku/internal/types"
)

// Holder is the process-wide condition set for the read-heavy evaluation
// path. Readers take a single atomic load and never block; a reload swaps
// the whole set (copy-and-swap), so in-flight evaluations always observe
// one consistent version.
type Holder struct {
	set atomic.Pointer[types.ConditionSet]
}

// NewHolder creates a holder seeded with the given set.
func NewHolder(set types.ConditionSet) *Holder {
	h := &Holder{}
	h.Swap(set)
	return h
}

// Load returns the current condition set. The returned slice must be
// treated as immutable.
func (h *Holder) Load() types.ConditionSet {
	p := h.set.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Swap replaces the condition set wholesale.
func (h *Holder) Swap(set types.ConditionSet) {
	h.set.Store(&set)
}
