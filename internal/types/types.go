// Package types provides domain models shared across disku components.
//
// Zero-dependency design: types.go and errors.go need nothing beyond the
// standard library so the agent binary stays small. ID utilities in ids.go
// import uuid but are isolated for selective inclusion.
package types

import (
	"fmt"
	"strings"
)

// Variable identifies the snapshot quantity a condition tests.
type Variable int

const (
	VariableUnspecified Variable = iota
	VariableUsed                 // used bytes, or used/total when compared to a percentage
	VariableFree                 // free bytes, or free/total when compared to a percentage
	VariableRate                 // used/total, percentage comparisons only
)

// String returns the grammar spelling of the variable.
func (v Variable) String() string {
	switch v {
	case VariableUsed:
		return "USED"
	case VariableFree:
		return "FREE"
	case VariableRate:
		return "RATE"
	default:
		return "UNSPECIFIED"
	}
}

// Comparator is one of the five relational operators of the condition grammar.
type Comparator int

const (
	ComparatorUnspecified Comparator = iota
	ComparatorGT
	ComparatorGTE
	ComparatorEQ
	ComparatorLTE
	ComparatorLT
)

// String returns the grammar spelling of the comparator.
func (c Comparator) String() string {
	switch c {
	case ComparatorGT:
		return ">"
	case ComparatorGTE:
		return ">="
	case ComparatorEQ:
		return "=="
	case ComparatorLTE:
		return "<="
	case ComparatorLT:
		return "<"
	default:
		return "?"
	}
}

// ValueKind tags the Value union.
type ValueKind int

const (
	ValueUnspecified ValueKind = iota
	ValuePercentage
	ValueSize
)

// Value is the right-hand side of a condition: either a percentage in
// 1..100 (semantically n/100) or an absolute byte count.
type Value struct {
	Kind    ValueKind
	Percent uint64 // valid when Kind == ValuePercentage
	Bytes   uint64 // valid when Kind == ValueSize
}

// sizeSuffixes maps suffix rank-1 to the grammar's size suffixes (K=1024^1 .. P=1024^5).
const sizeSuffixes = "KMGTP"

// String renders the value in grammar form. Sizes reuse the largest suffix
// that divides the byte count exactly so parsed input round-trips.
func (v Value) String() string {
	switch v.Kind {
	case ValuePercentage:
		return fmt.Sprintf("%d%%", v.Percent)
	case ValueSize:
		n := v.Bytes
		if n == 0 {
			return "0"
		}
		rank := 0
		for n%1024 == 0 && rank < len(sizeSuffixes) {
			n /= 1024
			rank++
		}
		if rank == 0 {
			return fmt.Sprintf("%d", n)
		}
		return fmt.Sprintf("%d%c", n, sizeSuffixes[rank-1])
	default:
		return "?"
	}
}

// Condition is a single immutable threshold test.
// Raw preserves the original input fragment for diagnostics.
type Condition struct {
	Variable   Variable
	Comparator Comparator
	Value      Value
	Raw        string
}

// String returns the original fragment when available, otherwise a
// canonical rendering of the triple.
func (c Condition) String() string {
	if c.Raw != "" {
		return c.Raw
	}
	return fmt.Sprintf("%s %s %s", c.Variable, c.Comparator, c.Value)
}

// ConditionSet is a non-empty ordered list of conditions. Order matters for
// diagnostics only; evaluation is an OR across all entries.
type ConditionSet []Condition

// String joins the conditions back into grammar form.
func (cs ConditionSet) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// DiskSnapshot is a point-in-time reading of one filesystem, in bytes.
// The producer is responsible for Used + Free == Total.
type DiskSnapshot struct {
	Total uint64 `json:"total"`
	Used  uint64 `json:"used"`
	Free  uint64 `json:"free"`
}

// Consistent reports whether the triple satisfies Used + Free == Total.
func (s DiskSnapshot) Consistent() bool {
	return s.Used+s.Free == s.Total
}

// EvalResult is the verdict for one snapshot: Matched lists every condition
// that independently evaluated true, in input order.
type EvalResult struct {
	Triggered bool
	Matched   []Condition
}

// ClientInfo describes the reporting machine.
type ClientInfo struct {
	Hostname   string `json:"hostname"`
	Platform   string `json:"platform"`
	MACAddress string `json:"mac_address"`
	Identifier string `json:"identifier,omitempty"`
}

// Name returns the operator-chosen identifier, falling back to the hostname.
func (c ClientInfo) Name() string {
	if c.Identifier != "" {
		return c.Identifier
	}
	return c.Hostname
}

// Report is the agent's wire payload: one snapshot per monitored path.
type Report struct {
	ClientInfo ClientInfo              `json:"client_info"`
	DiskUsage  map[string]DiskSnapshot `json:"disk_usage"`
}
