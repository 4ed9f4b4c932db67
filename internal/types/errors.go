package types

import "errors"

// Sentinel errors for disku operations. Parse errors abort a configuration
// load entirely; evaluation errors abort only the current polling cycle.
var (
	// ErrUnknownVariable indicates an identifier outside USED/FREE/RATE.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrInvalidComparator indicates an operator outside > >= == <= <.
	ErrInvalidComparator = errors.New("invalid comparator")

	// ErrInvalidSize indicates a malformed numeric or size value.
	ErrInvalidSize = errors.New("invalid size")

	// ErrPercentageOutOfRange indicates a percentage outside 1..100.
	ErrPercentageOutOfRange = errors.New("percentage out of range")

	// ErrIncompatibleVariableValue indicates RATE compared against a byte size.
	ErrIncompatibleVariableValue = errors.New("incompatible variable and value")

	// ErrEmptyCondition indicates an empty condition list or empty list segment.
	ErrEmptyCondition = errors.New("empty condition")

	// ErrDegenerateSnapshot indicates total == 0, so no ratio can be computed.
	ErrDegenerateSnapshot = errors.New("degenerate snapshot")

	// ErrInconsistentSnapshot indicates used + free != total.
	ErrInconsistentSnapshot = errors.New("inconsistent snapshot")

	// ErrInvalidInterval indicates an unparseable time interval.
	ErrInvalidInterval = errors.New("invalid time interval")
)
