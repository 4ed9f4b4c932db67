// Package conditions implements the alarm condition language: parsing a
// textual condition list into typed conditions and evaluating them against
// disk usage snapshots.
package conditions

import (
	"fmt"
	"strings"

	"github.com/solatis/disku/internal/sizes"
	"github.com/solatis/disku/internal/types"
)

/*
 * Condition list parsing.
 *
 * Grammar, per condition: <variable> <comparator> <value>, whitespace
 * allowed around the comparator; conditions joined by commas with optional
 * surrounding whitespace.
 *
 *   variable    = USED | FREE | RATE          (case-sensitive)
 *   comparator  = > | >= | == | <= | <        (longest match first)
 *   value       = <1..100>% | <int>[K|M|G|T|P]
 *
 * Parsing is all-or-nothing: the first malformed fragment aborts the whole
 * load with a sentinel error wrapping the offending text. Each malformed
 * input maps to exactly one error kind:
 *
 *   ErrEmptyCondition            empty input, or an empty comma segment
 *   ErrUnknownVariable           identifier outside the fixed enum
 *   ErrInvalidComparator         operator not in the five-element set
 *   ErrInvalidSize               malformed numeric, bare suffix, overflow
 *   ErrPercentageOutOfRange      percentage outside 1..100 (0% included)
 *   ErrIncompatibleVariableValue RATE compared against a byte size
 *
 * Cross-field invariant: RATE is a ratio, so its value must be a
 * percentage. USED and FREE accept either form; a percentage there is
 * interpreted relative to total capacity at evaluation time.
 */

// variables is the closed, case-sensitive variable enum.
var variables = map[string]types.Variable{
	"USED": types.VariableUsed,
	"FREE": types.VariableFree,
	"RATE": types.VariableRate,
}

// comparators in longest-match order: >= and <= before > and <, so
// "USED >= 5G" never tokenizes as "> =5G".
var comparators = []struct {
	text string
	op   types.Comparator
}{
	{">=", types.ComparatorGTE},
	{"<=", types.ComparatorLTE},
	{"==", types.ComparatorEQ},
	{">", types.ComparatorGT},
	{"<", types.ComparatorLT},
}

// Parse turns a comma-separated condition list into a ConditionSet,
// preserving input order. Pure function of the input string.
func Parse(text string) (types.ConditionSet, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: no conditions given", types.ErrEmptyCondition)
	}

	segments := strings.Split(trimmed, ",")
	set := make(types.ConditionSet, 0, len(segments))

	for _, segment := range segments {
		fragment := strings.TrimSpace(segment)
		if fragment == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", types.ErrEmptyCondition, trimmed)
		}

		cond, err := parseCondition(fragment)
		if err != nil {
			return nil, err
		}
		set = append(set, cond)
	}

	return set, nil
}

// parseCondition tokenizes and validates a single condition fragment.
func parseCondition(fragment string) (types.Condition, error) {
	rest := fragment

	// Variable: leading identifier run, matched against the closed enum.
	i := 0
	for i < len(rest) && isIdentChar(rest[i]) {
		i++
	}
	variable, ok := variables[rest[:i]]
	if !ok {
		return types.Condition{}, fmt.Errorf("%w: %q in %q", types.ErrUnknownVariable, rest[:i], fragment)
	}
	rest = strings.TrimLeft(rest[i:], " \t")

	// Comparator: longest match among the five operators.
	var comparator types.Comparator
	for _, c := range comparators {
		if strings.HasPrefix(rest, c.text) {
			comparator = c.op
			rest = rest[len(c.text):]
			break
		}
	}
	if comparator == types.ComparatorUnspecified {
		return types.Condition{}, fmt.Errorf("%w: %q", types.ErrInvalidComparator, fragment)
	}
	rest = strings.TrimLeft(rest, " \t")

	value, err := parseValue(rest, fragment)
	if err != nil {
		return types.Condition{}, err
	}

	if variable == types.VariableRate && value.Kind == types.ValueSize {
		return types.Condition{}, fmt.Errorf("%w: RATE needs a percentage in %q", types.ErrIncompatibleVariableValue, fragment)
	}

	return types.Condition{
		Variable:   variable,
		Comparator: comparator,
		Value:      value,
		Raw:        fragment,
	}, nil
}

// parseValue parses the value token: a percentage when it ends in '%',
// otherwise a size with optional K/M/G/T/P suffix.
func parseValue(token, fragment string) (types.Value, error) {
	if token == "" {
		return types.Value{}, fmt.Errorf("%w: missing value in %q", types.ErrInvalidSize, fragment)
	}

	if strings.HasSuffix(token, "%") {
		n, ok := sizes.ParseUint(token[:len(token)-1])
		if !ok {
			return types.Value{}, fmt.Errorf("%w: %q in %q", types.ErrInvalidSize, token, fragment)
		}
		if n < 1 || n > 100 {
			return types.Value{}, fmt.Errorf("%w: %d%% in %q", types.ErrPercentageOutOfRange, n, fragment)
		}
		return types.Value{Kind: types.ValuePercentage, Percent: n}, nil
	}

	bytes, err := sizes.ParseSize(token)
	if err != nil {
		return types.Value{}, fmt.Errorf("%w in %q", err, fragment)
	}
	return types.Value{Kind: types.ValueSize, Bytes: bytes}, nil
}

// isIdentChar matches the identifier charset of the variable production.
func isIdentChar(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}
