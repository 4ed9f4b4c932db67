package conditions

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/solatis/disku/internal/types"
)

func TestParse_SingleCondition(t *testing.T) {
	set, err := Parse("USED > 95%")
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if len(set) != 1 {
		t.Fatalf("len(set) = %d, want 1", len(set))
	}

	cond := set[0]
	if cond.Variable != types.VariableUsed {
		t.Errorf("Variable = %v, want USED", cond.Variable)
	}
	if cond.Comparator != types.ComparatorGT {
		t.Errorf("Comparator = %v, want >", cond.Comparator)
	}
	if cond.Value.Kind != types.ValuePercentage || cond.Value.Percent != 95 {
		t.Errorf("Value = %+v, want Percentage(95)", cond.Value)
	}
	if cond.Raw != "USED > 95%" {
		t.Errorf("Raw = %q, want %q", cond.Raw, "USED > 95%")
	}
}

func TestParse_ConditionList(t *testing.T) {
	set, err := Parse("USED > 95%, FREE < 5G")
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if len(set) != 2 {
		t.Fatalf("len(set) = %d, want 2", len(set))
	}

	if set[0].Variable != types.VariableUsed || set[0].Comparator != types.ComparatorGT {
		t.Errorf("set[0] = %+v, want USED >", set[0])
	}
	if set[0].Value.Kind != types.ValuePercentage || set[0].Value.Percent != 95 {
		t.Errorf("set[0].Value = %+v, want Percentage(95)", set[0].Value)
	}

	if set[1].Variable != types.VariableFree || set[1].Comparator != types.ComparatorLT {
		t.Errorf("set[1] = %+v, want FREE <", set[1])
	}
	if set[1].Value.Kind != types.ValueSize || set[1].Value.Bytes != 5368709120 {
		t.Errorf("set[1].Value = %+v, want Size(5368709120)", set[1].Value)
	}
}

// The original accepted arbitrary whitespace around comparators and commas.
func TestParse_WhitespaceTolerance(t *testing.T) {
	set, err := Parse("FREE == 100G, FREE   <\t 5G, USED     >10G, USED>95%")
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	if len(set) != 4 {
		t.Fatalf("len(set) = %d, want 4", len(set))
	}
	if set[1].Value.Bytes != 5*1024*1024*1024 {
		t.Errorf("set[1].Value.Bytes = %d, want 5G", set[1].Value.Bytes)
	}
	if set[3].Value.Percent != 95 {
		t.Errorf("set[3].Value.Percent = %d, want 95", set[3].Value.Percent)
	}
}

func TestParse_Comparators(t *testing.T) {
	tests := []struct {
		text string
		want types.Comparator
	}{
		{"USED > 1%", types.ComparatorGT},
		{"USED >= 1%", types.ComparatorGTE},
		{"USED == 1%", types.ComparatorEQ},
		{"USED <= 1%", types.ComparatorLTE},
		{"USED < 1%", types.ComparatorLT},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			set, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v, want nil", tt.text, err)
			}
			if set[0].Comparator != tt.want {
				t.Errorf("Comparator = %v, want %v", set[0].Comparator, tt.want)
			}
		})
	}
}

func TestParse_SizeSuffixes(t *testing.T) {
	tests := []struct {
		text string
		want uint64
	}{
		{"USED > 512", 512},
		{"USED > 0", 0},
		{"USED > 2K", 2 * 1024},
		{"USED > 3M", 3 * 1024 * 1024},
		{"USED > 5G", 5 * 1024 * 1024 * 1024},
		{"USED > 7T", 7 * 1024 * 1024 * 1024 * 1024},
		{"USED > 1P", 1 << 50},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			set, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v, want nil", tt.text, err)
			}
			if set[0].Value.Kind != types.ValueSize {
				t.Fatalf("Value.Kind = %v, want Size", set[0].Value.Kind)
			}
			if set[0].Value.Bytes != tt.want {
				t.Errorf("Value.Bytes = %d, want %d", set[0].Value.Bytes, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"empty input", "", types.ErrEmptyCondition},
		{"whitespace input", "   \t ", types.ErrEmptyCondition},
		{"trailing comma", "USED > 95%,", types.ErrEmptyCondition},
		{"leading comma", ", USED > 95%", types.ErrEmptyCondition},
		{"doubled comma", "USED > 95%,, FREE < 5G", types.ErrEmptyCondition},
		{"unknown variable", "SWAP > 95%", types.ErrUnknownVariable},
		{"lowercase variable", "used > 95%", types.ErrUnknownVariable},
		{"missing variable", "> 95%", types.ErrUnknownVariable},
		{"missing comparator", "USED 95%", types.ErrInvalidComparator},
		{"bad comparator", "USED = 95%", types.ErrInvalidComparator},
		{"missing value", "USED >", types.ErrInvalidSize},
		{"bare suffix", "USED > G", types.ErrInvalidSize},
		{"leading zero size", "USED > 05G", types.ErrInvalidSize},
		{"garbage value", "USED > five", types.ErrInvalidSize},
		{"negative size", "USED > -5G", types.ErrInvalidSize},
		{"unknown suffix", "USED > 5E", types.ErrInvalidSize},
		{"bad percent digits", "USED > ab%", types.ErrInvalidSize},
		{"zero percent", "USED > 0%", types.ErrPercentageOutOfRange},
		{"over hundred percent", "USED > 101%", types.ErrPercentageOutOfRange},
		{"rate with size", "RATE > 5G", types.ErrIncompatibleVariableValue},
		{"second condition bad", "USED > 95%, RATE > 5G", types.ErrIncompatibleVariableValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Parse(tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.text, err, tt.wantErr)
			}
			if set != nil {
				t.Errorf("Parse(%q) set = %v, want nil on error", tt.text, set)
			}
		})
	}
}

// All-or-nothing: a bad fragment must reject the whole list.
func TestParse_AllOrNothing(t *testing.T) {
	_, err := Parse("USED > 95%, FREE < bogus, RATE > 50%")
	if !errors.Is(err, types.ErrInvalidSize) {
		t.Fatalf("Parse() error = %v, want ErrInvalidSize", err)
	}
}

func TestParse_ErrorCarriesFragment(t *testing.T) {
	_, err := Parse("USED > 95%, SWAP > 1%")
	if err == nil {
		t.Fatal("Parse() error = nil, want error")
	}
	if got := err.Error(); !strings.Contains(got, "SWAP") {
		t.Errorf("error %q does not name the offending fragment", got)
	}
}

// Property-based test: every percentage in 1..100 parses and round-trips.
func TestParse_PropertyPercentageRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("valid percentages round-trip", prop.ForAll(
		func(n int) bool {
			set, err := Parse(fmt.Sprintf("RATE >= %d%%", n))
			if err != nil {
				return false
			}
			return set[0].Value.Kind == types.ValuePercentage && set[0].Value.Percent == uint64(n)
		},
		gen.IntRange(1, 100),
	))

	properties.Property("out-of-range percentages fail", prop.ForAll(
		func(n int) bool {
			_, err := Parse(fmt.Sprintf("RATE >= %d%%", n))
			return errors.Is(err, types.ErrPercentageOutOfRange)
		},
		gen.IntRange(101, 10000),
	))

	properties.TestingRun(t)
}

// Property-based test: sized values multiply by the suffix rank exactly.
func TestParse_PropertySizeMultiplier(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	ranks := map[string]uint64{"": 1, "K": 1 << 10, "M": 1 << 20, "G": 1 << 30, "T": 1 << 40, "P": 1 << 50}

	properties.Property("size equals int times suffix rank", prop.ForAll(
		func(n int, suffix string) bool {
			set, err := Parse(fmt.Sprintf("FREE < %d%s", n, suffix))
			if err != nil {
				return false
			}
			return set[0].Value.Bytes == uint64(n)*ranks[suffix]
		},
		gen.IntRange(1, 1<<12),
		gen.OneConstOf("", "K", "M", "G", "T", "P"),
	))

	properties.TestingRun(t)
}

// Property-based test: arbitrary input never panics, always a set or error.
func TestParse_PropertyNeverPanics(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("parsing never panics", prop.ForAll(
		func(text string) bool {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Parse(%q) panicked: %v", text, r)
				}
			}()
			set, err := Parse(text)
			return (set == nil) != (err == nil)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
