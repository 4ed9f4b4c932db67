package sizes

import (
	"errors"
	"testing"
	"time"

	"github.com/solatis/disku/internal/types"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"0", 0},
		{"512", 512},
		{"1K", 1024},
		{"2M", 2 * 1024 * 1024},
		{"5G", 5368709120},
		{"7T", 7 * (1 << 40)},
		{"3P", 3 * (1 << 50)},
		{"1048576", 1048576},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			if err != nil {
				t.Fatalf("ParseSize(%q) error = %v, want nil", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSize_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"bare suffix", "G"},
		{"leading zero", "05G"},
		{"negative", "-5G"},
		{"fractional", "1.5G"},
		{"unknown suffix E", "5E"},
		{"unknown suffix Z", "5Z"},
		{"lowercase suffix", "5g"},
		{"suffix before digits", "G5"},
		{"overflow", "18446744073709551616"},
		{"overflow via suffix", "20000000000000000K"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSize(tt.in)
			if !errors.Is(err, types.ErrInvalidSize) {
				t.Errorf("ParseSize(%q) error = %v, want ErrInvalidSize", tt.in, err)
			}
		})
	}
}

func TestParseUint(t *testing.T) {
	tests := []struct {
		in     string
		want   uint64
		wantOK bool
	}{
		{"0", 0, true},
		{"95", 95, true},
		{"18446744073709551615", 1<<64 - 1, true},
		{"18446744073709551616", 0, false},
		{"", 0, false},
		{"007", 0, false},
		{"-1", 0, false},
		{"9a", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseUint(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseUint(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseUint(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"5", 5 * time.Second},
		{"300", 300 * time.Second},
		{"10s", 10 * time.Second},
		{"10m", 10 * time.Minute},
		{"2h", 2 * time.Hour},
		{"1d", 24 * time.Hour},
		{"24h9d", 24*time.Hour + 9*24*time.Hour},
		{"1s1m1h", time.Second + time.Minute + time.Hour},
		{"1s2m3h4d", time.Second + 2*time.Minute + 3*time.Hour + 4*24*time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterval(tt.in)
			if err != nil {
				t.Fatalf("ParseInterval(%q) error = %v, want nil", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseInterval(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseInterval_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace only", "  "},
		{"unknown unit", "5w"},
		{"bare unit", "s"},
		{"trailing digits", "1h30"},
		{"zero count", "0s"},
		{"leading zero count", "01h"},
		{"negative", "-5s"},
		{"fractional", "1.5h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInterval(tt.in)
			if !errors.Is(err, types.ErrInvalidInterval) {
				t.Errorf("ParseInterval(%q) error = %v, want ErrInvalidInterval", tt.in, err)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{5368709120, "5.0 GiB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatBytes(tt.in); got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
