//go:build !unix

package agent

import (
	"fmt"
	"runtime"

	"github.com/solatis/disku/internal/types"
)

// Sample is unsupported off unix; the agent needs statfs semantics.
func Sample(path string) (types.DiskSnapshot, error) {
	return types.DiskSnapshot{}, fmt.Errorf("disk sampling not supported on %s", runtime.GOOS)
}
