//go:build unix

package agent

import (
	"fmt"

	"github.com/solatis/disku/internal/types"
	"golang.org/x/sys/unix"
)

// Sample reads the filesystem holding path via statfs.
//
// Total counts all blocks, free counts blocks available to unprivileged
// processes, and used is derived as total - free so the triple always
// satisfies the used + free == total invariant the server checks.
// Root-reserved blocks therefore count as used.
func Sample(path string) (types.DiskSnapshot, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return types.DiskSnapshot{}, fmt.Errorf("statfs %s: %w", path, err)
	}

	bsize := uint64(st.Bsize)
	total := st.Blocks * bsize
	free := st.Bavail * bsize

	return types.DiskSnapshot{
		Total: total,
		Used:  total - free,
		Free:  free,
	}, nil
}
