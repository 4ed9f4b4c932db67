// Package agent samples local disk usage and reports it to a disku server.
package agent

import (
	"fmt"
	"net"
	"os"
	"runtime"
	"sort"

	"github.com/solatis/disku/internal/types"
)

// CollectInfo gathers the identifying information sent with every report.
// The MAC address helps operators tell apart machines with duplicate
// hostnames (cloned images); collection failures degrade to empty fields
// rather than blocking the report.
func CollectInfo(identifier string) types.ClientInfo {
	hostname, _ := os.Hostname()

	return types.ClientInfo{
		Hostname:   hostname,
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		MACAddress: primaryMAC(),
		Identifier: identifier,
	}
}

// primaryMAC returns the hardware address of the first non-loopback
// interface that is up and has one. Interface order from the kernel is not
// stable, so sort by name for a deterministic pick.
func primaryMAC() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}

	sort.Slice(ifaces, func(i, j int) bool { return ifaces[i].Name < ifaces[j].Name })

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if len(iface.HardwareAddr) == 0 {
			continue
		}
		return iface.HardwareAddr.String()
	}
	return ""
}

// BuildReport samples every path and assembles the wire payload.
// A path that cannot be sampled fails the whole report: a silently missing
// mount is exactly the situation the operator wants to hear about.
func BuildReport(paths []string, identifier string) (*types.Report, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths to check")
	}

	usage := make(map[string]types.DiskSnapshot, len(paths))
	for _, path := range paths {
		snapshot, err := Sample(path)
		if err != nil {
			return nil, err
		}
		usage[path] = snapshot
	}

	return &types.Report{
		ClientInfo: CollectInfo(identifier),
		DiskUsage:  usage,
	}, nil
}
