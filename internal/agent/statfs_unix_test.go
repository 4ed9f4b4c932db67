//go:build unix

package agent

import "testing"

func TestSample(t *testing.T) {
	snapshot, err := Sample(t.TempDir())
	if err != nil {
		t.Fatalf("Sample() error = %v, want nil", err)
	}
	if snapshot.Total == 0 {
		t.Fatal("Total = 0, want a positive capacity")
	}
	if !snapshot.Consistent() {
		t.Errorf("snapshot %+v violates used+free == total", snapshot)
	}
}

func TestSample_MissingPath(t *testing.T) {
	if _, err := Sample("/no/such/mount/point"); err == nil {
		t.Fatal("Sample() error = nil, want error for a missing path")
	}
}

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()

	report, err := BuildReport([]string{dir}, "web-1")
	if err != nil {
		t.Fatalf("BuildReport() error = %v, want nil", err)
	}
	snapshot, ok := report.DiskUsage[dir]
	if !ok {
		t.Fatalf("DiskUsage missing %q", dir)
	}
	if snapshot.Total == 0 {
		t.Error("Total = 0, want a positive capacity")
	}
	if report.ClientInfo.Identifier != "web-1" {
		t.Errorf("Identifier = %q, want web-1", report.ClientInfo.Identifier)
	}
}

func TestBuildReport_FailsOnBadPath(t *testing.T) {
	if _, err := BuildReport([]string{t.TempDir(), "/no/such/mount/point"}, ""); err == nil {
		t.Fatal("BuildReport() error = nil, want error when any path fails")
	}
}
