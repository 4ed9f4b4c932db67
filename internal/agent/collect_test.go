package agent

import (
	"strings"
	"testing"
)

func TestCollectInfo(t *testing.T) {
	info := CollectInfo("web-1")

	if info.Identifier != "web-1" {
		t.Errorf("Identifier = %q, want web-1", info.Identifier)
	}
	if info.Hostname == "" {
		t.Error("Hostname is empty")
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Platform = %q, want os/arch form", info.Platform)
	}
}

func TestClientInfo_Name(t *testing.T) {
	with := CollectInfo("web-1")
	if with.Name() != "web-1" {
		t.Errorf("Name() = %q, want the identifier", with.Name())
	}

	without := CollectInfo("")
	if without.Name() != without.Hostname {
		t.Errorf("Name() = %q, want the hostname %q", without.Name(), without.Hostname)
	}
}

func TestBuildReport_NoPaths(t *testing.T) {
	if _, err := BuildReport(nil, "web-1"); err == nil {
		t.Fatal("BuildReport() error = nil, want error without paths")
	}
}
