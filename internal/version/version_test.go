package version

import "testing"

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	// Default value should be "unknown" until set by build
	if Version != "unknown" {
		t.Logf("Version is: %s (expected 'unknown' or version set via ldflags)", Version)
	}
}

func TestCurrent(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "v9.9.9"

	info := Current()
	if info.Version != "v9.9.9" {
		t.Errorf("Current().Version = %q", info.Version)
	}
	if info.BuildTime == "" || info.GitCommit == "" {
		t.Error("build metadata should be initialized")
	}
	if got := info.String(); got != "notionsite v9.9.9 (commit unknown, built unknown)" {
		t.Errorf("String() = %q", got)
	}
}
