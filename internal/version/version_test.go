package version

import (
	"strings"
	"testing"
)

func override(t *testing.T, version, commit, date, message string) {
	t.Helper()
	oldV, oldC, oldD, oldM := Version, GitCommit, BuildDate, GitMessage
	Version, GitCommit, BuildDate, GitMessage = version, commit, date, message
	t.Cleanup(func() {
		Version, GitCommit, BuildDate, GitMessage = oldV, oldC, oldD, oldM
	})
}

func TestBannerPlain(t *testing.T) {
	override(t, "1.2.3-rc1", "abc123def4567890", "2024-01-15T10:30:00Z", "")
	got := Banner(false)
	want := "duckcheck 1.2.3-rc1 (abc123def456, 2024-01-15T10:30:00Z)"
	if got != want {
		t.Fatalf("Banner = %q, want %q", got, want)
	}
}

func TestBannerColored(t *testing.T) {
	override(t, "1.2.3", "abc", "", "fix things")
	got := Banner(true)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI escapes in %q", got)
	}
	if !strings.HasSuffix(got, "(abc)\nfix things") {
		t.Fatalf("unexpected tail in %q", got)
	}
}

func TestBannerOddVersion(t *testing.T) {
	override(t, "dev", "abc", "", "")
	if got := Banner(false); got != "duckcheck dev (abc)" {
		t.Fatalf("Banner = %q", got)
	}
}

func TestCommitPrefersLdflags(t *testing.T) {
	override(t, Version, "deadbeef", "", "")
	if Commit() != "deadbeef" {
		t.Fatalf("Commit = %q", Commit())
	}
}
