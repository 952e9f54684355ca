package version

import "testing"

func TestString(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v1.2.0", "abc1234", "2026-10-01T00:00:00Z"

	if got := String(); got != "v1.2.0 (commit abc1234, built 2026-10-01T00:00:00Z)" {
		t.Errorf("got %q", got)
	}
	if Short() != "v1.2.0" {
		t.Errorf("got %q", Short())
	}
}
