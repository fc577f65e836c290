package version

import "testing"

func TestString(t *testing.T) {
	oldVersion, oldSHA, oldTime := Version, GitSHA, BuildTime
	t.Cleanup(func() { Version, GitSHA, BuildTime = oldVersion, oldSHA, oldTime })

	Version, GitSHA, BuildTime = "1.2.0", "abc1234", "2026-10-01T00:00:00Z"
	want := "annie-dataset 1.2.0 (abc1234, built 2026-10-01T00:00:00Z)"
	if got := String("annie-dataset"); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
