package version

import (
	"strings"
	"testing"
)

func TestVersionStringNonEmpty(t *testing.T) {
	if s := String(); s == "" {
		t.Fatalf("version string is empty")
	}
}

func TestVersionStringWithCommit(t *testing.T) {
	old := Commit
	Commit = "0123456789abcdef"
	t.Cleanup(func() { Commit = old })
	s := String()
	if !strings.Contains(s, "(0123456)") {
		t.Fatalf("expected short commit in %q", s)
	}
}
