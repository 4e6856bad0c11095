package parser

import (
	"bytes"
	"testing"
	"time"

	"github.com/klauspost/pgzip"
	"github.com/spf13/afero"
)

func TestSourceOpenPlainFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "auth.log", []byte("line one\nline two\nline three\n"), 0o644)

	src := NewSource(fs)
	lines, start, err := src.Open("auth.log")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.After(time.Now()) {
		t.Errorf("start barrier %v is in the future", start)
	}

	var got []string
	for l := range lines {
		got = append(got, l)
	}
	want := []string{"line one", "line two", "line three"}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSourceOpenGzipFile(t *testing.T) {
	var buf bytes.Buffer
	gw := pgzip.NewWriter(&buf)
	gw.Write([]byte("alpha\nbeta\n"))
	gw.Close()

	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "auth.log.gz", buf.Bytes(), 0o644)

	src := NewSource(fs)
	lines, _, err := src.Open("auth.log.gz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for l := range lines {
		got = append(got, l)
	}
	if len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Fatalf("got %v, want [alpha beta]", got)
	}
}

func TestSourceOpenMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	src := NewSource(fs)
	if _, _, err := src.Open("does-not-exist.log"); err == nil {
		t.Error("expected an error opening a missing file")
	}
}

func TestResolveYearExplicit(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "x.log", []byte("x"), 0o644)

	year, err := ResolveYear(fs, "x.log", "2019")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if year != 2019 {
		t.Errorf("year = %d, want 2019", year)
	}
}

func TestResolveYearInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	if _, err := ResolveYear(fs, "x.log", "not-a-year"); err == nil {
		t.Error("expected an error for a non-numeric --year value")
	}
}
