package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inufuto/ra80/internal/srcpos"
)

type recordingSink struct {
	lines []string
}

func (s *recordingSink) Line(pos srcpos.Position, text string) {
	s.lines = append(s.lines, text)
}

func writeTemp(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReaderYieldsNewlinesAndEOF(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.asm", "AB\nCD")

	sink := &recordingSink{}
	r, err := Open(path, sink)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	var got []byte
	for {
		ch := r.GetChar()
		got = append(got, ch)
		if ch == 0 {
			break
		}
	}
	want := "AB\nCD\x00"
	if string(got) != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if len(sink.lines) != 2 || sink.lines[0] != "AB" || sink.lines[1] != "CD" {
		t.Fatalf("want lines [AB CD], got %v", sink.lines)
	}
}

func TestReaderPushBackIsReplayedFirst(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.asm", "XY")
	r, err := Open(path, &recordingSink{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	first := r.GetChar() // 'X'
	r.PushBack(first)
	replayed := r.GetChar()
	if replayed != first {
		t.Fatalf("want PushBack char replayed, want %q got %q", first, replayed)
	}
	next := r.GetChar()
	if next != 'Y' {
		t.Fatalf("want Y after the replay, got %q", next)
	}
}

func TestIncludeNestsAndPopsOnEOF(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "inner.asm", "Z")
	outer := writeTemp(t, dir, "outer.asm", "A")

	r, err := Open(outer, &recordingSink{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if ch := r.GetChar(); ch != 'A' {
		t.Fatalf("want A from the outer file, got %q", ch)
	}
	if err := r.Include("inner.asm"); err != nil {
		t.Fatalf("Include: %v", err)
	}
	if r.Depth() != 2 {
		t.Fatalf("want depth 2 after Include, got %d", r.Depth())
	}
	if ch := r.GetChar(); ch != 'Z' {
		t.Fatalf("want Z from the included file, got %q", ch)
	}
	// inner.asm is exhausted: GetChar pops it and falls through to EOF,
	// since the outer file has nothing left either.
	if ch := r.GetChar(); ch != 0 {
		t.Fatalf("want EOF after both files are exhausted, got %q", ch)
	}
	if r.Depth() != 0 {
		t.Fatalf("want depth 0 after both files pop, got %d", r.Depth())
	}
}

func TestPositionTracksCurrentFileAndLine(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.asm", "A\nB\n")
	r, err := Open(path, &recordingSink{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	r.GetChar() // 'A'
	if r.Position().Line != 1 {
		t.Fatalf("want line 1, got %d", r.Position().Line)
	}
	r.GetChar() // '\n', advances to line 2
	r.GetChar() // 'B'
	if r.Position().Line != 2 {
		t.Fatalf("want line 2, got %d", r.Position().Line)
	}
}
