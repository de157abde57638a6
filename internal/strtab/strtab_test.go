package strtab

import "testing"

func TestInternAssignsStableIncreasingIDs(t *testing.T) {
	tab := New(0x100, 0)
	a := tab.Intern("FOO")
	b := tab.Intern("BAR")
	if a != 0x100 || b != 0x101 {
		t.Fatalf("want ids 0x100, 0x101, got %#x, %#x", a, b)
	}
	if tab.Intern("FOO") != a {
		t.Fatal("interning the same name twice must return the same id")
	}
	if tab.Len() != 2 {
		t.Fatalf("Len: want 2, got %d", tab.Len())
	}
}

func TestLookupReversesIntern(t *testing.T) {
	tab := New(0x100, 0)
	id := tab.Intern("LOOP")
	name, ok := tab.Lookup(id)
	if !ok || name != "LOOP" {
		t.Fatalf("Lookup(%d): want (LOOP, true), got (%q, %v)", id, name, ok)
	}
	if _, ok := tab.Lookup(id + 1); ok {
		t.Fatal("Lookup of an unassigned id must report false")
	}
}

func TestDisjointRangesNeverCollide(t *testing.T) {
	idents := New(0x100, 0x8000)
	literals := New(0x10000, 0)
	for i := 0; i < 5; i++ {
		id := idents.Intern(string(rune('A' + i)))
		if id >= 0x8000 {
			t.Fatalf("ident id %#x escaped the identifier range", id)
		}
	}
	for i := 0; i < 5; i++ {
		id := literals.Intern(string(rune('a' + i)))
		if id < 0x10000 {
			t.Fatalf("literal id %#x escaped the literal range", id)
		}
	}
}

func TestInternLimitPanics(t *testing.T) {
	tab := New(0x100, 0x101)
	tab.Intern("ONE")
	defer func() {
		if recover() == nil {
			t.Fatal("Intern past the limit must panic")
		}
	}()
	tab.Intern("TWO")
}
