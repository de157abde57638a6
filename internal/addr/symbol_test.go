package addr

import "testing"

func TestTableDefineFirstPassNotChanged(t *testing.T) {
	tab := NewTable()
	changed, err := tab.Define(1, 1, Reloc(Code, 0x10))
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	if changed {
		t.Fatal("first definition of a symbol must not report changed")
	}
}

func TestTableDefineSamePassIsMultipleDefinition(t *testing.T) {
	tab := NewTable()
	if _, err := tab.Define(1, 1, Reloc(Code, 0)); err != nil {
		t.Fatalf("Define: %v", err)
	}
	_, err := tab.Define(1, 1, Reloc(Code, 2))
	if err == nil {
		t.Fatal("expected ErrMultipleDefinition for a second Define in the same pass")
	}
	if _, ok := err.(*ErrMultipleDefinition); !ok {
		t.Fatalf("expected *ErrMultipleDefinition, got %T", err)
	}
}

func TestTableDefineAcrossPassesChangedAddress(t *testing.T) {
	tab := NewTable()
	tab.Define(1, 1, Reloc(Code, 0x10))
	changed, err := tab.Define(2, 1, Reloc(Code, 0x20))
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	if !changed {
		t.Fatal("redefining with a different address in a later pass must report changed")
	}
}

func TestTableDefineAcrossPassesUnchangedAddress(t *testing.T) {
	tab := NewTable()
	tab.Define(1, 1, Reloc(Code, 0x10))
	changed, err := tab.Define(2, 1, Reloc(Code, 0x10))
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	if changed {
		t.Fatal("redefining with the same address must not force another pass")
	}
}

func TestTableMarkPublicBeforeDefine(t *testing.T) {
	tab := NewTable()
	tab.MarkPublic(5)
	tab.Define(1, 5, Reloc(Code, 0))
	pubs := tab.Publics()
	if len(pubs) != 1 || pubs[0].ID != 5 {
		t.Fatalf("MarkPublic before Define: got %v", pubs)
	}
}

func TestTableUnresolvedPublics(t *testing.T) {
	tab := NewTable()
	tab.MarkPublic(7)
	u := tab.UnresolvedPublics()
	if len(u) != 1 || u[0] != 7 {
		t.Fatalf("UnresolvedPublics: want [7], got %v", u)
	}
	tab.Define(1, 7, Reloc(Code, 0))
	if u := tab.UnresolvedPublics(); len(u) != 0 {
		t.Fatalf("UnresolvedPublics after Define: want empty, got %v", u)
	}
}

func TestTableDeclareExternal(t *testing.T) {
	tab := NewTable()
	a := tab.DeclareExternal(3)
	if !a.IsExternal() || a.ID != 3 {
		t.Fatalf("DeclareExternal: want external id 3, got %+v", a)
	}
	if !tab.IsExternal(3) {
		t.Fatal("IsExternal(3) should be true after DeclareExternal")
	}
	ext := tab.Externals()
	if len(ext) != 1 || ext[0] != 3 {
		t.Fatalf("Externals: want [3], got %v", ext)
	}
}

func TestAddressLowHigh(t *testing.T) {
	a := Int(0x1234)
	if a.Low().Value != 0x34 {
		t.Fatalf("Low: want 0x34, got %#x", a.Low().Value)
	}
	if a.HighByte().Value != 0x12 {
		t.Fatalf("HighByte: want 0x12, got %#x", a.HighByte().Value)
	}
}

func TestAddressLowHighRelocatable(t *testing.T) {
	a := Reloc(Code, 0x100)
	lo := a.Low()
	hi := a.HighByte()
	if lo.Part != Byte || lo.High {
		t.Fatalf("Low of a relocatable address must be Part=Byte, High=false, got %+v", lo)
	}
	if hi.Part != Byte || !hi.High {
		t.Fatalf("HighByte of a relocatable address must be Part=Byte, High=true, got %+v", hi)
	}
	if lo.Value != a.Value || hi.Value != a.Value {
		t.Fatal("Low/HighByte of a relocatable address must preserve the offset for the linker to resolve")
	}
}
