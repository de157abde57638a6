package objfile

import (
	"bytes"
	"testing"

	"github.com/inufuto/ra80/internal/addr"
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/strtab"
	"github.com/inufuto/ra80/internal/token"
)

func newTestContext() *asmctx.Context {
	idents := strtab.New(0x100, asmctx.AutoLabelBase)
	literals := strtab.New(0x10000, 0)
	tz := token.NewTokenizer(nil, idents, literals)
	tr := token.NewReader(tz)
	ctx := asmctx.New(tr, idents, literals, 100)
	ctx.BeginPass(1)
	return ctx
}

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := newTestContext()

	idLoop := ctx.Idents.Intern("LOOP")
	idExt := ctx.Idents.Intern("EXTFN")

	ctx.Emit(0x3E, 0x05) // LD A,5
	ctx.DefineSymbol(idLoop, ctx.Here())
	ctx.MarkPublic(idLoop)
	ctx.Emit(0x00) // NOP
	ctx.Cur = ctx.Data
	ctx.Emit(0xAA, 0xBB, 0xCC)
	ctx.Cur = ctx.Code

	extAddr := ctx.DeclareExternal(idExt)
	ctx.AddFixup(extAddr)
	ctx.EmitWord(0)

	var buf bytes.Buffer
	if err := Write(&buf, ctx); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if f.Version != Version {
		t.Fatalf("Version: want %#x, got %#x", Version, f.Version)
	}
	if !bytes.Equal(f.Code, ctx.Code.Bytes) {
		t.Fatalf("Code: want %v, got %v", ctx.Code.Bytes, f.Code)
	}
	if !bytes.Equal(f.Data, []byte{0xAA, 0xBB, 0xCC}) {
		t.Fatalf("Data: want [AA BB CC], got %v", f.Data)
	}

	if len(f.Publics) != 1 || f.Publics[0].ID != idLoop {
		t.Fatalf("Publics: want one entry for %d, got %v", idLoop, f.Publics)
	}
	if f.Publics[0].Address.Type != addr.Code || f.Publics[0].Address.Value != 1 {
		t.Fatalf("Publics[0].Address: want Code:1, got %+v", f.Publics[0].Address)
	}

	if len(f.Externals) != 1 || f.Externals[0] != idExt {
		t.Fatalf("Externals: want [%d], got %v", idExt, f.Externals)
	}

	if len(f.Fixups) != 1 {
		t.Fatalf("Fixups: want 1 entry, got %d", len(f.Fixups))
	}
	if !f.Fixups[0].Target.IsExternal() || f.Fixups[0].Target.ID != idExt {
		t.Fatalf("Fixups[0].Target: want external %d, got %+v", idExt, f.Fixups[0].Target)
	}

	names := map[int]string{}
	for _, e := range f.IDs {
		names[e.ID] = e.Name
	}
	if names[idLoop] != "LOOP" || names[idExt] != "EXTFN" {
		t.Fatalf("id table names: got %v", names)
	}
}

func TestWriteRejectsUndefinedAddress(t *testing.T) {
	ctx := newTestContext()
	idFoo := ctx.Idents.Intern("FOO")
	ctx.DefineSymbol(idFoo, addr.Address{}) // resolves to the zero value, Type == Undefined
	ctx.MarkPublic(idFoo)

	var buf bytes.Buffer
	err := Write(&buf, ctx)
	if err == nil {
		t.Fatal("Write must reject a PUBLIC symbol whose resolved address is Undefined")
	}
}
