package assembler

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/inufuto/ra80/internal/objfile"
)

// assembleString is the teacher's own test-helper shape
// (assembler/ie64asm_test.go's assembleString): write src to a temp file
// and assemble it, returning the full Result for assertions.
func assembleString(t *testing.T, src string) *Result {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.asm")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	res, err := New(path).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func assembleOK(t *testing.T, src string) *Result {
	t.Helper()
	res := assembleString(t, src)
	if !res.OK {
		for _, d := range res.Errors {
			t.Logf("%s: %s", d.Pos, d.Msg)
		}
		t.Fatalf("assembly failed with %d error(s)", len(res.Errors))
	}
	return res
}

func assertCode(t *testing.T, res *Result, want []byte) {
	t.Helper()
	if !bytes.Equal(res.Code, want) {
		t.Fatalf("code: want % 02X, got % 02X", want, res.Code)
	}
}

func TestLDImmediate(t *testing.T) {
	res := assembleOK(t, "LD A,5\n")
	assertCode(t, res, []byte{0x3E, 0x05})
}

func TestLDPairImmediate(t *testing.T) {
	res := assembleOK(t, "LD HL,1234H\n")
	assertCode(t, res, []byte{0x21, 0x34, 0x12})
}

func TestLDPairIndirect(t *testing.T) {
	res := assembleOK(t, "LD HL,(1234H)\n")
	assertCode(t, res, []byte{0x2A, 0x34, 0x12})
}

func TestLDIndexedDisplacement(t *testing.T) {
	res := assembleOK(t, "LD (IX+2),7\n")
	assertCode(t, res, []byte{0xDD, 0x36, 0x02, 0x07})
}

func TestLDPairZero(t *testing.T) {
	res := assembleOK(t, "LD BC,0\n")
	assertCode(t, res, []byte{0x01, 0x00, 0x00})
}

func TestADDHLBC(t *testing.T) {
	res := assembleOK(t, "ADD HL,BC\n")
	assertCode(t, res, []byte{0x09})
}

func TestADDIXIYRejectsADCSBC(t *testing.T) {
	res := assembleString(t, "ADC IX,BC\n")
	if res.OK {
		t.Fatal("ADC IX,BC has no real Z80 encoding and must be rejected")
	}
}

func TestDJNZSelfLoopShortForm(t *testing.T) {
	res := assembleOK(t, "LOOP: DJNZ LOOP\n")
	assertCode(t, res, []byte{0x10, 0xFE})
}

func TestJRShortFormForwardReference(t *testing.T) {
	src := "\tJR NZ,FAR\n"
	for i := 0; i < 5; i++ {
		src += "\tNOP\n"
	}
	src += "FAR:\tHALT\n"
	res := assembleOK(t, src)
	if res.Code[0] != 0x20 || res.Code[1] != 0x05 {
		t.Fatalf("JR NZ,FAR over 5 NOPs: want 20 05, got % 02X", res.Code[:2])
	}
}

func TestJROffsetBeyondBoundaryFallsBackToJP(t *testing.T) {
	src := "\tJR NZ,FAR\n"
	for i := 0; i < 200; i++ {
		src += "\tNOP\n"
	}
	src += "FAR:\tHALT\n"
	res := assembleOK(t, src)
	if res.Code[0] != 0xC2 {
		t.Fatalf("JR NZ far beyond the boundary must fall back to JP NZ (C2), got % 02X", res.Code[:3])
	}
}

func TestIfElseEndif(t *testing.T) {
	res := assembleOK(t, "\tIF NZ\n\tINC A\n\tELSE\n\tDEC A\n\tENDIF\n")
	assertCode(t, res, []byte{0x28, 0x03, 0x3C, 0x18, 0x01, 0x3D})
}

func TestIfWithoutElse(t *testing.T) {
	res := assembleOK(t, "\tIF Z\n\tINC A\n\tENDIF\n")
	assertCode(t, res, []byte{0x20, 0x01, 0x3C})
}

func TestDoWhile(t *testing.T) {
	// DO / WHILE NZ / INC A / WEND: the body is a single instruction, so
	// spec §4.6's WHILE optimization folds the loop into one conditional
	// back-edge (spec.md §8 scenario 8) instead of a forward-skip-then-
	// unconditional-back-edge pair.
	res := assembleOK(t, "\tDO\n\tWHILE NZ\n\tINC A\n\tWEND\n")
	assertCode(t, res, []byte{0x3C, 0x20, 0xFD})
}

func TestDoDwnz(t *testing.T) {
	res := assembleOK(t, "\tDO\n\tINC A\n\tDWNZ\n")
	assertCode(t, res, []byte{0x3C, 0x10, 0xFD})
}

func TestWhileAndDwnzMutuallyExclusive(t *testing.T) {
	res := assembleString(t, "\tDO\n\tWHILE NZ\n\tDWNZ\n")
	if res.OK {
		t.Fatal("WHILE and DWNZ in the same DO block must be rejected")
	}
}

func TestElseifChain(t *testing.T) {
	res := assembleOK(t, "\tIF Z\n\tNOP\n\tELSEIF C\n\tHALT\n\tELSE\n\tDI\n\tENDIF\n")
	// JR NZ,elseif / NOP / JR end / JR NC,else / HALT / JR end / DI / end:
	if res.Code[0] != 0x20 {
		t.Fatalf("first branch of an ELSEIF chain: want JR NZ (20 ..), got % 02X", res.Code[:2])
	}
}

func TestBitIndexOutOfRange(t *testing.T) {
	res := assembleOK(t, "BIT 7,A\n")
	assertCode(t, res, []byte{0xCB, 0x7F})

	bad := assembleString(t, "BIT 8,A\n")
	if bad.OK {
		t.Fatal("BIT 8,A is out of the [0,8) range and must be rejected")
	}
}

func TestRstValidAndInvalidTargets(t *testing.T) {
	res := assembleOK(t, "RST 38H\n")
	assertCode(t, res, []byte{0xFF})

	bad := assembleString(t, "RST 39H\n")
	if bad.OK {
		t.Fatal("RST 39H is not a multiple of 8 and must be rejected")
	}
}

func TestPublicExternCallProducesFixup(t *testing.T) {
	res := assembleOK(t, "\tPUBLIC START\nSTART:\n\tEXTRN SUBR\n\tCALL SUBR\n")
	if len(res.Ctx.Symbols.Publics()) != 1 {
		t.Fatalf("want one PUBLIC symbol, got %d", len(res.Ctx.Symbols.Publics()))
	}
	if len(res.Ctx.Symbols.Externals()) != 1 {
		t.Fatalf("want one EXTRN symbol, got %d", len(res.Ctx.Symbols.Externals()))
	}
	if len(res.Ctx.Fixups) != 1 {
		t.Fatalf("CALL to an external symbol must leave a fix-up, got %d", len(res.Ctx.Fixups))
	}
	if res.Code[0] != 0xCD {
		t.Fatalf("CALL opcode: want CD, got %02X", res.Code[0])
	}

	var buf bytes.Buffer
	if err := objfile.Write(&buf, res.Ctx); err != nil {
		t.Fatalf("objfile.Write: %v", err)
	}
	f, err := objfile.Read(&buf)
	if err != nil {
		t.Fatalf("objfile.Read: %v", err)
	}
	if len(f.Publics) != 1 || len(f.Externals) != 1 || len(f.Fixups) != 1 {
		t.Fatalf("object file round-trip lost a table entry: %+v", f)
	}
}

func TestUnresolvedPublicWarns(t *testing.T) {
	res := assembleString(t, "\tPUBLIC NEVER_DEFINED\n")
	if !res.OK {
		t.Fatalf("an unresolved PUBLIC is a warning, not an error: %v", res.Errors)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected a warning for the never-defined PUBLIC symbol")
	}
}

func TestForwardReferenceResolvesByPass2(t *testing.T) {
	res := assembleOK(t, "\tJP FAR\nFAR:\tNOP\n")
	if res.Passes < 2 {
		t.Fatalf("a forward reference must force at least one extra pass, got %d", res.Passes)
	}
	assertCode(t, res, []byte{0xC3, 0x03, 0x00, 0x00})
}

func TestMultipleDefinitionError(t *testing.T) {
	res := assembleString(t, "FOO:\tNOP\nFOO:\tNOP\n")
	if res.OK {
		t.Fatal("redefining a symbol within the same source must be an error")
	}
}

func TestDEFBStringAndBytes(t *testing.T) {
	res := assembleOK(t, "\tDEFB 1,2,'AB'\n")
	assertCode(t, res, []byte{1, 2, 'A', 'B'})
}

func TestDEFWLittleEndian(t *testing.T) {
	res := assembleOK(t, "\tDEFW 1234H,5678H\n")
	assertCode(t, res, []byte{0x34, 0x12, 0x78, 0x56})
}

func TestDEFSReservesZeroes(t *testing.T) {
	res := assembleOK(t, "\tDEFS 3\n")
	assertCode(t, res, []byte{0, 0, 0})
}

func TestCSEGDSEGSwitchesSegment(t *testing.T) {
	res := assembleOK(t, "\tCSEG\n\tNOP\n\tDSEG\n\tDEFB 9\n")
	assertCode(t, res, []byte{0x00})
	if !bytes.Equal(res.Data, []byte{9}) {
		t.Fatalf("data segment: want [9], got %v", res.Data)
	}
}

func TestListingRecordsOneEntryPerStatement(t *testing.T) {
	res := assembleOK(t, "START:\tLD A,5\n\tNOP\n")
	if len(res.Listing) != 2 {
		t.Fatalf("want 2 listing lines, got %d", len(res.Listing))
	}
	if !bytes.Equal(res.Listing[0].Bytes, []byte{0x3E, 0x05}) {
		t.Fatalf("first listing line bytes: got % 02X", res.Listing[0].Bytes)
	}
}
