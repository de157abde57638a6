package token

import (
	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/strtab"
	"testing"
)

// stringSource is a minimal in-memory CharSource for tokenizer tests,
// standing in for a real *source.Reader.
type stringSource struct {
	text []byte
	pos  int
	back []byte
	line int
}

func newStringSource(s string) *stringSource {
	return &stringSource{text: []byte(s), line: 1}
}

func (s *stringSource) GetChar() byte {
	if n := len(s.back); n > 0 {
		ch := s.back[n-1]
		s.back = s.back[:n-1]
		return ch
	}
	if s.pos >= len(s.text) {
		return 0
	}
	ch := s.text[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
	}
	return ch
}

func (s *stringSource) PushBack(ch byte) {
	s.back = append(s.back, ch)
}

func (s *stringSource) Position() srcpos.Position {
	return srcpos.Position{File: "test.asm", Line: s.line}
}

func newTestTokenizer(src string) *Tokenizer {
	idents := strtab.New(0x100, 0x8000)
	literals := strtab.New(0x10000, 0)
	return NewTokenizer(newStringSource(src), idents, literals)
}

func TestTokenizerReadsMnemonicKeyword(t *testing.T) {
	tz := newTestTokenizer("LD A,5\n")
	tok := tz.GetToken()
	if tok.Kind != ReservedWord || tok.Value != KwLD {
		t.Fatalf("want KwLD, got %+v", tok)
	}
}

func TestTokenizerReadsHexNumberWithHSuffix(t *testing.T) {
	tz := newTestTokenizer("1234H\n")
	tok := tz.GetToken()
	if tok.Kind != NumericValue || tok.Value != 0x1234 {
		t.Fatalf("want 0x1234, got %+v", tok)
	}
}

func TestTokenizerReadsDecimalNumber(t *testing.T) {
	tz := newTestTokenizer("42\n")
	tok := tz.GetToken()
	if tok.Kind != NumericValue || tok.Value != 42 {
		t.Fatalf("want 42, got %+v", tok)
	}
}

func TestTokenizerReadsQuotedString(t *testing.T) {
	tz := newTestTokenizer("'AB'\n")
	tok := tz.GetToken()
	if tok.Kind != StringValue || tok.Text != "AB" {
		t.Fatalf("want string AB, got %+v", tok)
	}
}

func TestTokenizerReadsDoubleQuotedString(t *testing.T) {
	tz := newTestTokenizer("\"hi\"\n")
	tok := tz.GetToken()
	if tok.Kind != StringValue || tok.Text != "hi" {
		t.Fatalf("want string hi, got %+v", tok)
	}
}

func TestTokenizerInternsIdentifierUppercased(t *testing.T) {
	tz := newTestTokenizer("loop\n")
	tok := tz.GetToken()
	if tok.Kind != Identifier || tok.Text != "LOOP" {
		t.Fatalf("want uppercased identifier LOOP, got %+v", tok)
	}
}

func TestTokenizerPipeActsAsNewline(t *testing.T) {
	tz := newTestTokenizer("NOP|NOP\n")
	first := tz.GetToken()
	if first.Kind != ReservedWord || first.Value != KwNOP {
		t.Fatalf("want KwNOP, got %+v", first)
	}
	sep := tz.GetToken()
	if !sep.IsNewline() {
		t.Fatalf("want | to act as a newline separator, got %+v", sep)
	}
}

func TestTokenizerSemicolonStartsLineComment(t *testing.T) {
	tz := newTestTokenizer("NOP ; a comment\nHALT\n")
	first := tz.GetToken()
	if first.Value != KwNOP {
		t.Fatalf("want KwNOP, got %+v", first)
	}
	nl := tz.GetToken()
	if !nl.IsNewline() {
		t.Fatalf("want newline after the comment, got %+v", nl)
	}
	second := tz.GetToken()
	if second.Value != KwHALT {
		t.Fatalf("want KwHALT after the comment line, got %+v", second)
	}
}

func TestTokenizerTwoCharOperatorTableIsEmpty(t *testing.T) {
	// twoCharOps is intentionally empty (see keywords.go); two adjacent
	// operator characters must tokenize as two single-character operators.
	tz := newTestTokenizer("+-\n")
	a := tz.GetToken()
	b := tz.GetToken()
	if a.Value != int('+') || b.Value != int('-') {
		t.Fatalf("want '+' then '-' as separate tokens, got %+v, %+v", a, b)
	}
}

func TestTokenizerEOFYieldsEOFToken(t *testing.T) {
	tz := newTestTokenizer("")
	tok := tz.GetToken()
	if !tok.IsEOF() {
		t.Fatalf("want EOF token at end of input, got %+v", tok)
	}
}

func TestReaderPeekDoesNotConsume(t *testing.T) {
	tz := newTestTokenizer("NOP\n")
	r := NewReader(tz)
	first := r.Peek()
	second := r.Peek()
	if first.Value != second.Value || first.Value != KwNOP {
		t.Fatalf("Peek must be idempotent, got %+v then %+v", first, second)
	}
	r.Next()
	nl := r.Next()
	if !nl.IsNewline() {
		t.Fatalf("want newline after NOP, got %+v", nl)
	}
}

func TestReaderAcceptConsumesOnMatch(t *testing.T) {
	tz := newTestTokenizer("NOP\n")
	r := NewReader(tz)
	if _, ok := r.Accept(KwHALT); ok {
		t.Fatal("Accept must not consume on a mismatched value")
	}
	if _, ok := r.Accept(KwNOP); !ok {
		t.Fatal("Accept must consume on a matching value")
	}
}

func TestReaderErrorDedupedByPosition(t *testing.T) {
	r := NewReader(newTestTokenizer(""))
	var got []string
	r.Report = func(pos srcpos.Position, msg string) { got = append(got, msg) }
	pos := srcpos.Position{File: "x.asm", Line: 1}
	r.Error(pos, "first")
	r.Error(pos, "second")
	if len(got) != 1 || got[0] != "first" {
		t.Fatalf("want only the first error at a position reported, got %v", got)
	}
	r.ResetDedup()
	r.Error(pos, "third")
	if len(got) != 2 || got[1] != "third" {
		t.Fatalf("want ResetDedup to allow the position to report again, got %v", got)
	}
}
