package token

import (
	"strconv"

	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/strtab"
)

// CharSource is the minimal character stream the Tokenizer needs. The
// concrete implementation is *source.Reader; the interface lives here
// (rather than being imported from package source) so package token does
// not need to depend on package source.
type CharSource interface {
	GetChar() byte
	PushBack(ch byte)
	Position() srcpos.Position
}

// Tokenizer produces a lazy sequence of Token values from a CharSource,
// per spec §4.2. Identifiers and string literals are interned into the
// supplied string tables; keywords are looked up in the fixed table built
// by keywords.go.
type Tokenizer struct {
	src      CharSource
	Idents   *strtab.Table
	Literals *strtab.Table
}

// NewTokenizer wraps src. ident and lit must use disjoint id ranges (the
// driver is expected to allocate them with strtab.New(0x100, 0x8000) and
// strtab.New(0x10000, 0) respectively, per spec §3's auto-label range).
func NewTokenizer(src CharSource, ident, lit *strtab.Table) *Tokenizer {
	return &Tokenizer{src: src, Idents: ident, Literals: lit}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'A' && ch <= 'F') || (ch >= 'a' && ch <= 'f')
}

func isIdentStart(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') ||
		ch == '_' || ch == '$' || ch == '.' || ch == '?' || ch == '@'
}

func isIdentCont(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '\''
}

// GetToken returns the next token, skipping whitespace and ';' comments.
// '\n' is returned as a ReservedWord token with value NL; end of input is
// returned as a ReservedWord token with value EOF.
func (tz *Tokenizer) GetToken() Token {
	for {
		ch := tz.src.GetChar()
		if ch == ';' {
			for {
				ch = tz.src.GetChar()
				if ch == '\n' || ch == 0 {
					tz.src.PushBack(ch)
					break
				}
			}
			continue
		}
		if isSpace(ch) {
			continue
		}
		if ch == 0 {
			return Token{Pos: tz.src.Position(), Kind: ReservedWord, Value: EOF}
		}
		if ch == '\n' {
			return Token{Pos: tz.src.Position(), Kind: ReservedWord, Value: NL, Text: "\n"}
		}
		if ch == '|' {
			// In-line statement separator, equivalent to end-of-line (spec §6).
			return Token{Pos: tz.src.Position(), Kind: ReservedWord, Value: NL, Text: "|"}
		}

		pos := tz.src.Position()

		if ch == '\'' || ch == '"' {
			return tz.readString(pos, ch)
		}
		if isDigit(ch) {
			return tz.readNumber(pos, ch)
		}
		if isIdentStart(ch) {
			return tz.readIdentOrKeyword(pos, ch)
		}
		return tz.readOperator(pos, ch)
	}
}

func (tz *Tokenizer) readString(pos srcpos.Position, quote byte) Token {
	var text []byte
	for {
		ch := tz.src.GetChar()
		if ch == quote || ch == 0 || ch == '\n' {
			if ch == '\n' {
				tz.src.PushBack(ch)
			}
			break
		}
		text = append(text, ch)
	}
	id := tz.Literals.Intern(string(text))
	return Token{Pos: pos, Kind: StringValue, Value: id, Text: string(text)}
}

func (tz *Tokenizer) readNumber(pos srcpos.Position, first byte) Token {
	text := []byte{first}
	for {
		ch := tz.src.GetChar()
		if isHexDigit(ch) || ch == 'H' || ch == 'h' {
			text = append(text, ch)
			continue
		}
		tz.src.PushBack(ch)
		break
	}
	last := text[len(text)-1]
	var val int64
	var err error
	if last == 'H' || last == 'h' {
		val, err = strconv.ParseInt(string(text[:len(text)-1]), 16, 64)
	} else {
		val, err = strconv.ParseInt(string(text), 10, 64)
	}
	if err != nil {
		return Token{Pos: pos, Kind: NumericValue, Value: -1, Text: string(text)}
	}
	return Token{Pos: pos, Kind: NumericValue, Value: int(val), Text: string(text)}
}

func (tz *Tokenizer) readIdentOrKeyword(pos srcpos.Position, first byte) Token {
	text := []byte{first}
	for {
		ch := tz.src.GetChar()
		if isIdentCont(ch) {
			text = append(text, ch)
			continue
		}
		tz.src.PushBack(ch)
		break
	}
	up := upper(string(text))
	if id, ok := LookupKeyword(up); ok {
		return Token{Pos: pos, Kind: ReservedWord, Value: id, Text: up}
	}
	id := tz.Idents.Intern(up)
	return Token{Pos: pos, Kind: Identifier, Value: id, Text: up}
}

func (tz *Tokenizer) readOperator(pos srcpos.Position, first byte) Token {
	second := tz.src.GetChar()
	if second != 0 {
		pair := string([]byte{first, second})
		if id, ok := twoCharOps[pair]; ok {
			return Token{Pos: pos, Kind: ReservedWord, Value: id, Text: pair}
		}
		tz.src.PushBack(second)
	}
	return Token{Pos: pos, Kind: ReservedWord, Value: int(first), Text: string(first)}
}
