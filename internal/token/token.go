// Package token implements the Tokenizer and TokenReader of spec §4.2/§1
// (component 3/4): a lazy token stream over a character source, and a
// one-token-lookahead reader with deduplicated error reporting. Shape is
// grounded on bshepherdson-risque16/assembler/lexer.go (Scanner.Scan) and
// parser.go (scan/unscan buffer-of-one).
package token

import "github.com/inufuto/ra80/internal/srcpos"

// Kind discriminates the four token categories of spec §3.
type Kind int

const (
	ReservedWord Kind = iota
	Identifier
	NumericValue
	StringValue
)

func (k Kind) String() string {
	switch k {
	case ReservedWord:
		return "reserved word"
	case Identifier:
		return "identifier"
	case NumericValue:
		return "number"
	case StringValue:
		return "string"
	default:
		return "?"
	}
}

// Token is the value produced by the tokenizer: a position, a kind, and an
// integer value whose meaning depends on Kind (keyword id or raw ASCII
// operator code for ReservedWord; interned id for Identifier/StringValue;
// the literal numeric value for NumericValue).
type Token struct {
	Pos   srcpos.Position
	Kind  Kind
	Value int
	Text  string // original spelling, for diagnostics only
}

// EOF is the raw ReservedWord value used for end of input.
const EOF = 0

// NL is the raw ReservedWord value used for the end-of-line sentinel.
const NL = '\n'

// IsEOF reports whether t is the end-of-input token.
func (t Token) IsEOF() bool {
	return t.Kind == ReservedWord && t.Value == EOF
}

// IsNewline reports whether t is the '\n' sentinel.
func (t Token) IsNewline() bool {
	return t.Kind == ReservedWord && t.Value == NL
}

// Is reports whether t is a ReservedWord with the given value (keyword id
// or raw operator byte).
func (t Token) Is(value int) bool {
	return t.Kind == ReservedWord && t.Value == value
}
