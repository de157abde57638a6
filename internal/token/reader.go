package token

import "github.com/inufuto/ra80/internal/srcpos"

// Reader is the TokenReader of spec §4 component 4: one-token lookahead
// over a Tokenizer, with deduplicated error reporting keyed by source
// position. Shape grounded on bshepherdson-risque16/assembler/parser.go's
// scan/unscan buffer-of-one.
type Reader struct {
	tz      *Tokenizer
	buf     Token
	buffered bool
	seen    map[srcpos.Position]bool

	// Report is invoked at most once per distinct Position, the first time
	// Error is called for that position. The driver wires this to its
	// diagnostic sink and error counter.
	Report func(pos srcpos.Position, msg string)
}

// NewReader wraps tz.
func NewReader(tz *Tokenizer) *Reader {
	return &Reader{tz: tz, seen: make(map[srcpos.Position]bool)}
}

// Peek returns the next token without consuming it.
func (r *Reader) Peek() Token {
	if !r.buffered {
		r.buf = r.tz.GetToken()
		r.buffered = true
	}
	return r.buf
}

// Next consumes and returns the next token.
func (r *Reader) Next() Token {
	t := r.Peek()
	r.buffered = false
	return t
}

// Accept consumes and returns (token, true) if the next token is a
// ReservedWord with the given value; otherwise it leaves the stream
// untouched and returns (zero, false).
func (r *Reader) Accept(value int) (Token, bool) {
	t := r.Peek()
	if t.Is(value) {
		return r.Next(), true
	}
	return Token{}, false
}

// SkipNewlines consumes consecutive NL tokens (blank statement separators).
func (r *Reader) SkipNewlines() {
	for r.Peek().IsNewline() {
		r.Next()
	}
}

// Error reports msg at pos, once per distinct position.
func (r *Reader) Error(pos srcpos.Position, msg string) {
	if r.seen[pos] {
		return
	}
	r.seen[pos] = true
	if r.Report != nil {
		r.Report(pos, msg)
	}
}

// ResetDedup clears the per-position dedup set; asmctx.Context.BeginPass
// calls this at the start of every pass, including the pass where
// "undefined identifier"/"address usage" errors first become reportable
// (spec §7: pass 1 never reports those), so that a position seen only
// during an earlier pass does not
// suppress a real pass->=2 semantic error at the same position.
func (r *Reader) ResetDedup() {
	r.seen = make(map[srcpos.Position]bool)
}
