// Package assembler is the driver of spec §4/§5/§7: the two-pass (really
// fixpoint n-pass) loop that wires SourceReader, Tokenizer, TokenReader,
// asmctx.Context, the expression evaluator, the instruction emitter and the
// structured-flow compiler together, plus statement framing (label vs.
// directive vs. instruction) and listing emission. Grounded on the
// teacher's own IE64Assembler.Assemble loop in assembler/ie64asm.go: one
// driving method that resets state, runs a pass, and loops until the
// symbol table stops changing.
package assembler

import (
	"bytes"
	"fmt"

	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/expr"
	"github.com/inufuto/ra80/internal/flow"
	"github.com/inufuto/ra80/internal/source"
	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/strtab"
	"github.com/inufuto/ra80/internal/token"
	"github.com/inufuto/ra80/internal/z80"
)

// IdentBase/IdentLimit/LiteralBase are the disjoint strtab ranges of spec
// §3: identifiers in [0x100, 0x8000), auto-labels in [0x8000, ...) (owned
// by asmctx.AutoLabelBase), string literals in a separate unbounded range
// so the two tables can never collide.
const (
	IdentBase    = 0x100
	IdentLimit   = asmctx.AutoLabelBase
	LiteralBase  = 0x10000
	MaxErrors    = 100
	MaxPasses    = 50
)

// Diagnostic is one reported error or warning, in source order.
type Diagnostic struct {
	Pos  srcpos.Position
	Msg  string
}

// Result is everything a caller (the CLI, or a test) needs out of an
// assembly run.
type Result struct {
	Code, Data []byte
	Ctx        *asmctx.Context
	Listing    []ListLine
	Errors     []Diagnostic
	Warnings   []Diagnostic
	Passes     int
	OK         bool // true iff the object is safe to write (spec §5)
}

// Assembler holds everything that must persist for the lifetime of one
// source file's assembly (across every pass).
type Assembler struct {
	path     string
	idents   *strtab.Table
	literals *strtab.Table

	ctx  *asmctx.Context
	flow *flow.State

	listing        *listingBuilder
	lines          map[srcpos.Position]string
	errors         []Diagnostic
	pass1Error     bool
	currentInclude *source.Reader
}

// New prepares an Assembler for path; no file is opened until Run.
func New(path string) *Assembler {
	return &Assembler{path: path}
}

// Run executes the fixpoint pass loop of spec §3/§5: pass 1 establishes
// provisional addresses; later passes re-resolve forward references until
// no symbol's address changes and the emitted bytes match the previous
// pass's, or pass 1 itself reported an error (in which
// case no further pass runs at all), or MaxPasses is exhausted.
func (a *Assembler) Run() (*Result, error) {
	a.idents = strtab.New(IdentBase, IdentLimit)
	a.literals = strtab.New(LiteralBase, 0)

	res := &Result{}
	changed := true
	pass := 0
	var prevCode, prevData []byte

	// Spec: the assembler always runs at least two passes — pass 1's
	// addresses are provisional for any forward reference, so a single pass
	// would bake unresolved placeholders into the final object even when no
	// symbol's address ever actually changes (the common case: every label
	// is defined exactly once and never moves).
	for (pass < 2 || changed) && pass < MaxPasses {
		pass++
		a.lines = make(map[srcpos.Position]string)
		a.listing = newListingBuilder()

		tr, src, err := a.openPass()
		if err != nil {
			return nil, err
		}

		if a.ctx == nil {
			a.ctx = asmctx.New(tr, a.idents, a.literals, MaxErrors)
		} else {
			a.ctx.TR = tr
		}
		a.ctx.BeginPass(pass)
		a.flow = flow.NewState()

		tr.Report = func(pos srcpos.Position, msg string) {
			a.errors = append(a.errors, Diagnostic{Pos: pos, Msg: msg})
			a.ctx.ErrCount++
		}
		a.errors = nil

		changed = a.runPass(src)
		src.Close()

		// runPass only sees symbols defined by statements (labels, EQU); the
		// structured-flow auto-labels are redefined inside package flow. A
		// pass whose bytes differ from the previous pass's is not the fixpoint.
		if !bytes.Equal(a.ctx.Code.Bytes, prevCode) || !bytes.Equal(a.ctx.Data.Bytes, prevData) {
			changed = true
		}
		prevCode = append(prevCode[:0], a.ctx.Code.Bytes...)
		prevData = append(prevData[:0], a.ctx.Data.Bytes...)

		if pass == 1 && a.ctx.ErrCount > 0 {
			a.pass1Error = true
			break
		}
	}

	res.Passes = pass
	res.Ctx = a.ctx
	res.Code = append([]byte(nil), a.ctx.Code.Bytes...)
	res.Data = append([]byte(nil), a.ctx.Data.Bytes...)
	res.Listing = a.listing.lines
	res.Errors = a.errors
	for _, w := range a.ctx.Warnings {
		res.Warnings = append(res.Warnings, Diagnostic{Msg: w})
	}
	for _, id := range a.ctx.Symbols.UnresolvedPublics() {
		res.Warnings = append(res.Warnings, Diagnostic{
			Msg: fmt.Sprintf("PUBLIC symbol %q was never defined", a.ctx.IdentName(id)),
		})
	}

	res.OK = !a.pass1Error && a.ctx.ErrCount == 0
	return res, nil
}

func (a *Assembler) openPass() (*token.Reader, *source.Reader, error) {
	src, err := source.Open(a.path, a)
	if err != nil {
		return nil, nil, err
	}
	tz := token.NewTokenizer(src, a.idents, a.literals)
	tr := token.NewReader(tz)
	return tr, src, nil
}

// Line implements source.LineSink: the driver remembers every physical
// line's text, keyed by position, for the listing pass.
func (a *Assembler) Line(pos srcpos.Position, text string) {
	a.lines[pos] = text
}

// runPass scans every statement to EOF and reports whether any label or
// EQU symbol defined by a statement changed its address during this pass.
// Auto-labels defined by package flow are not part of this signal; Run
// covers them by comparing the emitted bytes across passes.
func (a *Assembler) runPass(src *source.Reader) bool {
	ctx := a.ctx
	changed := false
	a.currentInclude = src

	for {
		ctx.TR.SkipNewlines()
		t := ctx.TR.Peek()
		if t.IsEOF() {
			break
		}
		if ctx.ErrCount >= ctx.MaxErrors {
			break
		}
		lineStart := t.Pos
		addrStart := ctx.Here()
		segStart := ctx.Cur

		if a.statement() {
			changed = true
		}

		a.endStatement(lineStart)
		a.listing.record(lineStart, a.lines[lineStart], addrStart, segStart, ctx)
	}
	return changed
}

// endStatement consumes the statement terminator (NL from '\n' or '|', or
// EOF) and reports a diagnostic if neither was found.
func (a *Assembler) endStatement(pos srcpos.Position) {
	t := a.ctx.TR.Peek()
	if t.IsNewline() || t.IsEOF() {
		if t.IsNewline() {
			a.ctx.TR.Next()
		}
		return
	}
	a.ctx.Errorf(pos, "unexpected token %q", t.Text)
	// Resynchronize to the next statement boundary so one bad token does not
	// cascade into a string of spurious errors for the rest of the line.
	for {
		t = a.ctx.TR.Peek()
		if t.IsNewline() || t.IsEOF() {
			if t.IsNewline() {
				a.ctx.TR.Next()
			}
			return
		}
		a.ctx.TR.Next()
	}
}

// statement parses and emits one statement (an optional label, followed by
// a directive or instruction, or nothing). It returns true if defining the
// label changed that symbol's address from the prior pass.
func (a *Assembler) statement() bool {
	ctx := a.ctx
	changed := false

	t := ctx.TR.Peek()
	if t.Kind == token.Identifier {
		ctx.TR.Next()
		ctx.TR.Accept(int(':'))
		if _, ok := ctx.TR.Accept(token.KwEQU); ok {
			value := expr.Eval(ctx)
			if c, err := ctx.DefineSymbol(t.Value, value); err != nil {
				ctx.Errorf(t.Pos, "%s", err)
			} else if c {
				changed = true
			}
			return changed
		}
		if c, err := ctx.DefineSymbol(t.Value, ctx.Here()); err != nil {
			ctx.Errorf(t.Pos, "%s", err)
		} else if c {
			changed = true
		}
		t = ctx.TR.Peek()
		if t.IsNewline() || t.IsEOF() {
			return changed
		}
	}

	if t.Kind != token.ReservedWord {
		ctx.Errorf(t.Pos, "syntax error: expected a statement")
		return changed
	}

	switch {
	case token.IsMnemonic(t.Value):
		ctx.TR.Next()
		z80.Dispatch(ctx, t)
	case flow.StatementKeyword(t.Value):
		ctx.TR.Next()
		a.dispatchFlow(t)
	case isDirective(t.Value):
		ctx.TR.Next()
		a.dispatchDirective(t)
	default:
		ctx.Errorf(t.Pos, "unexpected token %q", t.Text)
	}
	return changed
}

func (a *Assembler) dispatchFlow(t token.Token) {
	ctx := a.ctx
	switch t.Value {
	case token.KwIF:
		a.flow.HandleIF(ctx, t.Pos, mustCondition(ctx, t.Pos))
	case token.KwELSEIF:
		a.flow.HandleELSEIF(ctx, t.Pos, mustCondition(ctx, t.Pos))
	case token.KwELSE:
		a.flow.HandleELSE(ctx, t.Pos)
	case token.KwENDIF:
		a.flow.HandleENDIF(ctx, t.Pos)
	case token.KwDO:
		a.flow.HandleDO(ctx, t.Pos)
	case token.KwWHILE:
		a.flow.HandleWHILE(ctx, t.Pos, mustCondition(ctx, t.Pos))
	case token.KwWEND:
		a.flow.HandleWEND(ctx, t.Pos)
	case token.KwDWNZ:
		a.flow.HandleDWNZ(ctx, t.Pos)
	}
}

func mustCondition(ctx *asmctx.Context, pos srcpos.Position) int {
	t := ctx.TR.Next()
	if _, ok := z80.ConditionIndex(t.Value); !ok {
		ctx.Errorf(pos, "expected a condition (NZ, Z, NC, C, ...)")
		return token.KwNZ
	}
	return t.Value
}
