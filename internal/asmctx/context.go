// Package asmctx holds the Context struct threaded by pointer through the
// expression evaluator, instruction emitter and structured-flow compiler.
// Rather than an interface per consumer package (which would risk import
// cycles between expr/z80/flow), every one of those packages depends
// directly on this one small, concrete struct — the same shape the teacher
// uses for IE64Assembler itself: one struct, threaded by pointer receiver,
// through every helper function (asmMove, asmBra, resolveLabel, ...).
package asmctx

import (
	"fmt"

	"github.com/inufuto/ra80/internal/addr"
	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/strtab"
	"github.com/inufuto/ra80/internal/token"
)

// AutoLabelBase is the first id handed out by NewAutoLabel each pass,
// chosen so auto-labels never collide with a user identifier (spec §3:
// user identifiers begin at 0x100 and are kept below 0x8000).
const AutoLabelBase = 0x8000

// Context is the shared state every parsing/emitting helper needs.
type Context struct {
	TR       *token.Reader
	Idents   *strtab.Table
	Literals *strtab.Table
	Symbols  *addr.Table

	Code *addr.Segment
	Data *addr.Segment
	Cur  *addr.Segment // active segment, switched by CSEG/DSEG

	Fixups []addr.Fixup

	Pass     int
	autoNext int

	ErrCount int
	MaxErrors int
	Warnings []string
}

// New builds a Context with Code active by default (spec §4.7: CSEG/DSEG
// switch the current segment; CSEG is the implicit starting segment).
func New(tr *token.Reader, idents, literals *strtab.Table, maxErrors int) *Context {
	code := addr.NewSegment(addr.Code)
	data := addr.NewSegment(addr.Data)
	return &Context{
		TR:        tr,
		Idents:    idents,
		Literals:  literals,
		Symbols:   addr.NewTable(),
		Code:      code,
		Data:      data,
		Cur:       code,
		MaxErrors: maxErrors,
	}
}

// BeginPass resets everything spec §3 says is cleared at the start of a
// pass: the listing (owned by the driver, not here), the auto-label
// counter, and the address-usage map. Segments are reset too, since every
// pass re-emits from scratch (spec §4.5).
func (c *Context) BeginPass(pass int) {
	c.Pass = pass
	c.autoNext = AutoLabelBase
	c.Fixups = nil
	c.ErrCount = 0
	c.Warnings = nil
	c.Code.Reset()
	c.Data.Reset()
	c.Cur = c.Code
	c.TR.ResetDedup()
}

// NewAutoLabel hands out the next auto-generated label id for this pass.
func (c *Context) NewAutoLabel() int {
	id := c.autoNext
	c.autoNext++
	return id
}

// Here returns the current emission address (the active segment's tail).
func (c *Context) Here() addr.Address {
	return c.Cur.Here()
}

// Emit appends bytes to the active segment.
func (c *Context) Emit(b ...byte) {
	c.Cur.Emit(b...)
}

// EmitWord appends a 16-bit little-endian value.
func (c *Context) EmitWord(v uint16) {
	c.Emit(byte(v), byte(v>>8))
}

// AddFixup records that the word about to be emitted at the segment's
// current tail refers to target; call this immediately before emitting
// the operand bytes it describes.
func (c *Context) AddFixup(target addr.Address) {
	c.Fixups = append(c.Fixups, addr.Fixup{At: c.Here(), Target: target})
}

// Resolve looks up an identifier's current address.
func (c *Context) Resolve(id int) (addr.Address, bool) {
	return c.Symbols.Lookup(id)
}

// LiteralText returns the text of an interned string literal.
func (c *Context) LiteralText(id int) (string, bool) {
	return c.Literals.Lookup(id)
}

// IdentName returns the spelling of an interned identifier, for
// diagnostics.
func (c *Context) IdentName(id int) string {
	if name, ok := c.Idents.Lookup(id); ok {
		return name
	}
	return "?"
}

// DefineSymbol records id -> a at the current pass.
func (c *Context) DefineSymbol(id int, a addr.Address) (changed bool, err error) {
	return c.Symbols.Define(c.Pass, id, a)
}

// MarkPublic marks id PUBLIC.
func (c *Context) MarkPublic(id int) {
	c.Symbols.MarkPublic(id)
}

// DeclareExternal declares id EXTRN/EXT and returns its External address.
func (c *Context) DeclareExternal(id int) addr.Address {
	return c.Symbols.DeclareExternal(id)
}

// Errorf reports a source-position error, deduplicated by TokenReader and
// counted towards MaxErrorCount.
func (c *Context) Errorf(pos srcpos.Position, format string, args ...interface{}) {
	c.TR.Error(pos, fmt.Sprintf(format, args...))
}

// Warningf appends a non-fatal diagnostic (SPEC_FULL.md's Supplemented
// Features: warnings are never deduplicated or counted towards
// MaxErrorCount, mirroring IE64Assembler.addWarning).
func (c *Context) Warningf(pos srcpos.Position, format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, fmt.Sprintf("%s: %s", pos, fmt.Sprintf(format, args...)))
}
