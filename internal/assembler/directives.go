package assembler

import (
	"github.com/inufuto/ra80/internal/addr"
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/expr"
	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/token"
)

func isDirective(value int) bool {
	switch value {
	case token.KwINCLUDE, token.KwCSEG, token.KwDSEG,
		token.KwPUBLIC, token.KwEXTRN, token.KwEXT,
		token.KwDEFB, token.KwDB, token.KwDEFW, token.KwDW,
		token.KwDEFS, token.KwDS:
		return true
	}
	return false
}

func (a *Assembler) dispatchDirective(t token.Token) {
	ctx := a.ctx
	switch t.Value {
	case token.KwCSEG:
		ctx.Cur = ctx.Code
	case token.KwDSEG:
		ctx.Cur = ctx.Data
	case token.KwPUBLIC:
		a.identList(func(id int) { ctx.MarkPublic(id) })
	case token.KwEXTRN, token.KwEXT:
		a.identList(func(id int) { ctx.DeclareExternal(id) })
	case token.KwDEFB, token.KwDB:
		a.defineBytes(t.Pos)
	case token.KwDEFW, token.KwDW:
		a.defineWords(t.Pos)
	case token.KwDEFS, token.KwDS:
		a.reserveSpace(t.Pos)
	case token.KwINCLUDE:
		a.include(t.Pos)
	}
}

// identList parses a comma-separated list of identifiers, applying fn to
// each (PUBLIC/EXTRN's common shape).
func (a *Assembler) identList(fn func(id int)) {
	ctx := a.ctx
	for {
		t := ctx.TR.Next()
		if t.Kind != token.Identifier {
			ctx.Errorf(t.Pos, "expected an identifier")
			return
		}
		fn(t.Value)
		if _, ok := ctx.TR.Accept(int(',')); !ok {
			return
		}
	}
}

// defineBytes implements DEFB/DB: a comma-separated list of byte
// expressions or string literals, the latter emitting one byte per
// character (spec §4.7).
func (a *Assembler) defineBytes(pos srcpos.Position) {
	ctx := a.ctx
	for {
		t := ctx.TR.Peek()
		if t.Kind == token.StringValue {
			ctx.TR.Next()
			text, _ := ctx.LiteralText(t.Value)
			for i := 0; i < len(text); i++ {
				ctx.Emit(text[i])
			}
		} else {
			v := expr.Eval(ctx)
			emitByteOperand(ctx, t.Pos, v)
		}
		if _, ok := ctx.TR.Accept(int(',')); !ok {
			return
		}
	}
}

// defineWords implements DEFW/DW: a comma-separated list of word
// expressions, each possibly a forward/external reference recorded as a
// fix-up.
func (a *Assembler) defineWords(pos srcpos.Position) {
	ctx := a.ctx
	for {
		v := expr.Eval(ctx)
		if !v.IsConst() {
			ctx.AddFixup(v)
		}
		ctx.EmitWord(uint16(v.Value))
		if _, ok := ctx.TR.Accept(int(',')); !ok {
			return
		}
	}
}

// reserveSpace implements DEFS/DS: n zero bytes.
func (a *Assembler) reserveSpace(pos srcpos.Position) {
	ctx := a.ctx
	n := expr.Eval(ctx)
	if !n.IsConst() || n.Value < 0 {
		ctx.Errorf(pos, "DEFS count must be a non-negative constant")
		return
	}
	for i := 0; i < n.Value; i++ {
		ctx.Emit(0)
	}
}

func (a *Assembler) include(pos srcpos.Position) {
	t := a.ctx.TR.Next()
	if t.Kind != token.StringValue {
		a.ctx.Errorf(pos, "INCLUDE expects a quoted file name")
		return
	}
	text, _ := a.ctx.LiteralText(t.Value)
	if err := a.currentInclude.Include(text); err != nil {
		a.ctx.Errorf(pos, "cannot open %q: %s", text, err)
	}
}

func emitByteOperand(ctx *asmctx.Context, pos srcpos.Position, v addr.Address) {
	if !v.IsConst() {
		ctx.Errorf(pos, "address usage error: byte value must be constant")
		ctx.Emit(0)
		return
	}
	ctx.Emit(byte(v.Value))
}
