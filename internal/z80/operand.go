package z80

import (
	"github.com/inufuto/ra80/internal/addr"
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/expr"
	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/token"
)

// memKind discriminates the shapes of memory operand a "(...)" can take.
type memKind int

const (
	memHL memKind = iota
	memBC
	memDE
	memIX
	memIY
	memC
	memAbs
)

// memRef is a parsed "(...)" operand.
type memRef struct {
	kind memKind
	disp int         // for memIX/memIY
	addr addr.Address // for memAbs
}

// peekMnemonic reports whether the next token is the given mnemonic keyword,
// without consuming it.
func peekMnemonic(ctx *asmctx.Context, kw int) bool {
	return ctx.TR.Peek().Is(kw)
}

// acceptReg consumes the next token if it is a ReservedWord equal to kw.
func acceptReg(ctx *asmctx.Context, kw int) bool {
	_, ok := ctx.TR.Accept(kw)
	return ok
}

// tryParseMemRef attempts to parse a "(" ... ")" operand. It returns
// ok=false, having consumed nothing, if the next token is not "(".
func tryParseMemRef(ctx *asmctx.Context) (memRef, srcpos.Position, bool) {
	open, ok := ctx.TR.Accept(int('('))
	if !ok {
		return memRef{}, srcpos.Position{}, false
	}
	pos := open.Pos

	switch {
	case acceptReg(ctx, token.KwHL):
		expectClose(ctx, pos)
		return memRef{kind: memHL}, pos, true
	case acceptReg(ctx, token.KwBC):
		expectClose(ctx, pos)
		return memRef{kind: memBC}, pos, true
	case acceptReg(ctx, token.KwDE):
		expectClose(ctx, pos)
		return memRef{kind: memDE}, pos, true
	case acceptReg(ctx, token.KwC):
		expectClose(ctx, pos)
		return memRef{kind: memC}, pos, true
	case peekMnemonic(ctx, token.KwIX) || peekMnemonic(ctx, token.KwIY):
		idxKw := ctx.TR.Next().Value
		disp := 0
		if _, ok := ctx.TR.Accept(int('+')); ok {
			disp = expr.Eval(ctx).Value
		} else if _, ok := ctx.TR.Accept(int('-')); ok {
			disp = -expr.Eval(ctx).Value
		}
		expectClose(ctx, pos)
		kind := memIX
		if idxKw == token.KwIY {
			kind = memIY
		}
		return memRef{kind: kind, disp: disp}, pos, true
	default:
		a := expr.Eval(ctx)
		expectClose(ctx, pos)
		return memRef{kind: memAbs, addr: a}, pos, true
	}
}

func expectClose(ctx *asmctx.Context, pos srcpos.Position) {
	if _, ok := ctx.TR.Accept(int(')')); !ok {
		ctx.Errorf(pos, "missing )")
	}
}

// emitIndexDisp emits the displacement byte for an IX/IY memory reference,
// reporting a "displacement out of range" error if it overflows a signed
// byte.
func emitIndexDisp(ctx *asmctx.Context, pos srcpos.Position, disp int) {
	if disp < -128 || disp > 127 {
		ctx.Errorf(pos, "displacement out of range")
	}
	ctx.Emit(byte(disp))
}

// idxPrefixByte returns the DD/FD prefix byte for a memIX/memIY ref.
func (m memRef) idxPrefixByte() byte {
	if m.kind == memIY {
		return prefixIY
	}
	return prefixIX
}

func expectComma(ctx *asmctx.Context, pos srcpos.Position) {
	if _, ok := ctx.TR.Accept(int(',')); !ok {
		ctx.Errorf(pos, "missing ,")
	}
}

// emitImmWord emits an already-evaluated address as a little-endian word,
// recording a fix-up if the value is relocatable/external.
func emitImmWord(ctx *asmctx.Context, a addr.Address) {
	if !a.IsConst() {
		ctx.AddFixup(a)
	}
	ctx.EmitWord(uint16(a.Value))
}

// emitImmByte evaluates an already-computed address as a single byte.
func emitImmByte(ctx *asmctx.Context, pos srcpos.Position, a addr.Address) {
	if !a.IsConst() {
		ctx.Errorf(pos, "address usage error: byte value must be constant")
		ctx.Emit(0)
		return
	}
	ctx.Emit(byte(a.Value))
}
