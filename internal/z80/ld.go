package z80

import (
	"github.com/inufuto/ra80/internal/addr"
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/expr"
	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/token"
)

// EmitLD implements the full LD family of spec §4.4. pos is the mnemonic's
// own position, used for diagnostics that have no more specific anchor.
func EmitLD(ctx *asmctx.Context, pos srcpos.Position) {
	if mr, mpos, ok := tryParseMemRef(ctx); ok {
		expectComma(ctx, mpos)
		emitLDToMem(ctx, mpos, mr)
		return
	}

	t := ctx.TR.Next()
	switch {
	case t.Is(token.KwA):
		emitLDFromA(ctx, t.Pos)
	case isSingleRegToken(t.Value):
		expectComma(ctx, t.Pos)
		emitLDRegFromSrc(ctx, t.Pos, t.Value)
	case t.Is(token.KwI):
		expectComma(ctx, t.Pos)
		mustReg(ctx, t.Pos, token.KwA)
		ctx.Emit(0xED, 0x47)
	case t.Is(token.KwR):
		expectComma(ctx, t.Pos)
		mustReg(ctx, t.Pos, token.KwA)
		ctx.Emit(0xED, 0x4F)
	case t.Is(token.KwSP):
		expectComma(ctx, t.Pos)
		emitLDSP(ctx, t.Pos)
	case t.Is(token.KwIX) || t.Is(token.KwIY):
		expectComma(ctx, t.Pos)
		emitLDIndexReg(ctx, t.Pos, t.Value)
	case isPairToken(t.Value):
		expectComma(ctx, t.Pos)
		emitLDPairFromSrc(ctx, t.Pos, t.Value)
	default:
		ctx.Errorf(t.Pos, "invalid LD destination")
	}
}

func mustReg(ctx *asmctx.Context, pos srcpos.Position, kw int) {
	if !acceptReg(ctx, kw) {
		ctx.Errorf(pos, "invalid operand")
	}
}

func isSingleRegToken(v int) bool {
	_, ok := singleRegIndex(v)
	return ok
}

func isPairToken(v int) bool {
	_, ok := pairIndex(v)
	return ok
}

// LD A,... has extra source forms (I, R, (BC), (DE) already handled via the
// memory-ref path above) beyond the generic 8-bit register forms.
func emitLDFromA(ctx *asmctx.Context, pos srcpos.Position) {
	expectComma(ctx, pos)
	switch {
	case acceptReg(ctx, token.KwI):
		ctx.Emit(0xED, 0x57)
	case acceptReg(ctx, token.KwR):
		ctx.Emit(0xED, 0x5F)
	default:
		emitLDRegFromSrc(ctx, pos, token.KwA)
	}
}

// emitLDRegFromSrc handles "LD r,<src>" where src is (HL), (IX+d)/(IY+d),
// another register, or an immediate byte.
func emitLDRegFromSrc(ctx *asmctx.Context, pos srcpos.Position, dstKw int) {
	dstIdx, _ := singleRegIndex(dstKw)

	if mr, mpos, ok := tryParseMemRef(ctx); ok {
		switch mr.kind {
		case memHL:
			ctx.Emit(byte(0x46 + 8*dstIdx))
		case memIX, memIY:
			ctx.Emit(mr.idxPrefixByte(), byte(0x46+8*dstIdx))
			emitIndexDisp(ctx, mpos, mr.disp)
		case memBC, memDE:
			if dstKw != token.KwA {
				ctx.Errorf(mpos, "only A can be loaded from (BC)/(DE)")
			}
			if mr.kind == memBC {
				ctx.Emit(0x0A)
			} else {
				ctx.Emit(0x1A)
			}
		case memAbs:
			if dstKw != token.KwA {
				ctx.Errorf(mpos, "only A can be loaded from a direct address")
			}
			ctx.Emit(0x3A)
			emitImmWord(ctx, mr.addr)
		default:
			ctx.Errorf(mpos, "invalid source operand")
		}
		return
	}

	t := ctx.TR.Peek()
	if t.Kind == token.ReservedWord {
		if srcIdx, ok := singleRegIndex(t.Value); ok {
			ctx.TR.Next()
			ctx.Emit(byte(0x40 + 8*dstIdx + srcIdx))
			return
		}
	}
	a := expr.Eval(ctx)
	ctx.Emit(byte(0x06 + 8*dstIdx))
	emitImmByte(ctx, pos, a)
}

// emitLDToMem handles "LD (...),<src>" for every memory-destination shape.
func emitLDToMem(ctx *asmctx.Context, pos srcpos.Position, mr memRef) {
	switch mr.kind {
	case memBC, memDE:
		mustReg(ctx, pos, token.KwA)
		if mr.kind == memBC {
			ctx.Emit(0x02)
		} else {
			ctx.Emit(0x12)
		}
	case memC:
		ctx.Errorf(pos, "(C) is only valid with IN/OUT")
	case memHL:
		emitLDMemHLOrIndexFromSrc(ctx, pos, 0, mr.disp)
	case memIX, memIY:
		emitLDMemHLOrIndexFromSrc(ctx, pos, mr.idxPrefixByte(), mr.disp)
	case memAbs:
		emitLDMemAbsFromSrc(ctx, pos, mr.addr)
	}
}

// emitLDMemHLOrIndexFromSrc covers "LD (HL),r" / "LD (HL),n" and, when
// idxPrefix != 0, "LD (IX+d),r" / "LD (IX+d),n". The displacement byte, for
// the index forms, is emitted immediately after the prefixed opcode, before
// any immediate operand byte that follows it.
func emitLDMemHLOrIndexFromSrc(ctx *asmctx.Context, pos srcpos.Position, idxPrefix byte, disp int) {
	t := ctx.TR.Peek()
	if t.Kind == token.ReservedWord {
		if srcIdx, ok := singleRegIndex(t.Value); ok {
			ctx.TR.Next()
			if idxPrefix != 0 {
				ctx.Emit(idxPrefix, byte(0x70+srcIdx))
				emitIndexDisp(ctx, pos, disp)
			} else {
				ctx.Emit(byte(0x70 + srcIdx))
			}
			return
		}
	}
	a := expr.Eval(ctx)
	if idxPrefix != 0 {
		ctx.Emit(idxPrefix, 0x36)
		emitIndexDisp(ctx, pos, disp)
	} else {
		ctx.Emit(0x36)
	}
	emitImmByte(ctx, pos, a)
}

func emitLDMemAbsFromSrc(ctx *asmctx.Context, pos srcpos.Position, target addr.Address) {
	t := ctx.TR.Peek()
	switch {
	case t.Is(token.KwA):
		ctx.TR.Next()
		ctx.Emit(0x32)
		emitImmWord(ctx, target)
	case t.Is(token.KwHL):
		ctx.TR.Next()
		ctx.Emit(0x22)
		emitImmWord(ctx, target)
	case t.Is(token.KwBC):
		ctx.TR.Next()
		ctx.Emit(0xED, 0x43)
		emitImmWord(ctx, target)
	case t.Is(token.KwDE):
		ctx.TR.Next()
		ctx.Emit(0xED, 0x53)
		emitImmWord(ctx, target)
	case t.Is(token.KwSP):
		ctx.TR.Next()
		ctx.Emit(0xED, 0x73)
		emitImmWord(ctx, target)
	case t.Is(token.KwIX):
		ctx.TR.Next()
		ctx.Emit(prefixIX, 0x22)
		emitImmWord(ctx, target)
	case t.Is(token.KwIY):
		ctx.TR.Next()
		ctx.Emit(prefixIY, 0x22)
		emitImmWord(ctx, target)
	default:
		ctx.Errorf(pos, "invalid source for LD (nn),...")
	}
}

func emitLDPairFromSrc(ctx *asmctx.Context, pos srcpos.Position, rpKw int) {
	idx, _ := pairIndex(rpKw)
	a := expr.Eval(ctx)
	if a.Parenthesized {
		switch rpKw {
		case token.KwHL:
			ctx.Emit(0x2A)
		default:
			ctx.Emit(0xED, byte(0x4B+16*idx))
		}
		emitImmWord(ctx, a)
		return
	}
	ctx.Emit(byte(0x01 + 16*idx))
	emitImmWord(ctx, a)
}

func emitLDIndexReg(ctx *asmctx.Context, pos srcpos.Position, idxKw int) {
	prefix, _ := indexPrefix(idxKw)
	a := expr.Eval(ctx)
	if a.Parenthesized {
		ctx.Emit(prefix, 0x2A)
	} else {
		ctx.Emit(prefix, 0x21)
	}
	emitImmWord(ctx, a)
}

func emitLDSP(ctx *asmctx.Context, pos srcpos.Position) {
	switch {
	case acceptReg(ctx, token.KwHL):
		ctx.Emit(0xF9)
	case acceptReg(ctx, token.KwIX):
		ctx.Emit(prefixIX, 0xF9)
	case acceptReg(ctx, token.KwIY):
		ctx.Emit(prefixIY, 0xF9)
	default:
		// LD SP,nn / LD SP,(nn): the generic register-pair forms.
		emitLDPairFromSrc(ctx, pos, token.KwSP)
	}
}
