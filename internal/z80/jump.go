package z80

import (
	"github.com/inufuto/ra80/internal/addr"
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/expr"
	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/token"
)

// EmitJP implements JP nn | JP cc,nn | JP (HL)|(IX)|(IY).
func EmitJP(ctx *asmctx.Context, pos srcpos.Position) {
	if mr, mpos, ok := tryParseMemRef(ctx); ok {
		switch mr.kind {
		case memHL:
			ctx.Emit(0xE9)
		case memIX:
			ctx.Emit(prefixIX, 0xE9)
		case memIY:
			ctx.Emit(prefixIY, 0xE9)
		default:
			ctx.Errorf(mpos, "invalid operand for JP (...)")
		}
		return
	}

	if cond, ok := tryCondition(ctx); ok {
		expectComma(ctx, pos)
		target := expr.Eval(ctx)
		idx, _ := condIndex(cond)
		ctx.Emit(byte(0xC2 + 8*idx))
		emitJumpTarget(ctx, target)
		return
	}

	target := expr.Eval(ctx)
	ctx.Emit(0xC3)
	emitJumpTarget(ctx, target)
}

// EmitJumpUnconditional writes the long (JP) form used both directly and as
// the fallback for an out-of-range JR/DJNZ.
func EmitJumpUnconditional(ctx *asmctx.Context, target addr.Address) {
	ctx.Emit(0xC3)
	emitJumpTarget(ctx, target)
}

// EmitJR implements JR e | JR cc,e with the short/long fallback of spec
// §4.5: an out-of-range or non-relative target re-emits as the equivalent
// JP form. cond == 0 means unconditional.
func EmitJR(ctx *asmctx.Context, pos srcpos.Position, cond int, target addr.Address) {
	shortIdx, hasShortForm := 0, true
	if cond != 0 {
		shortIdx, hasShortForm = shortCondIndex(cond)
	}
	if hasShortForm {
		if short, offset := RelOffset(ctx, target, 2); short {
			if cond == 0 {
				ctx.Emit(0x18, byte(offset))
			} else {
				ctx.Emit(byte(0x20+8*shortIdx), byte(offset))
			}
			return
		}
	}
	if cond == 0 {
		EmitJumpUnconditional(ctx, target)
		return
	}
	idx, _ := condIndex(cond)
	ctx.Emit(byte(0xC2 + 8*idx))
	emitJumpTarget(ctx, target)
}

// EmitJPConditional emits the long conditional jump directly, without
// trying the short JR form first.
func EmitJPConditional(ctx *asmctx.Context, cond int, target addr.Address) {
	idx, _ := condIndex(cond)
	ctx.Emit(byte(0xC2 + 8*idx))
	emitJumpTarget(ctx, target)
}

// EmitDJNZ implements DJNZ e, falling back to "DEC B; JP NZ,nn" when the
// displacement is out of range (spec §4.5).
func EmitDJNZ(ctx *asmctx.Context, target addr.Address) {
	if short, offset := RelOffset(ctx, target, 2); short {
		ctx.Emit(0x10, byte(offset))
		return
	}
	ctx.Emit(0x05) // DEC B
	ctx.Emit(0xC2) // JP NZ,nn
	emitJumpTarget(ctx, target)
}

func emitJumpTarget(ctx *asmctx.Context, target addr.Address) {
	if !target.IsConst() {
		ctx.AddFixup(target)
	}
	ctx.EmitWord(uint16(target.Value))
}

// RelOffset computes the signed byte displacement from the instruction
// after a (instrLen-byte) JR/DJNZ to target, accepting it only when the
// target is a known, same-segment, non-external address and the offset
// fits within spec §4.5's inclusive [-128,+128] bound — the off-by-one at
// +128 is the source behavior this design preserves rather than corrects.
// Exported so the flow package's WHILE back-edge optimization (spec §4.6)
// can reuse the same displacement arithmetic.
func RelOffset(ctx *asmctx.Context, target addr.Address, instrLen int) (ok bool, offset int) {
	if target.IsUndefined() || target.IsExternal() {
		return false, 0
	}
	if !target.IsRelocatable() {
		return false, 0
	}
	if target.Type != ctx.Cur.Kind {
		return false, 0
	}
	from := ctx.Here().Value + instrLen
	off := target.Value - from
	if off < -128 || off > 128 {
		return false, 0
	}
	return true, off
}

// parseJR and parseDJNZ parse the statement-level operand
// syntax ("JR [cc,]label" / "DJNZ label") and delegate to the exported
// lowering helpers the flow package also uses for synthesized jumps.
func parseJR(ctx *asmctx.Context, pos srcpos.Position) {
	if cond, ok := tryCondition(ctx); ok {
		expectComma(ctx, pos)
		target := expr.Eval(ctx)
		EmitJR(ctx, pos, cond, target)
		return
	}
	target := expr.Eval(ctx)
	EmitJR(ctx, pos, 0, target)
}

func parseDJNZ(ctx *asmctx.Context, pos srcpos.Position) {
	target := expr.Eval(ctx)
	EmitDJNZ(ctx, target)
}

// tryCondition peeks a single condition keyword without consuming it unless
// matched.
func tryCondition(ctx *asmctx.Context) (int, bool) {
	t := ctx.TR.Peek()
	if t.Kind != token.ReservedWord {
		return 0, false
	}
	if _, ok := condIndex(t.Value); ok {
		ctx.TR.Next()
		return t.Value, true
	}
	return 0, false
}

// EmitCALL implements CALL nn | CALL cc,nn.
func EmitCALL(ctx *asmctx.Context, pos srcpos.Position) {
	if cond, ok := tryCondition(ctx); ok {
		expectComma(ctx, pos)
		target := expr.Eval(ctx)
		idx, _ := condIndex(cond)
		ctx.Emit(byte(0xC4 + 8*idx))
		emitJumpTarget(ctx, target)
		return
	}
	target := expr.Eval(ctx)
	ctx.Emit(0xCD)
	emitJumpTarget(ctx, target)
}

// EmitRET implements RET | RET cc.
func EmitRET(ctx *asmctx.Context, pos srcpos.Position) {
	if cond, ok := tryCondition(ctx); ok {
		idx, _ := condIndex(cond)
		ctx.Emit(byte(0xC0 + 8*idx))
		return
	}
	ctx.Emit(0xC9)
}

// EmitRST implements RST p, validating p & 0xC7 == 0 (spec §4.4/§7).
func EmitRST(ctx *asmctx.Context, pos srcpos.Position) {
	a := expr.Eval(ctx)
	if !a.IsConst() || a.Value&0xC7 != 0 || a.Value < 0 || a.Value > 0x38 {
		ctx.Errorf(pos, "invalid RST target")
		return
	}
	ctx.Emit(0xC7 | byte(a.Value))
}

// EmitIM implements IM 0|1|2.
func EmitIM(ctx *asmctx.Context, pos srcpos.Position) {
	a := expr.Eval(ctx)
	if !a.IsConst() || a.Value < 0 || a.Value > 2 {
		ctx.Errorf(pos, "invalid IM operand")
		return
	}
	table := []byte{0x46, 0x56, 0x5E}
	ctx.Emit(0xED, table[a.Value])
}

// EmitIN implements IN A,(n) | IN r,(C).
func EmitIN(ctx *asmctx.Context, pos srcpos.Position) {
	t := ctx.TR.Next()
	idx, ok := singleRegIndex(t.Value)
	if !ok {
		ctx.Errorf(t.Pos, "invalid operand for IN")
		return
	}
	expectComma(ctx, pos)
	mr, mpos, ok := tryParseMemRef(ctx)
	if !ok {
		ctx.Errorf(pos, "invalid operand for IN")
		return
	}
	switch mr.kind {
	case memC:
		ctx.Emit(0xED, byte(0x40+8*idx))
	case memAbs:
		if t.Value != token.KwA {
			ctx.Errorf(mpos, "only IN A,(n) takes a direct port")
			return
		}
		ctx.Emit(0xDB)
		emitImmByte(ctx, mpos, mr.addr)
	default:
		ctx.Errorf(mpos, "invalid operand for IN")
	}
}

// EmitOUT implements OUT (n),A | OUT (C),r.
func EmitOUT(ctx *asmctx.Context, pos srcpos.Position) {
	mr, mpos, ok := tryParseMemRef(ctx)
	if !ok {
		ctx.Errorf(pos, "invalid operand for OUT")
		return
	}
	expectComma(ctx, mpos)
	t := ctx.TR.Next()
	switch mr.kind {
	case memC:
		idx, ok := singleRegIndex(t.Value)
		if !ok {
			ctx.Errorf(t.Pos, "invalid operand for OUT")
			return
		}
		ctx.Emit(0xED, byte(0x41+8*idx))
	case memAbs:
		if t.Value != token.KwA {
			ctx.Errorf(t.Pos, "only OUT (n),A takes a direct port")
			return
		}
		ctx.Emit(0xD3)
		emitImmByte(ctx, mpos, mr.addr)
	default:
		ctx.Errorf(mpos, "invalid operand for OUT")
	}
}
