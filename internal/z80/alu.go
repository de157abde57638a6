package z80

import (
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/expr"
	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/token"
)

// aluOps are the single-operand-implied-A mnemonics: <mnemonic> r|n|(HL)|(IX+d).
var aluOps = map[int]byte{
	token.KwSUB: 0x90,
	token.KwAND: 0xA0,
	token.KwXOR: 0xA8,
	token.KwOR:  0xB0,
	token.KwCP:  0xB8,
}

// aluImm is the immediate-n opcode paired with each aluOps entry.
var aluImm = map[int]byte{
	token.KwSUB: 0xD6,
	token.KwAND: 0xE6,
	token.KwXOR: 0xEE,
	token.KwOR:  0xF6,
	token.KwCP:  0xFE,
}

// EmitALU implements SUB/AND/OR/XOR/CP, each an implicit-A 8-bit operation.
func EmitALU(ctx *asmctx.Context, pos srcpos.Position, mnemonic int) {
	emit8Op(ctx, pos, aluOps[mnemonic], aluImm[mnemonic])
}

// EmitADD implements both ADD A,<src> (8-bit) and ADD HL|IX|IY,rp (16-bit).
func EmitADD(ctx *asmctx.Context, pos srcpos.Position) {
	emitAddAdcSbc(ctx, pos, 0x80, 0xC6, 0x09, 0xED, 0)
}

// EmitADC implements ADC A,<src> and ADC HL,rp.
func EmitADC(ctx *asmctx.Context, pos srcpos.Position) {
	emitAddAdcSbc(ctx, pos, 0x88, 0xCE, 0, 0xED, 0x4A)
}

// EmitSBC implements SBC A,<src> and SBC HL,rp.
func EmitSBC(ctx *asmctx.Context, pos srcpos.Position) {
	emitAddAdcSbc(ctx, pos, 0x98, 0xDE, 0, 0xED, 0x42)
}

// emitAddAdcSbc handles the three mnemonics that each have both an 8-bit
// "A,<src>" form and a 16-bit "HL|IX|IY,rp" form. plainHLOp, when nonzero,
// is ADD's direct 0x09-family opcode (no ED prefix); edBase is ADC/SBC's
// ED-prefixed HL,rp opcode base.
func emitAddAdcSbc(ctx *asmctx.Context, pos srcpos.Position, op8, imm8, plainHLOp, edPrefix, edBase byte) {
	t := ctx.TR.Peek()
	switch {
	case t.Is(token.KwHL):
		ctx.TR.Next()
		expectComma(ctx, pos)
		rt := ctx.TR.Next()
		idx, ok := pairIndex(rt.Value)
		if !ok {
			ctx.Errorf(rt.Pos, "invalid operand")
			return
		}
		if plainHLOp != 0 {
			ctx.Emit(plainHLOp + 16*byte(idx))
		} else {
			ctx.Emit(edPrefix, edBase+16*byte(idx))
		}
	case t.Is(token.KwIX) || t.Is(token.KwIY):
		ctx.TR.Next()
		prefix, _ := indexPrefix(t.Value)
		expectComma(ctx, pos)
		rt := ctx.TR.Next()
		idx, ok := pairIndexForIndexed(rt.Value, t.Value)
		if !ok {
			ctx.Errorf(rt.Pos, "invalid operand")
			return
		}
		if plainHLOp == 0 {
			ctx.Errorf(t.Pos, "ADC/SBC do not support IX/IY")
			return
		}
		ctx.Emit(prefix, plainHLOp+16*byte(idx))
	case t.Is(token.KwA):
		ctx.TR.Next()
		expectComma(ctx, pos)
		emit8Op(ctx, pos, op8, imm8)
	default:
		// "ADD r" with an implicit A, matching the single-operand ALU family.
		emit8Op(ctx, pos, op8, imm8)
	}
}

// pairIndexForIndexed encodes the rp field for "ADD IX,rp"/"ADD IY,rp",
// where rp is BC, DE, SP, or the index register itself (taking HL's slot).
func pairIndexForIndexed(kw, selfKw int) (int, bool) {
	switch kw {
	case token.KwBC:
		return 0, true
	case token.KwDE:
		return 1, true
	case token.KwSP:
		return 3, true
	}
	if kw == selfKw {
		return 2, true
	}
	return 0, false
}

func emit8Op(ctx *asmctx.Context, pos srcpos.Position, regBase, immOp byte) {
	if mr, mpos, ok := tryParseMemRef(ctx); ok {
		switch mr.kind {
		case memHL:
			ctx.Emit(regBase + hlSlot)
		case memIX, memIY:
			ctx.Emit(mr.idxPrefixByte(), regBase+hlSlot)
			emitIndexDisp(ctx, mpos, mr.disp)
		default:
			ctx.Errorf(mpos, "invalid operand")
		}
		return
	}

	t := ctx.TR.Peek()
	if t.Kind == token.ReservedWord {
		if idx, ok := singleRegIndex(t.Value); ok {
			ctx.TR.Next()
			ctx.Emit(regBase + byte(idx))
			return
		}
	}
	a := expr.Eval(ctx)
	ctx.Emit(immOp)
	emitImmByte(ctx, pos, a)
}
