package z80

import (
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/token"
)

// rotateOps maps the rotate/shift mnemonics to their CB-prefixed op field
// (spec §4.4); opcode = 8*op + r for register r, or 8*op + 6 for (HL)/(IX+d).
var rotateOps = map[int]int{
	token.KwRLC: 0,
	token.KwRRC: 1,
	token.KwRL:  2,
	token.KwRR:  3,
	token.KwSLA: 4,
	token.KwSRA: 5,
	token.KwSRL: 7,
}

// EmitRotate implements RLC/RL/RRC/RR/SLA/SRA/SRL r|(HL)|(IX+d)|(IY+d).
func EmitRotate(ctx *asmctx.Context, pos srcpos.Position, mnemonic int) {
	op := rotateOps[mnemonic]
	emitCBFamily(ctx, pos, byte(8*op))
}

// emitCBFamily parses a single register-or-memory operand and emits it
// CB-prefixed, with the register field added to base. base carries the
// bits above the register field: the operation for rotates, and for
// BIT/SET/RES the operation plus the bit number filled in by their caller.
func emitCBFamily(ctx *asmctx.Context, pos srcpos.Position, base byte) {
	if mr, mpos, ok := tryParseMemRef(ctx); ok {
		switch mr.kind {
		case memHL:
			ctx.Emit(0xCB, base+hlSlot)
		case memIX, memIY:
			ctx.Emit(mr.idxPrefixByte(), 0xCB)
			emitIndexDisp(ctx, mpos, mr.disp)
			ctx.Emit(base + hlSlot)
		default:
			ctx.Errorf(mpos, "invalid operand")
		}
		return
	}
	t := ctx.TR.Next()
	idx, ok := singleRegIndex(t.Value)
	if !ok {
		ctx.Errorf(t.Pos, "invalid operand")
		return
	}
	ctx.Emit(0xCB, base+byte(idx))
}
