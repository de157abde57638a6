package z80

import (
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/expr"
	"github.com/inufuto/ra80/internal/srcpos"
)

// EmitBIT/SET/RES implement spec §4.4's bit-test/set/clear family:
// <mnemonic> b,r|(HL)|(IX+d)|(IY+d), where b is 0-7.
func EmitBIT(ctx *asmctx.Context, pos srcpos.Position) { emitBitFamily(ctx, pos, 0x40) }
func EmitSET(ctx *asmctx.Context, pos srcpos.Position) { emitBitFamily(ctx, pos, 0xC0) }
func EmitRES(ctx *asmctx.Context, pos srcpos.Position) { emitBitFamily(ctx, pos, 0x80) }

func emitBitFamily(ctx *asmctx.Context, pos srcpos.Position, baseOp byte) {
	bitPos := ctx.TR.Peek().Pos
	bit := expr.Eval(ctx)
	if !bit.IsConst() || bit.Value < 0 || bit.Value > 7 {
		ctx.Errorf(bitPos, "bit number out of range 0-7")
		bit.Value = 0
	}
	expectComma(ctx, pos)
	emitCBFamily(ctx, pos, baseOp+byte(8*bit.Value))
}
