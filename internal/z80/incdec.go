package z80

import (
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/token"
)

// EmitINC/EmitDEC implement spec §4.4's increment/decrement family over
// every 8-bit and 16-bit operand shape.
func EmitINC(ctx *asmctx.Context, pos srcpos.Position) {
	emitIncDec(ctx, pos, 0x04, 0x34, 0x03, 0x23)
}

func EmitDEC(ctx *asmctx.Context, pos srcpos.Position) {
	emitIncDec(ctx, pos, 0x05, 0x35, 0x0B, 0x2B)
}

func emitIncDec(ctx *asmctx.Context, pos srcpos.Position, regOp, memOp byte, rpOp, idxOp byte) {
	if mr, mpos, ok := tryParseMemRef(ctx); ok {
		switch mr.kind {
		case memHL:
			ctx.Emit(memOp)
		case memIX, memIY:
			ctx.Emit(mr.idxPrefixByte(), memOp)
			emitIndexDisp(ctx, mpos, mr.disp)
		default:
			ctx.Errorf(mpos, "invalid operand")
		}
		return
	}

	t := ctx.TR.Next()
	switch {
	case t.Is(token.KwIX):
		ctx.Emit(prefixIX, idxOp)
	case t.Is(token.KwIY):
		ctx.Emit(prefixIY, idxOp)
	default:
		if idx, ok := singleRegIndex(t.Value); ok {
			ctx.Emit(regOp + 8*byte(idx))
			return
		}
		if idx, ok := pairIndex(t.Value); ok {
			ctx.Emit(rpOp + 16*byte(idx))
			return
		}
		ctx.Errorf(t.Pos, "invalid operand")
	}
}
