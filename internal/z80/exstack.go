package z80

import (
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/token"
)

// qqPairs is the stack-pair encoding used by PUSH/POP: like RegisterPairs
// but with AF in SP's slot (the Z80 stack opcodes never reference SP since
// it is the stack pointer itself).
var qqPairs = [4]int{token.KwBC, token.KwDE, token.KwHL, token.KwAF}

func qqIndex(kw int) (int, bool) {
	for i, r := range qqPairs {
		if r == kw {
			return i, true
		}
	}
	return 0, false
}

// EmitEX implements EX DE,HL / EX AF,AF' / EX (SP),HL|IX|IY.
func EmitEX(ctx *asmctx.Context, pos srcpos.Position) {
	if open, ok := ctx.TR.Accept(int('(')); ok {
		mustReg(ctx, open.Pos, token.KwSP)
		expectClose(ctx, open.Pos)
		expectComma(ctx, open.Pos)
		switch {
		case acceptReg(ctx, token.KwHL):
			ctx.Emit(0xE3)
		case acceptReg(ctx, token.KwIX):
			ctx.Emit(prefixIX, 0xE3)
		case acceptReg(ctx, token.KwIY):
			ctx.Emit(prefixIY, 0xE3)
		default:
			ctx.Errorf(open.Pos, "invalid operand for EX (SP),...")
		}
		return
	}

	switch {
	case acceptReg(ctx, token.KwDE):
		expectComma(ctx, pos)
		mustReg(ctx, pos, token.KwHL)
		ctx.Emit(0xEB)
	case acceptReg(ctx, token.KwAF):
		expectComma(ctx, pos)
		mustReg(ctx, pos, token.KwAFPRIME)
		ctx.Emit(0x08)
	default:
		ctx.Errorf(pos, "invalid operand for EX")
	}
}

// EmitPUSH implements PUSH qq | IX | IY.
func EmitPUSH(ctx *asmctx.Context, pos srcpos.Position) {
	t := ctx.TR.Next()
	switch {
	case t.Is(token.KwIX):
		ctx.Emit(prefixIX, 0xE5)
	case t.Is(token.KwIY):
		ctx.Emit(prefixIY, 0xE5)
	default:
		if idx, ok := qqIndex(t.Value); ok {
			ctx.Emit(byte(0xC5 + 16*idx))
			return
		}
		ctx.Errorf(t.Pos, "invalid operand for PUSH")
	}
}

// EmitPOP implements POP qq | IX | IY.
func EmitPOP(ctx *asmctx.Context, pos srcpos.Position) {
	t := ctx.TR.Next()
	switch {
	case t.Is(token.KwIX):
		ctx.Emit(prefixIX, 0xE1)
	case t.Is(token.KwIY):
		ctx.Emit(prefixIY, 0xE1)
	default:
		if idx, ok := qqIndex(t.Value); ok {
			ctx.Emit(byte(0xC1 + 16*idx))
			return
		}
		ctx.Errorf(t.Pos, "invalid operand for POP")
	}
}
