package z80

import (
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/token"
)

// Dispatch consumes one instruction mnemonic token already confirmed by the
// caller (via token.IsMnemonic) and emits the bytes for the statement that
// follows. It is the single entry point the driver calls for every
// instruction statement.
func Dispatch(ctx *asmctx.Context, mnemonic token.Token) {
	pos := mnemonic.Pos
	if bytes, ok := fixedOpcodes[mnemonic.Value]; ok {
		ctx.Emit(bytes...)
		return
	}

	switch mnemonic.Value {
	case token.KwLD:
		EmitLD(ctx, pos)
	case token.KwEX:
		EmitEX(ctx, pos)
	case token.KwPUSH:
		EmitPUSH(ctx, pos)
	case token.KwPOP:
		EmitPOP(ctx, pos)
	case token.KwADD:
		EmitADD(ctx, pos)
	case token.KwADC:
		EmitADC(ctx, pos)
	case token.KwSBC:
		EmitSBC(ctx, pos)
	case token.KwSUB, token.KwAND, token.KwOR, token.KwXOR, token.KwCP:
		EmitALU(ctx, pos, mnemonic.Value)
	case token.KwINC:
		EmitINC(ctx, pos)
	case token.KwDEC:
		EmitDEC(ctx, pos)
	case token.KwRLC, token.KwRL, token.KwRRC, token.KwRR, token.KwSLA, token.KwSRA, token.KwSRL:
		EmitRotate(ctx, pos, mnemonic.Value)
	case token.KwBIT:
		EmitBIT(ctx, pos)
	case token.KwSET:
		EmitSET(ctx, pos)
	case token.KwRES:
		EmitRES(ctx, pos)
	case token.KwJP:
		EmitJP(ctx, pos)
	case token.KwJR:
		parseJR(ctx, pos)
	case token.KwDJNZ:
		parseDJNZ(ctx, pos)
	case token.KwCALL:
		EmitCALL(ctx, pos)
	case token.KwRET:
		EmitRET(ctx, pos)
	case token.KwRST:
		EmitRST(ctx, pos)
	case token.KwIM:
		EmitIM(ctx, pos)
	case token.KwIN:
		EmitIN(ctx, pos)
	case token.KwOUT:
		EmitOUT(ctx, pos)
	default:
		ctx.Errorf(pos, "unimplemented mnemonic %q", token.KeywordName(mnemonic.Value))
	}
}
