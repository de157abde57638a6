// Package expr implements the recursive-descent expression evaluator of
// spec §4.3: a fixed six-level operator-precedence ladder yielding a typed
// addr.Address. Shape is grounded directly on the teacher's own exprParser
// in assembler/ie64asm.go (parseExprOr/parseExprXor/parseExprAnd/
// parseExprShift/parseExprAdd/parseExprMul/parseExprUnary/parseExprAtom —
// one function per level, each deferring to the next), generalized from
// int64 to the tagged addr.Address per spec §3/§4.3. The level->operator
// table mapping is kept as data (spec §9) so the ladder stays extensible.
package expr

import (
	"github.com/inufuto/ra80/internal/addr"
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/token"
)

// level is one rung of the precedence ladder: the set of ReservedWord
// values recognized as operators at that level.
type level struct {
	ops []int
}

// ladder lists levels 0-4 from lowest to highest precedence; level 5
// (prefix unary) and level 6 (factor) are handled directly by parseUnary
// and parseAtom since they are not a left-associative binary chain.
var ladder = []level{
	{ops: []int{token.KwOR, token.KwXOR}},         // level 0
	{ops: []int{token.KwAND}},                     // level 1
	{ops: []int{token.KwSHL, token.KwSHR}},         // level 2
	{ops: []int{int('+'), int('-')}},               // level 3
	{ops: []int{int('*'), int('/'), token.KwMOD}},  // level 4
}

// Eval parses one expression from ctx.TR and returns its Address.
func Eval(ctx *asmctx.Context) addr.Address {
	return parseLevel(ctx, 0)
}

func parseLevel(ctx *asmctx.Context, lvl int) addr.Address {
	if lvl >= len(ladder) {
		return parseUnary(ctx)
	}
	left := parseLevel(ctx, lvl+1)
	for {
		t := ctx.TR.Peek()
		op, matched := matchOp(ladder[lvl].ops, t)
		if !matched {
			return left
		}
		ctx.TR.Next()
		right := parseLevel(ctx, lvl+1)
		left = apply(ctx, t.Pos, op, left, right)
	}
}

func matchOp(ops []int, t token.Token) (int, bool) {
	if t.Kind != token.ReservedWord {
		return 0, false
	}
	for _, op := range ops {
		if t.Value == op {
			return op, true
		}
	}
	return 0, false
}

// parseUnary is level 5: prefix + - NOT LOW HIGH.
func parseUnary(ctx *asmctx.Context) addr.Address {
	t := ctx.TR.Peek()
	if t.Kind == token.ReservedWord {
		switch t.Value {
		case int('+'):
			ctx.TR.Next()
			return parseUnary(ctx)
		case int('-'):
			ctx.TR.Next()
			return negate(ctx, t.Pos, parseUnary(ctx))
		case token.KwNOT:
			ctx.TR.Next()
			v := parseUnary(ctx)
			if !v.IsConst() {
				return provisionalOrError(ctx, t.Pos, v)
			}
			return addr.Int(^v.Value)
		case token.KwLOW:
			ctx.TR.Next()
			return parseUnary(ctx).Low()
		case token.KwHIGH:
			ctx.TR.Next()
			return parseUnary(ctx).HighByte()
		}
	}
	return parseAtom(ctx)
}

func negate(ctx *asmctx.Context, pos srcpos.Position, v addr.Address) addr.Address {
	if !v.IsConst() {
		return provisionalOrError(ctx, pos, v)
	}
	return addr.Int(-v.Value)
}

// provisionalOrError handles a non-const operand. On pass 1, a reference to
// an identifier not yet defined resolves to Undefined (resolveIdent in
// atom.go) rather than an error, since by a later pass it may turn out to
// be a genuine constant; that provisional state must propagate silently
// through arithmetic too, or any forward reference to a later EQU'd
// constant would abort pass 1 outright (spec §4.3: non-const-where-const-
// required is an address-usage-error reported only on pass 2). Any other
// non-const use is reported immediately.
func provisionalOrError(ctx *asmctx.Context, pos srcpos.Position, v addr.Address) addr.Address {
	if v.Type == addr.Undefined && ctx.Pass == 1 {
		return addr.Address{Type: addr.Undefined}
	}
	ctx.Errorf(pos, "address usage error")
	return addr.Int(0)
}
