package expr

import (
	"github.com/inufuto/ra80/internal/addr"
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/token"
)

// apply implements spec §4.3's binary semantics: the right operand must be
// Const, or it is an address-usage-error; for + and -, the left operand
// may be Const or relocatable (its Type/ID flow through unchanged); for
// every other operator the left operand must also be Const.
func apply(ctx *asmctx.Context, pos srcpos.Position, op int, left, right addr.Address) addr.Address {
	if !right.IsConst() {
		return provisionalOrError(ctx, pos, right)
	}

	isAdditive := op == int('+') || op == int('-')

	if !left.IsConst() && !isAdditive {
		return provisionalOrError(ctx, pos, left)
	}

	if !left.IsConst() {
		// Additive combination of a relocatable/external left with a const
		// right: the relocatable's type and id flow through unchanged.
		out := left
		if op == int('+') {
			out.Value += right.Value
		} else {
			out.Value -= right.Value
		}
		return out
	}

	a, b := left.Value, right.Value
	switch op {
	case token.KwOR:
		return addr.Int(a | b)
	case token.KwXOR:
		return addr.Int(a ^ b)
	case token.KwAND:
		return addr.Int(a & b)
	case token.KwSHL:
		return addr.Int(a << uint(b))
	case token.KwSHR:
		return addr.Int(a >> uint(b))
	case int('+'):
		return addr.Int(a + b)
	case int('-'):
		return addr.Int(a - b)
	case int('*'):
		return addr.Int(a * b)
	case int('/'):
		if b == 0 {
			ctx.Errorf(pos, "division by zero")
			return addr.Int(0)
		}
		return addr.Int(a / b)
	case token.KwMOD:
		if b == 0 {
			ctx.Errorf(pos, "division by zero")
			return addr.Int(0)
		}
		return addr.Int(a % b)
	}
	return addr.Int(0)
}
