package expr

import (
	"github.com/inufuto/ra80/internal/addr"
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/token"
)

// parseAtom is level 6: numeric literal | identifier | char constant |
// "(" expression ")".
func parseAtom(ctx *asmctx.Context) addr.Address {
	t := ctx.TR.Peek()

	switch t.Kind {
	case token.NumericValue:
		ctx.TR.Next()
		if t.Value < 0 {
			ctx.Errorf(t.Pos, "invalid numeric literal %q", t.Text)
			return addr.Int(0)
		}
		return addr.Int(t.Value)

	case token.StringValue:
		ctx.TR.Next()
		text, _ := ctx.LiteralText(t.Value)
		if len(text) == 0 {
			return addr.Int(0)
		}
		return addr.Int(int(text[0]))

	case token.Identifier:
		ctx.TR.Next()
		return resolveIdent(ctx, t)
	}

	if t.Kind == token.ReservedWord && t.Value == int('(') {
		ctx.TR.Next()
		inner := Eval(ctx)
		if _, ok := ctx.TR.Accept(int(')')); !ok {
			ctx.Errorf(t.Pos, "missing )")
		}
		inner.Parenthesized = true
		return inner
	}

	ctx.Errorf(t.Pos, "syntax error: expected expression")
	if !t.IsEOF() && !t.IsNewline() {
		ctx.TR.Next()
	}
	return addr.Int(0)
}

func resolveIdent(ctx *asmctx.Context, t token.Token) addr.Address {
	if a, ok := ctx.Resolve(t.Value); ok {
		return a
	}
	if ctx.Pass == 1 {
		return addr.Address{Type: addr.Undefined}
	}
	ctx.Errorf(t.Pos, "undefined identifier %q", ctx.IdentName(t.Value))
	return addr.Int(0)
}
