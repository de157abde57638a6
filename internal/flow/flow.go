// Package flow implements spec §4.6's structured-flow compiler: IF/ELSE/
// ELSEIF/ENDIF and DO/WHILE/WEND/DWNZ, each lowered to the conditional and
// unconditional jumps z80 already knows how to emit (including its short
// JR/long JP fallback). A fresh State is created per pass by the driver,
// mirroring how asmctx.Context itself is reset every pass: block nesting is
// purely a property of one linear scan through the source, so it never
// needs to survive across passes, only the auto-label ids threaded through
// it do (and those live in asmctx.Context, not here).
package flow

import (
	"github.com/inufuto/ra80/internal/addr"
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/srcpos"
	"github.com/inufuto/ra80/internal/token"
	"github.com/inufuto/ra80/internal/z80"
)

type ifFrame struct {
	elseID   int // false-branch target: the ELSE label, or the ENDIF point if no ELSE appears
	chainEnd int // shared ENDIF target, allocated on the first ELSE/ELSEIF; 0 until then
	sawElse  bool
}

type doFrame struct {
	beginID  int
	repeatID int // back-edge landing (spec §3's WhileBlock.repeatId); allocated at DO, defined at WEND/DWNZ
	endID    int // WHILE's exit target; 0 until a WHILE is seen and the back-edge optimization doesn't apply
	sawWhile bool
	sawDWNZ  bool

	optimized     bool // WHILE folded its exit test into a direct conditional back-edge (spec §4.6's WHILE optimization)
	optimizedCond int  // the cond WEND emits the back-edge jump with, when optimized is set
}

// State is the block-nesting stack for one pass.
type State struct {
	ifs []ifFrame
	dos []doFrame
}

func NewState() *State {
	return &State{}
}

func resolveOrUndefined(ctx *asmctx.Context, id int) addr.Address {
	if a, ok := ctx.Resolve(id); ok {
		return a
	}
	return addr.Address{Type: addr.Undefined}
}

func invertCondition(cond int) int {
	idx, ok := z80.ConditionIndex(cond)
	if !ok {
		return cond
	}
	return z80.Conditions[idx^1]
}

// HandleIF implements "IF cond".
func (s *State) HandleIF(ctx *asmctx.Context, pos srcpos.Position, cond int) {
	elseID := ctx.NewAutoLabel()
	s.ifs = append(s.ifs, ifFrame{elseID: elseID})
	z80.EmitJR(ctx, pos, invertCondition(cond), resolveOrUndefined(ctx, elseID))
}

// HandleELSE implements "ELSE".
func (s *State) HandleELSE(ctx *asmctx.Context, pos srcpos.Position) {
	if len(s.ifs) == 0 {
		ctx.Errorf(pos, "ELSE without IF")
		return
	}
	f := &s.ifs[len(s.ifs)-1]
	if f.sawElse {
		ctx.Errorf(pos, "multiple ELSE for the same IF")
		return
	}
	f.sawElse = true
	if f.chainEnd == 0 {
		f.chainEnd = ctx.NewAutoLabel()
	}
	z80.EmitJR(ctx, pos, 0, resolveOrUndefined(ctx, f.chainEnd))
	if _, err := ctx.DefineSymbol(f.elseID, ctx.Here()); err != nil {
		ctx.Errorf(pos, "%s", err)
	}
}

// HandleELSEIF implements "ELSEIF cond": an ELSE immediately followed by a
// new IF test, chained onto the same final ENDIF target.
func (s *State) HandleELSEIF(ctx *asmctx.Context, pos srcpos.Position, cond int) {
	if len(s.ifs) == 0 {
		ctx.Errorf(pos, "ELSEIF without IF")
		return
	}
	f := &s.ifs[len(s.ifs)-1]
	if f.sawElse {
		ctx.Errorf(pos, "multiple ELSE for the same IF")
		return
	}
	if f.chainEnd == 0 {
		f.chainEnd = ctx.NewAutoLabel()
	}
	z80.EmitJR(ctx, pos, 0, resolveOrUndefined(ctx, f.chainEnd))
	if _, err := ctx.DefineSymbol(f.elseID, ctx.Here()); err != nil {
		ctx.Errorf(pos, "%s", err)
	}
	f.elseID = ctx.NewAutoLabel()
	z80.EmitJR(ctx, pos, invertCondition(cond), resolveOrUndefined(ctx, f.elseID))
}

// HandleENDIF implements "ENDIF".
func (s *State) HandleENDIF(ctx *asmctx.Context, pos srcpos.Position) {
	if len(s.ifs) == 0 {
		ctx.Errorf(pos, "ENDIF without IF")
		return
	}
	f := s.ifs[len(s.ifs)-1]
	s.ifs = s.ifs[:len(s.ifs)-1]

	target := f.elseID
	if f.sawElse {
		target = f.chainEnd
	}
	if _, err := ctx.DefineSymbol(target, ctx.Here()); err != nil {
		ctx.Errorf(pos, "%s", err)
	}
}

// HandleDO implements "DO", pushing a WhileBlock{beginId, repeatId, endId}
// (spec §3): beginId is defined here; repeatId is allocated now so WHILE
// can check it on the very next pass but is only defined once WEND/DWNZ
// reaches it; endId is allocated lazily, only if a non-optimized WHILE
// needs an exit target.
func (s *State) HandleDO(ctx *asmctx.Context, pos srcpos.Position) {
	beginID := ctx.NewAutoLabel()
	repeatID := ctx.NewAutoLabel()
	s.dos = append(s.dos, doFrame{beginID: beginID, repeatID: repeatID})
	if _, err := ctx.DefineSymbol(beginID, ctx.Here()); err != nil {
		ctx.Errorf(pos, "%s", err)
	}
}

// HandleWHILE implements "WHILE cond" as a top-of-loop test: the loop body
// is skipped to the matching WEND's exit point when cond is false.
//
// Optimization (spec §4.6): once a prior pass has pinned down repeatId (the
// back-edge landing WEND defines) and its offset from here is ≤ 1 — the
// body between WHILE's two-byte exit jump and WEND's back-edge is empty
// or one byte long — WEND's usual forward-skip-then-unconditional-back-edge
// pair collapses to one conditional jump straight back to beginId, and
// endId is erased (no exit jump needed).
func (s *State) HandleWHILE(ctx *asmctx.Context, pos srcpos.Position, cond int) {
	if len(s.dos) == 0 {
		ctx.Errorf(pos, "WHILE without DO")
		return
	}
	f := &s.dos[len(s.dos)-1]
	if f.sawDWNZ {
		ctx.Errorf(pos, "WHILE and DWNZ cannot be used in the same DO block")
		return
	}
	f.sawWhile = true

	if repeat, ok := ctx.Resolve(f.repeatID); ok {
		if fits, off := z80.RelOffset(ctx, repeat, 2); fits && off <= 1 {
			f.optimized = true
			f.optimizedCond = cond
			return
		}
	}

	f.optimized = false
	if f.endID == 0 {
		f.endID = ctx.NewAutoLabel()
	}
	z80.EmitJR(ctx, pos, invertCondition(cond), resolveOrUndefined(ctx, f.endID))
}

// HandleWEND implements "WEND". When the WHILE optimization above applied
// this pass, it emits the single conditional back-edge jump in its place
// (erasing endId); otherwise it emits the usual unconditional back-edge to
// beginId, defining repeatId here first and then the WHILE's exit label
// (if any WHILE was used in this block).
func (s *State) HandleWEND(ctx *asmctx.Context, pos srcpos.Position) {
	if len(s.dos) == 0 {
		ctx.Errorf(pos, "WEND without DO")
		return
	}
	f := s.dos[len(s.dos)-1]
	s.dos = s.dos[:len(s.dos)-1]

	if f.optimized {
		z80.EmitJR(ctx, pos, f.optimizedCond, resolveOrUndefined(ctx, f.beginID))
		return
	}

	if f.endID != 0 {
		if _, err := ctx.DefineSymbol(f.repeatID, ctx.Here()); err != nil {
			ctx.Errorf(pos, "%s", err)
		}
	}
	z80.EmitJR(ctx, pos, 0, resolveOrUndefined(ctx, f.beginID))
	if f.endID != 0 {
		if _, err := ctx.DefineSymbol(f.endID, ctx.Here()); err != nil {
			ctx.Errorf(pos, "%s", err)
		}
	}
}

// HandleDWNZ implements "DWNZ": a bottom-of-loop decrement-and-branch, the
// structured-flow spelling of DJNZ back to the matching DO.
func (s *State) HandleDWNZ(ctx *asmctx.Context, pos srcpos.Position) {
	if len(s.dos) == 0 {
		ctx.Errorf(pos, "DWNZ without DO")
		return
	}
	f := s.dos[len(s.dos)-1]
	s.dos = s.dos[:len(s.dos)-1]

	if f.sawWhile {
		ctx.Errorf(pos, "WHILE and DWNZ cannot be used in the same DO block")
		return
	}
	if _, err := ctx.DefineSymbol(f.repeatID, ctx.Here()); err != nil {
		ctx.Errorf(pos, "%s", err)
	}
	z80.EmitDJNZ(ctx, resolveOrUndefined(ctx, f.beginID))
}

// StatementKeyword reports whether value is one of the structured-flow
// keywords this package handles, for the driver's statement dispatch.
func StatementKeyword(value int) bool {
	switch value {
	case token.KwIF, token.KwELSE, token.KwELSEIF, token.KwENDIF,
		token.KwDO, token.KwWHILE, token.KwWEND, token.KwDWNZ:
		return true
	}
	return false
}
