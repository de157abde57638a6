package addr

import "fmt"

// Symbol is spec §3's Symbol: the pass it was last (re)defined on, its id,
// its current address, and whether it has been marked PUBLIC.
type Symbol struct {
	Pass    int
	ID      int
	Address Address
	Public  bool
}

// ErrMultipleDefinition is returned by Table.Define when id is redefined
// within the same pass (spec §7's "Multiple definition" error).
type ErrMultipleDefinition struct{ ID int }

func (e *ErrMultipleDefinition) Error() string {
	return fmt.Sprintf("symbol %d multiply defined", e.ID)
}

// Table is the symbol table: it persists across passes (spec §3) and
// tracks, per id, whether a later pass assigned it a different address —
// the fixpoint-loop bookkeeping grounded on
// bshepherdson-risque16/assembler/state.go's AssemblyState.dirty.
type Table struct {
	syms      map[int]*Symbol
	externals map[int]bool
	pending   map[int]bool // ids marked PUBLIC before (or without) a definition
}

func NewTable() *Table {
	return &Table{
		syms:      make(map[int]*Symbol),
		externals: make(map[int]bool),
		pending:   make(map[int]bool),
	}
}

// Lookup returns the current address of id, if defined.
func (t *Table) Lookup(id int) (Address, bool) {
	s, ok := t.syms[id]
	if !ok {
		return Address{}, false
	}
	return s.Address, true
}

// Symbol returns the full Symbol record for id.
func (t *Table) Symbol(id int) (*Symbol, bool) {
	s, ok := t.syms[id]
	return s, ok
}

// Define records that id resolves to a at the given pass. It returns
// changed=true only when a prior definition existed with a different
// address (spec §9's DefineSymbol open question: redefining with an
// unchanged address, at any pass, reports changed=false and does not force
// another pass). Redefining within the same pass is always an error,
// regardless of whether the address is the same.
func (t *Table) Define(pass, id int, a Address) (changed bool, err error) {
	s, exists := t.syms[id]
	if !exists {
		t.syms[id] = &Symbol{Pass: pass, ID: id, Address: a, Public: t.pending[id]}
		return false, nil
	}
	if s.Pass == pass {
		return false, &ErrMultipleDefinition{ID: id}
	}
	changed = !s.Address.Equal(a)
	s.Pass = pass
	s.Address = a
	return changed, nil
}

// MarkPublic marks id as exported. It may be called before id is defined;
// the flag is applied immediately if the symbol already exists, and
// remembered for when Define first creates it otherwise.
func (t *Table) MarkPublic(id int) {
	t.pending[id] = true
	if s, ok := t.syms[id]; ok {
		s.Public = true
	}
}

// DeclareExternal records id as an EXTRN/EXT import and returns the
// External address the evaluator should resolve it to.
func (t *Table) DeclareExternal(id int) Address {
	t.externals[id] = true
	if _, ok := t.syms[id]; !ok {
		t.syms[id] = &Symbol{ID: id, Address: Ext(id)}
	}
	return Ext(id)
}

// IsExternal reports whether id was declared via EXTRN/EXT.
func (t *Table) IsExternal(id int) bool {
	return t.externals[id]
}

// Publics returns every symbol marked PUBLIC, in id order for determinism.
func (t *Table) Publics() []*Symbol {
	var out []*Symbol
	for _, s := range t.syms {
		if s.Public {
			out = append(out, s)
		}
	}
	sortSymbols(out)
	return out
}

// Externals returns the ids of every declared external symbol, in order.
func (t *Table) Externals() []int {
	ids := make([]int, 0, len(t.externals))
	for id := range t.externals {
		ids = append(ids, id)
	}
	sortInts(ids)
	return ids
}

// UnresolvedPublics returns every PUBLIC id that was never actually
// defined by the final pass — the basis for the "public symbol never
// defined" warning in SPEC_FULL.md's Supplemented Features.
func (t *Table) UnresolvedPublics() []int {
	var out []int
	for id := range t.pending {
		if s, ok := t.syms[id]; !ok || s.Address.IsUndefined() {
			out = append(out, id)
		}
	}
	sortInts(out)
	return out
}

func sortSymbols(s []*Symbol) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].ID > s[j].ID; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
