// Package z80 is the instruction emitter of spec §4.4 (component 7, the
// largest single piece of the engine): a table-driven, family-by-family
// parser/encoder for the Z80 instruction set. Register/opcode table shape
// is grounded on assembler/ie32asm.go's `registers map[string]byte` and
// opcode const blocks; exact Z80 encodings (CB/ED/DD/FD prefixes, `01 ddd
// sss` register-to-register moves, and so on) are grounded on the
// teacher's own Z80 CPU core and disassembler, cpu_z80.go and
// debug_disasm_z80.go, which implement and decode this same instruction
// set for emulation rather than assembly.
package z80

import (
	"github.com/inufuto/ra80/internal/token"
)

// SingleRegisters is indexed by the three-bit register field used
// throughout the Z80 encoding (spec §4.4). Slot 6 is reserved for (HL) and
// is never itself a register operand — spec invariant #6.
var SingleRegisters = [8]int{
	token.KwB, token.KwC, token.KwD, token.KwE,
	token.KwH, token.KwL, 0, token.KwA,
}

const hlSlot = 6

// RegisterPairs is indexed by the two-bit rp field.
var RegisterPairs = [4]int{token.KwBC, token.KwDE, token.KwHL, token.KwSP}

// Conditions is indexed by the three-bit condition field used by JP/CALL/RET.
var Conditions = [8]int{
	token.KwNZ, token.KwZ, token.KwNC, token.KwC,
	token.KwPO, token.KwPE, token.KwP, token.KwM,
}

// ShortJumpConditions is the subset of Conditions usable with JR (spec §4.4).
var ShortJumpConditions = [4]int{token.KwNZ, token.KwZ, token.KwNC, token.KwC}

const (
	prefixIX = 0xDD
	prefixIY = 0xFD
)

func singleRegIndex(kw int) (int, bool) {
	for i, r := range SingleRegisters {
		if i == hlSlot {
			continue
		}
		if r == kw {
			return i, true
		}
	}
	return 0, false
}

func pairIndex(kw int) (int, bool) {
	for i, r := range RegisterPairs {
		if r == kw {
			return i, true
		}
	}
	return 0, false
}

// ConditionIndex is the exported form of condIndex, used by the flow
// package to invert a condition for IF/WHILE's false-branch jump.
func ConditionIndex(kw int) (int, bool) {
	return condIndex(kw)
}

func condIndex(kw int) (int, bool) {
	for i, c := range Conditions {
		if c == kw {
			return i, true
		}
	}
	return 0, false
}

func shortCondIndex(kw int) (int, bool) {
	for i, c := range ShortJumpConditions {
		if c == kw {
			return i, true
		}
	}
	return 0, false
}

func indexPrefix(kw int) (byte, bool) {
	switch kw {
	case token.KwIX:
		return prefixIX, true
	case token.KwIY:
		return prefixIY, true
	}
	return 0, false
}
