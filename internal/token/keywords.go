package token

import "strings"

// Keyword ids start at 128 so that single-character operators (raw ASCII,
// always < 128) and keyword ids never collide, per spec §3.
const (
	KwLD = 128 + iota
	KwEX
	KwPUSH
	KwPOP
	KwADD
	KwADC
	KwSBC
	KwSUB
	KwAND
	KwOR
	KwXOR
	KwCP
	KwINC
	KwDEC
	KwRLC
	KwRL
	KwRRC
	KwRR
	KwSLA
	KwSRA
	KwSRL
	KwBIT
	KwSET
	KwRES
	KwJP
	KwJR
	KwDJNZ
	KwCALL
	KwRET
	KwRST
	KwIM
	KwIN
	KwOUT
	KwLDI
	KwLDIR
	KwLDD
	KwLDDR
	KwEXX
	KwRLCA
	KwRLA
	KwRRCA
	KwRRA
	KwCPL
	KwNEG
	KwCCF
	KwSCF
	KwCPI
	KwCPIR
	KwCPD
	KwCPDR
	KwRETI
	KwRETN
	KwNOP
	KwHALT
	KwDI
	KwEI
	KwINI
	KwINIR
	KwIND
	KwINDR
	KwOUTI
	KwOUTIR
	KwOUTD
	KwOUTDR
	KwDAA
	KwRLD
	KwRRD

	// Registers and register pairs.
	KwA
	KwB
	KwC
	KwD
	KwE
	KwH
	KwL
	KwI
	KwR
	KwIX
	KwIY
	KwSP
	KwAF
	KwBC
	KwDE
	KwHL
	KwAFPRIME

	// Conditions not already covered by a register name above.
	KwNZ
	KwZ
	KwNC
	KwPO
	KwPE
	KwP
	KwM

	// Expression word-operators.
	KwSHL
	KwSHR
	KwMOD
	KwNOT
	KwLOW
	KwHIGH

	// Structured-flow keywords.
	KwIF
	KwELSE
	KwELSEIF
	KwENDIF
	KwDO
	KwWHILE
	KwWEND
	KwDWNZ

	// Directives.
	KwINCLUDE
	KwCSEG
	KwDSEG
	KwPUBLIC
	KwEXTRN
	KwEXT
	KwDEFB
	KwDB
	KwDEFW
	KwDW
	KwDEFS
	KwDS
	KwEQU
)

var keywords = buildKeywordTable()

func buildKeywordTable() map[string]int {
	m := map[string]int{
		"LD": KwLD, "EX": KwEX, "PUSH": KwPUSH, "POP": KwPOP,
		"ADD": KwADD, "ADC": KwADC, "SBC": KwSBC, "SUB": KwSUB,
		"AND": KwAND, "OR": KwOR, "XOR": KwXOR, "CP": KwCP,
		"INC": KwINC, "DEC": KwDEC,
		"RLC": KwRLC, "RL": KwRL, "RRC": KwRRC, "RR": KwRR,
		"SLA": KwSLA, "SRA": KwSRA, "SRL": KwSRL,
		"BIT": KwBIT, "SET": KwSET, "RES": KwRES,
		"JP": KwJP, "JR": KwJR, "DJNZ": KwDJNZ, "CALL": KwCALL,
		"RET": KwRET, "RST": KwRST, "IM": KwIM, "IN": KwIN, "OUT": KwOUT,
		"LDI": KwLDI, "LDIR": KwLDIR, "LDD": KwLDD, "LDDR": KwLDDR,
		"EXX": KwEXX, "RLCA": KwRLCA, "RLA": KwRLA, "RRCA": KwRRCA, "RRA": KwRRA,
		"CPL": KwCPL, "NEG": KwNEG, "CCF": KwCCF, "SCF": KwSCF,
		"CPI": KwCPI, "CPIR": KwCPIR, "CPD": KwCPD, "CPDR": KwCPDR,
		"RETI": KwRETI, "RETN": KwRETN, "NOP": KwNOP, "HALT": KwHALT,
		"DI": KwDI, "EI": KwEI,
		"INI": KwINI, "INIR": KwINIR, "IND": KwIND, "INDR": KwINDR,
		"OUTI": KwOUTI, "OUTIR": KwOUTIR, "OUTD": KwOUTD, "OUTDR": KwOUTDR,
		"DAA": KwDAA, "RLD": KwRLD, "RRD": KwRRD,

		"A": KwA, "B": KwB, "C": KwC, "D": KwD, "E": KwE, "H": KwH, "L": KwL,
		"I": KwI, "R": KwR, "IX": KwIX, "IY": KwIY, "SP": KwSP,
		"AF": KwAF, "BC": KwBC, "DE": KwDE, "HL": KwHL, "AF'": KwAFPRIME,

		"NZ": KwNZ, "Z": KwZ, "NC": KwNC, "PO": KwPO, "PE": KwPE, "P": KwP, "M": KwM,

		"SHL": KwSHL, "SHR": KwSHR, "MOD": KwMOD, "NOT": KwNOT,
		"LOW": KwLOW, "HIGH": KwHIGH,

		"IF": KwIF, "ELSE": KwELSE, "ELSEIF": KwELSEIF, "ENDIF": KwENDIF,
		"DO": KwDO, "WHILE": KwWHILE, "WEND": KwWEND, "DWNZ": KwDWNZ,

		"INCLUDE": KwINCLUDE, "CSEG": KwCSEG, "DSEG": KwDSEG,
		"PUBLIC": KwPUBLIC, "EXTRN": KwEXTRN, "EXT": KwEXT,
		"DEFB": KwDEFB, "DB": KwDB, "DEFW": KwDEFW, "DW": KwDW,
		"DEFS": KwDEFS, "DS": KwDS, "EQU": KwEQU,
	}
	return m
}

// IsMnemonic reports whether value is one of the instruction-mnemonic
// keywords (the first contiguous block of the const table above, LD..RRD),
// as opposed to a register, condition, operator or directive keyword. The
// driver uses this to decide whether a ReservedWord token starts an
// instruction statement.
func IsMnemonic(value int) bool {
	return value >= KwLD && value <= KwRRD
}

// LookupKeyword returns the keyword id for an already-uppercased name.
func LookupKeyword(upper string) (int, bool) {
	id, ok := keywords[upper]
	return id, ok
}

// KeywordName is the reverse of LookupKeyword, used by diagnostics.
func KeywordName(id int) string {
	for name, kid := range keywords {
		if kid == id {
			return name
		}
	}
	return "?"
}

// twoCharOps is intentionally empty: per spec §9's open question, the
// source this design is drawn from never actually recognizes a Z80
// two-character symbolic operator (SHL/SHR/AND/OR/XOR are word keywords,
// not punctuation). The lookahead-and-pushback machinery in Tokenizer
// exercises this table regardless, so adding an entry later needs no
// further plumbing change.
var twoCharOps = map[string]int{}

func upper(s string) string {
	return strings.ToUpper(s)
}
