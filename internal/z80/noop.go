package z80

import "github.com/inufuto/ra80/internal/token"

// fixedOpcodes is spec §4.4's no-operand instruction table: every mnemonic
// whose encoding never varies with an operand. Grounded on cpu_z80.go's
// opcode dispatch table for the exact byte sequences.
var fixedOpcodes = map[int][]byte{
	token.KwNOP:   {0x00},
	token.KwEXX:   {0xD9},
	token.KwRLCA:  {0x07},
	token.KwRLA:   {0x17},
	token.KwRRCA:  {0x0F},
	token.KwRRA:   {0x1F},
	token.KwCPL:   {0x2F},
	token.KwNEG:   {0xED, 0x44},
	token.KwCCF:   {0x3F},
	token.KwSCF:   {0x37},
	token.KwDAA:   {0x27},
	token.KwHALT:  {0x76},
	token.KwDI:    {0xF3},
	token.KwEI:    {0xFB},
	token.KwRETI:  {0xED, 0x4D},
	token.KwRETN:  {0xED, 0x45},
	token.KwRLD:   {0xED, 0x6F},
	token.KwRRD:   {0xED, 0x67},
	token.KwLDI:   {0xED, 0xA0},
	token.KwLDIR:  {0xED, 0xB0},
	token.KwLDD:   {0xED, 0xA8},
	token.KwLDDR:  {0xED, 0xB8},
	token.KwCPI:   {0xED, 0xA1},
	token.KwCPIR:  {0xED, 0xB1},
	token.KwCPD:   {0xED, 0xA9},
	token.KwCPDR:  {0xED, 0xB9},
	token.KwINI:   {0xED, 0xA2},
	token.KwINIR:  {0xED, 0xB2},
	token.KwIND:   {0xED, 0xAA},
	token.KwINDR:  {0xED, 0xBA},
	token.KwOUTI:  {0xED, 0xA3},
	token.KwOUTIR: {0xED, 0xB3},
	token.KwOUTD:  {0xED, 0xAB},
	token.KwOUTDR: {0xED, 0xBB},
}
