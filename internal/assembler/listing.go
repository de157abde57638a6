package assembler

import (
	"fmt"

	"github.com/inufuto/ra80/internal/addr"
	"github.com/inufuto/ra80/internal/asmctx"
	"github.com/inufuto/ra80/internal/srcpos"
)

// ListLine is one row of the assembly listing: the address a statement
// started at, the bytes it emitted (if any), and its source text.
type ListLine struct {
	Pos   srcpos.Position
	Addr  int
	Seg   addr.Type
	Bytes []byte
	Text  string
}

// String formats l the way the teacher's own addListing helper formats a
// disassembled line: a hex address column, a byte-dump column, then the
// source text.
func (l ListLine) String() string {
	hex := ""
	for i, b := range l.Bytes {
		if i > 0 {
			hex += " "
		}
		hex += fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("%04X  %-24s %s", l.Addr, hex, l.Text)
}

type listingBuilder struct {
	lines []ListLine
}

func newListingBuilder() *listingBuilder {
	return &listingBuilder{}
}

func (b *listingBuilder) record(pos srcpos.Position, text string, addrStart addr.Address, segStart *addr.Segment, ctx *asmctx.Context) {
	var bytes []byte
	if ctx.Cur == segStart && ctx.Cur.Tail() > addrStart.Value {
		bytes = append([]byte(nil), segStart.Bytes[addrStart.Value:ctx.Cur.Tail()]...)
	}
	b.lines = append(b.lines, ListLine{
		Pos:   pos,
		Addr:  addrStart.Value,
		Seg:   addrStart.Type,
		Bytes: bytes,
		Text:  text,
	})
}
