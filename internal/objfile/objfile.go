// Package objfile writes the relocatable object format of spec §4.8: a
// small custom binary container pairing the two emitted segments with the
// symbol/fix-up tables an external linker needs to place them. Binary
// layout style (fixed-width little-endian header fields, a length-prefixed
// table for variable-size entries) is grounded on the teacher's own save
// format in assembler/ie64asm.go's object writer, generalized from that
// assembler's single-segment layout to spec §3's Code/Data pair.
package objfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/inufuto/ra80/internal/addr"
	"github.com/inufuto/ra80/internal/asmctx"
)

// Version is the object file format version word.
const Version uint16 = 0x0100

// Write serializes ctx's final-pass state: both segments, the id table for
// every public or external symbol, the publics list, and the fix-up list.
// Callers must ensure ctx.ErrCount == 0 on the pass being written (spec
// §3/§5: assembly with outstanding errors never reaches the object writer).
func Write(w io.Writer, ctx *asmctx.Context) error {
	bw := bufio.NewWriter(w)

	if err := writeU16(bw, Version); err != nil {
		return err
	}
	if err := writeSegment(bw, ctx.Code); err != nil {
		return err
	}
	if err := writeSegment(bw, ctx.Data); err != nil {
		return err
	}

	ids := combineIDs(ctx)
	if err := writeU16(bw, uint16(len(ids))); err != nil {
		return err
	}
	for _, id := range ids {
		if err := writeIDEntry(bw, ctx, id); err != nil {
			return err
		}
	}

	publics := ctx.Symbols.Publics()
	if err := writeU16(bw, uint16(len(publics))); err != nil {
		return err
	}
	for _, s := range publics {
		if err := writeU16(bw, uint16(s.ID)); err != nil {
			return err
		}
		if err := writeAddress(bw, s.Address); err != nil {
			return err
		}
	}

	if err := writeU16(bw, uint16(len(ctx.Fixups))); err != nil {
		return err
	}
	for _, f := range ctx.Fixups {
		if err := writeAddress(bw, f.At); err != nil {
			return err
		}
		if err := writeAddress(bw, f.Target); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// combineIDs gathers every id the id table must carry a name for: spec
// §4.8 item 3 says that's every public symbol id and every external id
// actually referenced by a fix-up — not every EXTRN declared in the
// source, some of which may go unused.
func combineIDs(ctx *asmctx.Context) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, s := range ctx.Symbols.Publics() {
		if !seen[s.ID] {
			seen[s.ID] = true
			ids = append(ids, s.ID)
		}
	}
	for _, f := range ctx.Fixups {
		if f.Target.Type == addr.External && !seen[f.Target.ID] {
			seen[f.Target.ID] = true
			ids = append(ids, f.Target.ID)
		}
	}
	return ids
}

func writeIDEntry(w io.Writer, ctx *asmctx.Context, id int) error {
	name := ctx.IdentName(id)
	if err := writeU16(w, uint16(id)); err != nil {
		return err
	}
	if err := writeU16(w, uint16(len(name))); err != nil {
		return err
	}
	_, err := io.WriteString(w, name)
	return err
}

func writeSegment(w io.Writer, s *addr.Segment) error {
	if err := writeU16(w, uint16(s.Tail())); err != nil {
		return err
	}
	_, err := w.Write(s.Bytes)
	return err
}

// addressType tags for the binary encoding; stable across versions,
// independent of addr.Type's own iota order.
const (
	tagConst    byte = 0
	tagCode     byte = 1
	tagData     byte = 2
	tagExternal byte = 3
)

func encodeType(t addr.Type) (byte, error) {
	switch t {
	case addr.Const:
		return tagConst, nil
	case addr.Code:
		return tagCode, nil
	case addr.Data:
		return tagData, nil
	case addr.External:
		return tagExternal, nil
	}
	return 0, fmt.Errorf("objfile: address of type %s cannot be written (must be resolved)", t)
}

// writeAddress writes spec §4.8's fixed Address layout, the same four
// fields for every type: "type byte; part byte; id word (0 when absent);
// value word". High (addr.Address's own addition over spec §3, see
// DESIGN.md's Open Question #4) folds into the part byte as a third state,
// since the wire format has no separate flags byte: 0 is a full Word, 1 is
// LOW's byte, 2 is HIGH's byte.
func writeAddress(w io.Writer, a addr.Address) error {
	tag, err := encodeType(a.Type)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte{tag, partByte(a)}); err != nil {
		return err
	}
	if err := writeU16(w, uint16(a.ID)); err != nil {
		return err
	}
	return writeU16(w, uint16(a.Value))
}

func partByte(a addr.Address) byte {
	if a.Part != addr.Byte {
		return 0
	}
	if a.High {
		return 2
	}
	return 1
}

func writeU16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}
