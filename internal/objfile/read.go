package objfile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/inufuto/ra80/internal/addr"
)

// IDEntry is one row of the id table: an interned identifier id paired with
// its spelling, so a linker (or a test) can print public/external names
// without access to the compiler's own string table.
type IDEntry struct {
	ID   int
	Name string
}

// File is the parsed form of the object format Write produces. Reading it
// back is not part of linking (out of scope per spec §1's Non-goals) — it
// exists so tests can assert on the format's actual shape rather than on
// Write's internals.
type File struct {
	Version   uint16
	Code      []byte
	Data      []byte
	IDs       []IDEntry
	Publics   []PublicEntry
	Externals []int
	Fixups    []addr.Fixup
}

type PublicEntry struct {
	ID      int
	Address addr.Address
}

// Read parses the format Write emits.
func Read(r io.Reader) (*File, error) {
	f := &File{}
	var err error

	if f.Version, err = readU16(r); err != nil {
		return nil, err
	}
	if f.Code, err = readSegment(r); err != nil {
		return nil, err
	}
	if f.Data, err = readSegment(r); err != nil {
		return nil, err
	}

	idCount, err := readU16(r)
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(idCount); i++ {
		id, err := readU16(r)
		if err != nil {
			return nil, err
		}
		nameLen, err := readU16(r)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, nameLen)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		f.IDs = append(f.IDs, IDEntry{ID: int(id), Name: string(buf)})
	}

	pubCount, err := readU16(r)
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(pubCount); i++ {
		id, err := readU16(r)
		if err != nil {
			return nil, err
		}
		a, err := readAddress(r)
		if err != nil {
			return nil, err
		}
		f.Publics = append(f.Publics, PublicEntry{ID: int(id), Address: a})
	}

	fixCount, err := readU16(r)
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(fixCount); i++ {
		at, err := readAddress(r)
		if err != nil {
			return nil, err
		}
		target, err := readAddress(r)
		if err != nil {
			return nil, err
		}
		f.Fixups = append(f.Fixups, addr.Fixup{At: at, Target: target})
	}

	// There is no standalone externals section on disk (spec §4.8's layout
	// has none): every external a fix-up targets already has its id and
	// name in the id table, so Externals is just that set, for callers
	// that want it without walking Fixups themselves.
	seen := make(map[int]bool)
	for _, fx := range f.Fixups {
		if fx.Target.Type == addr.External && !seen[fx.Target.ID] {
			seen[fx.Target.ID] = true
			f.Externals = append(f.Externals, fx.Target.ID)
		}
	}

	return f, nil
}

func readSegment(r io.Reader) ([]byte, error) {
	n, err := readU16(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// readAddress reads spec §4.8's fixed Address layout: type byte, part
// byte, id word, value word, for every type uniformly. The part byte's
// third state (2) recovers Address.High, the byte-half selector that has
// no field of its own in the wire format (see writeAddress).
func readAddress(r io.Reader) (addr.Address, error) {
	var head [2]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return addr.Address{}, err
	}
	id, err := readU16(r)
	if err != nil {
		return addr.Address{}, err
	}
	v, err := readU16(r)
	if err != nil {
		return addr.Address{}, err
	}

	a := addr.Address{ID: int(id), Value: int(int16(v))}
	switch head[0] {
	case tagConst:
		a.Type = addr.Const
	case tagCode:
		a.Type = addr.Code
	case tagData:
		a.Type = addr.Data
	case tagExternal:
		a.Type = addr.External
	default:
		return addr.Address{}, fmt.Errorf("objfile: unknown address tag %d", head[0])
	}
	switch head[1] {
	case 1:
		a.Part = addr.Byte
	case 2:
		a.Part = addr.Byte
		a.High = true
	}
	return a, nil
}

func readU16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}
