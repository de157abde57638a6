// Package source implements the character stream over one or more open
// source files, with INCLUDE nesting, that feeds the tokenizer. Shape is
// grounded on bshepherdson-risque16/assembler/lexer.go's Scanner
// (rune-at-a-time reads over a bufio.Reader with an unread/pushback stack),
// generalized to a stack of files for INCLUDE and to broadcast each
// completed line to a listing sink, per spec.
package source

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/inufuto/ra80/internal/srcpos"
)

// LineSink receives each fully-read source line, in input order, tagged
// with the position of its first character.
type LineSink interface {
	Line(pos srcpos.Position, text string)
}

type frame struct {
	file    *os.File
	r       *bufio.Reader
	name    string
	dir     string
	line    int
	lineBuf []byte
}

// Reader is the SourceReader of spec §4.1: a stack of open files with
// INCLUDE nesting, emitting '\n' at line boundaries and '\0' at end of the
// innermost file (popping the stack).
type Reader struct {
	stack    []*frame
	sink     LineSink
	pushback []byte
	curPos   srcpos.Position
}

// Open opens path as the top-level source file.
func Open(path string, sink LineSink) (*Reader, error) {
	r := &Reader{sink: sink}
	if err := r.Include(path); err != nil {
		return nil, err
	}
	return r, nil
}

// Include pushes path as a new innermost file, resolved relative to the
// directory of the file currently being read (or the working directory at
// the top level).
func (r *Reader) Include(path string) error {
	dir := "."
	if len(r.stack) > 0 {
		dir = r.stack[len(r.stack)-1].dir
	}
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(dir, path)
	}
	f, err := os.Open(full)
	if err != nil {
		return err
	}
	r.stack = append(r.stack, &frame{
		file: f,
		r:    bufio.NewReader(f),
		name: path,
		dir:  filepath.Dir(full),
		line: 1,
	})
	return nil
}

// Depth reports the current INCLUDE nesting depth, 0 when no file is open.
func (r *Reader) Depth() int {
	return len(r.stack)
}

// GetChar returns the next character, '\n' at a line boundary, or 0 at
// end-of-innermost-file (after popping that file off the stack).
func (r *Reader) GetChar() byte {
	if n := len(r.pushback); n > 0 {
		ch := r.pushback[n-1]
		r.pushback = r.pushback[:n-1]
		return ch
	}
	for len(r.stack) > 0 {
		f := r.stack[len(r.stack)-1]
		r.curPos = srcpos.Position{File: f.name, Line: f.line}
		b, err := f.r.ReadByte()
		if err != nil {
			if len(f.lineBuf) > 0 {
				r.sink.Line(r.curPos, string(f.lineBuf))
				f.lineBuf = nil
			}
			_ = f.file.Close()
			r.stack = r.stack[:len(r.stack)-1]
			continue
		}
		if b == '\n' {
			r.sink.Line(r.curPos, string(f.lineBuf))
			f.lineBuf = nil
			f.line++
			return '\n'
		}
		f.lineBuf = append(f.lineBuf, b)
		return b
	}
	return 0
}

// PushBack returns ch to the stream; the next GetChar call will yield it.
func (r *Reader) PushBack(ch byte) {
	r.pushback = append(r.pushback, ch)
}

// Position reports the position of the character most recently returned by
// GetChar.
func (r *Reader) Position() srcpos.Position {
	return r.curPos
}

// Close closes every file still on the stack, innermost first.
func (r *Reader) Close() {
	for len(r.stack) > 0 {
		f := r.stack[len(r.stack)-1]
		_ = f.file.Close()
		r.stack = r.stack[:len(r.stack)-1]
	}
}
