// Package srcpos defines the source-position value shared by the reader,
// tokenizer and diagnostics. It is kept separate from package token so the
// character-source side (package source) does not need to import token.
package srcpos

import "fmt"

// Position identifies a line within a named source file. It is
// value-comparable and used as the error-deduplication key by TokenReader.
type Position struct {
	File string
	Line int
}

func (p Position) String() string {
	return fmt.Sprintf("%s(%d)", p.File, p.Line)
}
