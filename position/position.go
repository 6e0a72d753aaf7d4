// Package position implements the source-position model shared by every
// other package in this module: 0-based line/column positions, half-open
// ranges, file identity, and the UTF-8/UTF-16 column conversion the LSP
// wire protocol requires.
package position

import "fmt"

// FileID is a scratch tag identifying which file a Position was produced
// against. It exists so callers can label a Position without carrying a
// full URI around, but it is NOT part of Position equality: two positions
// with the same line/column but different FileIDs compare equal by
// [Position.Equal] (Go's built-in == still compares File). Range and higher-level
// types that need cross-file identity carry their own URI field instead.
type FileID uint32

// NoFile is the zero FileID, used by positions that are not associated
// with any particular file.
const NoFile FileID = 0

// Position is a point in a source file: a 0-based line and a 0-based
// column. Columns count UTF-8 bytes from the start of the line — this is
// the language's native representation; conversion to/from LSP's UTF-16
// code-unit columns happens only at the wire boundary (see Utf8ToUtf16
// and Utf16ToUtf8).
//
// A Position with Line < 0 or Column < 0 encodes "absent". Two positions
// are ordered lexicographically by (Line, Column); File is a scratch tag
// and never participates in comparison.
type Position struct {
	File   FileID
	Line   int
	Column int
}

// Absent is the canonical "no position" value.
var Absent = Position{Line: -1, Column: -1}

// New constructs a Position tagged with file.
func New(file FileID, line, column int) Position {
	return Position{File: file, Line: line, Column: column}
}

// IsAbsent reports whether p encodes "absent" (Line < 0 or Column < 0).
func (p Position) IsAbsent() bool {
	return p.Line < 0 || p.Column < 0
}

// Equal reports whether p and other denote the same (line, column),
// ignoring File.
func (p Position) Equal(other Position) bool {
	return p.Line == other.Line && p.Column == other.Column
}

// Less reports whether p sorts strictly before other by (Line, Column),
// ignoring File. Absent positions sort before all known positions.
func (p Position) Less(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// LessOrEqual reports whether p sorts at or before other.
func (p Position) LessOrEqual(other Position) bool {
	return p.Equal(other) || p.Less(other)
}

// String renders "line:column", or "<absent>" for absent positions.
func (p Position) String() string {
	if p.IsAbsent() {
		return "<absent>"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
