package position

import "unicode/utf8"

// Encoding names the unit LSP character offsets are measured in. The
// client negotiates one of these during initialize via
// general.positionEncodings; UTF-16 is the protocol default and must be
// supported unconditionally.
type Encoding string

const (
	UTF16 Encoding = "utf-16"
	UTF8  Encoding = "utf-8"
	UTF32 Encoding = "utf-32"
)

// Lines is a source file already split into its constituent lines
// (without trailing newline bytes). Every conversion in this file is
// defined against Lines rather than raw source text: callers must
// tokenize once when a file is opened or edited, then reuse the result,
// since re-scanning the whole buffer on every position conversion would
// make each hover/definition request pay for a tokenization pass it
// doesn't need.
type Lines [][]byte

// TokenizeLines splits content into Lines on '\n', stripping a trailing
// '\r' from each line so CRLF sources tokenize the same as LF sources.
func TokenizeLines(content []byte) Lines {
	var lines Lines
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			end := i
			if end > start && content[end-1] == '\r' {
				end--
			}
			lines = append(lines, content[start:end])
			start = i + 1
		}
	}
	lines = append(lines, content[start:])
	return lines
}

// line returns the Nth line, or nil if out of range.
func (l Lines) line(n int) []byte {
	if n < 0 || n >= len(l) {
		return nil
	}
	return l[n]
}

// Utf8ToUtf16 converts a byte-column position on line n into the
// equivalent count of UTF-16 code units from the start of that line.
// Columns past the end of the line clamp to the line's UTF-16 length.
func (l Lines) Utf8ToUtf16(n, byteColumn int) int {
	line := l.line(n)
	if line == nil {
		return 0
	}
	if byteColumn > len(line) {
		byteColumn = len(line)
	}
	units := 0
	pos := 0
	for pos < byteColumn {
		r, size := utf8.DecodeRune(line[pos:])
		if r == utf8.RuneError && size <= 1 {
			units++
			pos++
			continue
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		pos += size
	}
	return units
}

// Utf16ToUtf8 converts a UTF-16 code-unit column on line n into the
// equivalent byte column. A column that lands on the low half of a
// surrogate pair floors to the byte offset of the rune that contains it.
// Columns past the end of the line clamp to the line's byte length.
func (l Lines) Utf16ToUtf8(n, utf16Column int) int {
	line := l.line(n)
	if line == nil || utf16Column <= 0 {
		return 0
	}
	pos := 0
	units := 0
	for pos < len(line) && units < utf16Column {
		r, size := utf8.DecodeRune(line[pos:])
		if r == utf8.RuneError && size <= 1 {
			units++
			pos++
			continue
		}
		if r > 0xFFFF {
			if units+1 == utf16Column {
				return pos
			}
			units += 2
		} else {
			units++
		}
		pos += size
	}
	return pos
}

// CountUnicodeChars returns the number of Unicode scalar values encoded
// in line n, i.e. its length measured in runes rather than bytes.
func (l Lines) CountUnicodeChars(n int) int {
	line := l.line(n)
	count := 0
	for pos := 0; pos < len(line); {
		_, size := utf8.DecodeRune(line[pos:])
		count++
		pos += size
	}
	return count
}

// ToIDE converts an internal (byte-column) Position into an LSP position
// expressed in enc's units, returning (line, character).
func (l Lines) ToIDE(p Position, enc Encoding) (line, character int) {
	if p.IsAbsent() {
		return 0, 0
	}
	switch enc {
	case UTF8:
		return p.Line, p.Column
	case UTF32:
		return p.Line, l.runeColumn(p.Line, p.Column)
	default:
		return p.Line, l.Utf8ToUtf16(p.Line, p.Column)
	}
}

// FromIDE converts an LSP position expressed in enc's units back into an
// internal byte-column Position tagged with file.
func (l Lines) FromIDE(file FileID, line, character int, enc Encoding) Position {
	switch enc {
	case UTF8:
		return New(file, line, character)
	case UTF32:
		return New(file, line, l.byteColumnFromRune(line, character))
	default:
		return New(file, line, l.Utf16ToUtf8(line, character))
	}
}

// runeColumn converts a byte column to a rune (UTF-32) column on line n.
func (l Lines) runeColumn(n, byteColumn int) int {
	lineBytes := l.line(n)
	if lineBytes == nil {
		return 0
	}
	if byteColumn > len(lineBytes) {
		byteColumn = len(lineBytes)
	}
	count := 0
	for pos := 0; pos < byteColumn; {
		_, size := utf8.DecodeRune(lineBytes[pos:])
		count++
		pos += size
	}
	return count
}

// byteColumnFromRune converts a rune (UTF-32) column to a byte column on
// line n.
func (l Lines) byteColumnFromRune(n, runeColumn int) int {
	lineBytes := l.line(n)
	if lineBytes == nil || runeColumn <= 0 {
		return 0
	}
	count := 0
	pos := 0
	for pos < len(lineBytes) && count < runeColumn {
		_, size := utf8.DecodeRune(lineBytes[pos:])
		count++
		pos += size
	}
	return pos
}
