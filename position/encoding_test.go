package position

import "testing"

func TestTokenizeLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", []string{""}},
		{"single line no newline", "hello", []string{"hello"}},
		{"trailing newline", "a\nb\n", []string{"a", "b", ""}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b", ""}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := TokenizeLines([]byte(tt.content))
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d: %v", len(lines), len(tt.want), lines)
			}
			for i, want := range tt.want {
				if string(lines[i]) != want {
					t.Errorf("line %d = %q; want %q", i, lines[i], want)
				}
			}
		})
	}
}

func TestLines_Utf8ToUtf16(t *testing.T) {
	// "héllo" - 'é' (U+00E9) is 2 bytes in UTF-8, 1 unit in UTF-16.
	lines := TokenizeLines([]byte("héllo"))

	tests := []struct {
		name       string
		byteColumn int
		want       int
	}{
		{"start of line", 0, 0},
		{"after ascii h", 1, 1},
		{"after multibyte e-acute", 3, 2},
		{"after trailing ascii", 6, 5},
		{"past end clamps", 100, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lines.Utf8ToUtf16(0, tt.byteColumn); got != tt.want {
				t.Errorf("Utf8ToUtf16(0, %d) = %d; want %d", tt.byteColumn, got, tt.want)
			}
		})
	}
}

func TestLines_Utf16ToUtf8(t *testing.T) {
	lines := TokenizeLines([]byte("héllo"))

	tests := []struct {
		name        string
		utf16Column int
		want        int
	}{
		{"start", 0, 0},
		{"after h", 1, 1},
		{"after e-acute", 2, 3},
		{"after trailing ascii", 5, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lines.Utf16ToUtf8(0, tt.utf16Column); got != tt.want {
				t.Errorf("Utf16ToUtf8(0, %d) = %d; want %d", tt.utf16Column, got, tt.want)
			}
		})
	}
}

func TestLines_Utf16ToUtf8_SupplementaryPlaneSurrogate(t *testing.T) {
	// U+1F600 (grinning face emoji) is a 4-byte UTF-8 rune and a
	// surrogate pair (2 units) in UTF-16.
	lines := TokenizeLines([]byte("a\U0001F600b"))

	// unit 0: before 'a'. unit 1: after 'a', before emoji. unit 2: mid-surrogate,
	// should floor to the start of the emoji rune (byte offset 1).
	if got := lines.Utf16ToUtf8(0, 2); got != 1 {
		t.Errorf("mid-surrogate Utf16ToUtf8(0, 2) = %d; want 1 (floor to rune start)", got)
	}
	// unit 3: after the full surrogate pair, before 'b'.
	if got := lines.Utf16ToUtf8(0, 3); got != 5 {
		t.Errorf("Utf16ToUtf8(0, 3) = %d; want 5", got)
	}
}

func TestLines_RoundTrip(t *testing.T) {
	lines := TokenizeLines([]byte("日本語テスト"))

	for byteCol := 0; byteCol <= len("日本語テスト"); byteCol += 3 {
		u16 := lines.Utf8ToUtf16(0, byteCol)
		back := lines.Utf16ToUtf8(0, u16)
		if back != byteCol {
			t.Errorf("round trip from byte %d via utf16 %d landed at %d", byteCol, u16, back)
		}
	}
}

func TestLines_CountUnicodeChars(t *testing.T) {
	lines := TokenizeLines([]byte("日本語"))
	if got := lines.CountUnicodeChars(0); got != 3 {
		t.Errorf("CountUnicodeChars() = %d; want 3", got)
	}
}

func TestLines_ToIDE_FromIDE_UTF16(t *testing.T) {
	lines := TokenizeLines([]byte("héllo"))
	p := New(FileID(1), 0, 3) // byte column 3, after "hé"

	line, char := lines.ToIDE(p, UTF16)
	if line != 0 || char != 2 {
		t.Fatalf("ToIDE = (%d, %d); want (0, 2)", line, char)
	}

	back := lines.FromIDE(FileID(1), line, char, UTF16)
	if !back.Equal(p) {
		t.Errorf("FromIDE(ToIDE(p)) = %v; want %v", back, p)
	}
}

func TestLines_ToIDE_UTF8IsIdentity(t *testing.T) {
	lines := TokenizeLines([]byte("héllo"))
	p := New(FileID(1), 0, 3)

	line, char := lines.ToIDE(p, UTF8)
	if line != 0 || char != 3 {
		t.Fatalf("ToIDE(UTF8) = (%d, %d); want (0, 3)", line, char)
	}
}

func TestLines_ToIDE_AbsentPosition(t *testing.T) {
	lines := TokenizeLines([]byte("abc"))
	line, char := lines.ToIDE(Absent, UTF16)
	if line != 0 || char != 0 {
		t.Errorf("ToIDE(Absent) = (%d, %d); want (0, 0)", line, char)
	}
}
