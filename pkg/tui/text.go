package tui

import (
	"strings"
	"unicode"
)

// Caret positions are rune offsets into a block's text. Lines are
// separated by "\n" and every rune occupies one terminal cell.

// lineCol returns the line and column of offset.
func lineCol(text []rune, offset int) (line, col int) {
	offset = clampOffset(text, offset)
	for _, r := range text[:offset] {
		if r == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return line, col
}

// offsetAt returns the offset of line and column, clamping the column to
// the line's length. ok is false when line does not exist.
func offsetAt(text []rune, line, col int) (offset int, ok bool) {
	if line < 0 {
		return 0, false
	}

	current := 0
	start := 0
	for i, r := range text {
		if current == line {
			break
		}
		if r == '\n' {
			current++
			start = i + 1
		}
	}
	if current != line {
		return 0, false
	}

	end := start
	for end < len(text) && text[end] != '\n' {
		end++
	}
	return start + min(max(col, 0), end-start), true
}

// lineCount returns the number of lines in text; empty text has one.
func lineCount(text string) int {
	return strings.Count(text, "\n") + 1
}

func clampOffset(text []rune, offset int) int {
	return min(max(offset, 0), len(text))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// wordRange returns the bounds of the word touching offset. start equals
// end when offset is not next to a word.
func wordRange(text []rune, offset int) (start, end int) {
	offset = clampOffset(text, offset)

	start = offset
	for start > 0 && isWordRune(text[start-1]) {
		start--
	}
	end = offset
	for end < len(text) && isWordRune(text[end]) {
		end++
	}
	return start, end
}

// splice replaces text[start:end] with insert.
func splice(text []rune, start, end int, insert []rune) []rune {
	out := make([]rune, 0, len(text)-(end-start)+len(insert))
	out = append(out, text[:start]...)
	out = append(out, insert...)
	out = append(out, text[end:]...)
	return out
}
