package document

import (
	"fmt"
	"strings"
)

// Markdown renders the document as CommonMark text.
func Markdown(d Document) string {
	var sb strings.Builder

	title := d.Title
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	fmt.Fprintf(&sb, "# %s\n", singleLine(title))

	for _, b := range d.Blocks {
		sb.WriteString("\n")
		writeBlock(&sb, b)
	}

	return sb.String()
}

func writeBlock(sb *strings.Builder, b Block) {
	text := NormalizeSpaces(b.Text)

	switch b.Type {
	case TypeHeading1:
		fmt.Fprintf(sb, "## %s\n", singleLine(text))
	case TypeHeading2:
		fmt.Fprintf(sb, "### %s\n", singleLine(text))
	case TypeBulletedList:
		for _, line := range splitLines(text) {
			fmt.Fprintf(sb, "- %s\n", line)
		}
	case TypeNumberedList:
		for i, line := range splitLines(text) {
			fmt.Fprintf(sb, "%d. %s\n", i+1, line)
		}
	case TypeCode:
		fence := codeFence(text)
		sb.WriteString(fence + "\n")
		sb.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString(fence + "\n")
	default:
		sb.WriteString(text)
		sb.WriteString("\n")
	}
}

// splitLines splits list text into items, dropping blank lines.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// singleLine folds text onto one line; an ATX heading ends at the first newline.
func singleLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// codeFence returns a backtick fence longer than any backtick run in text.
func codeFence(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}
