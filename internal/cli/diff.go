package cli

import (
	"fmt"
	"io"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// DiffLine is one line of a line-level diff.
type DiffLine struct {
	Op   string `json:"op"` // "+", "-" or " "
	Text string `json:"text"`
}

// LineDiff compares before and after line by line.
func LineDiff(before, after string) []DiffLine {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(ensureNewline(before), ensureNewline(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []DiffLine
	for _, d := range diffs {
		op := " "
		switch d.Type {
		case diffpatch.DiffInsert:
			op = "+"
		case diffpatch.DiffDelete:
			op = "-"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return out
}

// ensureNewline terminates the last line so an edit to it diffs as a
// whole line.
func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// writeDiff prints lines with +/- markers, colored when f allows it.
func writeDiff(w io.Writer, f *OutputFormatter, lines []DiffLine) {
	for _, l := range lines {
		text := l.Op + " " + l.Text
		switch l.Op {
		case "+":
			text = f.Pass(text)
		case "-":
			text = f.Fail(text)
		}
		fmt.Fprintln(w, text)
	}
}
