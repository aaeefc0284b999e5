package format

import (
	"strconv"
	"strings"

	"github.com/roach88/structsort/internal/value"
)

const (
	// treeLeading may appear before a connector: indentation and vertical bars.
	treeLeading = " \t│┃|"
	// treeConnectors start a branch.
	treeConnectors = "├└┣┗╰`+-*•"
	// treeRule continues a connector horizontally.
	treeRule = "─━-┬┼"

	tabWidth = 4
)

type treeLine struct {
	width     int
	connector bool
	label     string
}

// parseTree reads an indented or box-drawn tree into a flat list of
// {depth, label} records in document order.
func parseTree(raw string) (value.Value, error) {
	var lines []treeLine
	for _, l := range dedentLines(raw) {
		if l == "" {
			continue
		}
		tl := scanTreeLine(l)
		if tl.label == "" && !tl.connector {
			continue
		}
		lines = append(lines, tl)
	}

	unit := 0
	for _, tl := range lines {
		if tl.width > 0 && (unit == 0 || tl.width < unit) {
			unit = tl.width
		}
	}
	if unit == 0 {
		unit = 1
	}

	out := make(value.List, 0, len(lines))
	for _, tl := range lines {
		depth := (tl.width + unit/2) / unit
		if tl.connector {
			depth++
		}
		out = append(out, value.NewMap(
			value.E("depth", value.NumberFromInt(int64(depth))),
			value.E("label", value.String(tl.label)),
		))
	}
	return out, nil
}

// scanTreeLine splits a line into its prefix width and label. Width is the
// number of cells before the connector, or the whole indentation when the
// line has no connector.
func scanTreeLine(line string) treeLine {
	runes := []rune(line)
	var tl treeLine
	i := 0
	for ; i < len(runes); i++ {
		r := runes[i]
		asciiBranch := r == '|' && i+1 < len(runes) && strings.ContainsRune(treeRule, runes[i+1])
		if asciiBranch || strings.ContainsRune(treeConnectors, r) && (i+1 == len(runes) || isTreeConnectorTail(runes[i+1])) {
			tl.connector = true
			i++
			break
		}
		if !strings.ContainsRune(treeLeading, r) {
			break
		}
		if r == '\t' {
			tl.width += tabWidth
		} else {
			tl.width++
		}
	}
	if tl.connector {
		for i < len(runes) && strings.ContainsRune(treeRule, runes[i]) {
			i++
		}
	}
	tl.label = strings.TrimSpace(string(runes[i:]))
	return tl
}

func isTreeConnectorTail(r rune) bool {
	return r == ' ' || r == '\t' || strings.ContainsRune(treeRule, r)
}

func renderTree(records []value.Value) string {
	if hasDepth(records) {
		return renderDepthTree(records)
	}
	nodes := make([]treeNode, len(records))
	for i, rec := range records {
		nodes[i] = buildTreeNode(rec)
	}
	var lines []string
	writeTreeNodes(&lines, nodes, "")
	return strings.Join(lines, "\n")
}

func hasDepth(records []value.Value) bool {
	for _, rec := range records {
		if m, ok := rec.(*value.Map); ok && m.Has("depth") {
			return true
		}
	}
	return false
}

func depthOf(rec value.Value) int {
	m, ok := rec.(*value.Map)
	if !ok {
		return 0
	}
	v, _ := m.Get("depth")
	var d int
	switch v := v.(type) {
	case value.Number:
		d = int(v.Float64())
	case value.String:
		d, _ = strconv.Atoi(strings.TrimSpace(string(v)))
	}
	return max(d, 0)
}

// renderDepthTree draws box connectors from depth tags. A level keeps its
// vertical bar while a later sibling at that level is still to come.
func renderDepthTree(records []value.Value) string {
	depths := make([]int, len(records))
	for i, rec := range records {
		depths[i] = depthOf(rec)
	}

	lastAt := map[int]bool{}
	lines := make([]string, len(records))
	for i, rec := range records {
		d := depths[i]
		label := displayLabel(rec)
		if d == 0 {
			lines[i] = label
			clear(lastAt)
			continue
		}

		last := isLastSibling(depths, i)
		var b strings.Builder
		for level := 1; level < d; level++ {
			if lastAt[level] {
				b.WriteString("   ")
			} else {
				b.WriteString("│  ")
			}
		}
		if last {
			b.WriteString("└─ ")
		} else {
			b.WriteString("├─ ")
		}
		b.WriteString(label)
		lines[i] = strings.TrimRight(b.String(), " ")

		lastAt[d] = last
		for level := range lastAt {
			if level > d {
				delete(lastAt, level)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func isLastSibling(depths []int, i int) bool {
	d := depths[i]
	for _, dj := range depths[i+1:] {
		if dj < d {
			return true
		}
		if dj == d {
			return false
		}
	}
	return true
}

type treeNode struct {
	label    string
	children []treeNode
}

func buildTreeNode(rec value.Value) treeNode {
	n := treeNode{label: displayLabel(rec)}
	m, ok := rec.(*value.Map)
	if !ok {
		return n
	}
	if children, ok := m.Get("children"); ok {
		if list, ok := children.(value.List); ok {
			for _, c := range list {
				n.children = append(n.children, buildTreeNode(c))
			}
		}
	}
	return n
}

func writeTreeNodes(lines *[]string, nodes []treeNode, prefix string) {
	for i, n := range nodes {
		connector, next := "├─ ", prefix+"│  "
		if i == len(nodes)-1 {
			connector, next = "└─ ", prefix+"   "
		}
		*lines = append(*lines, strings.TrimRight(prefix+connector+n.label, " "))
		writeTreeNodes(lines, n.children, next)
	}
}
