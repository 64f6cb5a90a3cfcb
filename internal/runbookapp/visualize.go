package runbookapp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/alexisbeaulieu97/runbookmd/internal/plan"
)

// ASCIITree renders p's outgoing edges per source id, using branch glyphs
// for the last child of a node versus missing dependencies.
func ASCIITree(p *plan.Plan) string {
	var b strings.Builder
	for _, id := range p.IDs {
		children := append([]string(nil), p.Adjacency[id]...)
		sort.Strings(children)
		missing := append([]string(nil), p.MissingDeps[id]...)

		fmt.Fprintf(&b, "%s\n", id)
		total := len(children) + len(missing)
		i := 0
		for _, child := range children {
			glyph := "├─▶"
			if i == total-1 {
				glyph = "└─▶"
			}
			fmt.Fprintf(&b, "  %s %s\n", glyph, child)
			i++
		}
		for _, dep := range missing {
			glyph := "─x▶"
			fmt.Fprintf(&b, "  %s %s (missing)\n", glyph, dep)
			i++
		}
	}
	return b.String()
}

// ASCIIWorkflow renders p's Kahn layers as phases, annotating each id with
// its deps, missing deps, and fan-out count.
func ASCIIWorkflow(p *plan.Plan) string {
	var b strings.Builder
	for phase, layer := range p.Layers {
		fmt.Fprintf(&b, "== Phase %d (parallel: %d) ==\n", phase+1, len(layer))
		for _, id := range layer {
			deps := dependenciesOf(p, id)
			missing := p.MissingDeps[id]
			fanOut := len(p.Adjacency[id])
			fmt.Fprintf(&b, "  %s deps=%v missing=%v fan-out=%d\n", id, deps, missing, fanOut)
		}
	}
	return b.String()
}

// ASCIIFlowchart renders each of p's Kahn layers as one row of cells joined
// by " | ", with a "->" row between consecutive layers; tasks are not grouped
// into per-root lanes. Cells are padded with go-runewidth so multi-byte task
// identities still line up.
func ASCIIFlowchart(p *plan.Plan) string {
	width := 0
	for _, id := range p.IDs {
		if w := runewidth.StringWidth(id); w > width {
			width = w
		}
	}

	var b strings.Builder
	for _, layer := range p.Layers {
		cells := make([]string, 0, len(layer))
		for _, id := range layer {
			cells = append(cells, runewidth.FillRight(id, width))
		}
		fmt.Fprintf(&b, "%s\n", strings.Join(cells, " | "))
	}
	if len(p.Layers) > 1 {
		// connect phases with an arrow row between each pair
		var withArrows strings.Builder
		lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
		for i, line := range lines {
			withArrows.WriteString(line)
			withArrows.WriteByte('\n')
			if i < len(lines)-1 {
				withArrows.WriteString(runewidth.FillRight("->", width))
				withArrows.WriteByte('\n')
			}
		}
		return withArrows.String()
	}
	return b.String()
}

// MermaidJS renders p as a Mermaid `graph TD` document: solid edges for
// explicit/resolved dependencies, dashed edges for missing ones.
func MermaidJS(p *plan.Plan) string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	for _, id := range p.IDs {
		fmt.Fprintf(&b, "  %s[%q]\n", mermaidID(id), id)
	}
	for _, e := range p.Edges {
		fmt.Fprintf(&b, "  %s --> %s\n", mermaidID(e.From), mermaidID(e.To))
	}
	for id, missing := range p.MissingDeps {
		for _, dep := range missing {
			fmt.Fprintf(&b, "  %s -.->|missing| %s\n", mermaidID(dep), mermaidID(id))
		}
	}
	return b.String()
}

func mermaidID(id string) string {
	replacer := strings.NewReplacer(" ", "_", "-", "_", ".", "_", "/", "_")
	return "n_" + replacer.Replace(id)
}

func dependenciesOf(p *plan.Plan, id string) []string {
	var deps []string
	for _, e := range p.Edges {
		if e.To == id {
			deps = append(deps, e.From)
		}
	}
	sort.Strings(deps)
	return deps
}
