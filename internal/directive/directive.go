// Package directive classifies a fence (an annotated Markdown code block)
// into a TASK, CONTENT, or PARTIAL directive via an ordered, pluggable chain
// of inspectors.
package directive

import (
	"github.com/alexisbeaulieu97/runbookmd/internal/fenceinfo"
	"github.com/alexisbeaulieu97/runbookmd/internal/partials"
)

// Nature discriminates a Directive's kind.
type Nature int

const (
	NatureTask Nature = iota
	NatureContent
	NaturePartial
)

// Directive is the classified meaning of a fence.
type Directive struct {
	Nature   Nature
	Identity string
	Source   string
	Language string
	Deps     []string

	// Content is populated only for NatureContent directives, mirroring the
	// TASK shape but marked as non-executable narrative text.
	Content map[string]interface{}

	// Partial is populated only for NaturePartial directives.
	Partial *partials.Partial
	// Injectable is populated instead of Partial when the PARTIAL fence
	// carried an --inject glob, making it a wrapper rather than a plain
	// fragment.
	Injectable *partials.Injectable
}

// Cell is a single fence: its tokenized info string, body, and source
// position within the originating document.
type Cell struct {
	Provenance string
	StartLine  int
	EndLine    int
	Language   string
	Body       string
	Info       fenceinfo.FenceInfo
	// Heading is the nearest preceding Markdown heading, used as a
	// human-readable description when no explicit one is given.
	Heading string
}

// TaskCell pairs a Cell with the Directive it was classified into. Only
// NatureTask and NatureContent cells are scheduled; NaturePartial cells are
// registered into the partials registry instead (see Pipeline.Run).
type TaskCell struct {
	Cell      Cell
	Directive Directive

	depsCache []string
}

// TaskID returns the directive's identity.
func (t *TaskCell) TaskID() string {
	return t.Directive.Identity
}

// ExplicitDeps returns the directive's declared dependency identities,
// deduplicated and order-preserving. Implicit (regex-injected) deps are
// merged in by the DAG planner, which has visibility across the whole task
// set; see internal/plan.
func (t *TaskCell) ExplicitDeps() []string {
	if t.depsCache != nil {
		return t.depsCache
	}
	seen := make(map[string]struct{}, len(t.Directive.Deps))
	out := make([]string, 0, len(t.Directive.Deps))
	for _, d := range t.Directive.Deps {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	t.depsCache = out
	return out
}
