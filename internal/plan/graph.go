// Package plan computes the deterministic scheduling artifact (a Plan) from
// a task list: edges, Kahn layering, missing-dep and cycle diagnostics, and
// implicit-dep regex resolution.
package plan

import (
	"github.com/alexisbeaulieu97/runbookmd/internal/directive"
)

// Plan is a pure function of a task list: stable ids, adjacency, layering,
// and structural diagnostics. Planning never fails for user data; missing
// deps and cycles are surfaced as data, not errors.
type Plan struct {
	IDs         []string
	ByID        map[string]*directive.TaskCell
	Edges       []Edge
	Adjacency   map[string][]string
	Indegree    map[string]int
	MissingDeps map[string][]string
	Layers      [][]string
	DAG         []string
	Unresolved  []string
}

// Edge is a dep -> task relationship.
type Edge struct {
	From string // dependency
	To   string // dependent
}

// RegexIssue records an --injected-dep/--implicit-dep pattern that failed
// to compile.
type RegexIssue struct {
	TaskID  string
	Pattern string
	Err     error
}
