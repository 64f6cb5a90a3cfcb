package plan

import "github.com/alexisbeaulieu97/runbookmd/internal/directive"

// Subplan computes the ancestor closure of targets over p's edges — targets
// themselves plus every transitive dependency — and re-runs Kahn over the
// restricted snapshot so a single-task invocation only schedules what that
// task actually needs.
func Subplan(p *Plan, targets []string) *Plan {
	include := make(map[string]bool, len(targets))
	var walk func(id string)
	walk = func(id string) {
		if include[id] {
			return
		}
		include[id] = true
		for _, dep := range p.predecessors(id) {
			walk(dep)
		}
	}
	for _, id := range targets {
		walk(id)
	}

	sub := &Plan{
		ByID:        make(map[string]*directive.TaskCell),
		Adjacency:   make(map[string][]string),
		Indegree:    make(map[string]int),
		MissingDeps: make(map[string][]string),
	}
	for id, t := range p.ByID {
		if include[id] {
			sub.ByID[id] = t
		}
	}

	rank := make(map[string]int, len(p.IDs))
	for i, id := range p.IDs {
		if !include[id] {
			continue
		}
		sub.IDs = append(sub.IDs, id)
		rank[id] = i
		sub.Indegree[id] = 0
	}

	for _, e := range p.Edges {
		if !include[e.From] || !include[e.To] {
			continue
		}
		sub.Edges = append(sub.Edges, e)
		sub.Adjacency[e.From] = append(sub.Adjacency[e.From], e.To)
		sub.Indegree[e.To]++
	}

	for id, missing := range p.MissingDeps {
		if include[id] {
			sub.MissingDeps[id] = missing
		}
	}

	sub.Layers, sub.DAG, sub.Unresolved = kahn(sub.IDs, sub.Adjacency, sub.Indegree, rank)
	return sub
}

// predecessors returns the ids that id directly depends on.
func (p *Plan) predecessors(id string) []string {
	var deps []string
	for _, e := range p.Edges {
		if e.To == id {
			deps = append(deps, e.From)
		}
	}
	return deps
}
