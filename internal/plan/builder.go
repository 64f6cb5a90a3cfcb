package plan

import (
	"github.com/alexisbeaulieu97/runbookmd/internal/directive"
)

// Build computes a Plan from tasks, in definition order. deps(id) supplies
// each task's fully-resolved dependency list (explicit deps merged with
// implicit regex-injected deps, see ImplicitDepsResolver.Resolve); Build itself only
// handles edge construction, missing-dep partitioning, and Kahn layering.
func Build(tasks []*directive.TaskCell, deps func(id string) []string) *Plan {
	p := &Plan{
		ByID:        make(map[string]*directive.TaskCell, len(tasks)),
		Adjacency:   make(map[string][]string, len(tasks)),
		Indegree:    make(map[string]int, len(tasks)),
		MissingDeps: make(map[string][]string),
	}

	rank := make(map[string]int, len(tasks))
	for i, t := range tasks {
		id := t.TaskID()
		p.IDs = append(p.IDs, id)
		p.ByID[id] = t
		rank[id] = i
		p.Indegree[id] = 0
	}

	for _, t := range tasks {
		id := t.TaskID()
		for _, dep := range deps(id) {
			if _, ok := p.ByID[dep]; !ok {
				p.MissingDeps[id] = append(p.MissingDeps[id], dep)
				continue
			}
			p.Edges = append(p.Edges, Edge{From: dep, To: id})
			p.Adjacency[dep] = append(p.Adjacency[dep], id)
			p.Indegree[id]++
		}
	}

	p.Layers, p.DAG, p.Unresolved = kahn(p.IDs, p.Adjacency, p.Indegree, rank)
	return p
}

// kahn runs Kahn's algorithm over a copy of indegree, returning waves
// (layers), their concatenation (dag), and ids that never reached zero
// indegree (unresolved — a cycle or unmet chain). Within each wave, ids are
// ordered by their original definition rank.
func kahn(ids []string, adjacency map[string][]string, indegree map[string]int, rank map[string]int) (layers [][]string, dag []string, unresolved []string) {
	working := make(map[string]int, len(indegree))
	for id, d := range indegree {
		working[id] = d
	}

	var queue []string
	for _, id := range ids {
		if working[id] == 0 {
			queue = append(queue, id)
		}
	}
	sortByRank(queue, rank)

	processed := make(map[string]bool, len(ids))

	for len(queue) > 0 {
		wave := append([]string(nil), queue...)
		layers = append(layers, wave)
		dag = append(dag, wave...)

		var next []string
		for _, id := range wave {
			processed[id] = true
			for _, successor := range adjacency[id] {
				working[successor]--
				if working[successor] == 0 {
					next = append(next, successor)
				}
			}
		}
		sortByRank(next, rank)
		queue = next
	}

	for _, id := range ids {
		if !processed[id] {
			unresolved = append(unresolved, id)
		}
	}

	return layers, dag, unresolved
}

func sortByRank(ids []string, rank map[string]int) {
	// insertion sort: typical wave sizes are small and this keeps the
	// comparison explicit about what "definition rank" means here.
	for i := 1; i < len(ids); i++ {
		j := i
		for j > 0 && rank[ids[j-1]] > rank[ids[j]] {
			ids[j-1], ids[j] = ids[j], ids[j-1]
			j--
		}
	}
}
