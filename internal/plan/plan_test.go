package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/runbookmd/internal/directive"
	"github.com/alexisbeaulieu97/runbookmd/internal/fenceinfo"
)

func mustTask(id string, deps ...string) *directive.TaskCell {
	return &directive.TaskCell{
		Cell: directive.Cell{Provenance: "Runbook.md"},
		Directive: directive.Directive{
			Nature:   directive.NatureTask,
			Identity: id,
			Deps:     deps,
		},
	}
}

// withInjectedDep builds a task carrying an --injected-dep flag whose value
// is a regex matched against other tasks' ids.
func withInjectedDep(id string, pattern string) *directive.TaskCell {
	t := mustTask(id)
	t.Cell.Info = fenceinfo.FenceInfo{
		Flags: map[string][]fenceinfo.FlagValue{
			"injected-dep": {{Kind: fenceinfo.FlagKindString, String: pattern}},
		},
	}
	return t
}

func resolverDeps(tasks []*directive.TaskCell) func(string) []string {
	r := NewImplicitDepsResolver(tasks)
	return r.Resolve
}

func TestBuildLayersByDefinitionRank(t *testing.T) {
	tasks := []*directive.TaskCell{
		mustTask("c", "a", "b"),
		mustTask("a"),
		mustTask("b"),
	}
	p := Build(tasks, resolverDeps(tasks))

	require.Len(t, p.Layers, 2)
	require.Equal(t, []string{"a", "b"}, p.Layers[0])
	require.Equal(t, []string{"c"}, p.Layers[1])
	require.Equal(t, []string{"a", "b", "c"}, p.DAG)
	require.Empty(t, p.Unresolved)
}

func TestBuildDefinitionRankNotAlphabetical(t *testing.T) {
	tasks := []*directive.TaskCell{
		mustTask("zeta"),
		mustTask("alpha"),
	}
	p := Build(tasks, resolverDeps(tasks))

	require.Len(t, p.Layers, 1)
	require.Equal(t, []string{"zeta", "alpha"}, p.Layers[0])
}

func TestBuildMissingDepPartitioned(t *testing.T) {
	tasks := []*directive.TaskCell{
		mustTask("b", "a", "ghost"),
		mustTask("a"),
	}
	p := Build(tasks, resolverDeps(tasks))

	require.Equal(t, []string{"ghost"}, p.MissingDeps["b"])
	require.Len(t, p.Layers, 2)
	require.Equal(t, []string{"a"}, p.Layers[0])
	require.Equal(t, []string{"b"}, p.Layers[1])
}

func TestBuildDetectsCycle(t *testing.T) {
	tasks := []*directive.TaskCell{
		mustTask("a", "c"),
		mustTask("b", "a"),
		mustTask("c", "b"),
	}
	p := Build(tasks, resolverDeps(tasks))

	require.ElementsMatch(t, []string{"a", "b", "c"}, p.Unresolved)
	require.Empty(t, p.Layers)

	cycle := p.DetectCycle()
	require.ElementsMatch(t, []string{"a", "b", "c"}, cycle)
}

func TestDetectCycleEmptyWhenResolved(t *testing.T) {
	tasks := []*directive.TaskCell{mustTask("a")}
	p := Build(tasks, resolverDeps(tasks))
	require.Nil(t, p.DetectCycle())
}

func TestImplicitDepsResolverMatchesRegex(t *testing.T) {
	tasks := []*directive.TaskCell{
		mustTask("migrate-users"),
		mustTask("migrate-orders"),
		withInjectedDep("report", "^migrate-"),
	}

	r := NewImplicitDepsResolver(tasks)
	require.Equal(t, []string{"report"}, r.Resolve("migrate-users"))
	require.Equal(t, []string{"report"}, r.Resolve("migrate-orders"))
	require.Empty(t, r.Issues())
}

func TestImplicitDepsResolverRecordsBadRegex(t *testing.T) {
	tasks := []*directive.TaskCell{
		mustTask("migrate-users"),
		withInjectedDep("report", "("),
	}
	r := NewImplicitDepsResolver(tasks)
	r.Resolve("migrate-users")
	require.Len(t, r.Issues(), 1)
	require.Equal(t, "report", r.Issues()[0].TaskID)
}

func TestImplicitDepsMergeWithExplicit(t *testing.T) {
	tasks := []*directive.TaskCell{
		mustTask("setup"),
		mustTask("migrate-users", "setup"),
		withInjectedDep("report", "^migrate-"),
	}
	r := NewImplicitDepsResolver(tasks)
	resolved := r.Resolve("migrate-users")
	require.Equal(t, []string{"report", "setup"}, resolved)
}

func TestSubplanRestrictsToAncestors(t *testing.T) {
	tasks := []*directive.TaskCell{
		mustTask("d", "c"),
		mustTask("c", "a", "b"),
		mustTask("a"),
		mustTask("b"),
		mustTask("unrelated"),
	}
	p := Build(tasks, resolverDeps(tasks))

	sub := Subplan(p, []string{"c"})
	require.ElementsMatch(t, []string{"a", "b", "c"}, sub.IDs)
	require.NotContains(t, sub.IDs, "d")
	require.NotContains(t, sub.IDs, "unrelated")
	require.Equal(t, []string{"a", "b"}, sub.Layers[0])
	require.Equal(t, []string{"c"}, sub.Layers[1])
}
