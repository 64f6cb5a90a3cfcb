package plan

import (
	"regexp"

	"github.com/alexisbeaulieu97/runbookmd/internal/directive"
	"github.com/alexisbeaulieu97/runbookmd/internal/fenceinfo"
)

// ImplicitDepsResolver merges each task's explicit deps with implicit
// regex-injected deps declared by other tasks' --injected-dep/
// --implicit-dep flags, caching the merged result per task identity.
type ImplicitDepsResolver struct {
	tasks  []*directive.TaskCell
	byID   map[string]*directive.TaskCell
	cache  map[string][]string
	issues []RegexIssue
}

// NewImplicitDepsResolver prepares a resolver over tasks.
func NewImplicitDepsResolver(tasks []*directive.TaskCell) *ImplicitDepsResolver {
	byID := make(map[string]*directive.TaskCell, len(tasks))
	for _, t := range tasks {
		byID[t.TaskID()] = t
	}
	return &ImplicitDepsResolver{tasks: tasks, byID: byID, cache: make(map[string][]string)}
}

// Issues returns every regex that failed to compile while resolving deps.
func (r *ImplicitDepsResolver) Issues() []RegexIssue {
	return r.issues
}

// Resolve returns id's deps: implicit (regex-injected) deps first, then
// explicit deps, deduplicated preserving first occurrence. Results are
// cached per id.
func (r *ImplicitDepsResolver) Resolve(id string) []string {
	if cached, ok := r.cache[id]; ok {
		return cached
	}

	var implicit []string
	for _, other := range r.tasks {
		if other.TaskID() == id {
			continue
		}
		sources := implicitDepSources(other)
		if len(sources) == 0 {
			continue
		}
		for _, source := range sources {
			re, err := regexp.Compile(source)
			if err != nil {
				r.issues = append(r.issues, RegexIssue{TaskID: other.TaskID(), Pattern: source, Err: err})
				continue
			}
			if re.MatchString(id) {
				implicit = append(implicit, other.TaskID())
				break
			}
		}
	}

	task := r.byID[id]
	var explicit []string
	if task != nil {
		explicit = task.ExplicitDeps()
	}

	merged := dedupePreserveFirst(append(implicit, explicit...))
	r.cache[id] = merged
	return merged
}

// implicitDepSources reads a task's --injected-dep and --implicit-dep flags
// (synonyms, merged in declaration order with no precedence) and normalizes
// each to a regex source string.
func implicitDepSources(t *directive.TaskCell) []string {
	var sources []string
	for _, name := range []string{"injected-dep", "implicit-dep"} {
		raws := t.Cell.Info.GetFlagValues(name)
		for i, v := range t.Cell.Info.Flags[name] {
			// A bare boolean flag (no value) means "match everything".
			if v.Kind == fenceinfo.FlagKindBool {
				sources = append(sources, ".*")
				continue
			}
			sources = append(sources, normalizeRegexSource(raws[i]))
		}
	}
	return sources
}

func normalizeRegexSource(raw string) string {
	if raw == "*" {
		return ".*"
	}
	return raw
}

func dedupePreserveFirst(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
