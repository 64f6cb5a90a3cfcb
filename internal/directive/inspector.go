package directive

import (
	"strings"

	"github.com/alexisbeaulieu97/runbookmd/internal/partials"
	runbookerrors "github.com/alexisbeaulieu97/runbookmd/pkg/errors"
)

// Issue records a recognized-but-rejected or unrecognized fence. It carries
// the fence-issue taxonomy kind's contextual fields.
type Issue struct {
	Provenance string
	StartLine  int
	EndLine    int
	Message    string
	Err        error
}

// RegisterIssueFunc appends an Issue, deriving StartLine/EndLine/Provenance
// from the cell under inspection.
type RegisterIssueFunc func(message string, err error)

// Inspector examines a cell and either claims it (returning a Directive and
// true) or declines (false), in which case the pipeline tries the next
// inspector. An inspector must not mutate the cell beyond what Directive
// conveys, and may report issues via registerIssue without claiming the
// cell.
type Inspector func(cell *Cell, registerIssue RegisterIssueFunc) (Directive, bool)

// Pipeline is an ordered, short-circuiting chain of Inspectors.
type Pipeline struct {
	Inspectors []Inspector
	Policy     InspectorPolicy
}

// NewDefaultPipeline returns the pipeline's default chain: Partials inspector,
// Spawnable inspector, and (only when includeAnyNamedContent is true) the
// opt-in any-named-content catch-all.
func NewDefaultPipeline(spawnableLanguages []string, includeAnyNamedContent bool, policy InspectorPolicy) *Pipeline {
	inspectors := []Inspector{
		PartialsInspector(),
		SpawnableInspector(spawnableLanguages),
	}
	if includeAnyNamedContent {
		inspectors = append(inspectors, AnyNamedContentInspector())
	}
	return &Pipeline{Inspectors: inspectors, Policy: policy}
}

// Result is the outcome of running the pipeline over a single cell.
type Result struct {
	TaskCell *TaskCell // set when Directive.Nature is Task or Content
	Issues   []Issue
}

// Run classifies cell through the pipeline, registering the returned
// Partial (if any) into registry and returning a TaskCell for TASK/CONTENT
// directives. If no inspector claims the cell, p.Policy.OnUnknown decides:
// under PolicyStrict a fence-issue is recorded, under PolicyWarn nothing is.
func (p *Pipeline) Run(cell *Cell, registry *partials.Registry) Result {
	var result Result

	registerIssue := func(message string, err error) {
		result.Issues = append(result.Issues, Issue{
			Provenance: cell.Provenance,
			StartLine:  cell.StartLine,
			EndLine:    cell.EndLine,
			Message:    message,
			Err:        err,
		})
	}

	for _, inspect := range p.Inspectors {
		directive, claimed := inspect(cell, registerIssue)
		if !claimed {
			continue
		}

		switch directive.Nature {
		case NaturePartial:
			if directive.Injectable != nil {
				_ = registry.RegisterInjectable(directive.Injectable, partials.DuplicateOverwrite)
			} else if directive.Partial != nil {
				_ = registry.Register(directive.Partial, partials.DuplicateOverwrite)
			}
		default:
			result.TaskCell = &TaskCell{Cell: *cell, Directive: directive}
		}
		return result
	}

	if p.Policy.OnUnknown == PolicyStrict {
		registerIssue("unrecognized fence: no inspector claimed it",
			runbookerrors.NewFenceIssueError(cell.Provenance, cell.StartLine, cell.EndLine, nil))
	}
	return result
}

// PartialsInspector claims a fence whose first bare word (case-insensitive)
// is PARTIAL, constructing a Partial from the remaining tokens and the
// fence's body and attrs.
func PartialsInspector() Inspector {
	return func(cell *Cell, registerIssue RegisterIssueFunc) (Directive, bool) {
		first := cell.Info.GetFirstBareWord()
		if !strings.EqualFold(first, "PARTIAL") {
			return Directive{}, false
		}

		identity := cell.Info.GetBareWord(1)
		if identity == "" {
			registerIssue("PARTIAL fence missing identity", nil)
			return Directive{}, false
		}

		schema := schemaFromAttrs(cell.Info.Attrs)
		base := partials.Partial{Identity: identity, Body: cell.Body, Schema: schema}

		if globs := cell.Info.GetFlagValues("inject"); len(globs) > 0 {
			mode := partials.ModePrepend
			switch {
			case cell.Info.IsEnabled("append"):
				mode = partials.ModeAppend
			case cell.Info.IsEnabled("both"):
				mode = partials.ModeBoth
			}
			return Directive{
				Nature:     NaturePartial,
				Identity:   identity,
				Injectable: &partials.Injectable{Partial: base, Globs: globs, Mode: mode},
			}, true
		}

		return Directive{Nature: NaturePartial, Identity: identity, Partial: &base}, true
	}
}

func schemaFromAttrs(attrs map[string]interface{}) partials.ArgSchema {
	if len(attrs) == 0 {
		return nil
	}
	schema := make(partials.ArgSchema, len(attrs))
	for key, raw := range attrs {
		spec := partials.ArgSpec{Type: "any"}
		if m, ok := raw.(map[string]interface{}); ok {
			if t, ok := m["type"].(string); ok {
				spec.Type = t
			}
			if req, ok := m["required"].(bool); ok {
				spec.Required = req
			}
		}
		schema[key] = spec
	}
	return schema
}

// SpawnableInspector claims a fence whose language matches languages and
// whose info string has a leading bare word, emitting a TASK directive.
func SpawnableInspector(languages []string) Inspector {
	allow := toLowerSet(languages)
	return func(cell *Cell, registerIssue RegisterIssueFunc) (Directive, bool) {
		if !allow[strings.ToLower(cell.Language)] {
			return Directive{}, false
		}
		identity := cell.Info.GetFirstBareWord()
		if identity == "" {
			return Directive{}, false
		}
		return Directive{
			Nature:   NatureTask,
			Identity: identity,
			Source:   cell.Body,
			Language: cell.Language,
			Deps:     cell.Info.GetFlagValues("dep"),
		}, true
	}
}

// AnyNamedContentInspector is an opt-in catch-all: any fence with a leading
// bare word becomes CONTENT rather than being left unclaimed.
func AnyNamedContentInspector() Inspector {
	return func(cell *Cell, registerIssue RegisterIssueFunc) (Directive, bool) {
		identity := cell.Info.GetFirstBareWord()
		if identity == "" {
			return Directive{}, false
		}
		return Directive{
			Nature:   NatureContent,
			Identity: identity,
			Source:   cell.Body,
			Language: cell.Language,
			Deps:     cell.Info.GetFlagValues("dep"),
			Content:  map[string]interface{}{"text": cell.Body},
		}, true
	}
}

func toLowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = true
	}
	return set
}
