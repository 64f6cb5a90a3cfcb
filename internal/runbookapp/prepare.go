// Package runbookapp orchestrates the pipeline from source paths to a ready
// Plan and back to a completed Run, the way the teacher's
// application/pipeline use cases sit between its CLI and domain packages.
package runbookapp

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alexisbeaulieu97/runbookmd/internal/directive"
	"github.com/alexisbeaulieu97/runbookmd/internal/fenceinfo"
	"github.com/alexisbeaulieu97/runbookmd/internal/markdown"
	"github.com/alexisbeaulieu97/runbookmd/internal/partials"
	"github.com/alexisbeaulieu97/runbookmd/internal/partialsrepo"
	"github.com/alexisbeaulieu97/runbookmd/internal/plan"
	"github.com/alexisbeaulieu97/runbookmd/internal/ports"
	"github.com/alexisbeaulieu97/runbookmd/internal/settings"
)

// Prepared is the result of loading and planning one or more runbook
// documents: the classified task list, the partials registry they were
// parsed against, the resulting Plan, and any issues recorded along the way.
type Prepared struct {
	Documents   []*markdown.Document
	Registry    *partials.Registry
	Tasks       []*directive.TaskCell
	Plan        *plan.Plan
	Issues      []directive.Issue
	RegexIssues []plan.RegexIssue
}

// PrepareUseCase loads runbook sources, classifies their fences, and builds
// the execution plan.
type PrepareUseCase struct {
	logger   ports.Logger
	events   ports.EventPublisher
	settings settings.RunbookSettings
}

// NewPrepareUseCase constructs a PrepareUseCase.
func NewPrepareUseCase(logger ports.Logger, events ports.EventPublisher, s settings.RunbookSettings) *PrepareUseCase {
	return &PrepareUseCase{logger: logger, events: events, settings: s}
}

// Prepare resolves paths (falling back to u.settings.DefaultPaths, then
// stdin) and builds a Prepared plan from their fences. When
// u.settings.PartialsRepo is set, it is synced first and every .md file in
// the checkout is parsed for PARTIAL fences before the primary paths.
func (u *PrepareUseCase) Prepare(ctx context.Context, paths []string) (*Prepared, error) {
	registry := partials.NewRegistry()

	if u.settings.PartialsRepo != "" {
		cacheDir, err := partialsRepoCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve partials cache dir: %w", err)
		}
		checkout, err := partialsrepo.Resolve(ctx, u.settings.PartialsRepo, cacheDir)
		if err != nil {
			return nil, fmt.Errorf("sync partials repo: %w", err)
		}
		if err := u.registerPartialsFromDir(checkout, registry); err != nil {
			return nil, err
		}
	}

	resolved, err := u.resolvePaths(paths)
	if err != nil {
		return nil, err
	}

	prepared := &Prepared{Registry: registry}

	policy := directive.DefaultPolicy()
	pipeline := directive.NewDefaultPipeline(u.settings.SpawnableLanguages, true, policy)

	var tasks []*directive.TaskCell
	for _, path := range resolved {
		source, err := readSource(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		doc, err := markdown.Parse(path, source)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		prepared.Documents = append(prepared.Documents, doc)

		for _, fence := range doc.Fences {
			cell := cellFromFence(path, fence)
			result := pipeline.Run(&cell, registry)
			prepared.Issues = append(prepared.Issues, result.Issues...)
			if result.TaskCell != nil {
				tasks = append(tasks, result.TaskCell)
			}
		}
	}

	resolver := plan.NewImplicitDepsResolver(tasks)
	prepared.Plan = plan.Build(tasks, resolver.Resolve)
	prepared.RegexIssues = resolver.Issues()
	prepared.Tasks = tasks

	if u.logger != nil {
		u.logger.Info(ctx, "prepared runbook plan",
			"paths", resolved, "task_count", len(tasks), "issue_count", len(prepared.Issues))
	}

	return prepared, nil
}

// registerPartialsFromDir parses every .md file under dir and registers any
// PARTIAL fences it contains, ignoring TASK/CONTENT fences (a partials
// bundle is not itself executable).
func (u *PrepareUseCase) registerPartialsFromDir(dir string, registry *partials.Registry) error {
	policy := directive.InspectorPolicy{OnUnknown: directive.PolicyWarn}
	pipeline := directive.NewDefaultPipeline(u.settings.SpawnableLanguages, false, policy)

	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read partial bundle file %s: %w", path, err)
		}
		doc, err := markdown.Parse(path, source)
		if err != nil {
			return fmt.Errorf("parse partial bundle file %s: %w", path, err)
		}
		for _, fence := range doc.Fences {
			cell := cellFromFence(path, fence)
			pipeline.Run(&cell, registry)
		}
		return nil
	})
}

// resolvePaths applies spec.md §6's default-path fallback: explicit paths
// win, else the configured DefaultPaths, else stdin ("-").
func (u *PrepareUseCase) resolvePaths(paths []string) ([]string, error) {
	if len(paths) > 0 {
		return paths, nil
	}
	for _, candidate := range u.settings.DefaultPaths {
		if _, err := os.Stat(candidate); err == nil {
			return []string{candidate}, nil
		}
	}
	return []string{"-"}, nil
}

func readSource(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func cellFromFence(provenance string, fence markdown.Fence) directive.Cell {
	info, _ := fenceinfo.Parse(fence.Info, fenceinfo.Options{
		CoerceNumbers:     true,
		OnAttrsParseError: fenceinfo.AttrsIgnore,
		Provenance:        fmt.Sprintf("%s:%d", provenance, fence.StartLine),
	})
	return directive.Cell{
		Provenance: provenance,
		StartLine:  fence.StartLine,
		EndLine:    fence.EndLine,
		Language:   fence.Language,
		Body:       fence.Body,
		Info:       info,
		Heading:    fence.Heading,
	}
}

func partialsRepoCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "runbookmd", "partials"), nil
}

// sortedKeys returns m's keys in sorted order.
func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
