package runbookexec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/runbookmd/internal/fenceinfo"
	"github.com/alexisbeaulieu97/runbookmd/internal/ports"
	"github.com/alexisbeaulieu97/runbookmd/pkg/diff"
)

// CapturedExec is the recorded outcome of a capture-enabled task, addressable
// by later tasks' interpolation under the capture instruction it was stored
// as.
type CapturedExec struct {
	TaskID string
	Ctx    TaskContext
	Result Result
	// Source is the interpolated task source, returned by Text() when the
	// task carried no shell source of its own (a CONTENT directive). No JSON
	// accessor is provided.
	Source string
}

// Text returns the captured stdout, or Source when the task produced no
// process output.
func (c CapturedExec) Text() string {
	if c.Result.Stdout != "" {
		return c.Result.Stdout
	}
	return c.Source
}

// CaptureMap holds captures for the duration of a single run, keyed by
// capture instruction. It is owned by the executor and mutated only from the
// executor's serial loop.
type CaptureMap struct {
	entries map[string]CapturedExec
}

// NewCaptureMap returns an empty capture map.
func NewCaptureMap() *CaptureMap {
	return &CaptureMap{entries: make(map[string]CapturedExec)}
}

// Get looks up a capture by instruction name.
func (m *CaptureMap) Get(name string) (CapturedExec, bool) {
	c, ok := m.entries[name]
	return c, ok
}

// Instructions normalizes a --capture flag's raw string/list values into a
// list of capture instructions. Callers pass nil/empty when the flag was
// present only as a bare boolean, which becomes a single instruction
// matching taskID.
func Instructions(raw []string, taskID string) []string {
	if len(raw) == 0 {
		return []string{taskID}
	}
	return raw
}

// CaptureInstructions normalizes a task's --capture/-C flag into a list of
// capture instructions per the boolean-vs-value disposition: a bare boolean
// presence (Kind == FlagKindBool) becomes a single instruction matching
// taskID; string or list values are used as given.
func CaptureInstructions(flags map[string][]fenceinfo.FlagValue, taskID string) []string {
	var values []string
	for _, name := range []string{"capture", "C"} {
		for _, v := range flags[name] {
			if v.Kind == fenceinfo.FlagKindBool {
				continue
			}
			values = append(values, v.String)
		}
	}
	return Instructions(values, taskID)
}

// Apply stores exec into the capture map for each instruction: a "./path"
// instruction writes text to that file (diagnosing an overwrite via a
// unified diff before replacing differing content), anything else is stored
// in the map under that name for later interpolation.
func (m *CaptureMap) Apply(ctx context.Context, logger ports.Logger, instructions []string, exec CapturedExec, gitignore *GitignoreSink) error {
	for _, ci := range instructions {
		if strings.HasPrefix(ci, "./") {
			if err := writeCaptureFile(ctx, logger, ci, exec.Text()); err != nil {
				return err
			}
			if gitignore != nil {
				if err := gitignore.Add(ci); err != nil {
					return err
				}
			}
			continue
		}
		m.entries[ci] = exec
	}
	return nil
}

func writeCaptureFile(ctx context.Context, logger ports.Logger, path string, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	if existing, err := os.ReadFile(path); err == nil {
		if string(existing) != text && logger != nil {
			unified := diff.GenerateUnifiedDiff(existing, []byte(text), path+" (existing)", path+" (new)")
			logger.Debug(ctx, "capture overwrites existing file", "path", path, "diff", unified)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("capture %s: %w", path, err)
		}
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("capture %s: %w", path, err)
	}
	return nil
}

// GitignoreSink appends capture paths to a .gitignore file, one entry per
// path, skipping paths already present.
type GitignoreSink struct {
	Path  string
	Label string
}

// Add appends path to the sink's .gitignore file unless already listed.
func (g *GitignoreSink) Add(path string) error {
	existing, _ := os.ReadFile(g.Path)
	lines := strings.Split(string(existing), "\n")
	for _, l := range lines {
		listed := strings.TrimSpace(l)
		if i := strings.Index(listed, " # "); i >= 0 {
			listed = listed[:i]
		}
		if listed == path {
			return nil
		}
	}

	f, err := os.OpenFile(g.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", g.Path, err)
	}
	defer f.Close()

	entry := path
	if g.Label != "" {
		entry = fmt.Sprintf("%s # %s", path, g.Label)
	}
	if _, err := fmt.Fprintln(f, entry); err != nil {
		return fmt.Errorf("write %s: %w", g.Path, err)
	}
	return nil
}
