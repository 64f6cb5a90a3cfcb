package runbookexec

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/alexisbeaulieu97/runbookmd/internal/partials"
)

const (
	delimOpen  = "${{"
	delimClose = "}}"
)

// InterpResult discriminates the outcome of interpolating a source.
type InterpResult struct {
	Kind InterpKind
	Text string
	Err  error
}

// InterpKind is the interpolation return discriminant.
type InterpKind int

const (
	// Unmodified means no delimiters were present, or --interpolate wasn't set.
	Unmodified InterpKind = iota
	// Mutated means the source was rewritten.
	Mutated
	// Failed means an expression failed to compile or evaluate.
	Failed
)

// Env is the expression environment exposed to `${{ ... }}` interpolations.
type Env struct {
	Ctx      TaskContext
	Captured map[string]CapturedExec
}

// Interpolator compiles and caches expr programs per fence identity, and
// resolves partial(...) calls against a shared registry.
type Interpolator struct {
	registry *partials.Registry

	mu    sync.Mutex
	cache map[string]*vm.Program
}

// NewInterpolator returns an interpolator backed by registry for partial()
// resolution.
func NewInterpolator(registry *partials.Registry) *Interpolator {
	return &Interpolator{registry: registry, cache: make(map[string]*vm.Program)}
}

// Interpolate renders every `${{ expression }}` segment in source against
// env, caching each segment's compiled program under fenceID plus its
// position so repeated runs of the same fence reuse compilation.
func (in *Interpolator) Interpolate(fenceID string, source string, env Env) InterpResult {
	if !strings.Contains(source, delimOpen) {
		return InterpResult{Kind: Unmodified, Text: source}
	}

	var out strings.Builder
	rest := source
	offset := 0
	mutated := false

	for {
		start := strings.Index(rest, delimOpen)
		if start < 0 {
			out.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], delimClose)
		if end < 0 {
			out.WriteString(rest)
			break
		}
		end += start

		out.WriteString(rest[:start])
		exprSource := strings.TrimSpace(rest[start+len(delimOpen) : end])

		cacheKey := fmt.Sprintf("%s:%d", fenceID, offset+start)
		value, err := in.eval(cacheKey, exprSource, env)
		if err != nil {
			return InterpResult{Kind: Failed, Err: fmt.Errorf("interpolate %q: %w", exprSource, err)}
		}
		out.WriteString(value)
		mutated = true

		rest = rest[end+len(delimClose):]
		offset += end + len(delimClose)
	}

	if !mutated {
		return InterpResult{Kind: Unmodified, Text: source}
	}
	return InterpResult{Kind: Mutated, Text: out.String()}
}

func (in *Interpolator) eval(cacheKey, source string, env Env) (string, error) {
	options := []expr.Option{
		expr.Env(map[string]interface{}{}),
		expr.AllowUndefinedVariables(),
		expr.Function("partial", in.partialFunc(env)),
	}

	in.mu.Lock()
	program, ok := in.cache[cacheKey]
	in.mu.Unlock()

	if !ok {
		compiled, err := expr.Compile(source, options...)
		if err != nil {
			return "", err
		}
		in.mu.Lock()
		in.cache[cacheKey] = compiled
		in.mu.Unlock()
		program = compiled
	}

	runtimeEnv := map[string]interface{}{
		"ctx":      envCtx(env.Ctx),
		"captured": env.Captured,
	}
	result, err := expr.Run(program, runtimeEnv)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(result), nil
}

func envCtx(ctx TaskContext) map[string]interface{} {
	return map[string]interface{}{
		"taskId":     ctx.TaskID,
		"provenance": ctx.Provenance,
		"workDir":    ctx.WorkDir,
		"attrs":      ctx.Attrs,
		"env":        ctx.Env,
	}
}

// partialFunc returns the partial(name, locals?) builtin: it resolves name
// from the registry, renders with merged locals, and recursively
// interpolates the result when the partial asked to be interpolated.
func (in *Interpolator) partialFunc(env Env) func(args ...interface{}) (interface{}, error) {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("partial() requires a name argument")
		}
		name, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("partial() name must be a string")
		}

		locals := map[string]interface{}{}
		if len(args) > 1 {
			if m, ok := args[1].(map[string]interface{}); ok {
				locals = m
			}
		}

		p, found := in.registry.Get(name)
		if !found {
			return nil, fmt.Errorf("partial %q not found", name)
		}

		rendered := p.Render(locals)
		if !rendered.Interpolate {
			return rendered.Content, nil
		}

		result := in.Interpolate(name, rendered.Content, env)
		if result.Kind == Failed {
			return nil, result.Err
		}
		return result.Text, nil
	}
}
