// Package partials implements the reusable-content registry: named
// fragments renderable with locals, plus glob-matched injectables that wrap
// content written to files matching their patterns.
package partials

import (
	"fmt"

	runbookerrors "github.com/alexisbeaulieu97/runbookmd/pkg/errors"
)

// Rendered is the output of rendering a Partial or composing an Injectable.
type Rendered struct {
	Content     string
	Interpolate bool
	Locals      map[string]interface{}
}

// ArgSchema describes the expected shape of a partial's locals, e.g.
// `{title: {type: "string"}}` from a fence's attrs block.
type ArgSchema map[string]ArgSpec

// ArgSpec is one field's constraint within an ArgSchema.
type ArgSpec struct {
	Type     string // "string", "number", "boolean"
	Required bool
}

// Partial is a reusable content fragment, addressed by Identity and rendered
// against caller-supplied locals.
type Partial struct {
	Identity string
	Schema   ArgSchema
	Body     string
}

// Render validates locals against the partial's schema (if any) and returns
// its rendered content. On schema validation failure it returns a
// diagnostic string with Interpolate=false rather than an error, per the
// partial-args-invalid disposition.
func (p *Partial) Render(locals map[string]interface{}) Rendered {
	if err := p.Schema.Validate(locals); err != nil {
		return Rendered{
			Content:     fmt.Sprintf("Invalid arguments passed to partial '%s': %v", p.Identity, err),
			Interpolate: false,
			Locals:      locals,
		}
	}
	return Rendered{Content: p.Body, Interpolate: true, Locals: locals}
}

// Validate checks locals against the schema. A nil/empty schema always
// succeeds.
func (s ArgSchema) Validate(locals map[string]interface{}) error {
	for key, spec := range s {
		v, ok := locals[key]
		if !ok {
			if spec.Required {
				return runbookerrors.NewPartialArgsInvalidError("", fmt.Errorf("missing required arg %q", key))
			}
			continue
		}
		if !typeMatches(spec.Type, v) {
			return fmt.Errorf("arg %q must be of type %s", key, spec.Type)
		}
	}
	return nil
}

func typeMatches(want string, v interface{}) bool {
	switch want {
	case "", "any":
		return true
	case "string":
		_, ok := v.(string)
		return ok
	case "number":
		switch v.(type) {
		case float64, int, int64:
			return true
		}
		return false
	case "boolean":
		_, ok := v.(bool)
		return ok
	default:
		return true
	}
}
