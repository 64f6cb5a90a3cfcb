package partials

import (
	"fmt"
	"sync"
)

// DuplicatePolicy controls Register's behavior when an identity is already
// present.
type DuplicatePolicy int

const (
	DuplicateOverwrite DuplicatePolicy = iota
	DuplicateIgnore
	DuplicateThrow
)

// Registry is a process-wide-within-a-run store of Partials and Injectables,
// mutated only during parsing and treated as read-only once execution
// begins (see the scheduling model's ownership rules).
type Registry struct {
	mu          sync.RWMutex
	partials    map[string]*Partial
	injectables []*Injectable
	order       int
	regOrder    map[string]int
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		partials: make(map[string]*Partial),
		regOrder: make(map[string]int),
	}
}

// Register adds p (or, via RegisterInjectable, an injectable) under the
// supplied duplicate policy. The default policy, when onDuplicate is
// omitted by passing DuplicateOverwrite, replaces any existing entry.
func (r *Registry) Register(p *Partial, onDuplicate DuplicatePolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.partials[p.Identity]; exists {
		switch onDuplicate {
		case DuplicateIgnore:
			return nil
		case DuplicateThrow:
			return fmt.Errorf("partial %q already registered", p.Identity)
		}
	}
	r.partials[p.Identity] = p
	r.regOrder[p.Identity] = r.nextOrder()
	return nil
}

// RegisterInjectable adds inj to both the partial map (for Get) and the
// glob index (for FindInjectableForPath), rebuilding the glob index on
// duplicate per the same policy as Register.
func (r *Registry) RegisterInjectable(inj *Injectable, onDuplicate DuplicatePolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.partials[inj.Identity]; exists {
		switch onDuplicate {
		case DuplicateIgnore:
			return nil
		case DuplicateThrow:
			return fmt.Errorf("partial %q already registered", inj.Identity)
		}
		// Overwrite: drop the stale injectable entry before re-adding.
		filtered := r.injectables[:0]
		for _, existing := range r.injectables {
			if existing.Identity != inj.Identity {
				filtered = append(filtered, existing)
			}
		}
		r.injectables = filtered
	}

	r.partials[inj.Identity] = &inj.Partial
	r.regOrder[inj.Identity] = r.nextOrder()
	r.injectables = append(r.injectables, inj)
	return nil
}

func (r *Registry) nextOrder() int {
	r.order++
	return r.order
}

// Get returns the partial registered under identity, if any.
func (r *Registry) Get(identity string) (*Partial, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.partials[identity]
	return p, ok
}

// FindInjectableForPath returns the injectable whose globs best match path,
// ranked by fewer wildcards first, then longer literal pattern length, then
// registration order.
func (r *Registry) FindInjectableForPath(path string) (*Injectable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Injectable
	var bestWildcards, bestLength, bestOrder int
	found := false

	for _, inj := range r.injectables {
		wildcards, length, ok := inj.specificity(path)
		if !ok {
			continue
		}
		order := r.regOrder[inj.Identity]
		if !found ||
			wildcards < bestWildcards ||
			(wildcards == bestWildcards && length > bestLength) ||
			(wildcards == bestWildcards && length == bestLength && order < bestOrder) {
			found = true
			best = inj
			bestWildcards = wildcards
			bestLength = length
			bestOrder = order
		}
	}
	return best, found
}

// ComposeInput is the content being composed against a potential injectable
// wrapper.
type ComposeInput struct {
	Content     string
	Interpolate bool
	Locals      map[string]interface{}
}

// OnComposeError is invoked when an injectable wrapper panics during
// rendering; when absent, Compose embeds a diagnostic string instead.
type OnComposeError func(msg, content string, err error)

// Compose wraps in.Content with the injectable matching path, if any. When
// no injectable matches, in is returned unchanged.
func (r *Registry) Compose(in ComposeInput, path string, onError OnComposeError) (out ComposeInput) {
	inj, ok := r.FindInjectableForPath(path)
	if !ok {
		return in
	}

	out = in
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("injectable %q panicked: %v", inj.Identity, rec)
				if onError != nil {
					onError(err.Error(), in.Content, err)
				} else {
					out.Content = fmt.Sprintf("%s\n<!-- injectable %q failed: %v -->", in.Content, inj.Identity, err)
				}
				out.Interpolate = false
			}
		}()

		rendered := inj.Render(in.Locals)
		if !rendered.Interpolate {
			out.Content = in.Content
			out.Locals = in.Locals
			out.Interpolate = false
			return
		}
		out.Content = inj.Merge(rendered.Content, in.Content)
	}()

	return out
}
