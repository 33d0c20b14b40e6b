package opc

import (
	"fmt"
	"sort"
)

// Override replaces registry metadata for one class; nil fields keep the portlet's own value
type Override struct {
	Title  *string `yaml:"title"`
	Group  *string `yaml:"group"`
	Active *bool   `yaml:"active"`
}

// Group is a named set of portlets for the editor palette
type Group struct {
	Name     string    `json:"name"`
	Portlets []Portlet `json:"-"`
}

// Registry holds exactly one portlet per class. It is read-only once built and may be
// shared by concurrent renders.
type Registry struct {
	portlets map[string]Portlet
}

// NewRegistry validates and indexes the given portlets
func NewRegistry(portlets ...Portlet) (*Registry, error) {
	r := &Registry{portlets: make(map[string]Portlet, len(portlets))}
	for _, p := range portlets {
		class := p.Class()
		if _, dup := r.portlets[class]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateClass, class)
		}
		schema := p.PropertySchema().Concat(p.StylesSchema(), p.AnimationsSchema())
		if err := schema.Validate(); err != nil {
			return nil, fmt.Errorf("portlet %s: %w", class, err)
		}
		r.portlets[class] = p
	}
	return r, nil
}

// Portlet returns the registered portlet, or a placeholder that keeps the class name
func (r *Registry) Portlet(class string) Portlet {
	if p, ok := r.portlets[class]; ok {
		return p
	}
	return NewMissingPortlet(class)
}

// Has reports whether class is registered
func (r *Registry) Has(class string) bool {
	_, ok := r.portlets[class]
	return ok
}

// List returns every portlet ordered by group, then class
func (r *Registry) List() []Portlet {
	out := make([]Portlet, 0, len(r.portlets))
	for _, p := range r.portlets {
		out = append(out, p)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Group() != out[b].Group() {
			return out[a].Group() < out[b].Group()
		}
		return out[a].Class() < out[b].Class()
	})
	return out
}

// ListActive returns the enabled portlets in List order
func (r *Registry) ListActive() []Portlet {
	var out []Portlet
	for _, p := range r.List() {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out
}

// Groups returns the active portlets bucketed by group name
func (r *Registry) Groups() []Group {
	var groups []Group
	for _, p := range r.ListActive() {
		if n := len(groups); n > 0 && groups[n-1].Name == p.Group() {
			groups[n-1].Portlets = append(groups[n-1].Portlets, p)
			continue
		}
		groups = append(groups, Group{Name: p.Group(), Portlets: []Portlet{p}})
	}
	return groups
}

// WithOverrides returns a new registry with metadata overrides applied. Classes that
// are not registered are returned so the caller can report them.
func (r *Registry) WithOverrides(overrides map[string]Override) (*Registry, []string) {
	out := &Registry{portlets: make(map[string]Portlet, len(r.portlets))}
	for class, p := range r.portlets {
		out.portlets[class] = p
	}

	var unknown []string
	for class, o := range overrides {
		p, ok := out.portlets[class]
		if !ok {
			unknown = append(unknown, class)
			continue
		}
		out.portlets[class] = &overridden{Portlet: p, override: o}
	}
	sort.Strings(unknown)
	return out, unknown
}

type overridden struct {
	Portlet
	override Override
}

func (o *overridden) Title() string {
	if o.override.Title != nil {
		return *o.override.Title
	}
	return o.Portlet.Title()
}

func (o *overridden) Group() string {
	if o.override.Group != nil {
		return *o.override.Group
	}
	return o.Portlet.Group()
}

func (o *overridden) Active() bool {
	if o.override.Active != nil {
		return *o.override.Active
	}
	return o.Portlet.Active()
}
