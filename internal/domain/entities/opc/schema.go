// Package opc provides the on-page composition entities: portlet types, their property
// schemas, the instance tree and its serialized form.
package opc

import (
	"fmt"
	"sort"
)

// PropertyType names the editor control used for a property
type PropertyType string

const (
	TypeText      PropertyType = "text"
	TypeTextarea  PropertyType = "textarea"
	TypeRichText  PropertyType = "richtext"
	TypeSelect    PropertyType = "select"
	TypeRadio     PropertyType = "radio"
	TypeCheckbox  PropertyType = "checkbox"
	TypeNumber    PropertyType = "number"
	TypeColor     PropertyType = "color"
	TypeImage     PropertyType = "image"
	TypeEmail     PropertyType = "email"
	TypeBoxStyles PropertyType = "box-styles"
	TypeHidden    PropertyType = "hidden"
)

// Option is one selectable value of a select or radio property
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Property describes a single portlet property.
//
// Children are always present alongside the property. ChildrenFor holds conditional
// sub-schemas keyed by one of the property's option values; flattening emits every
// branch, not only the selected one.
type Property struct {
	Name        string            `json:"name"`
	Type        PropertyType      `json:"type"`
	Label       string            `json:"label,omitempty"`
	Default     any               `json:"default"`
	Options     []Option          `json:"options,omitempty"`
	Children    Schema            `json:"children,omitempty"`
	ChildrenFor map[string]Schema `json:"childrenFor,omitempty"`
}

// DefaultValue returns the declared default, or an empty string when none is declared
func (p Property) DefaultValue() any {
	if p.Default == nil {
		return ""
	}
	return cloneValue(p.Default)
}

// Schema is an ordered property declaration
type Schema []Property

// Flatten folds the schema, its children and every childrenFor branch into one map.
func (s Schema) Flatten() map[string]Property {
	out := make(map[string]Property)
	s.walk(func(p Property) {
		out[p.Name] = p
	})
	return out
}

// Defaults folds the schema into a name -> default value map.
func (s Schema) Defaults() map[string]any {
	out := make(map[string]any)
	s.walk(func(p Property) {
		out[p.Name] = p.DefaultValue()
	})
	return out
}

// Names returns every flattened property name in declaration order
func (s Schema) Names() []string {
	var names []string
	s.walk(func(p Property) {
		names = append(names, p.Name)
	})
	return names
}

// Validate reports empty names and names that occur more than once across the
// flattened schema.
func (s Schema) Validate() error {
	seen := make(map[string]struct{})
	var err error
	s.walk(func(p Property) {
		if err != nil {
			return
		}
		if p.Name == "" {
			err = fmt.Errorf("%w: empty property name", ErrSchemaCollision)
			return
		}
		if _, dup := seen[p.Name]; dup {
			err = fmt.Errorf("%w: %q", ErrSchemaCollision, p.Name)
			return
		}
		seen[p.Name] = struct{}{}
	})
	return err
}

// Concat returns a new schema holding s followed by the given schemas
func (s Schema) Concat(others ...Schema) Schema {
	out := make(Schema, 0, len(s))
	out = append(out, s...)
	for _, o := range others {
		out = append(out, o...)
	}
	return out
}

func (s Schema) walk(fn func(Property)) {
	for _, p := range s {
		fn(p)
		p.Children.walk(fn)

		variants := make([]string, 0, len(p.ChildrenFor))
		for variant := range p.ChildrenFor {
			variants = append(variants, variant)
		}
		sort.Strings(variants)
		for _, variant := range variants {
			p.ChildrenFor[variant].walk(fn)
		}
	}
}

// cloneValue deep-copies the JSON-shaped values stored in property maps
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = cloneValue(inner)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, inner := range t {
			out[k] = inner
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = cloneValue(inner)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

func cloneProperties(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}
