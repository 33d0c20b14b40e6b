package opc

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"
)

var attrNamePattern = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:.\-]*$`)

// WidthHeuristics holds per-breakpoint column weights (xs, sm, md, lg)
type WidthHeuristics map[string]float64

func (w WidthHeuristics) clone() WidthHeuristics {
	if len(w) == 0 {
		return nil
	}
	out := make(WidthHeuristics, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Instance is one configured portlet inside a composition tree. It owns its subareas;
// its portlet is a shared, read-only registry entry.
type Instance struct {
	portlet         Portlet
	uid             string
	properties      map[string]any
	attributes      map[string]string
	classes         []string
	styles          map[string]string
	animations      map[string]string
	subareas        *AreaList
	widthHeuristics WidthHeuristics
}

// NewInstance creates an instance seeded with the portlet's defaults and a fresh UID
func NewInstance(p Portlet) *Instance {
	return &Instance{
		portlet:    p,
		uid:        newUID(),
		properties: p.DefaultProperties(),
		attributes: make(map[string]string),
		subareas:   NewAreaList(),
	}
}

func newUID() string {
	return "opc" + ulid.Make().String()
}

func (i *Instance) Portlet() Portlet { return i.portlet }
func (i *Instance) Class() string    { return i.portlet.Class() }
func (i *Instance) UID() string      { return i.uid }

// Subareas returns the instance's own area list
func (i *Instance) Subareas() *AreaList { return i.subareas }

// Subarea returns the named area or nil
func (i *Instance) Subarea(key string) *Area { return i.subareas.Get(key) }

// Property returns the stored value, or an empty string when absent
func (i *Instance) Property(name string) any {
	if v, ok := i.properties[name]; ok && v != nil {
		return v
	}
	return ""
}

// HasProperty reports whether a value is stored under name
func (i *Instance) HasProperty(name string) bool {
	_, ok := i.properties[name]
	return ok
}

// PropertyString renders a scalar property value as a string
func (i *Instance) PropertyString(name string) string {
	return stringify(i.Property(name))
}

// PropertyBool interprets checkbox-style values ("1", "true", true, non-zero numbers)
func (i *Instance) PropertyBool(name string) bool {
	switch v := i.Property(name).(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	return false
}

// PropertyInt parses a numeric property, falling back to def
func (i *Instance) PropertyInt(name string, def int) int {
	switch v := i.Property(name).(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// Properties returns a copy of the property map
func (i *Instance) Properties() map[string]any {
	return cloneProperties(i.properties)
}

// SetProperty stores a value without validation
func (i *Instance) SetProperty(name string, value any) {
	i.properties[name] = value
}

// WidthHeuristics returns a copy of the per-breakpoint column weights
func (i *Instance) WidthHeuristics() WidthHeuristics {
	return i.widthHeuristics.clone()
}

// SetWidthHeuristics replaces the per-breakpoint column weights
func (i *Instance) SetWidthHeuristics(w WidthHeuristics) {
	i.widthHeuristics = w.clone()
}

// Styles derives CSS declarations from the properties the style schema recognizes.
// box-styles expands into its individual entries; bare numbers get a px unit.
func (i *Instance) Styles() map[string]string {
	styles := make(map[string]string)
	for _, name := range i.portlet.StylesSchema().Names() {
		value, ok := i.properties[name]
		if !ok {
			continue
		}
		if name == BoxStylesProperty {
			for styleName, styleValue := range boxStyles(value) {
				styles[styleName] = styleValue
			}
			continue
		}
		if s := stringify(value); s != "" {
			styles[name] = s
		}
	}
	i.styles = styles
	return copyStrings(styles)
}

// Animations derives the animation parameters (wow-*) that are set
func (i *Instance) Animations() map[string]string {
	animations := make(map[string]string)
	for _, name := range i.portlet.AnimationsSchema().Names() {
		if !strings.HasPrefix(name, animationParamPrefix) {
			continue
		}
		if s := stringify(i.properties[name]); s != "" {
			animations[name] = s
		}
	}
	i.animations = animations
	return copyStrings(animations)
}

// AnimationClass returns the classes added for the selected animation style
func (i *Instance) AnimationClass() string {
	style := i.PropertyString(AnimationStyleProperty)
	if style == "" {
		return ""
	}
	return "wow " + style
}

// StyleString serializes Styles() as an inline style attribute value
func (i *Instance) StyleString() string {
	styles := i.Styles()
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+":"+styles[name])
	}
	return strings.Join(parts, "; ")
}

// SetAttribute sets an explicit attribute; explicit attributes win over derived ones
func (i *Instance) SetAttribute(name, value string) {
	i.attributes[name] = value
}

// AddClass appends a class to the explicit class list
func (i *Instance) AddClass(class string) {
	for _, c := range strings.Fields(class) {
		i.classes = append(i.classes, c)
	}
}

// Attributes merges the style string, animation classes and data attributes, then
// the explicitly set attributes.
func (i *Instance) Attributes() map[string]string {
	attrs := make(map[string]string)
	if style := i.StyleString(); style != "" {
		attrs["style"] = style
	}
	for name, value := range i.Animations() {
		attrs["data-"+name] = value
	}

	var classes []string
	if c := i.AnimationClass(); c != "" {
		classes = append(classes, c)
	}
	classes = append(classes, i.classes...)

	for name, value := range i.attributes {
		if name == "class" {
			classes = append(classes, value)
			continue
		}
		attrs[name] = value
	}
	if len(classes) > 0 {
		attrs["class"] = strings.Join(classes, " ")
	}
	return attrs
}

// AttributeString renders Attributes() as escaped HTML attributes
func (i *Instance) AttributeString() string {
	return FormatAttributes(i.Attributes())
}

// FormatAttributes renders attrs in name order with escaped values. Names that are not
// valid attribute names are dropped.
func FormatAttributes(attrs map[string]string) string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if attrNamePattern.MatchString(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for n, name := range names {
		if n > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attrs[name]))
		b.WriteByte('"')
	}
	return b.String()
}

// Find returns the instance with the given UID in this subtree
func (i *Instance) Find(uid string) *Instance {
	var found *Instance
	i.Walk(func(inst *Instance) bool {
		if inst.uid == uid {
			found = inst
			return false
		}
		return true
	})
	return found
}

// Walk visits the subtree depth-first until fn returns false
func (i *Instance) Walk(fn func(*Instance) bool) bool {
	if !fn(i) {
		return false
	}
	for _, area := range i.subareas.Areas() {
		for _, child := range area.items {
			if !child.Walk(fn) {
				return false
			}
		}
	}
	return true
}

func boxStyles(value any) map[string]string {
	out := make(map[string]string)
	add := func(name string, v any) {
		s := stringify(v)
		if s == "" {
			return
		}
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			s += "px"
		}
		out[name] = s
	}

	switch t := value.(type) {
	case map[string]any:
		for name, v := range t {
			add(name, v)
		}
	case map[string]string:
		for name, v := range t {
			add(name, v)
		}
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		if t {
			return "1"
		}
		return ""
	case map[string]any, map[string]string, []any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
