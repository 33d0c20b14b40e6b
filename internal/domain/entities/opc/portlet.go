package opc

// Translation keys shared by the engine and the placeholder portlet
const (
	MsgMissingPortlet = "Missing portlet: %s"
	MsgMissingHTML    = "The portlet produced no HTML"
)

// Names of the shared style and animation properties
const (
	BoxStylesProperty      = "box-styles"
	AnimationStyleProperty = "animation-style"
	animationParamPrefix   = "wow-"
)

// Tab groups property names for the editor UI
type Tab struct {
	Name       string   `json:"name"`
	Properties []string `json:"properties"`
}

// RenderEnv is what a portlet may call back into while producing markup. Container
// portlets use it to render their subareas; every portlet may use it for UI strings.
type RenderEnv interface {
	RenderAreaPreview(area *Area) string
	RenderAreaFinal(area *Area, wrapInContainer bool) string
	Translate(key string, args ...any) string

	// WidthHeuristics returns the column weights inst is laid out in: its own when it has
	// any, otherwise those its enclosing containers assigned for this render.
	WidthHeuristics(inst *Instance) WidthHeuristics
	// WithWidthHeuristics returns an env whose area renders lay children out in w.
	// Neither call changes the tree.
	WithWidthHeuristics(w WidthHeuristics) RenderEnv
}

// Portlet is a registered kind of content block
type Portlet interface {
	Class() string
	Title() string
	Group() string
	Active() bool
	PluginID() string

	PropertySchema() Schema
	StylesSchema() Schema
	AnimationsSchema() Schema
	PropertyTabs() []Tab
	DefaultProperties() map[string]any
	DeepPropertyDescription() map[string]Property

	PreviewHTML(inst *Instance, env RenderEnv) string
	FinalHTML(inst *Instance, env RenderEnv, wrapInContainer bool) string
	RendersInteractiveForms(inst *Instance) bool
}

// Metadata identifies a portlet type
type Metadata struct {
	Class    string `json:"class" yaml:"class"`
	Title    string `json:"title" yaml:"title"`
	Group    string `json:"group" yaml:"group"`
	Active   bool   `json:"active" yaml:"active"`
	PluginID string `json:"pluginId,omitempty" yaml:"pluginId,omitempty"`
}

// BasePortlet carries the metadata and resolved schemas of a portlet type. Concrete
// portlets embed it and add PreviewHTML and FinalHTML.
type BasePortlet struct {
	meta       Metadata
	schema     Schema
	styles     Schema
	animations Schema
	tabs       []Tab
	defaults   map[string]any
	deep       map[string]Property
}

// NewBasePortlet resolves the schema once; the result is never mutated afterwards.
// Extra tabs are placed between "General" and the shared "Styles" / "Animation" tabs.
func NewBasePortlet(meta Metadata, schema Schema, tabs ...Tab) BasePortlet {
	b := BasePortlet{
		meta:       meta,
		schema:     schema,
		styles:     DefaultStylesSchema(),
		animations: DefaultAnimationsSchema(),
	}
	all := b.schema.Concat(b.styles, b.animations)
	b.defaults = all.Defaults()
	b.deep = all.Flatten()
	b.tabs = buildTabs(schema, tabs, b.styles, b.animations)
	return b
}

func (b *BasePortlet) Class() string    { return b.meta.Class }
func (b *BasePortlet) Title() string    { return b.meta.Title }
func (b *BasePortlet) Group() string    { return b.meta.Group }
func (b *BasePortlet) Active() bool     { return b.meta.Active }
func (b *BasePortlet) PluginID() string { return b.meta.PluginID }

func (b *BasePortlet) PropertySchema() Schema   { return b.schema }
func (b *BasePortlet) StylesSchema() Schema     { return b.styles }
func (b *BasePortlet) AnimationsSchema() Schema { return b.animations }

// PropertyTabs returns a copy of the editor tab grouping
func (b *BasePortlet) PropertyTabs() []Tab {
	out := make([]Tab, len(b.tabs))
	for i, t := range b.tabs {
		out[i] = Tab{Name: t.Name, Properties: append([]string(nil), t.Properties...)}
	}
	return out
}

// DefaultProperties returns a fresh copy of the flattened defaults
func (b *BasePortlet) DefaultProperties() map[string]any {
	return cloneProperties(b.defaults)
}

// DeepPropertyDescription returns a fresh copy of the flattened descriptors
func (b *BasePortlet) DeepPropertyDescription() map[string]Property {
	out := make(map[string]Property, len(b.deep))
	for k, v := range b.deep {
		out[k] = v
	}
	return out
}

// RendersInteractiveForms is false unless a portlet overrides it
func (b *BasePortlet) RendersInteractiveForms(*Instance) bool { return false }

func buildTabs(schema Schema, extra []Tab, styles, animations Schema) []Tab {
	claimed := make(map[string]struct{})
	for _, t := range extra {
		for _, name := range t.Properties {
			claimed[name] = struct{}{}
		}
	}

	general := Tab{Name: "General"}
	for _, name := range schema.Names() {
		if _, ok := claimed[name]; !ok {
			general.Properties = append(general.Properties, name)
		}
	}

	tabs := []Tab{general}
	tabs = append(tabs, extra...)
	tabs = append(tabs,
		Tab{Name: "Styles", Properties: styles.Names()},
		Tab{Name: "Animation", Properties: animations.Names()},
	)
	return tabs
}

// DefaultStylesSchema is shared by every portlet
func DefaultStylesSchema() Schema {
	return Schema{
		{Name: "background-color", Type: TypeColor, Label: "Background colour"},
		{Name: "color", Type: TypeColor, Label: "Font colour"},
		{Name: "font-size", Type: TypeText, Label: "Font size"},
		{Name: BoxStylesProperty, Type: TypeBoxStyles, Label: "Margins, paddings and borders"},
	}
}

// DefaultAnimationsSchema is shared by every portlet
func DefaultAnimationsSchema() Schema {
	return Schema{
		{
			Name:  AnimationStyleProperty,
			Type:  TypeSelect,
			Label: "Animation style",
			Options: []Option{
				{Value: "", Label: "None"},
				{Value: "animate__bounce", Label: "Bounce"},
				{Value: "animate__fadeIn", Label: "Fade in"},
				{Value: "animate__fadeInUp", Label: "Fade in up"},
				{Value: "animate__pulse", Label: "Pulse"},
				{Value: "animate__zoomIn", Label: "Zoom in"},
			},
			Children: Schema{
				{Name: "wow-duration", Type: TypeText, Label: "Duration"},
				{Name: "wow-delay", Type: TypeText, Label: "Delay"},
				{Name: "wow-offset", Type: TypeNumber, Label: "Offset (px)"},
				{Name: "wow-iteration", Type: TypeNumber, Label: "Iterations"},
			},
		},
	}
}
