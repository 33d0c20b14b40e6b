package opc

import "strings"

// stubPortlet is a minimal portlet used by the package tests
type stubPortlet struct {
	BasePortlet
	preview string
	forms   bool
}

func newStub(class string, schema Schema) *stubPortlet {
	return &stubPortlet{
		BasePortlet: NewBasePortlet(Metadata{Class: class, Title: class, Group: "test", Active: true}, schema),
		preview:     "<div>" + class + "</div>",
	}
}

func (s *stubPortlet) PreviewHTML(inst *Instance, env RenderEnv) string { return s.preview }

func (s *stubPortlet) FinalHTML(inst *Instance, env RenderEnv, wrap bool) string { return s.preview }

func (s *stubPortlet) RendersInteractiveForms(*Instance) bool { return s.forms }

type stubEnv struct{}

func (stubEnv) RenderAreaPreview(area *Area) string             { return "" }
func (stubEnv) RenderAreaFinal(area *Area, wrap bool) string    { return "" }
func (stubEnv) WidthHeuristics(inst *Instance) WidthHeuristics  { return inst.WidthHeuristics() }
func (e stubEnv) WithWidthHeuristics(WidthHeuristics) RenderEnv { return e }
func (stubEnv) Translate(key string, args ...any) string {
	if len(args) == 0 {
		return key
	}
	return strings.Replace(key, "%s", args[0].(string), 1)
}

func textSchema() Schema {
	return Schema{{Name: "text", Type: TypeRichText, Default: ""}}
}

func mustRegistry(portlets ...Portlet) *Registry {
	r, err := NewRegistry(portlets...)
	if err != nil {
		panic(err)
	}
	return r
}
