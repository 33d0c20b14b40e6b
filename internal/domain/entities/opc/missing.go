package opc

import (
	"html/template"
)

// MissingPortlet stands in for a class the registry does not know. It keeps the
// original class name so the instance serializes back unchanged.
type MissingPortlet struct {
	BasePortlet
}

// NewMissingPortlet creates the placeholder for the given class
func NewMissingPortlet(class string) *MissingPortlet {
	return &MissingPortlet{
		BasePortlet: BasePortlet{
			meta:     Metadata{Class: class, Title: "Missing portlet", Group: "hidden"},
			defaults: map[string]any{},
			deep:     map[string]Property{},
		},
	}
}

func (p *MissingPortlet) PreviewHTML(inst *Instance, env RenderEnv) string {
	return p.notice(env)
}

func (p *MissingPortlet) FinalHTML(inst *Instance, env RenderEnv, wrapInContainer bool) string {
	return p.notice(env)
}

func (p *MissingPortlet) notice(env RenderEnv) string {
	return `<div class="opc-portlet-missing"><p>` +
		template.HTMLEscapeString(env.Translate(MsgMissingPortlet, p.Class())) +
		`</p></div>`
}

// IsMissing reports whether p is the unknown-class placeholder
func IsMissing(p Portlet) bool {
	_, ok := p.(*MissingPortlet)
	return ok
}
