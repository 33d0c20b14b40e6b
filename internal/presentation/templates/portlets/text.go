package portlets

import (
	"html/template"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
)

var textTmpl = template.Must(template.New("text").Parse(
	`{{define "text"}}<div {{.Attrs}}>{{.Text}}</div>{{end}}`,
))

type textData struct {
	Attrs template.HTMLAttr
	Text  template.HTML
}

// Text renders editor-authored rich text. The markup comes from the editor's rich text
// control and is emitted unescaped.
type Text struct {
	opc.BasePortlet
}

func NewText() *Text {
	return &Text{
		BasePortlet: opc.NewBasePortlet(
			opc.Metadata{Class: "Text", Title: "Text", Group: GroupContent, Active: true},
			opc.Schema{
				{Name: "text", Type: opc.TypeRichText, Label: "Text", Default: "<p>Lorem ipsum dolor sit amet.</p>"},
			},
		),
	}
}

func (p *Text) PreviewHTML(inst *opc.Instance, env opc.RenderEnv) string {
	return p.FinalHTML(inst, env, false)
}

func (p *Text) FinalHTML(inst *opc.Instance, _ opc.RenderEnv, _ bool) string {
	return execute(textTmpl, "text", textData{
		Attrs: attrs(inst, "opc-text", nil),
		Text:  template.HTML(inst.PropertyString("text")),
	})
}
