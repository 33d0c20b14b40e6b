package portlets

import (
	"html/template"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
)

var headingTmpl = template.Must(template.New("heading").Parse(
	`{{define "h1"}}<h1 {{.Attrs}}>{{.Text}}</h1>{{end}}` +
		`{{define "h2"}}<h2 {{.Attrs}}>{{.Text}}</h2>{{end}}` +
		`{{define "h3"}}<h3 {{.Attrs}}>{{.Text}}</h3>{{end}}` +
		`{{define "h4"}}<h4 {{.Attrs}}>{{.Text}}</h4>{{end}}` +
		`{{define "h5"}}<h5 {{.Attrs}}>{{.Text}}</h5>{{end}}` +
		`{{define "h6"}}<h6 {{.Attrs}}>{{.Text}}</h6>{{end}}`,
))

type headingData struct {
	Attrs template.HTMLAttr
	Text  string
}

var headingLevels = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}

// Heading renders a single h1-h6 element
type Heading struct {
	opc.BasePortlet
}

func NewHeading() *Heading {
	levels := make([]opc.Option, 0, 6)
	for _, l := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		levels = append(levels, opc.Option{Value: l, Label: l})
	}
	return &Heading{
		BasePortlet: opc.NewBasePortlet(
			opc.Metadata{Class: "Heading", Title: "Heading", Group: GroupContent, Active: true},
			opc.Schema{
				{Name: "level", Type: opc.TypeSelect, Label: "Level", Default: "h2", Options: levels},
				{Name: "text", Type: opc.TypeText, Label: "Text", Default: "Heading"},
			},
		),
	}
}

func (p *Heading) PreviewHTML(inst *opc.Instance, env opc.RenderEnv) string {
	return p.FinalHTML(inst, env, false)
}

func (p *Heading) FinalHTML(inst *opc.Instance, _ opc.RenderEnv, _ bool) string {
	level := inst.PropertyString("level")
	if !headingLevels[level] {
		level = "h2"
	}
	return execute(headingTmpl, level, headingData{
		Attrs: attrs(inst, "", nil),
		Text:  inst.PropertyString("text"),
	})
}
