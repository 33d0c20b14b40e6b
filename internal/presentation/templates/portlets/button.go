package portlets

import (
	"html/template"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
)

var buttonTmpl = template.Must(template.New("button").Parse(
	`{{define "button"}}<div {{.Attrs}}>` +
		`{{if .Link}}<a href="{{.Link.URL}}" class="{{.Class}}"{{if .Link.Target}} target="{{.Link.Target}}" rel="noopener"{{end}}>{{.Label}}</a>` +
		`{{else}}<button type="button" class="{{.Class}}">{{.Label}}</button>{{end}}` +
		`</div>{{end}}`,
))

type buttonData struct {
	Attrs template.HTMLAttr
	Class string
	Label string
	Link  *link
}

var buttonVariants = map[string]bool{"primary": true, "secondary": true, "link": true}
var buttonAlignments = map[string]bool{"left": true, "center": true, "right": true}

// Button renders a call-to-action button or link
type Button struct {
	opc.BasePortlet
}

func NewButton() *Button {
	return &Button{
		BasePortlet: opc.NewBasePortlet(
			opc.Metadata{Class: "Button", Title: "Button", Group: GroupContent, Active: true},
			opc.Schema{
				{Name: "label", Type: opc.TypeText, Label: "Label", Default: "Button"},
				{
					Name:    "variant",
					Type:    opc.TypeSelect,
					Label:   "Variant",
					Default: "primary",
					Options: []opc.Option{
						{Value: "primary", Label: "Primary"},
						{Value: "secondary", Label: "Secondary"},
						{Value: "link", Label: "Link"},
					},
				},
				{
					Name:    "align",
					Type:    opc.TypeSelect,
					Label:   "Alignment",
					Default: "left",
					Options: []opc.Option{
						{Value: "left", Label: "Left"},
						{Value: "center", Label: "Centered"},
						{Value: "right", Label: "Right"},
					},
					Children: opc.Schema{
						{Name: "full-width", Type: opc.TypeCheckbox, Label: "Full width", Default: false},
					},
				},
				linkSchema(),
			},
			linkTab,
		),
	}
}

func (p *Button) PreviewHTML(inst *opc.Instance, env opc.RenderEnv) string {
	return p.FinalHTML(inst, env, false)
}

func (p *Button) FinalHTML(inst *opc.Instance, _ opc.RenderEnv, _ bool) string {
	variant := inst.PropertyString("variant")
	if !buttonVariants[variant] {
		variant = "primary"
	}
	align := inst.PropertyString("align")
	if !buttonAlignments[align] {
		align = "left"
	}

	class := "btn btn-" + variant
	if inst.PropertyBool("full-width") {
		class += " w-100"
	}

	return execute(buttonTmpl, "button", buttonData{
		Attrs: attrs(inst, "opc-button text-"+align, nil),
		Class: class,
		Label: inst.PropertyString("label"),
		Link:  linkOf(inst),
	})
}
