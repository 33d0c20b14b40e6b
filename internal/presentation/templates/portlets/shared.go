// Package portlets provides the built-in portlet types.
package portlets

import (
	"html/template"
	"log"
	"strings"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
	"github.com/AtRiskMedia/opc-go/internal/domain/services"
)

// Groups used by the built-in portlets
const (
	GroupContent = "content"
	GroupLayout  = "layout"
	GroupForms   = "forms"
)

var areaTmpl = template.Must(template.New("area").Parse(
	`<div class="opc-area" data-area-id="{{.ID}}">{{.Body}}</div>`,
))

type areaData struct {
	ID   string
	Body template.HTML
}

// linkSchema is shared by portlets that can link somewhere. The URL fields only apply
// when link is "url" but are always part of the flattened schema.
func linkSchema() opc.Property {
	return opc.Property{
		Name:    "link",
		Type:    opc.TypeSelect,
		Label:   "Link",
		Default: "none",
		Options: []opc.Option{
			{Value: "none", Label: "No link"},
			{Value: "url", Label: "URL"},
		},
		ChildrenFor: map[string]opc.Schema{
			"url": {
				{Name: "link-url", Type: opc.TypeText, Label: "URL"},
				{
					Name:    "link-target",
					Type:    opc.TypeSelect,
					Label:   "Open in",
					Default: "_self",
					Options: []opc.Option{
						{Value: "_self", Label: "Same window"},
						{Value: "_blank", Label: "New window"},
					},
				},
			},
		},
	}
}

var linkTab = opc.Tab{Name: "Link", Properties: []string{"link", "link-url", "link-target"}}

type link struct {
	URL    string
	Target string
}

func linkOf(inst *opc.Instance) *link {
	if inst.PropertyString("link") != "url" || inst.PropertyString("link-url") == "" {
		return nil
	}
	l := &link{URL: inst.PropertyString("link-url")}
	if t := inst.PropertyString("link-target"); t == "_blank" {
		l.Target = t
	}
	return l
}

// attrs renders the instance attributes with baseClass placed before the derived classes
func attrs(inst *opc.Instance, baseClass string, extra map[string]string) template.HTMLAttr {
	a := inst.Attributes()
	if baseClass != "" {
		a["class"] = strings.TrimSpace(baseClass + " " + a["class"])
	}
	for k, v := range extra {
		a[k] = v
	}
	return template.HTMLAttr(opc.FormatAttributes(a))
}

// areaOrEmpty returns the named subarea, or an empty area that is not attached to inst
func areaOrEmpty(inst *opc.Instance, id string) *opc.Area {
	if area := inst.Subarea(id); area != nil {
		return area
	}
	return opc.NewArea(id)
}

func renderArea(id, body string) template.HTML {
	var b strings.Builder
	if err := areaTmpl.Execute(&b, areaData{ID: id, Body: template.HTML(body)}); err != nil {
		log.Printf("ERROR: Failed to execute area template for %s: %v", id, err)
		return ""
	}
	return template.HTML(b.String())
}

func execute(tmpl *template.Template, name string, data any) string {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		log.Printf("ERROR: Failed to execute portlet template '%s': %v", name, err)
		return ""
	}
	return b.String()
}

// Builtin returns every built-in portlet. images may be nil, in which case images render
// without srcset and sizes.
func Builtin(images *services.ResponsiveImageService) []opc.Portlet {
	return []opc.Portlet{
		NewHeading(),
		NewText(),
		NewImage(images),
		NewButton(),
		NewRow(),
		NewContainer(),
		NewContactForm(),
	}
}
