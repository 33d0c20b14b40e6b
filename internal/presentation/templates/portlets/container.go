package portlets

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
)

// ContainerArea is the single subarea of a Container
const ContainerArea = "content"

var containerTmpl = template.Must(template.New("container").Parse(
	`{{define "container"}}<div {{.Attrs}}>{{if .Wrap}}<div class="container">{{.Body}}</div>{{else}}{{.Body}}{{end}}</div>{{end}}`,
))

type containerData struct {
	Attrs template.HTMLAttr
	Body  template.HTML
	Wrap  bool
}

// Container groups children in one area with an optional colour or image background
type Container struct {
	opc.BasePortlet
}

func NewContainer() *Container {
	return &Container{
		BasePortlet: opc.NewBasePortlet(
			opc.Metadata{Class: "Container", Title: "Container", Group: GroupLayout, Active: true},
			opc.Schema{
				{
					Name:    "background",
					Type:    opc.TypeSelect,
					Label:   "Background",
					Default: "none",
					Options: []opc.Option{
						{Value: "none", Label: "None"},
						{Value: "color", Label: "Colour"},
						{Value: "image", Label: "Image"},
					},
					ChildrenFor: map[string]opc.Schema{
						"color": {
							{Name: "bg-color", Type: opc.TypeColor, Label: "Colour", Default: "#ffffff"},
						},
						"image": {
							{Name: "bg-image", Type: opc.TypeImage, Label: "Image"},
							{
								Name:    "bg-size",
								Type:    opc.TypeSelect,
								Label:   "Size",
								Default: "cover",
								Options: []opc.Option{
									{Value: "cover", Label: "Cover"},
									{Value: "contain", Label: "Contain"},
								},
							},
						},
					},
				},
				{Name: "min-height", Type: opc.TypeNumber, Label: "Minimum height (px)", Default: 0},
			},
			opc.Tab{Name: "Background", Properties: []string{"background", "bg-color", "bg-image", "bg-size"}},
		),
	}
}

func (p *Container) PreviewHTML(inst *opc.Instance, env opc.RenderEnv) string {
	area := areaOrEmpty(inst, ContainerArea)
	return p.render(inst, string(renderArea(area.ID(), env.RenderAreaPreview(area))), false)
}

func (p *Container) FinalHTML(inst *opc.Instance, env opc.RenderEnv, wrapInContainer bool) string {
	area := areaOrEmpty(inst, ContainerArea)
	return p.render(inst, env.RenderAreaFinal(area, false), wrapInContainer)
}

func (p *Container) render(inst *opc.Instance, body string, wrap bool) string {
	return execute(containerTmpl, "container", containerData{
		Attrs: attrs(inst, "opc-container", backgroundStyle(inst)),
		Body:  template.HTML(body),
		Wrap:  wrap,
	})
}

// backgroundStyle folds the background choice into the style attribute
func backgroundStyle(inst *opc.Instance) map[string]string {
	style := inst.StyleString()
	add := func(decl string) {
		if style != "" {
			style += "; "
		}
		style += decl
	}

	switch inst.PropertyString("background") {
	case "color":
		if c := inst.PropertyString("bg-color"); c != "" && !strings.ContainsAny(c, cssValueBreakout) {
			add("background-color:" + c)
		}
	case "image":
		if src, ok := cssURL(inst.PropertyString("bg-image")); ok {
			add("background-image:url('" + src + "')")
			size := inst.PropertyString("bg-size")
			if !backgroundSizes[size] {
				size = "cover"
			}
			add("background-size:" + size)
		}
	}
	if h := inst.PropertyInt("min-height", 0); h > 0 {
		add("min-height:" + strconv.Itoa(h) + "px")
	}

	if style == "" {
		return nil
	}
	return map[string]string{"style": style}
}

var backgroundSizes = map[string]bool{"cover": true, "contain": true}

// Characters that could end a declaration, or a quoted url() token
const (
	cssValueBreakout = "'\"\\;{}<>\n\r\f"
	cssBreakout      = cssValueBreakout + "()\t"
)

// cssURL accepts relative and http(s) URLs that stay inside a quoted url() token
func cssURL(src string) (string, bool) {
	src = strings.TrimSpace(src)
	if src == "" || strings.ContainsAny(src, cssBreakout) {
		return "", false
	}
	u, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
	default:
		return "", false
	}
	return strings.ReplaceAll(src, " ", "%20"), true
}
