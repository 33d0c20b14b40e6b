package portlets

import (
	"html/template"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
	"github.com/AtRiskMedia/opc-go/internal/domain/services"
)

var imageTmpl = template.Must(template.New("image").Parse(
	`{{define "img"}}<img src="{{.Img.Src}}"{{if .Img.Srcset}} srcset="{{.Img.Srcset}}" sizes="{{.Img.Sizes}}"{{end}}` +
		` alt="{{.Img.Alt}}"{{if .Img.Title}} title="{{.Img.Title}}"{{end}}` +
		`{{if .Img.RealWidth}} width="{{.Img.RealWidth}}" height="{{.Img.RealHeight}}"{{end}} class="{{.ImgClass}}" loading="lazy">{{end}}` +
		`{{define "image"}}<figure {{.Attrs}}>` +
		`{{if .Img.Src}}{{if .Link}}<a href="{{.Link.URL}}"{{if .Link.Target}} target="{{.Link.Target}}" rel="noopener"{{end}}>{{template "img" .}}</a>{{else}}{{template "img" .}}{{end}}` +
		`{{else if .Preview}}<div class="opc-image-placeholder">{{.Img.Alt}}</div>{{end}}` +
		`</figure>{{end}}`,
))

type imageData struct {
	Attrs    template.HTMLAttr
	Img      services.ImageAttributes
	ImgClass string
	Link     *link
	Preview  bool
}

var imageShapes = map[string]string{
	"normal":  "img-fluid",
	"rounded": "img-fluid rounded",
	"circle":  "img-fluid rounded-circle",
}

// Image renders a responsive image, optionally linked
type Image struct {
	opc.BasePortlet
	images *services.ResponsiveImageService
}

func NewImage(images *services.ResponsiveImageService) *Image {
	return &Image{
		BasePortlet: opc.NewBasePortlet(
			opc.Metadata{Class: "Image", Title: "Image", Group: GroupContent, Active: true},
			opc.Schema{
				{Name: "src", Type: opc.TypeImage, Label: "Image"},
				{Name: "alt", Type: opc.TypeText, Label: "Alternative text"},
				{Name: "title", Type: opc.TypeText, Label: "Title"},
				{
					Name:    "shape",
					Type:    opc.TypeSelect,
					Label:   "Shape",
					Default: "normal",
					Options: []opc.Option{
						{Value: "normal", Label: "Normal"},
						{Value: "rounded", Label: "Rounded corners"},
						{Value: "circle", Label: "Circle"},
					},
				},
				linkSchema(),
			},
			linkTab,
		),
		images: images,
	}
}

// ImageAttributes computes the img attributes for inst laid out in widths
func (p *Image) ImageAttributes(inst *opc.Instance, widths opc.WidthHeuristics) services.ImageAttributes {
	if p.images == nil {
		return services.ImageAttributes{
			Src:   inst.PropertyString("src"),
			Alt:   inst.PropertyString("alt"),
			Title: inst.PropertyString("title"),
		}
	}
	return p.images.InstanceAttributes(inst, "src", services.FlatDivisor(1), widths)
}

func (p *Image) PreviewHTML(inst *opc.Instance, env opc.RenderEnv) string {
	return p.render(inst, env, true)
}

func (p *Image) FinalHTML(inst *opc.Instance, env opc.RenderEnv, _ bool) string {
	return p.render(inst, env, false)
}

func (p *Image) render(inst *opc.Instance, env opc.RenderEnv, preview bool) string {
	shape, ok := imageShapes[inst.PropertyString("shape")]
	if !ok {
		shape = imageShapes["normal"]
	}
	return execute(imageTmpl, "image", imageData{
		Attrs:    attrs(inst, "opc-image", nil),
		Img:      p.ImageAttributes(inst, env.WidthHeuristics(inst)),
		ImgClass: shape,
		Link:     linkOf(inst),
		Preview:  preview,
	})
}
