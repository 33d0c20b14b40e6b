package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
)

type fakeProbe struct {
	dims map[string][2]int
}

func (p fakeProbe) Dimensions(src string) (int, int, bool) {
	d, ok := p.dims[src]
	return d[0], d[1], ok
}

func (p fakeProbe) VariantURL(src string, width int) string {
	return fmt.Sprintf("/media/variants/%d/%s", width, src[len("/media/"):])
}

func newService() *ResponsiveImageService {
	probe := fakeProbe{dims: map[string][2]int{
		"/media/wide.jpg":       {2000, 1000},
		"/media/tall.jpg":       {1000, 2000},
		"/media/my holiday.jpg": {1600, 900},
	}}
	return NewResponsiveImageService(probe, DefaultImageSizes(360, 720, 1080, 1440))
}

var fullWidth = opc.WidthHeuristics{"xs": 1, "sm": 1, "md": 1, "lg": 1}

func TestLandscapeSrcset(t *testing.T) {
	attrs := newService().Attributes(ImageRequest{Src: "/media/wide.jpg", Alt: "a", Divisor: FlatDivisor(1), Heuristics: fullWidth})

	assert.Equal(t, "/media/variants/360/wide.jpg 360w,"+
		"/media/variants/720/wide.jpg 720w,"+
		"/media/variants/1080/wide.jpg 1080w,"+
		"/media/variants/1440/wide.jpg 1440w,"+
		"/media/wide.jpg 2000w", attrs.Srcset)
	assert.Equal(t, "(max-width: 767px) 100vw, (max-width: 991px) 100vw, "+
		"(max-width: 1299px) 100vw, (min-width: 1300px) 100vw, 100vw", attrs.Sizes)
	assert.Equal(t, "/media/wide.jpg", attrs.Src)
	assert.Equal(t, 2000, attrs.RealWidth)
	assert.Equal(t, 1000, attrs.RealHeight)
	assert.Equal(t, "a", attrs.Alt)
}

func TestPortraitScalesDescriptors(t *testing.T) {
	attrs := newService().Attributes(ImageRequest{Src: "/media/tall.jpg", Divisor: FlatDivisor(1)})

	assert.Equal(t, "/media/variants/360/tall.jpg 180w,"+
		"/media/variants/720/tall.jpg 360w,"+
		"/media/variants/1080/tall.jpg 540w,"+
		"/media/variants/1440/tall.jpg 720w,"+
		"/media/tall.jpg 1000w", attrs.Srcset)
}

func TestSizesFromWeightsAndHeuristics(t *testing.T) {
	svc := newService()

	attrs := svc.Attributes(ImageRequest{
		Src:        "/media/wide.jpg",
		Divisor:    WeightDivisor(map[string]float64{"xs": 1, "md": 0.5, "lg": 0.25}),
		Heuristics: fullWidth,
	})
	assert.Equal(t, "(max-width: 767px) 100vw, (max-width: 991px) 100vw, (max-width: 1299px) 50vw, (min-width: 1300px) 25vw, 100vw", attrs.Sizes)

	attrs = svc.Attributes(ImageRequest{
		Src:        "/media/wide.jpg",
		Divisor:    WeightDivisor(map[string]float64{"md": 2}),
		Heuristics: opc.WidthHeuristics{"xs": 0.25, "sm": 0.25, "md": 0.25, "lg": 0.25},
	})
	assert.Equal(t, "(max-width: 767px) 25vw, (max-width: 991px) 25vw, (max-width: 1299px) 50vw, (min-width: 1300px) 25vw, 100vw", attrs.Sizes)

	attrs = svc.Attributes(ImageRequest{
		Src:        "/media/wide.jpg",
		Divisor:    FlatDivisor(2),
		Heuristics: opc.WidthHeuristics{"xs": 1, "lg": 0.5},
	})
	assert.Equal(t, "(max-width: 767px) 50vw, (min-width: 1300px) 25vw, 100vw", attrs.Sizes)
}

func TestSizesSkipBreakpointsWithoutColumnWeight(t *testing.T) {
	svc := newService()

	attrs := svc.Attributes(ImageRequest{
		Src:        "/media/wide.jpg",
		Divisor:    FlatDivisor(1),
		Heuristics: opc.WidthHeuristics{"xs": 1, "sm": 0},
	})
	assert.Equal(t, "(max-width: 767px) 100vw, 100vw", attrs.Sizes)

	attrs = svc.Attributes(ImageRequest{Src: "/media/wide.jpg", Divisor: FlatDivisor(1)})
	assert.Equal(t, "100vw", attrs.Sizes)

	attrs = svc.Attributes(ImageRequest{
		Src:        "/media/wide.jpg",
		Divisor:    WeightDivisor(map[string]float64{"xs": 2, "sm": 2}),
		Heuristics: opc.WidthHeuristics{"md": 0.5},
	})
	assert.Equal(t, "(max-width: 1299px) 50vw, 100vw", attrs.Sizes)
}

func TestSpacesAreEscaped(t *testing.T) {
	attrs := newService().Attributes(ImageRequest{Src: "/media/my holiday.jpg", Divisor: FlatDivisor(1)})
	assert.Equal(t, "/media/my%20holiday.jpg", attrs.Src)
	assert.Contains(t, attrs.Srcset, "/media/variants/360/my%20holiday.jpg 360w")
	assert.NotContains(t, attrs.Srcset, " holiday")
}

func TestMissingImageDegrades(t *testing.T) {
	svc := newService()

	attrs := svc.Attributes(ImageRequest{Src: "/media/gone.jpg", Alt: "alt", Title: "title", Divisor: FlatDivisor(1)})
	assert.Equal(t, ImageAttributes{Alt: "alt", Title: "title"}, attrs)

	attrs = svc.Attributes(ImageRequest{Src: "  "})
	assert.Equal(t, ImageAttributes{}, attrs)
}

func TestDeterministic(t *testing.T) {
	svc := newService()
	req := ImageRequest{Src: "/media/wide.jpg", Divisor: WeightDivisor(map[string]float64{"sm": 0.5})}
	assert.Equal(t, svc.Attributes(req), svc.Attributes(req))
}

func TestInstanceAttributes(t *testing.T) {
	p := &imagePortlet{opc.NewBasePortlet(opc.Metadata{Class: "Image"}, opc.Schema{
		{Name: "src", Type: opc.TypeImage},
		{Name: "alt", Type: opc.TypeText},
		{Name: "title", Type: opc.TypeText},
	})}
	inst := opc.NewInstance(p)
	inst.SetProperty("src", "/media/wide.jpg")
	inst.SetProperty("alt", "Sea")
	widths := opc.WidthHeuristics{"xs": 1, "sm": 1, "md": 0.5, "lg": 0.5}

	attrs := newService().InstanceAttributes(inst, "src", FlatDivisor(1), widths)
	assert.Equal(t, "Sea", attrs.Alt)
	assert.Equal(t, "(max-width: 767px) 100vw, (max-width: 991px) 100vw, (max-width: 1299px) 50vw, (min-width: 1300px) 50vw, 100vw", attrs.Sizes)
}

type imagePortlet struct {
	opc.BasePortlet
}

func (p *imagePortlet) PreviewHTML(*opc.Instance, opc.RenderEnv) string     { return "<img>" }
func (p *imagePortlet) FinalHTML(*opc.Instance, opc.RenderEnv, bool) string { return "<img>" }
