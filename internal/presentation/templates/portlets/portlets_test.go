package portlets

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
	"github.com/AtRiskMedia/opc-go/internal/domain/services"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/dom"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/i18n"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/opc-go/internal/presentation/templates"
)

func newRegistry(t *testing.T, images *services.ResponsiveImageService) *opc.Registry {
	t.Helper()
	reg, err := opc.NewRegistry(Builtin(images)...)
	require.NoError(t, err)
	return reg
}

func newRenderer() *templates.Renderer {
	return templates.NewRenderer(nil, i18n.NewCatalog("en"), nil, nil)
}

func TestBuiltinRegistry(t *testing.T) {
	reg := newRegistry(t, nil)

	for _, class := range []string{"Heading", "Text", "Image", "Button", "Row", "Container", "ContactForm"} {
		assert.True(t, reg.Has(class), class)
	}

	groups := reg.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, []string{GroupContent, GroupForms, GroupLayout}, []string{groups[0].Name, groups[1].Name, groups[2].Name})
}

func TestLinkBranchesAreAlwaysInDefaults(t *testing.T) {
	reg := newRegistry(t, nil)

	for _, class := range []string{"Image", "Button"} {
		defaults := reg.Portlet(class).DefaultProperties()
		assert.Equal(t, "none", defaults["link"], class)
		assert.Contains(t, defaults, "link-url", class)
		assert.Equal(t, "_self", defaults["link-target"], class)
	}

	deep := reg.Portlet("Container").DeepPropertyDescription()
	for _, name := range []string{"background", "bg-color", "bg-image", "bg-size", "min-height", "box-styles", "wow-duration"} {
		assert.Contains(t, deep, name)
	}

	tabs := reg.Portlet("Image").PropertyTabs()
	names := make([]string, len(tabs))
	for i, tab := range tabs {
		names[i] = tab.Name
	}
	assert.Equal(t, []string{"General", "Link", "Styles", "Animation"}, names)
	assert.Equal(t, []string{"src", "alt", "title", "shape"}, tabs[0].Properties)
}

func TestHeadingLevelIsAllowlisted(t *testing.T) {
	inst := opc.NewInstance(NewHeading())
	inst.SetProperty("text", "<b>Hi</b>")
	out := newRenderer().RenderFinal(inst, false)
	assert.Equal(t, "<h2>&lt;b&gt;Hi&lt;/b&gt;</h2>", out)

	inst.SetProperty("level", "script")
	assert.True(t, strings.HasPrefix(newRenderer().RenderFinal(inst, false), "<h2"))

	inst.SetProperty("level", "h4")
	assert.True(t, strings.HasPrefix(newRenderer().RenderFinal(inst, false), "<h4"))
}

func TestTextKeepsRichText(t *testing.T) {
	inst := opc.NewInstance(NewText())
	inst.SetProperty("text", "<p>Hello <em>world</em></p>")
	inst.SetProperty("color", "red")

	out := newRenderer().RenderFinal(inst, false)
	assert.Equal(t, `<div class="opc-text" style="color:red"><p>Hello <em>world</em></p></div>`, out)
}

func TestButtonVariants(t *testing.T) {
	inst := opc.NewInstance(NewButton())
	out := newRenderer().RenderFinal(inst, false)
	assert.Equal(t, `<div class="opc-button text-left"><button type="button" class="btn btn-primary">Button</button></div>`, out)

	inst.SetProperty("link", "url")
	inst.SetProperty("link-url", "/sale")
	inst.SetProperty("link-target", "_blank")
	inst.SetProperty("full-width", true)
	inst.SetProperty("align", "center")
	out = newRenderer().RenderFinal(inst, false)
	assert.Equal(t, `<div class="opc-button text-center"><a href="/sale" class="btn btn-primary w-100" target="_blank" rel="noopener">Button</a></div>`, out)

	inst.SetProperty("link-url", "javascript:alert(1)")
	assert.NotContains(t, newRenderer().RenderFinal(inst, false), "javascript")
}

func TestRowColumnsAndHeuristics(t *testing.T) {
	reg := newRegistry(t, nil)
	row := opc.NewInstance(reg.Portlet("Row"))
	row.SetProperty("layout", "8+4")
	text := opc.NewInstance(reg.Portlet("Text"))
	row.Subareas().Ensure("col-2").Add(text)

	out := newRenderer().RenderFinal(row, false)
	f, err := dom.Parse(out)
	require.NoError(t, err)
	v, _ := f.Attr("class")
	assert.Equal(t, "row", v)
	assert.Contains(t, out, `<div class="col-12 col-md-8"></div><div class="col-12 col-md-4"><div class="opc-text">`)

	assert.Empty(t, text.WidthHeuristics())
	assert.False(t, row.Subareas().Has("col-1"), "rendering must not add areas")
	assert.Equal(t, opc.WidthHeuristics{"xs": 1, "sm": 1, "md": 4.0 / 12, "lg": 4.0 / 12}, ColumnWidths(nil, 4))
	assert.Equal(t, opc.WidthHeuristics{"xs": 0.5, "sm": 1, "md": 0.25, "lg": 0.25},
		ColumnWidths(opc.WidthHeuristics{"xs": 0.5, "md": 0.5, "lg": 0.5}, 6))

	row.SetProperty("layout", "7+7")
	assert.Equal(t, []int{6, 6}, NewRow().Columns(row))
}

func TestRowPreviewWrapsAreas(t *testing.T) {
	row := opc.NewInstance(NewRow())
	row.SetProperty("gutters", false)
	out := newRenderer().RenderPreview(row)

	assert.Contains(t, out, `class="row g-0"`)
	assert.Contains(t, out, `<div class="opc-area" data-area-id="col-1"></div>`)
	assert.Contains(t, out, `<div class="opc-area" data-area-id="col-2"></div>`)
}

func TestRowWrapInContainer(t *testing.T) {
	row := opc.NewInstance(NewRow())
	inner := opc.NewInstance(NewRow())
	row.Subareas().Ensure("col-1").Add(inner)

	out := newRenderer().RenderFinal(row, true)
	assert.True(t, strings.HasPrefix(out, `<div class="container"><div class="row">`))
	assert.Equal(t, 1, strings.Count(out, `class="container"`), "children are never wrapped")
}

func TestContainerBackground(t *testing.T) {
	inst := opc.NewInstance(NewContainer())
	inst.SetProperty("background", "color")
	inst.SetProperty("bg-color", "#000")
	inst.SetProperty("min-height", float64(200))
	inst.Subareas().Ensure(ContainerArea).Add(opc.NewInstance(NewHeading()))

	out := newRenderer().RenderFinal(inst, false)
	assert.Equal(t, `<div class="opc-container" style="background-color:#000; min-height:200px"><h2>Heading</h2></div>`, out)

	inst.SetProperty("background", "none")
	out = newRenderer().RenderFinal(inst, true)
	assert.Equal(t, `<div class="opc-container" style="min-height:200px"><div class="container"><h2>Heading</h2></div></div>`, out)
}

func TestContainerBackgroundStaysInsideStyle(t *testing.T) {
	style := func(props map[string]any) string {
		inst := opc.NewInstance(NewContainer())
		for k, v := range props {
			inst.SetProperty(k, v)
		}
		f, err := dom.Parse(newRenderer().RenderFinal(inst, false))
		require.NoError(t, err)
		v, _ := f.Attr("style")
		return v
	}

	assert.Equal(t, "background-image:url('/media/hero%20one.jpg'); background-size:contain",
		style(map[string]any{"background": "image", "bg-image": "/media/hero one.jpg", "bg-size": "contain"}))
	assert.Equal(t, "background-image:url('https://cdn.example.com/a.png'); background-size:cover",
		style(map[string]any{"background": "image", "bg-image": "https://cdn.example.com/a.png", "bg-size": "cover;color:red"}))

	for _, src := range []string{
		"x.jpg'); position:fixed; background:url('y.jpg",
		`x.jpg\27`,
		"javascript:alert(1)",
		"x.jpg\nfoo",
	} {
		assert.Empty(t, style(map[string]any{"background": "image", "bg-image": src}), src)
	}

	assert.Equal(t, "background-color:rgb(0, 0, 0)", style(map[string]any{"background": "color", "bg-color": "rgb(0, 0, 0)"}))
	assert.Empty(t, style(map[string]any{"background": "color", "bg-color": "red; position:fixed"}))
}

func TestContactFormMarksForms(t *testing.T) {
	reg := newRegistry(t, nil)
	container := opc.NewInstance(reg.Portlet("Container"))
	form := opc.NewInstance(reg.Portlet("ContactForm"))
	form.SetProperty("show-phone", true)
	container.Subareas().Ensure(ContainerArea).Add(form)

	preview := newRenderer().RenderPreview(form)
	assert.Contains(t, preview, `data-portlet-form="true"`)
	assert.Contains(t, preview, "disabled")
	assert.Contains(t, preview, `name="phone"`)

	final := newRenderer().WithPreviewOfFinal(true).RenderFinal(container, false)
	f, err := dom.Parse(final)
	require.NoError(t, err)
	v, ok := f.Attr(templates.AttrPortletForm)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	de := templates.NewRenderer(nil, i18n.NewCatalog("de"), nil, nil).RenderFinal(form, false)
	assert.Contains(t, de, ">Senden</button>")
	assert.Contains(t, de, "Nachricht")
}

func TestImageWithProbe(t *testing.T) {
	root := t.TempDir()
	img := imaging.New(2000, 1000, color.NRGBA{A: 255})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "img"), 0755))
	require.NoError(t, imaging.Save(img, filepath.Join(root, "img", "hero.png")))

	lib := media.NewImageLibrary(root, "/media", "variants", nil)
	svc := services.NewResponsiveImageService(lib, services.DefaultImageSizes(360, 720, 1080, 1440))
	reg := newRegistry(t, svc)

	row := opc.NewInstance(reg.Portlet("Row"))
	image := opc.NewInstance(reg.Portlet("Image"))
	image.SetProperty("src", "/media/img/hero.png")
	image.SetProperty("alt", "Hero")
	row.Subareas().Ensure("col-1").Add(image)

	out := newRenderer().RenderFinal(row, false)
	assert.Contains(t, out, `src="/media/img/hero.png"`)
	assert.Contains(t, out, `/media/variants/img/hero_360w.webp 360w`)
	assert.Contains(t, out, `/media/img/hero.png 2000w`)
	assert.Contains(t, out, `sizes="(max-width: 767px) 100vw, (max-width: 991px) 100vw, (max-width: 1299px) 50vw, (min-width: 1300px) 50vw, 100vw"`)
	assert.Contains(t, out, `width="2000" height="1000"`)
	assert.Contains(t, out, `alt="Hero"`)
}

func TestRenderingLeavesTreeUnchanged(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, imaging.Save(imaging.New(1200, 800, color.NRGBA{A: 255}), filepath.Join(root, "pic.png")))
	lib := media.NewImageLibrary(root, "/media", "variants", nil)
	reg := newRegistry(t, services.NewResponsiveImageService(lib, services.DefaultImageSizes(360, 720, 1080, 1440)))

	row := opc.NewInstance(reg.Portlet("Row"))
	row.SetProperty("layout", "8+4")
	own := opc.NewInstance(reg.Portlet("Image"))
	own.SetProperty("src", "/media/pic.png")
	own.SetWidthHeuristics(opc.WidthHeuristics{"xs": 0.25, "sm": 0.25, "md": 0.25, "lg": 0.25})
	inherited := opc.NewInstance(reg.Portlet("Image"))
	inherited.SetProperty("src", "/media/pic.png")
	row.Subareas().Ensure("col-1").Add(own)
	row.Subareas().Ensure("col-2").Add(inherited)

	before := row.Serialize()
	r := newRenderer()
	final := r.RenderFinal(row, false)
	preview := r.RenderPreview(row)
	assert.Equal(t, before, row.Serialize())

	assert.Contains(t, final, `sizes="(max-width: 767px) 25vw, (max-width: 991px) 25vw, (max-width: 1299px) 25vw, (min-width: 1300px) 25vw, 100vw"`)
	assert.Contains(t, final, `sizes="(max-width: 767px) 100vw, (max-width: 991px) 100vw, (max-width: 1299px) 33vw, (min-width: 1300px) 33vw, 100vw"`)
	assert.Contains(t, preview, `(max-width: 1299px) 33vw`)
	assert.Empty(t, inherited.WidthHeuristics())
}

func TestImageWithoutColumnWeights(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, imaging.Save(imaging.New(800, 600, color.NRGBA{A: 255}), filepath.Join(root, "solo.png")))
	lib := media.NewImageLibrary(root, "/media", "variants", nil)
	inst := opc.NewInstance(NewImage(services.NewResponsiveImageService(lib, nil)))
	inst.SetProperty("src", "/media/solo.png")

	assert.Contains(t, newRenderer().RenderFinal(inst, false), `sizes="100vw"`)
}

func TestImageMissingFile(t *testing.T) {
	lib := media.NewImageLibrary(t.TempDir(), "/media", "", nil)
	p := NewImage(services.NewResponsiveImageService(lib, nil))
	inst := opc.NewInstance(p)
	inst.SetProperty("src", "/media/nope.png")
	inst.SetProperty("alt", "Nothing")

	assert.Equal(t, `<figure class="opc-image"></figure>`, newRenderer().RenderFinal(inst, false))
	assert.Contains(t, newRenderer().RenderPreview(inst), `<div class="opc-image-placeholder">Nothing</div>`)
}

func TestImageWithoutServiceAndLink(t *testing.T) {
	inst := opc.NewInstance(NewImage(nil))
	inst.SetProperty("src", "/media/a b.png")
	inst.SetProperty("link", "url")
	inst.SetProperty("link-url", "/target")
	inst.SetProperty("shape", "circle")

	out := newRenderer().RenderFinal(inst, false)
	assert.Contains(t, out, `<a href="/target">`)
	assert.Contains(t, out, `class="img-fluid rounded-circle"`)
	assert.NotContains(t, out, "srcset")
}

func TestBuiltinRoundTripThroughRegistry(t *testing.T) {
	reg := newRegistry(t, nil)
	row := opc.NewInstance(reg.Portlet("Row"))
	row.Subareas().Ensure("col-1").Add(opc.NewInstance(reg.Portlet("Heading")))
	row.Subareas().Ensure("col-2").Add(opc.NewInstance(reg.Portlet("Button")))

	r := newRenderer()
	before := r.RenderPreview(row)

	decoded, err := opc.NewDecoder(reg, opc.Limits{MaxDepth: 8}).Decode(row.Serialize())
	require.NoError(t, err)
	assert.Equal(t, before, r.RenderPreview(decoded))
}
