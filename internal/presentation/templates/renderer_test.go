package templates

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/dom"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/i18n"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/performance"
)

type funcPortlet struct {
	opc.BasePortlet
	preview func(*opc.Instance, opc.RenderEnv) string
	final   func(*opc.Instance, opc.RenderEnv, bool) string
	forms   bool
}

func newFuncPortlet(class string, markup func(*opc.Instance, opc.RenderEnv) string) *funcPortlet {
	return &funcPortlet{
		BasePortlet: opc.NewBasePortlet(opc.Metadata{Class: class, Title: class, Active: true},
			opc.Schema{{Name: "text", Type: opc.TypeText}}),
		preview: markup,
		final: func(inst *opc.Instance, env opc.RenderEnv, _ bool) string {
			return markup(inst, env)
		},
	}
}

func (p *funcPortlet) PreviewHTML(inst *opc.Instance, env opc.RenderEnv) string {
	return p.preview(inst, env)
}

func (p *funcPortlet) FinalHTML(inst *opc.Instance, env opc.RenderEnv, wrap bool) string {
	return p.final(inst, env, wrap)
}

func (p *funcPortlet) RendersInteractiveForms(*opc.Instance) bool { return p.forms }

func textPortlet() *funcPortlet {
	return newFuncPortlet("Text", func(inst *opc.Instance, _ opc.RenderEnv) string {
		return "<p>" + inst.PropertyString("text") + "</p>"
	})
}

func formPortlet() *funcPortlet {
	p := newFuncPortlet("Form", func(*opc.Instance, opc.RenderEnv) string {
		return `<div class="form"><form method="post"><button>Send</button></form></div>`
	})
	p.forms = true
	return p
}

func rowPortlet() *funcPortlet {
	p := newFuncPortlet("Row", func(inst *opc.Instance, env opc.RenderEnv) string {
		area := inst.Subareas().Ensure("col-1")
		return `<div class="row"><div class="opc-area" data-area-id="col-1">` + env.RenderAreaPreview(area) + `</div></div>`
	})
	p.final = func(inst *opc.Instance, env opc.RenderEnv, wrap bool) string {
		area := inst.Subareas().Ensure("col-1")
		return `<div class="row">` + env.RenderAreaFinal(area, wrap) + `</div>`
	}
	return p
}

func newTestRenderer(hooks messaging.HookDispatcher) *Renderer {
	return NewRenderer(hooks, i18n.NewCatalog("en"), logging.NewDiscardLogger(), performance.NewTracker(0))
}

func parse(t *testing.T, markup string) *dom.Fragment {
	t.Helper()
	f, err := dom.Parse(markup)
	require.NoError(t, err)
	return f
}

func attr(t *testing.T, f *dom.Fragment, key string) string {
	t.Helper()
	v, ok := f.Attr(key)
	require.True(t, ok, "attribute %s missing", key)
	return v
}

func TestPreviewAnnotatesRoot(t *testing.T) {
	inst := opc.NewInstance(textPortlet())
	inst.SetProperty("text", "Hello")

	out := newTestRenderer(nil).RenderPreview(inst)
	f := parse(t, out)

	assert.Equal(t, "p", f.RootTag())
	assert.Equal(t, inst.UID(), attr(t, f, AttrPortletUID))
	_, hasForm := f.Attr(AttrPortletForm)
	assert.False(t, hasForm)

	var data opc.InstanceData
	require.NoError(t, json.Unmarshal([]byte(attr(t, f, AttrPortlet)), &data))
	assert.Equal(t, "Text", data.Class)
	assert.Equal(t, inst.UID(), data.UID)
	assert.Equal(t, "Hello", data.Properties["text"])
	assert.Contains(t, out, ">Hello</p>")
}

func TestPreviewFormMarker(t *testing.T) {
	out := newTestRenderer(nil).RenderPreview(opc.NewInstance(formPortlet()))
	assert.Equal(t, "true", attr(t, parse(t, out), AttrPortletForm))
}

func TestFinalIsCleanOutsidePreviewOfFinal(t *testing.T) {
	inst := opc.NewInstance(textPortlet())
	inst.SetProperty("text", "Hello")

	assert.Equal(t, "<p>Hello</p>", newTestRenderer(nil).RenderFinal(inst, false))
}

func TestPreviewOfFinalDetectsNestedForms(t *testing.T) {
	row := opc.NewInstance(rowPortlet())
	row.Subareas().Ensure("col-1").Add(opc.NewInstance(formPortlet()))

	r := newTestRenderer(nil)
	assert.False(t, r.PreviewOfFinal())

	out := r.WithPreviewOfFinal(true).RenderFinal(row, false)
	f := parse(t, out)
	assert.Equal(t, row.UID(), attr(t, f, AttrPortletUID))
	assert.Equal(t, "true", attr(t, f, AttrPortletForm))
	_, hasData := f.Attr(AttrPortlet)
	assert.False(t, hasData)

	plain := opc.NewInstance(rowPortlet())
	out = r.WithPreviewOfFinal(true).RenderFinal(plain, false)
	_, hasForm := parse(t, out).Attr(AttrPortletForm)
	assert.False(t, hasForm)
}

func TestNestedPreviewAnnotatesEveryInstance(t *testing.T) {
	row := opc.NewInstance(rowPortlet())
	a := opc.NewInstance(textPortlet())
	b := opc.NewInstance(textPortlet())
	row.Subareas().Ensure("col-1").Add(a)
	row.Subareas().Ensure("col-1").Add(b)

	out := newTestRenderer(nil).RenderPreview(row)
	for _, uid := range []string{row.UID(), a.UID(), b.UID()} {
		assert.Contains(t, out, `data-portlet-uid="`+uid+`"`)
	}
	assert.Less(t, strings.Index(out, a.UID()), strings.Index(out, b.UID()))
}

func TestEmptyContainerMarkupFallsBackToNotice(t *testing.T) {
	empty := newFuncPortlet("Container", func(*opc.Instance, opc.RenderEnv) string { return "" })
	inst := opc.NewInstance(empty)

	for _, out := range []string{
		newTestRenderer(nil).RenderPreview(inst),
		newTestRenderer(nil).RenderFinal(inst, true),
	} {
		require.NotEmpty(t, out)
		f := parse(t, out)
		assert.Equal(t, "opc-portlet-missing-html", attr(t, f, "class"))
		assert.Contains(t, out, opc.MsgMissingHTML)

		var data opc.InstanceData
		require.NoError(t, json.Unmarshal([]byte(attr(t, f, AttrPortlet)), &data))
		assert.Equal(t, "Container", data.Class)
	}
}

func TestPanickingPortletFallsBackToNotice(t *testing.T) {
	broken := newFuncPortlet("Broken", func(*opc.Instance, opc.RenderEnv) string { panic("boom") })
	inst := opc.NewInstance(broken)

	var out string
	assert.NotPanics(t, func() { out = newTestRenderer(nil).RenderPreview(inst) })
	assert.Contains(t, out, "opc-portlet-missing-html")
	assert.Contains(t, out, inst.UID())
}

func TestTextOnlyMarkupFallsBackToNotice(t *testing.T) {
	textOnly := newFuncPortlet("Bare", func(*opc.Instance, opc.RenderEnv) string { return "just words" })
	out := newTestRenderer(nil).RenderFinal(opc.NewInstance(textOnly), false)
	assert.NotContains(t, out, "just words")
	assert.Contains(t, out, "opc-portlet-missing-html")
}

func TestUnknownClassRendersMissingPortlet(t *testing.T) {
	inst := opc.NewInstance(opc.NewMissingPortlet("DoesNotExist"))
	out := NewRenderer(nil, i18n.NewCatalog("de"), nil, nil).RenderPreview(inst)

	assert.Contains(t, out, "Fehlendes Portlet: DoesNotExist")
	assert.Contains(t, out, `class="opc-portlet-missing"`)
	assert.Contains(t, out, inst.UID())
}

func TestHooksRewriteMarkup(t *testing.T) {
	hooks := messaging.NewHookRegistry(nil)
	hooks.Register(messaging.HookInstanceFinal, func(inst *opc.Instance, markup *string) {
		*markup = "<section>" + *markup + "</section>"
	})
	var previewed []string
	hooks.Register(messaging.HookInstancePreview, func(inst *opc.Instance, _ *string) {
		previewed = append(previewed, inst.UID())
	})

	inst := opc.NewInstance(textPortlet())
	inst.SetProperty("text", "x")
	r := newTestRenderer(hooks)

	assert.Equal(t, "<section><p>x</p></section>", r.RenderFinal(inst, false))
	r.RenderPreview(inst)
	assert.Equal(t, []string{inst.UID()}, previewed)
}

func TestSubareaRendering(t *testing.T) {
	row := opc.NewInstance(rowPortlet())
	a := opc.NewInstance(textPortlet())
	a.SetProperty("text", "A")
	row.Subareas().Ensure("col-1").Add(a)

	r := newTestRenderer(nil)
	assert.Equal(t, "", r.RenderSubareaPreview(row, "col-9"))
	assert.Equal(t, "", r.RenderSubareaFinal(row, "col-9", false))
	assert.Equal(t, "<p>A</p>", r.RenderSubareaFinal(row, "col-1", false))
	assert.Contains(t, r.RenderSubareaPreview(row, "col-1"), a.UID())
}

func TestRenderingIsDeterministic(t *testing.T) {
	row := opc.NewInstance(rowPortlet())
	row.Subareas().Ensure("col-1").Add(opc.NewInstance(textPortlet()))
	r := newTestRenderer(nil)

	assert.Equal(t, r.RenderPreview(row), r.RenderPreview(row))
	assert.Equal(t, r.RenderFinal(row, true), r.RenderFinal(row, true))
}

func TestTranslateWithoutCatalog(t *testing.T) {
	r := NewRenderer(nil, nil, nil, nil)
	assert.Equal(t, "Missing portlet: X", r.Translate(opc.MsgMissingPortlet, "X"))
	assert.Equal(t, "plain", r.Translate("plain"))
}

func TestWidthHeuristicsFlowToChildren(t *testing.T) {
	var seen []opc.WidthHeuristics
	leaf := newFuncPortlet("Leaf", func(inst *opc.Instance, env opc.RenderEnv) string {
		seen = append(seen, env.WidthHeuristics(inst))
		return "<span></span>"
	})
	half := newFuncPortlet("Half", func(inst *opc.Instance, env opc.RenderEnv) string {
		return "<div>" + env.WithWidthHeuristics(opc.WidthHeuristics{"md": 0.5}).RenderAreaPreview(inst.Subarea("content")) + "</div>"
	})

	root := opc.NewInstance(half)
	inheriting := opc.NewInstance(leaf)
	own := opc.NewInstance(leaf)
	own.SetWidthHeuristics(opc.WidthHeuristics{"md": 0.25})
	area := root.Subareas().Ensure("content")
	area.Add(inheriting)
	area.Add(own)

	before := root.Serialize()
	newTestRenderer(nil).RenderPreview(root)

	require.Len(t, seen, 2)
	assert.Equal(t, opc.WidthHeuristics{"md": 0.5}, seen[0])
	assert.Equal(t, opc.WidthHeuristics{"md": 0.25}, seen[1])
	assert.Equal(t, before, root.Serialize())
	assert.Empty(t, inheriting.WidthHeuristics())
	assert.Empty(t, newTestRenderer(nil).WidthHeuristics(inheriting))
}
