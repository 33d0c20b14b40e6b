// Package templates runs portlet renderers and annotates their output for the editor.
package templates

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/dom"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/opc-go/internal/infrastructure/observability/performance"
)

// Attributes attached to the root element of rendered instances
const (
	AttrPortlet     = "data-portlet"
	AttrPortletUID  = "data-portlet-uid"
	AttrPortletForm = "data-portlet-form"
)

// Render modes as reported in logs and metrics
const (
	ModePreview = "preview"
	ModeFinal   = "final"
)

var missingHTMLTmpl = template.Must(template.New("missingHTML").Parse(
	`<div class="opc-portlet-missing-html" data-portlet="{{.Data}}"><p>{{.Notice}}</p></div>`,
))

type missingHTMLData struct {
	Data   string
	Notice string
}

// Translator resolves UI strings
type Translator interface {
	Translate(key string, args ...any) string
}

// Renderer produces preview and final markup for instance trees. It implements
// opc.RenderEnv so container portlets can render their subareas through it.
// A Renderer never mutates the trees it renders and may be shared between requests.
type Renderer struct {
	hooks          messaging.HookDispatcher
	translator     Translator
	logger         *logging.ChanneledLogger
	tracker        *performance.Tracker
	previewOfFinal bool
	widths         opc.WidthHeuristics
}

// NewRenderer creates a renderer. Every collaborator may be nil.
func NewRenderer(hooks messaging.HookDispatcher, translator Translator, logger *logging.ChanneledLogger, tracker *performance.Tracker) *Renderer {
	return &Renderer{
		hooks:      hooks,
		translator: translator,
		logger:     logger,
		tracker:    tracker,
	}
}

// WithPreviewOfFinal returns a copy that annotates final markup for in-editor previews
func (r *Renderer) WithPreviewOfFinal(on bool) *Renderer {
	c := *r
	c.previewOfFinal = on
	return &c
}

// PreviewOfFinal reports whether final markup is annotated
func (r *Renderer) PreviewOfFinal() bool {
	return r.previewOfFinal
}

// RenderPreview renders the editor markup of inst. The root element always carries the
// serialized instance and its UID, plus a form marker when the portlet renders forms.
func (r *Renderer) RenderPreview(inst *opc.Instance) string {
	marker := r.start("render:" + ModePreview)

	data := serializedData(inst)
	env := r.scoped(inst)
	raw := r.safeRender(inst, ModePreview, func() string {
		return inst.Portlet().PreviewHTML(inst, env)
	})

	frag, fallback := r.parseOrNotice(inst, ModePreview, raw, data)
	frag.SetAttr(AttrPortlet, data)
	frag.SetAttr(AttrPortletUID, inst.UID())
	if inst.Portlet().RendersInteractiveForms(inst) {
		frag.SetAttr(AttrPortletForm, "true")
	}

	return r.finish(inst, ModePreview, frag, fallback, messaging.HookInstancePreview, marker)
}

// RenderFinal renders production markup. Only in preview-of-final mode does the root
// element get the UID and, if a form appears anywhere in the output, the form marker.
func (r *Renderer) RenderFinal(inst *opc.Instance, wrapInContainer bool) string {
	marker := r.start("render:" + ModeFinal)

	env := r.scoped(inst)
	raw := r.safeRender(inst, ModeFinal, func() string {
		return inst.Portlet().FinalHTML(inst, env, wrapInContainer)
	})

	frag, fallback := r.parseOrNotice(inst, ModeFinal, raw, "")
	if r.previewOfFinal {
		frag.SetAttr(AttrPortletUID, inst.UID())
		if frag.Contains("form") {
			frag.SetAttr(AttrPortletForm, "true")
		}
	}

	return r.finish(inst, ModeFinal, frag, fallback, messaging.HookInstanceFinal, marker)
}

// RenderSubareaPreview renders the items of one subarea; unknown keys render as ""
func (r *Renderer) RenderSubareaPreview(inst *opc.Instance, areaKey string) string {
	area := inst.Subarea(areaKey)
	if area == nil {
		return ""
	}
	return r.RenderAreaPreview(area)
}

// RenderSubareaFinal renders the items of one subarea; unknown keys render as ""
func (r *Renderer) RenderSubareaFinal(inst *opc.Instance, areaKey string, wrapInContainer bool) string {
	area := inst.Subarea(areaKey)
	if area == nil {
		return ""
	}
	return r.RenderAreaFinal(area, wrapInContainer)
}

// RenderAreaPreview concatenates the preview markup of every item in order
func (r *Renderer) RenderAreaPreview(area *opc.Area) string {
	var b strings.Builder
	for _, item := range area.Items() {
		b.WriteString(r.RenderPreview(item))
	}
	return b.String()
}

// RenderAreaFinal concatenates the final markup of every item in order
func (r *Renderer) RenderAreaFinal(area *opc.Area, wrapInContainer bool) string {
	var b strings.Builder
	for _, item := range area.Items() {
		b.WriteString(r.RenderFinal(item, wrapInContainer))
	}
	return b.String()
}

// Translate resolves a UI string, formatting args into the key when no translator is set
func (r *Renderer) Translate(key string, args ...any) string {
	if r.translator != nil {
		return r.translator.Translate(key, args...)
	}
	if len(args) == 0 {
		return key
	}
	return fmt.Sprintf(key, args...)
}

// WidthHeuristics returns the instance's own column weights, or the ones its containers
// assigned when it has none
func (r *Renderer) WidthHeuristics(inst *opc.Instance) opc.WidthHeuristics {
	if own := inst.WidthHeuristics(); len(own) > 0 {
		return own
	}
	out := make(opc.WidthHeuristics, len(r.widths))
	for bp, w := range r.widths {
		out[bp] = w
	}
	return out
}

// WithWidthHeuristics returns a copy that lays out area children in w
func (r *Renderer) WithWidthHeuristics(w opc.WidthHeuristics) opc.RenderEnv {
	return r.withWidths(w)
}

func (r *Renderer) withWidths(w opc.WidthHeuristics) *Renderer {
	c := *r
	c.widths = make(opc.WidthHeuristics, len(w))
	for bp, v := range w {
		c.widths[bp] = v
	}
	return &c
}

// scoped returns the renderer inst's children inherit widths from
func (r *Renderer) scoped(inst *opc.Instance) *Renderer {
	own := inst.WidthHeuristics()
	if len(own) == 0 {
		return r
	}
	return r.withWidths(own)
}

func (r *Renderer) safeRender(inst *opc.Instance, mode string, fn func() string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logError(mode, fmt.Errorf("portlet renderer panicked: %v", rec), inst)
			out = ""
		}
	}()
	return fn()
}

// parseOrNotice parses raw markup. Without a root element the markup is replaced by the
// missing-HTML notice, which always carries the serialized instance.
func (r *Renderer) parseOrNotice(inst *opc.Instance, mode, raw, data string) (*dom.Fragment, bool) {
	if frag, err := dom.Parse(raw); err == nil {
		return frag, false
	}

	if data == "" {
		data = serializedData(inst)
	}
	var b strings.Builder
	err := missingHTMLTmpl.Execute(&b, missingHTMLData{Data: data, Notice: r.Translate(opc.MsgMissingHTML)})
	if err != nil {
		r.logError(mode, fmt.Errorf("missing HTML notice: %w", err), inst)
	}
	frag, err := dom.Parse(b.String())
	if err != nil {
		// The notice template always has a root element.
		panic(fmt.Sprintf("missing HTML notice did not parse: %v", err))
	}
	return frag, true
}

func (r *Renderer) finish(inst *opc.Instance, mode string, frag *dom.Fragment, fallback bool, hook string, marker *performance.Marker) string {
	markup, err := frag.Render()
	if err != nil {
		r.logError(mode, err, inst)
		markup = ""
	}

	if r.hooks != nil {
		r.hooks.Dispatch(hook, inst, &markup)
	}

	if marker != nil {
		marker.SetSuccess(!fallback)
		r.tracker.CompleteOperation(marker)
	}
	if r.logger != nil {
		var d time.Duration
		if marker != nil {
			d = marker.Duration
		}
		r.logger.LogRenderOperation(mode, inst.Class(), inst.UID(), d, !fallback)
	}
	return markup
}

func (r *Renderer) start(operation string) *performance.Marker {
	if r.tracker == nil {
		return nil
	}
	return r.tracker.StartOperation(operation)
}

func (r *Renderer) logError(mode string, err error, inst *opc.Instance) {
	if r.logger == nil {
		return
	}
	r.logger.LogError(logging.ChannelRender, "render:"+mode, err, map[string]any{
		"class": inst.Class(),
		"uid":   inst.UID(),
	})
}

func serializedData(inst *opc.Instance) string {
	b, err := json.Marshal(inst.Serialize())
	if err != nil {
		return "{}"
	}
	return string(b)
}
