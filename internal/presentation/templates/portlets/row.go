package portlets

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
)

var rowTmpl = template.Must(template.New("row").Parse(
	`{{define "row"}}<div {{.Attrs}}>{{range .Columns}}<div class="{{.Class}}">{{.Body}}</div>{{end}}</div>{{end}}` +
		`{{define "wrapped"}}<div class="container">{{template "row" .}}</div>{{end}}`,
))

type rowData struct {
	Attrs   template.HTMLAttr
	Columns []rowColumn
}

type rowColumn struct {
	Class string
	Body  template.HTML
}

// RowLayouts lists the supported column layouts on a 12 column grid
var RowLayouts = []string{"12", "6+6", "4+4+4", "3+3+3+3", "8+4", "4+8"}

// Row lays out its children in columns, one subarea per column (col-1, col-2, ...)
type Row struct {
	opc.BasePortlet
}

func NewRow() *Row {
	options := make([]opc.Option, 0, len(RowLayouts))
	for _, l := range RowLayouts {
		options = append(options, opc.Option{Value: l, Label: l})
	}
	return &Row{
		BasePortlet: opc.NewBasePortlet(
			opc.Metadata{Class: "Row", Title: "Row", Group: GroupLayout, Active: true},
			opc.Schema{
				{Name: "layout", Type: opc.TypeSelect, Label: "Layout", Default: "6+6", Options: options},
				{Name: "gutters", Type: opc.TypeCheckbox, Label: "Gutters", Default: true},
			},
		),
	}
}

// Columns parses the layout property into column spans; invalid layouts yield 6+6
func (p *Row) Columns(inst *opc.Instance) []int {
	if spans, ok := parseLayout(inst.PropertyString("layout")); ok {
		return spans
	}
	return []int{6, 6}
}

func parseLayout(layout string) ([]int, bool) {
	var spans []int
	total := 0
	for _, part := range strings.Split(layout, "+") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, false
		}
		spans = append(spans, n)
		total += n
	}
	if total != 12 {
		return nil, false
	}
	return spans, true
}

// AreaID names the subarea of column n (zero based)
func AreaID(n int) string {
	return fmt.Sprintf("col-%d", n+1)
}

// ColumnWidths derives the column weights of a column spanning span of 12 from the row's
// own weights. Phones stack columns, so xs and sm keep the row's full width.
func ColumnWidths(row opc.WidthHeuristics, span int) opc.WidthHeuristics {
	share := float64(span) / 12
	widths := opc.WidthHeuristics{"xs": 1, "sm": 1, "md": share, "lg": share}
	for bp := range widths {
		if f, ok := row[bp]; ok && f > 0 {
			widths[bp] *= f
		}
	}
	return widths
}

func (p *Row) PreviewHTML(inst *opc.Instance, env opc.RenderEnv) string {
	return p.render(inst, env, func(env opc.RenderEnv, area *opc.Area) string {
		return string(renderArea(area.ID(), env.RenderAreaPreview(area)))
	}, false)
}

func (p *Row) FinalHTML(inst *opc.Instance, env opc.RenderEnv, wrapInContainer bool) string {
	return p.render(inst, env, func(env opc.RenderEnv, area *opc.Area) string {
		return env.RenderAreaFinal(area, false)
	}, wrapInContainer)
}

func (p *Row) render(inst *opc.Instance, env opc.RenderEnv, body func(opc.RenderEnv, *opc.Area) string, wrap bool) string {
	rowClass := "row"
	if !inst.PropertyBool("gutters") {
		rowClass += " g-0"
	}

	rowWidths := env.WidthHeuristics(inst)
	spans := p.Columns(inst)
	data := rowData{Attrs: attrs(inst, rowClass, nil)}
	for n, span := range spans {
		area := areaOrEmpty(inst, AreaID(n))
		data.Columns = append(data.Columns, rowColumn{
			Class: fmt.Sprintf("col-12 col-md-%d", span),
			Body:  template.HTML(body(env.WithWidthHeuristics(ColumnWidths(rowWidths, span)), area)),
		})
	}

	name := "row"
	if wrap {
		name = "wrapped"
	}
	return execute(rowTmpl, name, data)
}
