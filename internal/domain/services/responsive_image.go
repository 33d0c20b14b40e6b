// Package services provides the domain calculations portlets share while rendering.
package services

import (
	"fmt"
	"strings"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
)

// ImageProbe resolves local image metadata. Implementations must not fail: an image that
// cannot be read reports ok == false.
type ImageProbe interface {
	Dimensions(src string) (width, height int, ok bool)
	VariantURL(src string, width int) string
}

// ImageSize is one configured output width. The last entry of a size list is the
// largest and is served from the original file.
type ImageSize struct {
	Name  string `json:"name"`
	Width int    `json:"width"`
}

// Breakpoint pairs a width-heuristics key with its media query
type Breakpoint struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}

// DefaultBreakpoints are ordered from narrowest to widest
var DefaultBreakpoints = []Breakpoint{
	{Name: "xs", Query: "(max-width: 767px)"},
	{Name: "sm", Query: "(max-width: 991px)"},
	{Name: "md", Query: "(max-width: 1299px)"},
	{Name: "lg", Query: "(min-width: 1300px)"},
}

// DefaultImageSizes builds the size list from the four configured widths plus the original
func DefaultImageSizes(xs, sm, md, lg int) []ImageSize {
	return []ImageSize{
		{Name: "xs", Width: xs},
		{Name: "sm", Width: sm},
		{Name: "md", Width: md},
		{Name: "lg", Width: lg},
		{Name: "xl", Width: 0},
	}
}

// Divisor scales the column weight of each breakpoint. Factor divides every breakpoint
// evenly; Weights gives an explicit multiplier per breakpoint and wins where set.
type Divisor struct {
	Factor  float64
	Weights map[string]float64
}

// FlatDivisor spreads the image over 1/factor of its column at every breakpoint
func FlatDivisor(factor float64) Divisor {
	return Divisor{Factor: factor}
}

// WeightDivisor uses explicit per-breakpoint multipliers
func WeightDivisor(weights map[string]float64) Divisor {
	return Divisor{Weights: weights}
}

// factor is 1 unless the divisor says otherwise for bp
func (d Divisor) factor(bp string) float64 {
	if f, ok := d.Weights[bp]; ok && f > 0 {
		return f
	}
	if d.Factor > 0 {
		return 1 / d.Factor
	}
	return 1
}

// ImageRequest is the input of one attribute calculation
type ImageRequest struct {
	Src        string
	Alt        string
	Title      string
	Divisor    Divisor
	Heuristics opc.WidthHeuristics
}

// ImageAttributes is the derived <img> attribute set
type ImageAttributes struct {
	Srcset     string `json:"srcset"`
	Sizes      string `json:"sizes"`
	Src        string `json:"src"`
	Alt        string `json:"alt"`
	Title      string `json:"title"`
	RealWidth  int    `json:"realWidth"`
	RealHeight int    `json:"realHeight"`
}

// ResponsiveImageService computes srcset and sizes attributes. It holds no mutable state.
type ResponsiveImageService struct {
	probe       ImageProbe
	sizes       []ImageSize
	breakpoints []Breakpoint
}

// NewResponsiveImageService creates the service; empty sizes fall back to the defaults
func NewResponsiveImageService(probe ImageProbe, sizes []ImageSize) *ResponsiveImageService {
	if len(sizes) == 0 {
		sizes = DefaultImageSizes(360, 720, 1080, 1440)
	}
	return &ResponsiveImageService{
		probe:       probe,
		sizes:       sizes,
		breakpoints: DefaultBreakpoints,
	}
}

// Attributes computes the attribute set for req. A missing image yields zero dimensions
// and empty src, srcset and sizes; alt and title are kept.
func (s *ResponsiveImageService) Attributes(req ImageRequest) ImageAttributes {
	attrs := ImageAttributes{Alt: req.Alt, Title: req.Title}
	if strings.TrimSpace(req.Src) == "" {
		return attrs
	}

	width, height, ok := s.probe.Dimensions(req.Src)
	if !ok {
		return attrs
	}
	attrs.RealWidth = width
	attrs.RealHeight = height
	attrs.Src = escapeURL(req.Src)
	attrs.Srcset = s.srcset(req.Src, width, height)
	attrs.Sizes = s.sizesAttr(req.Divisor, req.Heuristics)
	return attrs
}

// InstanceAttributes reads src, alt and title from the instance's properties. widths are
// the column weights the instance is laid out in for this render.
func (s *ResponsiveImageService) InstanceAttributes(inst *opc.Instance, srcProperty string, divisor Divisor, widths opc.WidthHeuristics) ImageAttributes {
	return s.Attributes(ImageRequest{
		Src:        inst.PropertyString(srcProperty),
		Alt:        inst.PropertyString("alt"),
		Title:      inst.PropertyString("title"),
		Divisor:    divisor,
		Heuristics: widths,
	})
}

func (s *ResponsiveImageService) srcset(src string, width, height int) string {
	portrait := width < height
	ratio := 1.0
	if width > 0 && height > 0 {
		ratio = float64(width) / float64(height)
	}

	entries := make([]string, 0, len(s.sizes))
	last := len(s.sizes) - 1
	for n, size := range s.sizes {
		if n == last {
			entries = append(entries, fmt.Sprintf("%s %dw", escapeURL(src), width))
			continue
		}
		descriptor := size.Width
		if portrait {
			descriptor = int(float64(size.Width) * ratio)
		}
		url := s.probe.VariantURL(src, size.Width)
		entries = append(entries, fmt.Sprintf("%s %dw", escapeURL(url), descriptor))
	}
	return strings.Join(entries, ",")
}

func (s *ResponsiveImageService) sizesAttr(divisor Divisor, heuristics opc.WidthHeuristics) string {
	var b strings.Builder
	for _, bp := range s.breakpoints {
		col := heuristics[bp.Name]
		if col <= 0 {
			continue
		}
		fmt.Fprintf(&b, "%s %dvw, ", bp.Query, int(col*100*divisor.factor(bp.Name)))
	}
	b.WriteString("100vw")
	return b.String()
}

func escapeURL(u string) string {
	return strings.ReplaceAll(u, " ", "%20")
}
