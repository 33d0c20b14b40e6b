package opc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// InstanceData is the persisted and transmitted shape of an instance
type InstanceData struct {
	Class           string          `json:"class"`
	UID             string          `json:"uid,omitempty"`
	Title           string          `json:"title,omitempty"`
	Properties      map[string]any  `json:"properties"`
	WidthHeuristics WidthHeuristics `json:"widthHeuristics,omitempty"`
	Subareas        []AreaData      `json:"subareas"`
}

// AreaData is the serialized shape of one subarea
type AreaData struct {
	ID    string         `json:"id"`
	Items []InstanceData `json:"items"`
}

// UnmarshalJSON accepts any syntactically valid JSON. Fields of the wrong shape are
// treated as absent instead of failing the whole record.
func (d *InstanceData) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	m, _ := raw.(map[string]any)
	*d = ParseInstanceData(m)
	return nil
}

// UnmarshalJSON mirrors InstanceData's tolerant decoding
func (a *AreaData) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	m, _ := raw.(map[string]any)
	if area, ok := parseArea("", m); ok {
		*a = area
	} else {
		*a = AreaData{}
	}
	return nil
}

// ParseInstanceData converts a generic map into an InstanceData record. A nil map yields
// an empty record.
func ParseInstanceData(m map[string]any) InstanceData {
	data := InstanceData{
		Properties: make(map[string]any),
		Subareas:   []AreaData{},
	}
	if m == nil {
		return data
	}

	if class, ok := m["class"].(string); ok {
		data.Class = class
	}
	if uid, ok := m["uid"].(string); ok {
		data.UID = uid
	}
	if title, ok := m["title"].(string); ok {
		data.Title = title
	}
	if props, ok := m["properties"].(map[string]any); ok {
		for k, v := range props {
			data.Properties[k] = v
		}
	}
	if heuristics, ok := m["widthHeuristics"].(map[string]any); ok {
		data.WidthHeuristics = parseHeuristics(heuristics)
	}
	data.Subareas = parseSubareas(m["subareas"])

	return data
}

func parseHeuristics(m map[string]any) WidthHeuristics {
	out := make(WidthHeuristics)
	for bp, v := range m {
		switch t := v.(type) {
		case float64:
			out[bp] = t
		case string:
			if f, err := strconv.ParseFloat(t, 64); err == nil {
				out[bp] = f
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseSubareas accepts the list form [{id, items}] and the legacy object form
// {areaID: {content|items: [...]}}. Anything else means no subareas.
func parseSubareas(v any) []AreaData {
	areas := []AreaData{}

	switch t := v.(type) {
	case []any:
		for _, entry := range t {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if area, ok := parseArea("", m); ok {
				areas = append(areas, area)
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			m, ok := t[key].(map[string]any)
			if !ok {
				continue
			}
			if area, ok := parseArea(key, m); ok {
				areas = append(areas, area)
			}
		}
	}
	return areas
}

func parseArea(fallbackID string, m map[string]any) (AreaData, bool) {
	if m == nil {
		return AreaData{}, false
	}
	id, _ := m["id"].(string)
	if id == "" {
		id = fallbackID
	}
	if id == "" {
		return AreaData{}, false
	}

	area := AreaData{ID: id, Items: []InstanceData{}}
	items, ok := m["items"].([]any)
	if !ok {
		items, _ = m["content"].([]any)
	}
	for _, item := range items {
		if im, ok := item.(map[string]any); ok {
			area.Items = append(area.Items, ParseInstanceData(im))
		}
	}
	return area, true
}

// Serialize returns the instance's record, subareas included
func (i *Instance) Serialize() InstanceData {
	data := InstanceData{
		Class:           i.portlet.Class(),
		UID:             i.uid,
		Title:           i.portlet.Title(),
		Properties:      cloneProperties(i.properties),
		WidthHeuristics: i.widthHeuristics.clone(),
		Subareas:        make([]AreaData, 0, i.subareas.Len()),
	}
	for _, area := range i.subareas.Areas() {
		data.Subareas = append(data.Subareas, area.Serialize())
	}
	return data
}

// MarshalJSON serializes the instance through its record
func (i *Instance) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Serialize())
}

// Deserialize merges data into the instance using d to resolve portlet classes
func (i *Instance) Deserialize(data InstanceData, d *Decoder) error {
	return d.decodeInto(i, data, 1)
}

// TypeResolver resolves a class name to a portlet, never returning nil
type TypeResolver interface {
	Portlet(class string) Portlet
}

// Limits bounds decoded trees; zero disables a limit
type Limits struct {
	MaxDepth     int
	MaxAreaItems int
}

// Decoder builds live instance trees from records
type Decoder struct {
	types  TypeResolver
	limits Limits
}

// NewDecoder creates a decoder resolving classes through types
func NewDecoder(types TypeResolver, limits Limits) *Decoder {
	return &Decoder{types: types, limits: limits}
}

// Decode builds a new tree from data. Unknown classes become placeholders; only limit
// violations are reported as errors.
func (d *Decoder) Decode(data InstanceData) (*Instance, error) {
	inst := NewInstance(d.types.Portlet(data.Class))
	if err := d.decodeInto(inst, data, 1); err != nil {
		return nil, err
	}
	return inst, nil
}

func (d *Decoder) decodeInto(inst *Instance, data InstanceData, depth int) error {
	if d.limits.MaxDepth > 0 && depth > d.limits.MaxDepth {
		return fmt.Errorf("%w: depth %d, limit %d", ErrTreeTooDeep, depth, d.limits.MaxDepth)
	}

	for name, value := range data.Properties {
		inst.properties[name] = cloneValue(value)
	}

	for _, areaData := range data.Subareas {
		if areaData.ID == "" {
			continue
		}
		if d.limits.MaxAreaItems > 0 && len(areaData.Items) > d.limits.MaxAreaItems {
			return fmt.Errorf("%w: area %q has %d items, limit %d",
				ErrAreaTooLarge, areaData.ID, len(areaData.Items), d.limits.MaxAreaItems)
		}

		area := NewArea(areaData.ID)
		for _, itemData := range areaData.Items {
			child := NewInstance(d.types.Portlet(itemData.Class))
			if err := d.decodeInto(child, itemData, depth+1); err != nil {
				return err
			}
			area.Add(child)
		}
		inst.subareas.Put(area)
	}

	if len(data.WidthHeuristics) > 0 {
		inst.widthHeuristics = data.WidthHeuristics.clone()
	}
	if data.UID != "" {
		inst.uid = data.UID
	} else {
		inst.uid = newUID()
	}
	return nil
}

// WithoutUIDs returns a deep copy of the record with every UID cleared
func (d InstanceData) WithoutUIDs() InstanceData {
	out := d
	out.UID = ""
	out.Properties = cloneProperties(d.Properties)
	out.WidthHeuristics = d.WidthHeuristics.clone()
	out.Subareas = make([]AreaData, len(d.Subareas))
	for n, area := range d.Subareas {
		items := make([]InstanceData, len(area.Items))
		for m, item := range area.Items {
			items[m] = item.WithoutUIDs()
		}
		out.Subareas[n] = AreaData{ID: area.ID, Items: items}
	}
	return out
}
