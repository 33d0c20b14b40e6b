package opc

// Area is a named, ordered list of instances inside one parent instance
type Area struct {
	id    string
	items []*Instance
}

// NewArea creates an empty area
func NewArea(id string) *Area {
	return &Area{id: id}
}

func (a *Area) ID() string { return a.id }
func (a *Area) Len() int   { return len(a.items) }

// Items returns the instances in order
func (a *Area) Items() []*Instance {
	return append([]*Instance(nil), a.items...)
}

// Add appends an instance
func (a *Area) Add(inst *Instance) {
	a.items = append(a.items, inst)
}

// Insert places inst at index, clamped to the valid range
func (a *Area) Insert(index int, inst *Instance) {
	if index < 0 {
		index = 0
	}
	if index >= len(a.items) {
		a.items = append(a.items, inst)
		return
	}
	a.items = append(a.items, nil)
	copy(a.items[index+1:], a.items[index:])
	a.items[index] = inst
}

// Remove drops the instance with the given UID and reports whether it was present
func (a *Area) Remove(uid string) bool {
	for n, inst := range a.items {
		if inst.uid == uid {
			a.items = append(a.items[:n], a.items[n+1:]...)
			return true
		}
	}
	return false
}

// Move relocates the instance with the given UID to index
func (a *Area) Move(uid string, index int) bool {
	for _, inst := range a.items {
		if inst.uid == uid {
			a.Remove(uid)
			a.Insert(index, inst)
			return true
		}
	}
	return false
}

// Clear removes every instance
func (a *Area) Clear() {
	a.items = nil
}

// Serialize returns the area's record with items serialized in order
func (a *Area) Serialize() AreaData {
	data := AreaData{ID: a.id, Items: make([]InstanceData, 0, len(a.items))}
	for _, inst := range a.items {
		data.Items = append(data.Items, inst.Serialize())
	}
	return data
}

// AreaList maps area keys to areas, keeping insertion order
type AreaList struct {
	keys  []string
	areas map[string]*Area
}

// NewAreaList creates an empty area list
func NewAreaList() *AreaList {
	return &AreaList{areas: make(map[string]*Area)}
}

// Has reports whether an area with the key exists
func (l *AreaList) Has(key string) bool {
	_, ok := l.areas[key]
	return ok
}

// Get returns the area or nil
func (l *AreaList) Get(key string) *Area {
	return l.areas[key]
}

// Put inserts or replaces the area under its own key; a replaced area keeps its position
func (l *AreaList) Put(area *Area) {
	if _, ok := l.areas[area.id]; !ok {
		l.keys = append(l.keys, area.id)
	}
	l.areas[area.id] = area
}

// Ensure returns the area under key, creating it when absent
func (l *AreaList) Ensure(key string) *Area {
	if area, ok := l.areas[key]; ok {
		return area
	}
	area := NewArea(key)
	l.Put(area)
	return area
}

// Keys returns the area keys in insertion order
func (l *AreaList) Keys() []string {
	return append([]string(nil), l.keys...)
}

// Areas returns the areas in insertion order
func (l *AreaList) Areas() []*Area {
	out := make([]*Area, 0, len(l.keys))
	for _, key := range l.keys {
		out = append(out, l.areas[key])
	}
	return out
}

func (l *AreaList) Len() int { return len(l.keys) }
