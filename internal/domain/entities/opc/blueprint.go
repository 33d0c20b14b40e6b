package opc

import (
	"time"

	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
)

// Blueprint is a named, stored composition tree used as a reusable template
type Blueprint struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Slug    string       `json:"slug"`
	Data    InstanceData `json:"instance"`
	Created time.Time    `json:"created"`
	Changed *time.Time   `json:"changed,omitempty"`
}

// NewBlueprint captures the current state of root under a new ID
func NewBlueprint(name string, root *Instance) *Blueprint {
	return &Blueprint{
		ID:      ulid.Make().String(),
		Name:    name,
		Slug:    slug.Make(name),
		Data:    root.Serialize(),
		Created: time.Now().UTC(),
	}
}

// Instantiate builds a live tree from the blueprint. Every node gets a fresh UID so the
// same blueprint can be placed on a page more than once.
func (b *Blueprint) Instantiate(d *Decoder) (*Instance, error) {
	return d.Decode(b.Data.WithoutUIDs())
}
