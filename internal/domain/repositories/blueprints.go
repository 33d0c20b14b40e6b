// Package repositories defines the repository interfaces for stored compositions.
// These repositories abstract the data persistence details, ensuring the core
// application is clean and decoupled from the database.
package repositories

import (
	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
)

// BlueprintRepository stores named composition trees. Lookups return (nil, nil) when
// nothing matches.
type BlueprintRepository interface {
	FindByID(id string) (*opc.Blueprint, error)
	FindBySlug(slug string) (*opc.Blueprint, error)
	FindAll() ([]*opc.Blueprint, error)
	Store(blueprint *opc.Blueprint) error
	Update(blueprint *opc.Blueprint) error
	Delete(id string) error
}
