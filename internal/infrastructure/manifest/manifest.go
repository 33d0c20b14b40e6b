// Package manifest loads the YAML overlay that adjusts registry metadata per portlet class.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
)

// File is the document shape:
//
//	portlets:
//	  Text:
//	    title: Paragraph
//	    group: content
//	  ContactForm:
//	    active: false
type File struct {
	Portlets map[string]opc.Override `yaml:"portlets"`
}

// Parse decodes a manifest document
func Parse(data []byte) (map[string]opc.Override, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse portlet manifest: %w", err)
	}
	if f.Portlets == nil {
		return map[string]opc.Override{}, nil
	}
	return f.Portlets, nil
}

// Load reads and decodes a manifest file. An empty path yields no overrides.
func Load(path string) (map[string]opc.Override, error) {
	if path == "" {
		return map[string]opc.Override{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read portlet manifest %s: %w", path, err)
	}
	return Parse(data)
}
