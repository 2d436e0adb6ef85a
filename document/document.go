// Package document is the on-disk model: shapes plus connector records
// in one JSON file, loadable into a store/manager pair and snapshotted
// back out.
package document

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"tether/core"
	"tether/engine"
)

// Metadata holds document metadata.
type Metadata struct {
	Name    string `json:"name,omitempty"`
	Created string `json:"created,omitempty"`
}

// Document is the JSON structure for .tether files.
type Document struct {
	Shapes     []core.Shape    `json:"shapes"`
	Connectors []engine.Record `json:"connectors"`
	Metadata   Metadata        `json:"metadata,omitempty"`
}

// New creates an empty named document stamped with the current time.
func New(name string) *Document {
	return &Document{
		Metadata: Metadata{
			Name:    name,
			Created: time.Now().Format(time.RFC3339),
		},
	}
}

// Load reads and decodes a document file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document %s: %w", path, err)
	}
	return &doc, nil
}

// Save writes the document as indented JSON.
func (d *Document) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// Populate loads the document's shapes into the store and its connector
// records into the manager, returning how many connectors resolved.
// Records referencing missing shapes are skipped, matching Deserialize.
func (d *Document) Populate(store *engine.MemStore, m *engine.Manager) int {
	for _, shape := range d.Shapes {
		store.AddShape(shape)
	}
	return m.LoadRecords(d.Connectors)
}

// Snapshot captures the current shapes and connectors as a document,
// preserving the receiver's metadata.
func (d *Document) Snapshot(store *engine.MemStore, m *engine.Manager) *Document {
	return &Document{
		Shapes:     store.Shapes(),
		Connectors: m.Records(),
		Metadata:   d.Metadata,
	}
}
