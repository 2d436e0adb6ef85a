package document

import (
	"path/filepath"
	"testing"

	"tether/core"
	"tether/engine"
)

func sampleDocument() *Document {
	doc := New("sample")
	doc.Shapes = []core.Shape{
		{
			ID:       1,
			Bounds:   core.Bounds{Left: 0, Top: 0, Width: 100, Height: 100},
			Geometry: core.Geometry{Kind: core.KindRectangle},
			Label:    "source",
		},
		{
			ID:       2,
			Bounds:   core.Bounds{Left: 300, Top: 10, Width: 100, Height: 100},
			Geometry: core.Geometry{Kind: core.KindEllipse},
			Label:    "target",
		},
	}
	doc.Connectors = []engine.Record{
		{
			ID:          1,
			FromShapeID: 1,
			ToShapeID:   2,
			FromPoint:   engine.PointRecord{Side: core.SideRight, Fraction: 0.5},
			ToPoint:     engine.PointRecord{Side: core.SideLeft, Fraction: 0.5},
		},
	}
	return doc
}

func TestPopulateAndSnapshot(t *testing.T) {
	doc := sampleDocument()
	store := engine.NewMemStore()
	m := engine.NewManager(store, engine.Tuning{})
	m.SetNotifier(store)

	if loaded := doc.Populate(store, m); loaded != 1 {
		t.Fatalf("Populate() loaded %d connectors, want 1", loaded)
	}
	if len(store.Shapes()) != 2 {
		t.Fatalf("store has %d shapes, want 2", len(store.Shapes()))
	}
	c, ok := m.Connector(1)
	if !ok {
		t.Fatal("connector not registered")
	}
	if c.Path.IsEmpty() {
		t.Error("loaded connector has no routed path")
	}

	snap := doc.Snapshot(store, m)
	if len(snap.Shapes) != 2 || len(snap.Connectors) != 1 {
		t.Errorf("snapshot has %d shapes / %d connectors", len(snap.Shapes), len(snap.Connectors))
	}
	if snap.Metadata.Name != "sample" {
		t.Errorf("metadata lost: %+v", snap.Metadata)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	doc := sampleDocument()
	path := filepath.Join(t.TempDir(), "diagram.tether")

	if err := doc.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(loaded.Shapes) != 2 || len(loaded.Connectors) != 1 {
		t.Fatalf("round trip lost content: %d shapes / %d connectors",
			len(loaded.Shapes), len(loaded.Connectors))
	}
	if loaded.Shapes[1].Geometry.Kind != core.KindEllipse {
		t.Errorf("geometry kind = %v, want ellipse", loaded.Shapes[1].Geometry.Kind)
	}
	if loaded.Connectors[0].FromPoint != (engine.PointRecord{Side: core.SideRight, Fraction: 0.5}) {
		t.Errorf("connector endpoint changed: %+v", loaded.Connectors[0].FromPoint)
	}
	if loaded.Metadata.Name != "sample" {
		t.Errorf("metadata name = %q", loaded.Metadata.Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.tether")); err == nil {
		t.Fatal("missing file accepted")
	}
}
