package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"tether/core"
)

// connectorSchema validates a serialized connector document before any
// record is decoded. Individual records that validate but reference
// missing shapes are skipped later; structurally invalid documents are
// rejected outright.
const connectorSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "fromShapeId", "toShapeId", "fromPoint", "toPoint"],
		"properties": {
			"id": {"type": "integer"},
			"fromShapeId": {"type": "integer"},
			"toShapeId": {"type": "integer"},
			"fromPoint": {"$ref": "#/definitions/point"},
			"toPoint": {"$ref": "#/definitions/point"},
			"routingStyle": {"enum": ["orthogonal", "straight", "curved"]},
			"waypointAdjustments": {
				"type": "object",
				"additionalProperties": {
					"type": "object",
					"required": ["axis", "offset"],
					"properties": {
						"axis": {"enum": ["x", "y"]},
						"offset": {"type": "number"}
					}
				}
			},
			"strokeColor": {"type": "string"},
			"strokeWidth": {"type": "number"},
			"label": {"type": "string"}
		}
	},
	"definitions": {
		"point": {
			"type": "object",
			"required": ["side", "fraction"],
			"properties": {
				"side": {"enum": ["top", "right", "bottom", "left"]},
				"fraction": {"type": "number", "minimum": 0, "maximum": 1}
			}
		}
	}
}`

// PointRecord is the wire form of a connection point; the owning shape id
// lives on the enclosing record.
type PointRecord struct {
	Side     core.Side `json:"side"`
	Fraction float64   `json:"fraction"`
}

// Record is the persisted, JSON-compatible form of a connector.
type Record struct {
	ID                  int                     `json:"id"`
	FromShapeID         int                     `json:"fromShapeId"`
	ToShapeID           int                     `json:"toShapeId"`
	FromPoint           PointRecord             `json:"fromPoint"`
	ToPoint             PointRecord             `json:"toPoint"`
	RoutingStyle        core.RoutingStyle       `json:"routingStyle"`
	WaypointAdjustments map[int]core.Adjustment `json:"waypointAdjustments,omitempty"`
	StrokeColor         string                  `json:"strokeColor,omitempty"`
	StrokeWidth         float64                 `json:"strokeWidth,omitempty"`
	Label               string                  `json:"label,omitempty"`
}

// Records returns the persisted form of every registered connector,
// ordered by id.
func (m *Manager) Records() []Record {
	connectors := m.Connectors()
	records := make([]Record, 0, len(connectors))
	for _, c := range connectors {
		records = append(records, Record{
			ID:                  c.ID,
			FromShapeID:         c.From.ShapeID,
			ToShapeID:           c.To.ShapeID,
			FromPoint:           PointRecord{Side: c.From.Side, Fraction: c.From.Fraction},
			ToPoint:             PointRecord{Side: c.To.Side, Fraction: c.To.Fraction},
			RoutingStyle:        c.Style,
			WaypointAdjustments: c.Adjustments,
			StrokeColor:         c.Stroke.Color,
			StrokeWidth:         c.Stroke.Width,
			Label:               c.Label,
		})
	}
	return records
}

// Serialize marshals every registered connector.
func (m *Manager) Serialize() ([]byte, error) {
	return json.MarshalIndent(m.Records(), "", "  ")
}

// Deserialize validates and loads a serialized connector document,
// registering each record whose endpoint shapes resolve. A record whose
// endpoint shape is absent is skipped without failing the rest of the
// batch. Returns the number of connectors loaded.
func (m *Manager) Deserialize(data []byte) (int, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(connectorSchema),
		gojsonschema.NewBytesLoader(data))
	if err != nil {
		return 0, fmt.Errorf("validating connector document: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return 0, fmt.Errorf("invalid connector document: %s", strings.Join(msgs, "; "))
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("decoding connector document: %w", err)
	}
	return m.LoadRecords(records), nil
}

// LoadRecords registers already-decoded records, skipping unresolvable
// ones. Returns the number loaded.
func (m *Manager) LoadRecords(records []Record) int {
	loaded := 0
	for _, rec := range records {
		if !m.loadRecord(rec) {
			continue
		}
		loaded++
	}
	return loaded
}

// loadRecord registers one record. Unresolvable or self-referential
// records are skipped with a warning.
func (m *Manager) loadRecord(rec Record) bool {
	if rec.FromShapeID == rec.ToShapeID {
		m.logger.Warn("skipping self-referential connector record",
			slog.Int("id", rec.ID))
		return false
	}
	if _, ok := m.store.Shape(rec.FromShapeID); !ok {
		m.logger.Warn("skipping connector record, source shape missing",
			slog.Int("id", rec.ID), slog.Int("shape", rec.FromShapeID))
		return false
	}
	if _, ok := m.store.Shape(rec.ToShapeID); !ok {
		m.logger.Warn("skipping connector record, target shape missing",
			slog.Int("id", rec.ID), slog.Int("shape", rec.ToShapeID))
		return false
	}

	adjustments := rec.WaypointAdjustments
	if adjustments == nil {
		adjustments = make(map[int]core.Adjustment)
	}

	c := &core.Connector{
		ID: rec.ID,
		From: core.ConnectionPoint{
			ShapeID:  rec.FromShapeID,
			Side:     rec.FromPoint.Side,
			Fraction: rec.FromPoint.Fraction,
		},
		To: core.ConnectionPoint{
			ShapeID:  rec.ToShapeID,
			Side:     rec.ToPoint.Side,
			Fraction: rec.ToPoint.Fraction,
		},
		Style:       rec.RoutingStyle,
		Adjustments: adjustments,
		Stroke:      core.Stroke{Color: rec.StrokeColor, Width: rec.StrokeWidth},
		Label:       rec.Label,
	}
	m.register(c)
	m.recompute(c)
	return true
}
