// Package assistants implements the document-level snap-guide objects:
// a common control-point/property-bag base (common), and concrete
// variants (straightedge, circle, vanishing point, ellipse) behind a
// shared capability set, plus a string-keyed registry with alias support
// for loading older documents.
package assistants

import (
	"log"

	"github.com/google/uuid"

	"sketchcore/internal/config"
	"sketchcore/internal/geom"
	"sketchcore/internal/guideline"
)

// PointType is the rendering convention for an assistant control handle.
type PointType int

const (
	PointCircle PointType = iota
	PointCircleFill
	PointCircleCross
)

// Point is a control handle: position, radius (screen-independent, in
// tool-space units scaled by pixel size at draw time) and a mutable
// selection flag.
type Point struct {
	Type     PointType
	Position geom.Point
	Radius   float64
	Selected bool
}

const defaultPointRadius = 10.0

// Variant is the persisted representation of an assistant: a type name,
// a points array, enabled/magnetism, and type-specific named fields.
type Variant map[string]interface{}

// Assistant is the capability set every concrete variant implements:
// getLocalName, getGuidelines, onFixPoints (as FixPoints), onMovePoint
// (as MovePoint), draw, drawEdit, plus the enabled/magnetism property
// pair and variant round-trip. There is no translation-update hook.
type Assistant interface {
	ID() string
	TypeName() string
	LocalName() string

	Points() []Point
	PointsCount() int
	MovePoint(index int, position geom.Point)
	FixPoints()
	SelectPoint(index int, selected bool)

	Enabled() bool
	SetEnabled(bool)
	Magnetism() float64
	SetMagnetism(float64)

	GetGuidelines(pivot geom.Point, toTool geom.Affine) []guideline.Guideline
	Draw(v guideline.Viewer)
	DrawEdit(v guideline.Viewer)

	ToVariant() Variant
	LoadVariant(Variant)
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func clampMagnetism(m float64) float64 {
	if m < 0 {
		return 0
	}
	if m > 1 {
		return 1
	}
	return m
}

// common carries the state and property/data-duality machinery shared by
// every assistant variant. Concrete variants embed common and shadow the
// methods they need to specialize (GetGuidelines, Draw, DrawEdit,
// LocalName, and occasionally MovePoint/FixPoints for a clamped handle).
type common struct {
	id       string
	typeName string
	points   []Point

	data      Variant
	enabled   bool
	magnetism float64
	extra     map[string]interface{}

	// guard breaks the onDataChanged/onPropertyChanged ping-pong: while
	// one side is propagating, the other side's propagation is skipped.
	// It must be released on every exit path, hence the defer pattern in
	// setDataField/applyDataField below.
	inDataPropagation     bool
	inPropertyPropagation bool
}

func newCommon(typeName string, points []Point) common {
	return common{
		id:        uuid.NewString(),
		typeName:  typeName,
		points:    points,
		data:      Variant{"enabled": true, "magnetism": config.Default.DefaultMagnetism},
		enabled:   true,
		magnetism: config.Default.DefaultMagnetism,
		extra:     map[string]interface{}{},
	}
}

func (c *common) ID() string       { return c.id }
func (c *common) TypeName() string { return c.typeName }
func (c *common) LocalName() string { return c.typeName }

func (c *common) Points() []Point { return c.points }
func (c *common) PointsCount() int { return len(c.points) }

// MovePoint is the default onMovePoint: it just sets the position. An
// out-of-range index is silently ignored (ignored-input error kind).
func (c *common) MovePoint(index int, position geom.Point) {
	if index < 0 || index >= len(c.points) {
		return
	}
	c.points[index].Position = position
}

// FixPoints is the default onFixPoints: a no-op, since the base handle
// layout has no cross-point constraints.
func (c *common) FixPoints() {}

func (c *common) SelectPoint(index int, selected bool) {
	if index < 0 || index >= len(c.points) {
		return
	}
	c.points[index].Selected = selected
}

func (c *common) Enabled() bool { return c.enabled }

func (c *common) SetEnabled(x bool) {
	if c.enabled == x {
		return
	}
	c.enabled = x
	c.setDataField("enabled", x)
}

func (c *common) Magnetism() float64 { return c.magnetism }

func (c *common) SetMagnetism(x float64) {
	x = clampMagnetism(x)
	if c.magnetism == x {
		return
	}
	c.magnetism = x
	c.setDataField("magnetism", x)
}

// setDataField is the onPropertyChanged direction: a property write
// propagates into the variant map, unless a data->property propagation is
// already in flight (broken ping-pong).
func (c *common) setDataField(name string, value interface{}) {
	if c.inDataPropagation {
		return
	}
	c.inPropertyPropagation = true
	defer func() { c.inPropertyPropagation = false }()
	c.data[name] = value
}

// setExtraProperty stores a type-specific property both in the typed
// extras map and the variant, honoring the same reentrancy guard.
func (c *common) setExtraProperty(name string, value interface{}) {
	c.extra[name] = value
	c.setDataField(name, value)
}

// applyDataField is the onDataChanged direction: an externally-mutated
// variant field propagates into the typed property view, unless a
// property->data propagation is already in flight. A shape mismatch
// between the variant value and the expected property type leaves the
// property unchanged.
func (c *common) applyDataField(name string, value interface{}) {
	if c.inPropertyPropagation {
		return
	}
	c.inDataPropagation = true
	defer func() { c.inDataPropagation = false }()

	switch name {
	case "enabled":
		if b, ok := value.(bool); ok {
			c.enabled = b
		}
	case "magnetism":
		if f, ok := asFloat(value); ok {
			c.magnetism = clampMagnetism(f)
		}
	default:
		c.extra[name] = value
	}
}

// baseVariant serializes id-independent common state; concrete variants
// call this then add their own type-specific keys.
func (c *common) baseVariant() Variant {
	pts := make([]interface{}, len(c.points))
	for i, p := range c.points {
		pts[i] = map[string]interface{}{"x": p.Position.X, "y": p.Position.Y}
	}
	v := Variant{}
	for k, val := range c.extra {
		v[k] = val
	}
	v["points"] = pts
	v["enabled"] = c.enabled
	v["magnetism"] = c.magnetism
	return v
}

// loadBaseVariant loads id-independent common state from a persisted
// variant, clamping magnetism and re-validating points so persisted
// values are never trusted blindly.
func (c *common) loadBaseVariant(v Variant, fixPoints func()) {
	c.data = v
	if rawPts, ok := v["points"].([]interface{}); ok {
		pts := make([]Point, len(rawPts))
		for i, raw := range rawPts {
			m, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			x, _ := asFloat(m["x"])
			y, _ := asFloat(m["y"])
			pts[i] = Point{Position: geom.Point{X: x, Y: y}, Type: PointCircle, Radius: defaultPointRadius}
		}
		c.points = pts
	}
	if b, ok := v["enabled"].(bool); ok {
		c.enabled = b
	}
	if m, ok := asFloat(v["magnetism"]); ok {
		c.magnetism = clampMagnetism(m)
	} else {
		log.Printf("[assistant] %s: missing/invalid magnetism on load, keeping %.2f", c.typeName, c.magnetism)
	}
	for k, val := range v {
		switch k {
		case "points", "enabled", "magnetism":
		default:
			c.extra[k] = val
		}
	}
	if fixPoints != nil {
		fixPoints()
	}
}

// GetGuidelines default: no guidelines. Concrete variants override this.
func (c *common) GetGuidelines(geom.Point, geom.Affine) []guideline.Guideline { return nil }

// Draw default: nothing to draw beyond the control points.
func (c *common) Draw(guideline.Viewer) {}

// drawEditPoints draws every control point with the convention matching
// its Type; each variant's DrawEdit draws its body first, then calls this.
func (c *common) drawEditPoints(v guideline.Viewer) {
	pixelSize := v.PixelSize()
	_ = pixelSize
	for _, p := range c.points {
		switch p.Type {
		case PointCircleFill:
			v.DrawDisk(p.Position, p.Radius, p.Selected)
			v.DrawCircle(p.Position, p.Radius, p.Selected)
		case PointCircleCross:
			v.DrawCrosshair(p.Position, 1.2*p.Radius, p.Selected)
			v.DrawCircle(p.Position, p.Radius, p.Selected)
		default:
			v.DrawCircle(p.Position, p.Radius, p.Selected)
		}
	}
}
