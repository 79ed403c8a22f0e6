package assistants

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"sketchcore/internal/geom"
	"sketchcore/internal/track"
)

func TestEllipseGuidelineTransformPointLandsOnBoundary(t *testing.T) {
	g := EllipseGuideline{Center: geom.Point{}, RX: 10, RY: 5}
	p := g.TransformPoint(track.Point{Position: geom.Point{X: 20, Y: 20}})

	local := g.toLocal(p.Position)
	residual := (local.X*local.X)/(g.RX*g.RX) + (local.Y*local.Y)/(g.RY*g.RY)
	assert.InDelta(t, 1.0, residual, 1e-6)
}

func TestEllipseGuidelineTransformPointDegenerateAxisIsNoop(t *testing.T) {
	g := EllipseGuideline{Center: geom.Point{}, RX: 0, RY: 5}
	in := track.Point{Position: geom.Point{X: 3, Y: 4}}
	out := g.TransformPoint(in)
	assert.Equal(t, in, out)
}

func TestEllipseMoveCenterTranslatesAllHandles(t *testing.T) {
	e := NewEllipse()
	before := []geom.Point{e.points[0].Position, e.points[1].Position, e.points[2].Position}
	e.MovePoint(0, geom.Point{X: 5, Y: 5})
	for i, b := range before {
		want := b.Add(geom.Point{X: 5, Y: 5})
		assert.InDelta(t, want.X, e.points[i].Position.X, 1e-9)
		assert.InDelta(t, want.Y, e.points[i].Position.Y, 1e-9)
	}
}

func TestEllipseMoveMinorAxisHandlePreservesPerpendicularity(t *testing.T) {
	e := NewEllipse()
	e.MovePoint(2, geom.Point{X: 3, Y: 40}) // not perpendicular by construction
	angle := e.axisAngle()
	perp := geom.Point{X: -math.Sin(angle), Y: math.Cos(angle)}
	d := e.points[2].Position.Sub(e.points[0].Position)
	cross := d.X*perp.Y - d.Y*perp.X
	assert.InDelta(t, 0.0, cross, 1e-6)
}

func TestEllipseFixPointsReprojectsAfterAxisMove(t *testing.T) {
	e := NewEllipse()
	ryBefore := e.ry()
	e.MovePoint(1, geom.Point{X: 0, Y: 120}) // rotate the major axis by 90 degrees
	angle := e.axisAngle()
	perp := geom.Point{X: -math.Sin(angle), Y: math.Cos(angle)}
	d := e.points[2].Position.Sub(e.points[0].Position)
	cross := d.X*perp.Y - d.Y*perp.X
	assert.InDelta(t, 0.0, cross, 1e-6)
	assert.InDelta(t, ryBefore, e.ry(), 1e-6)
}
