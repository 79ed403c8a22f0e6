package guideline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"sketchcore/internal/geom"
	"sketchcore/internal/inputstate"
	"sketchcore/internal/track"
)

func lineTrack(points ...geom.Point) *track.Track {
	tr := track.New(0, 0, inputstate.Holder[inputstate.Key]{}, inputstate.Holder[inputstate.Button]{}, false, false, 0)
	for _, p := range points {
		tr.PushBack(track.Point{Position: p})
	}
	return tr
}

// exactLine is a Guideline that projects onto the X axis exactly, used to
// build a zero-deviation baseline for weight-scoring tests. Name only
// distinguishes otherwise-identical candidates for the tie-break test.
type exactLine struct {
	Base
	Name string
}

func (exactLine) TransformPoint(p track.Point) track.Point {
	p.Position.Y = 0
	return p
}

func TestCalcTrackWeightTooShortIsInfinite(t *testing.T) {
	tr := lineTrack(geom.Point{X: 0, Y: 0})
	w, longEnough := CalcTrackWeight(exactLine{}, tr, geom.Identity)
	assert.True(t, math.IsInf(w, 1))
	assert.False(t, longEnough)
}

func TestCalcTrackWeightZeroDeviationOnExactMatch(t *testing.T) {
	tr := lineTrack(
		geom.Point{X: 0, Y: 0},
		geom.Point{X: 10, Y: 0},
		geom.Point{X: 40, Y: 0},
		geom.Point{X: 80, Y: 0},
	)
	w, _ := CalcTrackWeight(exactLine{}, tr, geom.Identity)
	assert.InDelta(t, 0.0, w, 1e-9)
}

func TestCalcTrackWeightPositiveDeviationOffLine(t *testing.T) {
	tr := lineTrack(
		geom.Point{X: 0, Y: 5},
		geom.Point{X: 10, Y: 5},
		geom.Point{X: 40, Y: 5},
		geom.Point{X: 80, Y: 5},
	)
	w, _ := CalcTrackWeight(exactLine{}, tr, geom.Identity)
	assert.InDelta(t, 5.0, w, 1e-6)
}

func TestCalcTrackWeightLongEnoughOnceBudgetExhausted(t *testing.T) {
	// SnapLength=20, SnapScale=1 by default: budget is 40 units of
	// screen-space arc length.
	tr := lineTrack(
		geom.Point{X: 0, Y: 0},
		geom.Point{X: 20, Y: 0},
		geom.Point{X: 50, Y: 0},
	)
	_, longEnough := CalcTrackWeight(exactLine{}, tr, geom.Identity)
	assert.True(t, longEnough)
}

func TestFindBestPicksLowestWeightAndKeepsFirstOnTie(t *testing.T) {
	tr := lineTrack(
		geom.Point{X: 0, Y: 0},
		geom.Point{X: 10, Y: 0},
		geom.Point{X: 40, Y: 0},
		geom.Point{X: 80, Y: 0},
	)
	first := exactLine{Name: "first"}
	second := exactLine{Name: "second"}
	best, weight, longEnough := FindBest([]Guideline{first, second}, tr, geom.Identity)
	assert.Equal(t, "first", best.(exactLine).Name)
	assert.InDelta(t, 0.0, weight, 1e-9)
	assert.True(t, longEnough)
}

func TestFindBestEmptyCandidatesReturnsNilNotLongEnough(t *testing.T) {
	tr := lineTrack(geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 0})
	best, weight, longEnough := FindBest(nil, tr, geom.Identity)
	assert.Nil(t, best)
	assert.True(t, math.IsInf(weight, 1))
	assert.False(t, longEnough)
}
