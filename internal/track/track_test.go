package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchcore/internal/geom"
	"sketchcore/internal/inputstate"
)

func newRawTrack() *Track {
	return New(inputstate.DeviceId(0), inputstate.TouchId(0), inputstate.Holder[inputstate.Key]{}, inputstate.Holder[inputstate.Button]{}, false, false, 0)
}

func pushLine(t *Track, n int) {
	for i := 0; i < n; i++ {
		t.PushBack(Point{
			Position: geom.Point{X: float64(i), Y: 0},
			Time:     float64(i),
		})
	}
}

func TestPushBackAccumulatesLength(t *testing.T) {
	tr := newRawTrack()
	pushLine(tr, 4)
	require.Equal(t, 4, tr.Size())
	assert.InDelta(t, 3.0, tr.Back().Length, 1e-9)
	assert.InDelta(t, 0.0, tr.Front().Length, 1e-9)
}

func TestPushBackIgnoredAfterFinished(t *testing.T) {
	tr := newRawTrack()
	tr.PushBack(Point{Final: true})
	tr.PushBack(Point{Position: geom.Point{X: 5}})
	assert.Equal(t, 1, tr.Size())
}

func TestIndexByTimeIsMonotoneInverseOfTimeByIndex(t *testing.T) {
	tr := newRawTrack()
	pushLine(tr, 5)
	for _, wantIndex := range []float64{0, 1.5, 2, 3.75, 4} {
		time := tr.TimeByIndex(wantIndex)
		gotIndex := tr.IndexByTime(time)
		assert.InDelta(t, wantIndex, gotIndex, 1e-6)
	}
}

func TestBinarySearchDegenerateRangeReturnsLowerEndpoint(t *testing.T) {
	tr := newRawTrack()
	// every point at time 0: degenerate monotone field
	for i := 0; i < 3; i++ {
		tr.PushBack(Point{Position: geom.Point{X: float64(i)}, Time: 0})
	}
	assert.Equal(t, 0.0, tr.IndexByTime(0))
}

func TestInterpolateLinearMidpoint(t *testing.T) {
	tr := newRawTrack()
	tr.PushBack(Point{Position: geom.Point{X: 0}, Pressure: 0})
	tr.PushBack(Point{Position: geom.Point{X: 10}, Pressure: 1})
	p := tr.InterpolateLinear(0.5)
	assert.InDelta(t, 5.0, p.Position.X, 1e-9)
	assert.InDelta(t, 0.5, p.Pressure, 1e-9)
}

func TestInterpolationLinearEpsilonShortCircuit(t *testing.T) {
	p0 := Point{Position: geom.Point{X: 0}}
	p1 := Point{Position: geom.Point{X: 100}}
	assert.Equal(t, p0, InterpolationLinear(p0, p1, 0))
	assert.Equal(t, p1, InterpolationLinear(p0, p1, 1))
}

func TestCurrentPreviousNextTrackDelta(t *testing.T) {
	tr := newRawTrack()
	pushLine(tr, 3)
	tr.ResetChanges()
	tr.PushBack(Point{Position: geom.Point{X: 3}})
	tr.PushBack(Point{Position: geom.Point{X: 4}})
	// pointsAdded == 2, size == 5: current addresses size-pointsAdded == 3
	assert.InDelta(t, 3.0, tr.Current().Position.X, 1e-9)
	assert.InDelta(t, 2.0, tr.Previous().Position.X, 1e-9)
	assert.InDelta(t, 4.0, tr.Next().Position.X, 1e-9)
}

func TestPopBackClampsDefensively(t *testing.T) {
	tr := newRawTrack()
	pushLine(tr, 2)
	tr.PopBack(10)
	assert.Equal(t, 0, tr.Size())
}

type constantModifier struct {
	original *Track
	point    Point
}

func (c *constantModifier) Original() *Track    { return c.original }
func (c *constantModifier) TimeOffset() float64 { return 0.5 }
func (c *constantModifier) CalcPoint(float64) Point {
	return c.point
}

func TestDerivedTrackSharesRootIdentity(t *testing.T) {
	root := newRawTrack()
	pushLine(root, 2)
	mod := &constantModifier{original: root, point: Point{Position: geom.Point{X: 1, Y: 2}}}
	derived := NewDerived(mod)

	assert.Equal(t, root.ID, derived.ID)
	assert.Equal(t, root.Root(), derived.Root())
	assert.Equal(t, 1, derived.Level())
	assert.InDelta(t, 0.5, derived.TimeOffset(), 1e-9)
}

func TestRootIndexByIndexChainsThroughLevels(t *testing.T) {
	root := newRawTrack()
	pushLine(root, 5)
	lin := &LinearModifier{OriginalTrack: root}
	derived := NewDerived(lin)
	// derived's own points carry the OriginalIndex into root space that
	// OriginalIndexByIndex/RootIndexByIndex interpolate over.
	for i := 0; i < 3; i++ {
		derived.PushBack(Point{OriginalIndex: float64(2 * i)})
	}

	rootIdx := derived.RootIndexByIndex(1.5)
	assert.InDelta(t, 3.0, rootIdx, 1e-6)
}

func TestCalcTangentDegenerateTrackIsZero(t *testing.T) {
	tr := newRawTrack()
	tr.PushBack(Point{Position: geom.Point{X: 0}})
	assert.Equal(t, geom.Point{}, tr.CalcTangent(0, 1))
}

func TestCalcTangentPointsAlongStraightLine(t *testing.T) {
	tr := newRawTrack()
	pushLine(tr, 10)
	tan := tr.CalcTangent(5, 2)
	assert.InDelta(t, 1.0, tan.X, 1e-6)
	assert.InDelta(t, 0.0, tan.Y, 1e-6)
}
