package inputmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchcore/internal/assistants"
	"sketchcore/internal/geom"
	"sketchcore/internal/inputstate"
	"sketchcore/internal/track"
)

func rawTrack() *track.Track {
	return track.New(0, 0, inputstate.Holder[inputstate.Key]{}, inputstate.Holder[inputstate.Button]{}, false, false, 0)
}

func TestPassthroughModifierMirrorsInputPointCount(t *testing.T) {
	p := NewPassthroughModifier()
	in := rawTrack()
	in.PushBack(track.Point{Position: geom.Point{X: 0, Y: 0}})
	in.PushBack(track.Point{Position: geom.Point{X: 1, Y: 1}})

	var out []*track.Track
	p.ModifyTrack(in, nil, &out)

	require.Len(t, out, 1)
	assert.Equal(t, in.Size(), out[0].Size())
}

func TestPassthroughModifierReusesDerivedTrackAcrossCalls(t *testing.T) {
	p := NewPassthroughModifier()
	in := rawTrack()
	in.PushBack(track.Point{Position: geom.Point{X: 0, Y: 0}})

	var out1 []*track.Track
	p.ModifyTrack(in, nil, &out1)

	in.PushBack(track.Point{Position: geom.Point{X: 2, Y: 0}})
	var out2 []*track.Track
	p.ModifyTrack(in, nil, &out2)

	assert.Same(t, out1[0], out2[0])
	assert.Equal(t, 2, out2[0].Size())
}

func TestPassthroughModifierPropagatesFinalFlag(t *testing.T) {
	p := NewPassthroughModifier()
	in := rawTrack()
	in.PushBack(track.Point{Position: geom.Point{X: 0, Y: 0}})
	in.PushBack(track.Point{Position: geom.Point{X: 1, Y: 0}, Final: true})

	var out []*track.Track
	p.ModifyTrack(in, nil, &out)

	require.True(t, out[0].Finished())
	assert.True(t, out[0].Point(out[0].Size()-1).Final)
}

func TestGuidelineSnapModifierSnapsOntoStraightedge(t *testing.T) {
	edge := assistants.NewStraightedge()
	// default handles span (-100,0)-(100,0): the X axis.
	mod := NewGuidelineSnapModifier()
	mod.Assistants = []assistants.Assistant{edge}

	in := rawTrack()
	// enough near-horizontal points to clear the long-enough threshold and
	// pick the straightedge over no guideline at all.
	for i := 0; i <= 40; i++ {
		in.PushBack(track.Point{Position: geom.Point{X: float64(i), Y: 0.01}})
	}

	var out []*track.Track
	mod.ModifyTrack(in, nil, &out)
	require.Len(t, out, 1)

	for i := 0; i < out[0].Size(); i++ {
		assert.InDelta(t, 0.0, out[0].Point(i).Position.Y, 1e-6)
	}
}

func TestGuidelineSnapModifierFallsBackWithoutEnabledAssistants(t *testing.T) {
	edge := assistants.NewStraightedge()
	edge.SetEnabled(false)
	mod := NewGuidelineSnapModifier()
	mod.Assistants = []assistants.Assistant{edge}

	in := rawTrack()
	in.PushBack(track.Point{Position: geom.Point{X: 0, Y: 5}})
	in.PushBack(track.Point{Position: geom.Point{X: 1, Y: 7}})

	var out []*track.Track
	mod.ModifyTrack(in, nil, &out)
	require.Len(t, out, 1)
	// unsnapped linear derivation: Y follows the raw input, not the X axis.
	assert.InDelta(t, 5.0, out[0].Point(0).Position.Y, 1e-9)
	assert.InDelta(t, 7.0, out[0].Point(1).Position.Y, 1e-9)
}

func TestGuidelineSnapModifierDrawTrackNoopWithoutManager(t *testing.T) {
	mod := NewGuidelineSnapModifier()
	in := rawTrack()
	in.PushBack(track.Point{Position: geom.Point{X: 0, Y: 0}})
	var out []*track.Track
	mod.ModifyTrack(in, nil, &out)

	assert.NotPanics(t, func() { mod.DrawTrack(in) })
}
