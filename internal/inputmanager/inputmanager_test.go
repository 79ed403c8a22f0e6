package inputmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchcore/internal/geom"
	"sketchcore/internal/inputstate"
	"sketchcore/internal/track"
)

// stubTool is the simplest Tool double: PaintPush accepts or declines
// according to its push field (set by newActiveManager), and it just
// records what it was handed.
type stubTool struct {
	enabled   bool
	busy      bool
	delivered [][]*track.Track
	push      bool
}

func newStubTool() *stubTool { return &stubTool{enabled: true} }

func (s *stubTool) Enabled() bool     { return s.enabled }
func (s *stubTool) SetBusy(b bool)    { s.busy = b }
func (s *stubTool) PaintTracks(tracks []*track.Track) {
	s.delivered = append(s.delivered, tracks)
}
func (s *stubTool) PaintPush() bool     { return s.push }
func (s *stubTool) PaintPop(int)        {}
func (s *stubTool) PaintCancel()        {}
func (s *stubTool) PaintApply(n int) int { return n }

func (s *stubTool) KeyEvent(bool, inputstate.Key, *Manager)                     {}
func (s *stubTool) ButtonEvent(bool, inputstate.DeviceId, inputstate.Button, *Manager) {}
func (s *stubTool) HoverEvent(*Manager)                                         {}
func (s *stubTool) DoubleClickEvent(*Manager)                                   {}
func (s *stubTool) OnInputText(string, string, int, int)                       {}
func (s *stubTool) OnEnter()                                                    {}
func (s *stubTool) OnLeave()                                                    {}
func (s *stubTool) PreLeftButtonDown() bool                                     { return true }

type stubViewer struct{}

func (stubViewer) PixelSize() float64                                         { return 1 }
func (stubViewer) DrawSegment(geom.Point, geom.Point, bool)                   {}
func (stubViewer) DrawDisk(geom.Point, float64, bool)                        {}
func (stubViewer) DrawCircle(geom.Point, float64, bool)                      {}
func (stubViewer) DrawCrosshair(geom.Point, float64, bool)                   {}

func newActiveManager(push bool) (*Manager, *stubTool) {
	m := New()
	m.SetViewer(stubViewer{})
	m.InsertModifier(0, NewPassthroughModifier())
	tool := newStubTool()
	tool.push = push
	m.SetTool(tool)
	return m, tool
}

func TestGetTrackCreatesOneTrackPerDistinctPair(t *testing.T) {
	m := New()
	a := m.getTrack(1, 5, 0, false, false)
	b := m.getTrack(0, 2, 0, false, false)
	c := m.getTrack(1, 1, 0, false, false)

	orig := m.InputTracks()
	require.Len(t, orig, 3)
	assert.ElementsMatch(t, []*track.Track{a, b, c}, orig)
	assert.NotSame(t, a, b)
	assert.NotSame(t, a, c)
	assert.NotSame(t, b, c)
}

func TestGetTrackReturnsExistingTrackForSamePair(t *testing.T) {
	m := New()
	a := m.getTrack(0, 0, 0, false, false)
	b := m.getTrack(0, 0, 10, true, true)
	assert.Same(t, a, b)
}

func TestTrackEventInactiveManagerIsNoop(t *testing.T) {
	m := New()
	m.TrackEvent(0, 0, geom.Point{X: 1, Y: 2}, nil, nil, false, 0)
	assert.Empty(t, m.InputTracks())
}

func TestPaintTracksDeliversOnPushDecline(t *testing.T) {
	m, tool := newActiveManager(false)
	m.TrackEvent(0, 0, geom.Point{X: 0, Y: 0}, nil, nil, false, 0)
	m.TrackEvent(0, 0, geom.Point{X: 10, Y: 0}, nil, nil, true, 10)
	m.processTracks()

	require.Len(t, tool.delivered, 1)
	require.Len(t, tool.delivered[0], 1)
	assert.Equal(t, 2, tool.delivered[0][0].Size())
	assert.False(t, tool.busy)
}

func TestSetToolResetsInFlightTracks(t *testing.T) {
	m, _ := newActiveManager(false)
	m.TrackEvent(0, 0, geom.Point{X: 0, Y: 0}, nil, nil, false, 0)
	require.NotEmpty(t, m.InputTracks())

	m.SetTool(newStubTool())
	assert.Empty(t, m.InputTracks())
}

func TestInsertModifierIsIdempotentForSameInstance(t *testing.T) {
	m := New()
	mod := NewPassthroughModifier()
	m.InsertModifier(0, mod)
	m.InsertModifier(0, mod)
	assert.Equal(t, 1, m.ModifiersCount())
}

func TestSavePointHoldRelease(t *testing.T) {
	sp := newSavePoint()
	assert.True(t, sp.isFree())
	sp.Hold()
	assert.False(t, sp.isFree())
	sp.Hold()
	sp.Release()
	assert.False(t, sp.isFree()) // second hold still outstanding
	sp.Release()
	assert.True(t, sp.isFree())
}

func TestPaintRollbackToMarksStaleSavePointsUnavailable(t *testing.T) {
	m, _ := newActiveManager(true)
	sp1, sp2 := newSavePoint(), newSavePoint()
	m.savePoints = []*SavePoint{sp1, sp2}
	m.paintRollbackTo(0, nil)
	assert.Len(t, m.savePoints, 1)
	assert.False(t, sp2.Available)
	assert.Same(t, sp1, m.savePoints[0])
}
