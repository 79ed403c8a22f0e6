// Command sketchcore is a minimal desktop host for the input pipeline: a
// fyne window with a drawing surface wired to an inputmanager.Manager, a
// trivial Tool that renders finished strokes, and a toolbar that toggles
// which assistants are active.
package main

import (
	"image/color"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"sketchcore/internal/assistants"
	"sketchcore/internal/geom"
	"sketchcore/internal/inputmanager"
	"sketchcore/internal/inputstate"
	"sketchcore/internal/render"
	"sketchcore/internal/track"
)

const mouseDevice inputstate.DeviceId = 0
const mouseButton inputstate.Button = 0

// demoTool is the simplest possible Tool: it has no undo stack of its own
// (PaintPush always declines) and just keeps each track's current polyline
// redrawn in its own canvas layer.
type demoTool struct {
	layer       *fyne.Container
	lines       map[track.Id][]fyne.CanvasObject
	strokeColor color.Color
}

func newDemoTool() *demoTool {
	return &demoTool{
		layer:       container.NewWithoutLayout(),
		lines:       map[track.Id][]fyne.CanvasObject{},
		strokeColor: color.Black,
	}
}

func (t *demoTool) Enabled() bool  { return true }
func (t *demoTool) SetBusy(bool)   {}

func (t *demoTool) PaintTracks(tracks []*track.Track) {
	for _, tr := range tracks {
		for _, obj := range t.lines[tr.ID] {
			t.layer.Remove(obj)
		}
		var objs []fyne.CanvasObject
		pts := tr.Points()
		for i := 1; i < len(pts); i++ {
			line := canvas.NewLine(t.strokeColor)
			line.Position1 = fyne.NewPos(float32(pts[i-1].Position.X), float32(pts[i-1].Position.Y))
			line.Position2 = fyne.NewPos(float32(pts[i].Position.X), float32(pts[i].Position.Y))
			line.StrokeWidth = 2
			objs = append(objs, line)
			t.layer.Add(line)
		}
		t.lines[tr.ID] = objs
	}
	t.layer.Refresh()
}

func (t *demoTool) PaintPush() bool     { return false }
func (t *demoTool) PaintPop(int)        {}
func (t *demoTool) PaintCancel()        {}
func (t *demoTool) PaintApply(n int) int { return n }

func (t *demoTool) KeyEvent(bool, inputstate.Key, *inputmanager.Manager)                     {}
func (t *demoTool) ButtonEvent(bool, inputstate.DeviceId, inputstate.Button, *inputmanager.Manager) {}
func (t *demoTool) HoverEvent(*inputmanager.Manager)                                         {}
func (t *demoTool) DoubleClickEvent(*inputmanager.Manager)                                   {}
func (t *demoTool) OnInputText(string, string, int, int)                                     {}
func (t *demoTool) OnEnter()                                                                 {}
func (t *demoTool) OnLeave()                                                                 {}
func (t *demoTool) PreLeftButtonDown() bool                                                  { return true }

// board is the drawing surface: a fyne container stacking the tool's
// stroke layer under the guideline viewer's overlay layer, fed mouse
// events through the manager the way the original board widget fed mouse
// events into its CRDT state.
type board struct {
	*container.Scroll
	content *fyne.Container

	manager *inputmanager.Manager
	viewer  *render.CanvasViewer
	tool    *demoTool
	snap    *inputmanager.GuidelineSnapModifier

	start   time.Time
	touch   inputstate.TouchId
	pressed bool
}

func newBoard() *board {
	b := &board{
		manager: inputmanager.New(),
		viewer:  render.NewCanvasViewer(),
		tool:    newDemoTool(),
		start:   time.Now(),
	}
	b.snap = inputmanager.NewGuidelineSnapModifier()
	b.manager.InsertModifier(0, b.snap)
	b.manager.SetViewer(b.viewer)
	b.manager.SetTool(b.tool)

	b.content = container.NewWithoutLayout(b.tool.layer, b.viewer.Container)
	b.content.Resize(fyne.NewSize(2000, 2000))
	b.Scroll = container.NewScroll(b.content)
	b.Scroll.Resize(fyne.NewSize(900, 650))
	return b
}

func (b *board) ticks() inputstate.Ticks {
	return inputstate.Ticks(time.Since(b.start).Milliseconds())
}

func (b *board) toolPoint(p fyne.Position) geom.Point { return geom.Point{X: float64(p.X), Y: float64(p.Y)} }

func (b *board) MouseDown(ev *desktop.MouseEvent) {
	b.touch = inputmanager.GenTouchId()
	b.pressed = true
	b.manager.ButtonEvent(true, mouseDevice, mouseButton, b.ticks())
	b.manager.TrackEvent(mouseDevice, b.touch, b.toolPoint(ev.Position), nil, nil, false, b.ticks())
	b.redraw()
}

func (b *board) MouseMoved(ev *desktop.MouseEvent) {
	if !b.pressed {
		return
	}
	b.manager.TrackEvent(mouseDevice, b.touch, b.toolPoint(ev.Position), nil, nil, false, b.ticks())
	b.redraw()
}

func (b *board) MouseUp(ev *desktop.MouseEvent) {
	if !b.pressed {
		return
	}
	b.manager.TrackEvent(mouseDevice, b.touch, b.toolPoint(ev.Position), nil, nil, true, b.ticks())
	b.manager.ButtonEvent(false, mouseDevice, mouseButton, b.ticks())
	b.pressed = false
	b.redraw()
}

func (b *board) MouseIn(*desktop.MouseEvent) { b.manager.EnterEvent() }
func (b *board) MouseOut()                   { b.manager.LeaveEvent() }

func (b *board) redraw() {
	b.viewer.Clear()
	b.manager.Draw()
	b.viewer.Container.Refresh()
}

// SetAssistants replaces the active assistant set the snap modifier scores
// incoming strokes against.
func (b *board) SetAssistants(list []assistants.Assistant) {
	b.snap.Assistants = list
}

func newToolbar(b *board) fyne.CanvasObject {
	slots := map[string]assistants.Assistant{}
	apply := func() {
		active := make([]assistants.Assistant, 0, len(slots))
		for _, a := range slots {
			active = append(active, a)
		}
		b.SetAssistants(active)
	}
	toggle := func(name string, factory func() assistants.Assistant) func(bool) {
		return func(on bool) {
			if on {
				slots[name] = factory()
			} else {
				delete(slots, name)
			}
			apply()
		}
	}

	straightedge := widget.NewCheck("Straightedge", toggle("straightedge", func() assistants.Assistant { return assistants.NewStraightedge() }))
	circleCheck := widget.NewCheck("Circle", toggle("circle", func() assistants.Assistant { return assistants.NewCircle() }))
	vanishing := widget.NewCheck("Vanishing point", toggle("vanishingPoint", func() assistants.Assistant { return assistants.NewVanishingPoint() }))
	ellipseCheck := widget.NewCheck("Ellipse", toggle("ellipse", func() assistants.Assistant { return assistants.NewEllipse() }))

	return container.NewHBox(
		widget.NewLabel("Assistants:"),
		straightedge, circleCheck, vanishing, ellipseCheck,
	)
}

func main() {
	a := app.New()
	w := a.NewWindow("sketchcore")
	w.Resize(fyne.NewSize(960, 720))

	b := newBoard()
	toolbar := newToolbar(b)

	w.SetContent(container.NewBorder(toolbar, nil, nil, nil, b))
	log.Println("[sketchcore] ready")
	w.ShowAndRun()
}
