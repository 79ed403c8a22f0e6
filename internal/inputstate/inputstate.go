// Package inputstate keeps time-keyed histories of keys and buttons per
// device, giving tracks a way to snapshot "what was held down" at their
// creation instant and look it up again later without being disturbed by
// history mutations that happen afterwards.
package inputstate

import "sync"

// DeviceId identifies a physical input device (tablet, mouse, touch panel).
type DeviceId int

// TouchId identifies one contact/stroke on a device.
type TouchId int64

// Key identifies a keyboard key.
type Key int

// Button identifies a pointer/device button.
type Button int

// Ticks is the host's monotonic timer tick count, matching the rest of
// the core's TTimerTicks-equivalent raw event timestamps.
type Ticks int64

type event[T comparable] struct {
	ticks Ticks
	on    bool
	value T
}

// history is an append-only log of (ticks, on/off, key-or-button) events.
// It is safe for concurrent append and snapshot, though the core as a
// whole is meant to run single-threaded.
type history[T comparable] struct {
	mu     sync.Mutex
	events []event[T]
}

func (h *history[T]) record(ticks Ticks, on bool, value T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event[T]{ticks: ticks, on: on, value: value})
}

// holderAt returns a Holder pinned to a snapshot of the history as of now;
// the creation ticks mark the holder's local zero instant.
func (h *history[T]) holderAt(creation Ticks) Holder[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	snap := make([]event[T], len(h.events))
	copy(snap, h.events)
	return Holder[T]{events: snap, creation: creation}
}

// Holder logically pins a history at the instant it was taken. Further
// mutation of the live history does not alter what a Holder reports.
type Holder[T comparable] struct {
	events   []event[T]
	creation Ticks
}

// Ticks returns the tick at which this holder was captured.
func (h Holder[T]) Ticks() Ticks { return h.creation }

// Get returns the set of values "on" at or immediately before
// creation+relativeTime/tickStep — i.e. relativeTime seconds elapsed since
// the holder was captured, converted back to the tick domain the history
// is recorded in. Events appended to the live history after the holder
// was taken are invisible to it, even if relativeTime would reach far
// enough to cover them in wall-clock terms: the holder only ever sees its
// snapshot.
func (h Holder[T]) Get(relativeTime float64, tickStep float64) map[T]bool {
	var deltaTicks Ticks
	if tickStep > 0 {
		deltaTicks = Ticks(relativeTime/tickStep + 0.5)
	}
	target := h.creation + deltaTicks
	pressed := make(map[T]bool)
	for _, e := range h.events {
		if e.ticks > target {
			break
		}
		if e.on {
			pressed[e.value] = true
		} else {
			delete(pressed, e.value)
		}
	}
	return pressed
}

// State is the mapping of device id to button history, plus one global
// key history, that the manager updates on every key/button event.
type State struct {
	mu      sync.Mutex
	keys    history[Key]
	buttons map[DeviceId]*history[Button]
}

// NewState creates an empty input state.
func NewState() *State {
	return &State{buttons: make(map[DeviceId]*history[Button])}
}

func (s *State) buttonHistory(device DeviceId) *history[Button] {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.buttons[device]
	if !ok {
		h = &history[Button]{}
		s.buttons[device] = h
	}
	return h
}

// KeyEvent records a key press/release at the given tick.
func (s *State) KeyEvent(press bool, key Key, ticks Ticks) {
	s.keys.record(ticks, press, key)
}

// ButtonEvent records a button press/release for a device at the given tick.
func (s *State) ButtonEvent(press bool, device DeviceId, button Button, ticks Ticks) {
	s.buttonHistory(device).record(ticks, press, button)
}

// KeyHistoryHolder snapshots the global key history at ticks.
func (s *State) KeyHistoryHolder(ticks Ticks) Holder[Key] {
	return s.keys.holderAt(ticks)
}

// ButtonHistoryHolder snapshots a device's button history at ticks.
func (s *State) ButtonHistoryHolder(device DeviceId, ticks Ticks) Holder[Button] {
	return s.buttonHistory(device).holderAt(ticks)
}
