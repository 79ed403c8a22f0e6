package inputstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHolderSnapshotIsFrozen(t *testing.T) {
	s := NewState()
	s.KeyEvent(true, Key('a'), 0)
	holder := s.KeyHistoryHolder(0)

	// events recorded after the holder was taken are invisible to it
	s.KeyEvent(true, Key('b'), 100)

	pressed := holder.Get(1000, 1) // far enough that 'b' would be visible if it leaked through
	assert.True(t, pressed[Key('a')])
	assert.False(t, pressed[Key('b')])
}

func TestHolderGetRespectsRelativeTime(t *testing.T) {
	s := NewState()
	s.KeyEvent(true, Key('a'), 10)  // 10 ticks after creation
	s.KeyEvent(false, Key('a'), 20) // released 20 ticks after creation
	holder := s.KeyHistoryHolder(0)

	before := holder.Get(0.5, 1) // 0.5 ticks: before the press
	assert.False(t, before[Key('a')])

	during := holder.Get(15, 1) // between press and release
	assert.True(t, during[Key('a')])

	after := holder.Get(25, 1) // after release
	assert.False(t, after[Key('a')])
}

func TestButtonHistoryPerDevice(t *testing.T) {
	s := NewState()
	s.ButtonEvent(true, DeviceId(1), Button(0), 0)
	h1 := s.ButtonHistoryHolder(DeviceId(1), 0)
	h2 := s.ButtonHistoryHolder(DeviceId(2), 0)

	assert.True(t, h1.Get(0, 1)[Button(0)])
	assert.False(t, h2.Get(0, 1)[Button(0)])
}
