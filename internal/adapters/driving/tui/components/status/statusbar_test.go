package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBar(t *testing.T) {
	b := NewBar(nil, nil)

	require.NotNil(t, b)
	assert.Equal(t, StateReady, b.State())
	assert.Equal(t, 80, b.Width())
}

func TestBar_SetState(t *testing.T) {
	b := NewBar(nil, nil)

	b.SetState(StateThinking)

	assert.Equal(t, StateThinking, b.State())
	assert.Contains(t, b.View(), "Thinking...")
}

func TestBar_ErrorState(t *testing.T) {
	b := NewBar(nil, nil)

	b.SetState(StateError)
	b.SetMessage("index unavailable")

	assert.Contains(t, b.View(), "Error: index unavailable")
}

func TestBar_CourseCount(t *testing.T) {
	b := NewBar(nil, nil)

	b.SetCourseCount(4)

	assert.Equal(t, 4, b.CourseCount())
	assert.Contains(t, b.View(), "4 courses indexed")
}

func TestBar_EmptyIndex(t *testing.T) {
	b := NewBar(nil, nil)

	assert.Contains(t, b.View(), "No courses indexed")
}

func TestBar_ShowsKeyHints(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetWidth(120)

	view := b.View()

	assert.Contains(t, view, "enter: send")
	assert.Contains(t, view, "esc: quit")
}

func TestBar_Clear(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetState(StateError)
	b.SetMessage("boom")

	b.Clear()

	assert.Equal(t, StateReady, b.State())
	assert.Empty(t, b.Message())
}
