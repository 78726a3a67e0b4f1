package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrompt(t *testing.T) {
	p := NewPrompt(nil)

	require.NotNil(t, p)
	assert.True(t, p.Focused())
	assert.Empty(t, p.Value())
}

func TestPrompt_SetValue(t *testing.T) {
	p := NewPrompt(nil)

	p.SetValue("what is MCP")

	assert.Equal(t, "what is MCP", p.Value())
}

func TestPrompt_Update_Typing(t *testing.T) {
	p := NewPrompt(nil)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h', 'i'}})

	assert.Equal(t, "hi", p.Value())
}

func TestPrompt_Reset(t *testing.T) {
	p := NewPrompt(nil)
	p.SetValue("something")

	p.Reset()

	assert.Empty(t, p.Value())
}

func TestPrompt_FocusBlur(t *testing.T) {
	p := NewPrompt(nil)

	p.Blur()
	assert.False(t, p.Focused())

	p.Focus()
	assert.True(t, p.Focused())
}

func TestPrompt_SetWidth(t *testing.T) {
	p := NewPrompt(nil)

	p.SetWidth(100)
	assert.Equal(t, 100, p.Width())

	// Narrow terminals keep a usable minimum input width.
	p.SetWidth(10)
	assert.Equal(t, 10, p.Width())
}

func TestPrompt_View(t *testing.T) {
	p := NewPrompt(nil)
	p.SetValue("hello")

	view := p.View()

	assert.Contains(t, view, "hello")
}
