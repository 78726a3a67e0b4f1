package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_QuitBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Quit.Keys()
	assert.Contains(t, keys, "esc")
	assert.Contains(t, keys, "ctrl+c")
}

func TestDefaultKeyMap_SendBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Send.Keys()
	assert.Contains(t, keys, "enter")
}

func TestDefaultKeyMap_NewSessionBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.NewSession.Keys()
	assert.Contains(t, keys, "ctrl+n")
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ShortHelp()
	assert.Len(t, bindings, 3)
}

func TestMatches(t *testing.T) {
	binding := key.NewBinding(key.WithKeys("enter", "ctrl+s"))

	assert.True(t, Matches("enter", binding))
	assert.True(t, Matches("ctrl+s", binding))
	assert.False(t, Matches("esc", binding))
}
