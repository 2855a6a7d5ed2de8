package help

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/healthmon/internal/keys"
)

func TestViewListsBindings(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 30)
	view := m.View()

	assert.Contains(t, view, "Keyboard Shortcuts")
	assert.Contains(t, view, "scan accounts")
	assert.Contains(t, view, "copy report")
}

func TestEscCloses(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 120, 30)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CloseMsg{}, cmd())
}
