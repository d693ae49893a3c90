package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"ctrl+c cancels", tea.KeyMsg{Type: tea.KeyCtrlC}, km.Cancel},
		{"esc cancels", tea.KeyMsg{Type: tea.KeyEsc}, km.Cancel},
		{"q quits", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, km.Quit},
		{"enter quits", tea.KeyMsg{Type: tea.KeyEnter}, km.Quit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, key.Matches(tt.msg, tt.binding))
		})
	}
}

func TestShortHelp(t *testing.T) {
	assert.Len(t, DefaultKeyMap().ShortHelp(), 2)
}
