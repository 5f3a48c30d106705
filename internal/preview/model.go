package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

type frameMsg struct{ frame *image1bit.VerticalLSB }

type contrastMsg uint8

type powerMsg bool

type keyMap struct {
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6272A4"))
	brightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#44475A"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
)

// Model renders the last committed frame with half-block characters, two
// pixel rows per terminal row.
type Model struct {
	keys     keyMap
	frame    *image1bit.VerticalLSB
	contrast uint8
	on       bool
	onQuit   func()
}

func newModel(onQuit func()) Model {
	return Model{keys: defaultKeyMap(), on: true, contrast: 0xFF, onQuit: onQuit}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			if m.onQuit != nil {
				m.onQuit()
			}
			return m, tea.Quit
		}
	case frameMsg:
		m.frame = msg.frame
	case contrastMsg:
		m.contrast = uint8(msg)
	case powerMsg:
		m.on = bool(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	body := "waiting for first frame"
	if m.frame != nil {
		body = m.renderFrame()
	}
	status := fmt.Sprintf("contrast %d  %s", m.contrast, m.keys.Quit.Help().Key+" "+m.keys.Quit.Help().Desc)
	if !m.on {
		status = "display off  " + m.keys.Quit.Help().Key + " " + m.keys.Quit.Help().Desc
	}
	return panelStyle.Render(body) + "\n" + helpStyle.Render(status)
}

func (m Model) renderFrame() string {
	r := m.frame.Rect
	style := brightStyle
	if m.contrast < 0x40 {
		style = dimStyle
	}
	var b strings.Builder
	for y := r.Min.Y; y < r.Max.Y; y += 2 {
		var row strings.Builder
		for x := r.Min.X; x < r.Max.X; x++ {
			top := m.on && bool(m.frame.BitAt(x, y))
			bottom := m.on && y+1 < r.Max.Y && bool(m.frame.BitAt(x, y+1))
			row.WriteRune(halfBlock(top, bottom))
		}
		b.WriteString(style.Render(row.String()))
		if y+2 < r.Max.Y {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func halfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	}
	return ' '
}
