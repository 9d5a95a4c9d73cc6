package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/syncpanel/internal/domain"
	"github.com/mmcdole/syncpanel/internal/tui/styles"
)

// Surface is the top-level view of the application
type Surface int

const (
	SurfaceHome Surface = iota
	SurfaceSettings
)

// Model is the main Bubble Tea model for the application
type Model struct {
	Surface  Surface
	ShowHelp bool
	Ready    bool

	Panel *Panel
	L10n  domain.Localizer

	// Dimensions
	Width  int
	Height int
}

// NewModel creates a new application model
func NewModel(panel *Panel, l10n domain.Localizer) Model {
	return Model{
		Surface: SurfaceHome,
		Panel:   panel,
		L10n:    l10n,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return m.Panel.Init()
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.Panel, _ = m.Panel.Update(msg)
		return m, nil

	case ShowSettingsMsg:
		m.Surface = SurfaceSettings
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	m.Panel, cmd = m.Panel.Update(msg)
	return m, cmd
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowHelp {
		if key.Matches(msg, Keys.Back, Keys.Help, Keys.Quit) {
			m.ShowHelp = false
		}
		return m, nil
	}

	// Dialogs capture every key
	if m.Panel.DialogOpen() {
		var cmd tea.Cmd
		m.Panel, cmd = m.Panel.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Settings):
		m.Surface = SurfaceSettings
		return m, nil

	case key.Matches(msg, Keys.Back):
		m.Surface = SurfaceHome
		return m, nil
	}

	if m.Surface != SurfaceSettings {
		return m, nil
	}

	var cmd tea.Cmd
	m.Panel, cmd = m.Panel.Update(msg)
	return m, cmd
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return ""
	}

	if m.ShowHelp {
		return lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			styles.ModalStyle.Render(m.renderHelp()))
	}

	if m.Panel.DialogOpen() {
		return m.Panel.Dialog().Place(m.Width, m.Height)
	}

	var body string
	switch m.Surface {
	case SurfaceSettings:
		body = m.Panel.View()
	default:
		body = m.renderHome()
	}

	footer := m.renderFooter()
	bodyHeight := m.Height - lipgloss.Height(footer)
	if bodyHeight < 0 {
		bodyHeight = 0
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.Place(m.Width, bodyHeight, lipgloss.Center, lipgloss.Center, body),
		footer)
}

func (m Model) renderHome() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		styles.TitleStyle.Render(m.L10n.Format("home-title", nil)),
		"",
		styles.DimStyle.Render(m.L10n.Format("home-hint", nil)))
}

func (m Model) renderFooter() string {
	bindings := []key.Binding{Keys.Settings, Keys.Help, Keys.Quit}
	if m.Surface == SurfaceSettings {
		bindings = []key.Binding{Keys.Next, Keys.Activate, Keys.Refresh, Keys.Back, Keys.Help, Keys.Quit}
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return " " + strings.Join(parts, "  ")
}

func (m Model) renderHelp() string {
	groups := [][]key.Binding{
		{Keys.Next, Keys.Prev, Keys.Activate},
		{Keys.SignIn, Keys.SyncNow, Keys.SignOut, Keys.Bookmarks, Keys.History},
		{Keys.Refresh, Keys.Settings, Keys.Back, Keys.Help, Keys.Quit},
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	for i, group := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(styles.HelpKeyStyle.Render(fmt.Sprintf("%-14s", h.Key)))
			b.WriteString(styles.HelpDescStyle.Render(h.Desc))
			b.WriteString("\n")
		}
	}
	return b.String()
}
