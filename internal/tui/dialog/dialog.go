// Package dialog renders modal alerts and confirmations. A dialog holds the
// command to run once the user accepts it.
package dialog

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/syncpanel/internal/tui/styles"
)

// Kind identifies the dialog flavor
type Kind int

const (
	KindAlert   Kind = iota // single OK button
	KindConfirm             // Yes / No
)

// Names of the dialogs the panel opens
const (
	SignOutConfirm = "signout_confirm"
	SyncError      = "sync_error"
)

var (
	acceptKeys = key.NewBinding(key.WithKeys("y", "Y", "enter"))
	denyKeys   = key.NewBinding(key.WithKeys("n", "N", "esc"))
	dismiss    = key.NewBinding(key.WithKeys("enter", "esc", " ", "y", "o"))
)

// Model is a modal dialog. The zero value is closed.
type Model struct {
	kind     Kind
	name     string
	title    string
	body     string
	accept   string
	deny     string
	onAccept tea.Cmd
	open     bool
}

// NewAlert opens an alert. onAck runs when the alert is dismissed.
func NewAlert(name, title, body, ok string, onAck tea.Cmd) Model {
	return Model{
		kind:     KindAlert,
		name:     name,
		title:    title,
		body:     body,
		accept:   ok,
		onAccept: onAck,
		open:     true,
	}
}

// NewConfirm opens a confirmation. onConfirm runs only if the user accepts.
func NewConfirm(name, title, body, yes, no string, onConfirm tea.Cmd) Model {
	return Model{
		kind:     KindConfirm,
		name:     name,
		title:    title,
		body:     body,
		accept:   yes,
		deny:     no,
		onAccept: onConfirm,
		open:     true,
	}
}

// Open reports whether the dialog is showing
func (m Model) Open() bool { return m.open }

// Name returns the dialog name
func (m Model) Name() string { return m.name }

// Update handles a key while the dialog is open
func (m Model) Update(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.open {
		return m, nil
	}

	switch m.kind {
	case KindAlert:
		if key.Matches(msg, dismiss) {
			m.open = false
			return m, m.onAccept
		}
	case KindConfirm:
		switch {
		case key.Matches(msg, acceptKeys):
			m.open = false
			return m, m.onAccept
		case key.Matches(msg, denyKeys):
			m.open = false
		}
	}
	return m, nil
}

// View renders the dialog box
func (m Model) View() string {
	if !m.open {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render(m.title))
	b.WriteString("\n")
	if m.body != "" {
		b.WriteString(lipgloss.NewStyle().Width(44).Render(m.body))
		b.WriteString("\n\n")
	}

	switch m.kind {
	case KindAlert:
		b.WriteString(styles.FocusedButtonStyle.Render(m.accept))
	case KindConfirm:
		b.WriteString(styles.HelpKeyStyle.Render("[Y] ") + m.accept)
		b.WriteString("      ")
		b.WriteString(styles.HelpKeyStyle.Render("[N] ") + m.deny)
	}

	return styles.ModalStyle.Render(b.String())
}

// Place centers the dialog in a width x height area
func (m Model) Place(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, m.View())
}
