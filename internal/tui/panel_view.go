package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/syncpanel/internal/domain"
	"github.com/mmcdole/syncpanel/internal/tui/styles"
)

// View renders the visible screen of the panel
func (p *Panel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(p.l10n.Format("fxsync-title", nil)))
	b.WriteString("\n\n")

	switch {
	case !p.hidden[ScreenDisabled]:
		p.renderDisabled(&b)
	case !p.hidden[ScreenEnabled]:
		p.renderEnabled(&b)
	default:
		b.WriteString(p.spinner.View())
	}

	if p.status != "" {
		b.WriteString("\n\n")
		if p.statusIsErr {
			b.WriteString(styles.ErrorStyle.Render(p.status))
		} else {
			b.WriteString(styles.DimStyle.Render(p.status))
		}
	}

	return styles.PanelStyle.Render(b.String())
}

func (p *Panel) renderDisabled(b *strings.Builder) {
	desc := p.l10n.Format("fxsync-disabled-description", nil)
	b.WriteString(lipgloss.NewStyle().Width(p.contentWidth()).Render(styles.SubtitleStyle.Render(desc)))
	b.WriteString("\n\n")
	b.WriteString(p.renderControl(SignInButton))
}

func (p *Panel) renderEnabled(b *strings.Builder) {
	b.WriteString(p.renderControl(SignedInAs))
	b.WriteString("\n")

	b.WriteString(styles.SectionTitleStyle.Render(p.l10n.Format("fxsync-collections", nil)))
	b.WriteString("\n")
	if p.settingsLoaded {
		b.WriteString(p.renderControl(CollectionBookmarks))
		b.WriteString("\n")
		b.WriteString(p.renderControl(CollectionHistory))
	} else {
		b.WriteString(p.spinner.View())
	}
	b.WriteString("\n\n")

	syncNow := p.renderControl(SyncNowButton)
	if p.state == domain.SyncSyncing {
		syncNow = p.spinner.View() + " " + syncNow
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, syncNow, "  ", p.renderControl(SignOutButton)))
}

// renderControl renders one loaded element with its localized text
func (p *Panel) renderControl(id ElementID) string {
	el := p.elements[id]
	if el == nil {
		return ""
	}
	label := styles.Truncate(p.l10n.Format(el.L10nID, el.L10nArgs), p.contentWidth())
	focused := p.Focused() == id && !p.dialog.Open()

	if el.Checkbox {
		line := styles.Checkbox(el.Checked) + " " + label
		switch {
		case el.Disabled:
			return styles.DimStyle.Render(line)
		case focused:
			return styles.FocusedItemStyle.Render(line)
		default:
			return styles.NormalItemStyle.Render(line)
		}
	}

	if p.Binding(id, EventPress) == nil {
		// Plain text
		return styles.SubtitleStyle.Render(label)
	}

	switch {
	case el.Disabled:
		return styles.DisabledButtonStyle.Render(label)
	case focused:
		return styles.FocusedButtonStyle.Render(label)
	default:
		return styles.ButtonStyle.Render(label)
	}
}

// contentWidth is the text width inside the panel border, capped for
// readability on wide terminals
func (p *Panel) contentWidth() int {
	const maxWidth, minWidth = 48, 10
	if p.width <= 0 {
		return maxWidth
	}
	return max(minWidth, min(maxWidth, p.width-8))
}
