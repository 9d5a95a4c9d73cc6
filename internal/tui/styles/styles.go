package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	SyncBlue   = lipgloss.Color("#0A84FF")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(SyncBlue)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(1, 2)

	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Bold(true).
				MarginTop(1)
)

// Control styles
var (
	ButtonStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(SlateLight).
			Padding(0, 1)

	FocusedButtonStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SyncBlue).
				Bold(true).
				Padding(0, 1)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(DimGray).
				Background(SlateDark).
				Padding(0, 1)

	FocusedItemStyle = lipgloss.NewStyle().
				Foreground(SyncBlue).
				Bold(true)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SyncBlue).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(SyncBlue)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(SyncBlue)
)

// Raw checkbox characters (unstyled)
const (
	CheckedChar   = "[x]"
	UncheckedChar = "[ ]"
)

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if width <= 3 {
		if width > len(r) {
			return s
		}
		return string(r[:width])
	}
	if len(r) > width-3 {
		r = r[:width-3]
	}
	return string(r) + "..."
}

// Checkbox renders a checkbox glyph
func Checkbox(checked bool) string {
	if checked {
		return CheckedChar
	}
	return UncheckedChar
}
