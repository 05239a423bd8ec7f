package styles

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

var (
	light = catppuccin.Latte
	dark  = catppuccin.Mocha
)

func adaptive(f func(catppuccin.Flavor) catppuccin.Color) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{
		Light: f(light).Hex,
		Dark:  f(dark).Hex,
	}
}

var (
	Background = adaptive(catppuccin.Flavor.Base)
	Surface0   = adaptive(catppuccin.Flavor.Surface0)
	Surface1   = adaptive(catppuccin.Flavor.Surface1)
	Overlay0   = adaptive(catppuccin.Flavor.Overlay0)
	Text       = adaptive(catppuccin.Flavor.Text)
	SubText0   = adaptive(catppuccin.Flavor.Subtext0)

	Blue     = adaptive(catppuccin.Flavor.Blue)
	Mauve    = adaptive(catppuccin.Flavor.Mauve)
	Peach    = adaptive(catppuccin.Flavor.Peach)
	Red      = adaptive(catppuccin.Flavor.Red)
	Green    = adaptive(catppuccin.Flavor.Green)
	Lavender = adaptive(catppuccin.Flavor.Lavender)

	Primary   = Blue
	Secondary = Mauve
	Warning   = Peach
	Error     = Red
)

var (
	Regular = lipgloss.NewStyle()
	Bold    = Regular.Bold(true)
	Padded  = Regular.Padding(0, 1)

	BaseStyle = Regular.Foreground(Text)
	Muted     = Regular.Foreground(SubText0)

	Title = Bold.Foreground(Primary)

	Separator = Regular.Foreground(Surface1)

	Selected = Bold.
			Foreground(Background).
			Background(Primary).
			Padding(0, 1)
	Unselected = Padded.Foreground(SubText0)

	UserBorder = Regular.
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(Secondary).
			PaddingLeft(1)
	AssistantBorder = UserBorder.BorderForeground(Primary)
	ErrorBorder     = UserBorder.BorderForeground(Error)

	EditorBorder = Regular.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Surface1)
	EditorBorderDisabled = EditorBorder.BorderForeground(Overlay0)

	StatusInfo  = Padded.Foreground(Background).Background(Green)
	StatusWarn  = Padded.Foreground(Background).Background(Warning)
	StatusError = Padded.Foreground(Background).Background(Error)
	StatusHelp  = Padded.Foreground(SubText0)
)
