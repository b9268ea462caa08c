package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	NextPanel key.Binding
	PrevPanel key.Binding
	PrevDay   key.Binding
	NextDay   key.Binding
	Today     key.Binding
	EditLog   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextPanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		PrevPanel: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("[", "left"),
			key.WithHelp("[", "prev day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("]", "right"),
			key.WithHelp("]", "next day"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		EditLog: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit log"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// helpKeys combines the focused panel's bindings with the global ones.
type helpKeys struct {
	panel  []key.Binding
	global KeyMap
}

func (h helpKeys) ShortHelp() []key.Binding {
	return append(append([]key.Binding{}, h.panel...), h.global.NextPanel, h.global.Help, h.global.Quit)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	g := h.global
	return [][]key.Binding{
		h.panel,
		{g.NextPanel, g.PrevPanel, g.EditLog},
		{g.PrevDay, g.NextDay, g.Today},
		{g.Help, g.Quit},
	}
}
