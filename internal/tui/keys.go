package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down key.Binding
	EditN0   key.Binding
	Unit     key.Binding
	Wider    key.Binding
	Narrower key.Binding
	LogScale key.Binding
	Activity key.Binding
	Export   key.Binding
	Notes    key.Binding
	EditApps key.Binding
	Save     key.Binding
	Filter   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev isotope")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next isotope")),
		EditN0:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "set N₀")),
		Unit:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "time unit")),
		Wider:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "longer range")),
		Narrower: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "shorter range")),
		LogScale: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "log scale")),
		Activity: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "activity column")),
		Export:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export CSV")),
		Notes:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "notes")),
		EditApps: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit applications")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.EditN0, k.Unit, k.Wider, k.Narrower, k.LogScale, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Filter},
		{k.EditN0, k.Unit, k.Wider, k.Narrower},
		{k.LogScale, k.Activity, k.Export},
		{k.Notes, k.EditApps},
		{k.Help, k.Quit},
	}
}

// editKeys is shown while the N₀ input is open.
type editKeys struct{ k keyMap }

func (e editKeys) ShortHelp() []key.Binding  { return []key.Binding{e.k.Confirm, e.k.Cancel} }
func (e editKeys) FullHelp() [][]key.Binding { return [][]key.Binding{e.ShortHelp()} }

// appsKeys is shown while the applications text is being edited.
type appsKeys struct{ k keyMap }

func (a appsKeys) ShortHelp() []key.Binding  { return []key.Binding{a.k.Save, a.k.Cancel} }
func (a appsKeys) FullHelp() [][]key.Binding { return [][]key.Binding{a.ShortHelp()} }
