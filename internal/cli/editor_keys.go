package cli

import "github.com/charmbracelet/bubbles/key"

// editorKeyMap lists the tree editor bindings. It implements help.KeyMap.
type editorKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Add      key.Binding
	Rename   key.Binding
	Remove   key.Binding
	Pick     key.Binding
	Drop     key.Binding
	Complete key.Binding
	Save     key.Binding
	Quit     key.Binding
	Cancel   key.Binding
	Help     key.Binding
}

func newEditorKeyMap() editorKeyMap {
	return editorKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/↓", "down")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add child")),
		Rename:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename")),
		Remove:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		Pick:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "pick to move")),
		Drop:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "drop here")),
		Complete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "toggle done")),
		Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Rename, k.Remove, k.Complete, k.Save, k.Quit, k.Help}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Add, k.Rename, k.Remove},
		{k.Pick, k.Drop, k.Cancel},
		{k.Complete, k.Save, k.Quit},
	}
}
