package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	toggle key.Binding
	text   key.Binding
	file   key.Binding
	copy   key.Binding
	open   key.Binding
	qr     key.Binding
	submit key.Binding
	back   key.Binding
	help   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		toggle: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/stop")),
		text:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "share text")),
		file:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload file")),
		copy:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy address")),
		open:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		qr:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "qr code")),
		submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.text, k.file, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.toggle, k.text, k.file},
		{k.copy, k.open, k.qr},
		{k.help, k.quit},
	}
}
