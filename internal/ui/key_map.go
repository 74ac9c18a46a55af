package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	yes       key.Binding
	no        key.Binding
	search    key.Binding
	recent    key.Binding
	trending  key.Binding
	window    key.Binding
	genres    key.Binding
	filter    key.Binding
	favorites key.Binding
	favorite  key.Binding
	clear     key.Binding
	trailer   key.Binding
	retry     key.Binding
	theme     key.Binding
	help      key.Binding
	quit      key.Binding
	forceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:        key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		recent:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "recent")),
		trending:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "trending")),
		window:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "day/week")),
		genres:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "genres")),
		filter:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "filter genre")),
		favorites: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorites")),
		favorite:  key.NewBinding(key.WithKeys("s", " "), key.WithHelp("s", "♥ toggle")),
		clear:     key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear all")),
		trailer:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "trailer")),
		retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		theme:     key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "theme")),
		help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.trending, k.genres, k.favorites, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.trending, k.window, k.genres, k.filter},
		{k.favorites, k.favorite, k.clear, k.trailer},
		{k.retry, k.theme, k.quit},
	}
}
