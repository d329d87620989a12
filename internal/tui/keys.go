package tui

import "github.com/charmbracelet/bubbles/key"

// globalKeyMap holds bindings available from every view.
type globalKeyMap struct {
	Quit        key.Binding
	ForceQuit   key.Binding
	SwitchView  key.Binding
	ToggleTheme key.Binding
}

func defaultGlobalKeyMap() globalKeyMap {
	return globalKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		SwitchView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch view"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "light/dark"),
		),
	}
}

type workflowKeyMap struct {
	EditFile     key.Binding
	Confirm      key.Binding
	Cancel       key.Binding
	Upload       key.Binding
	Transcribe   key.Binding
	Diarize      key.Binding
	Notes        key.Binding
	ProcessLarge key.Binding
}

func defaultWorkflowKeyMap() workflowKeyMap {
	return workflowKeyMap{
		EditFile: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "choose file"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "use file"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload"),
		),
		Transcribe: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "transcribe"),
		),
		Diarize: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "diarize"),
		),
		Notes: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "notes"),
		),
		ProcessLarge: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "process large"),
		),
	}
}

type catalogKeyMap struct {
	Up             key.Binding
	Down           key.Binding
	PrevPage       key.Binding
	NextPage       key.Binding
	SmallerPages   key.Binding
	LargerPages    key.Binding
	Refresh        key.Binding
	Filter         key.Binding
	Menu           key.Binding
	ViewTranscript key.Binding
	ViewNotes      key.Binding
	Cancel         key.Binding
}

func defaultCatalogKeyMap() catalogKeyMap {
	return catalogKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		SmallerPages: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "fewer per page"),
		),
		LargerPages: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "more per page"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Menu: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "actions"),
		),
		ViewTranscript: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "view transcript"),
		),
		ViewNotes: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "view notes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

type detailKeyMap struct {
	Close key.Binding
	Flat  key.Binding
}

func defaultDetailKeyMap() detailKeyMap {
	return detailKeyMap{
		Close: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "close"),
		),
		Flat: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "rows/flat"),
		),
	}
}
