package keys

import "github.com/charmbracelet/bubbles/key"

// MonitorKeys are the key bindings for the interactive status monitor
type MonitorKeys struct {
	Quit     key.Binding
	Help     key.Binding
	Refresh  key.Binding
	StartRec key.Binding
	StopRec  key.Binding
	SyncTime key.Binding
	Marker   key.Binding
}

func NewMonitorKeys() MonitorKeys {
	return MonitorKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "refresh status"),
		),
		StartRec: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "start recording"),
		),
		StopRec: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop recording"),
		),
		SyncTime: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "sync device clock"),
		),
		Marker: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"),
			key.WithHelp("1-8", "send marker"),
		),
	}
}

func (k MonitorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.StartRec, k.StopRec, k.Marker, k.Quit}
}

func (k MonitorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.StartRec, k.StopRec, k.Marker, k.SyncTime},
		{k.Refresh, k.Help, k.Quit},
	}
}
