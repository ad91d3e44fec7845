// Package tui implements the interactive device monitor.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	vuams "github.com/nixmo/go-vuams"
	"github.com/nixmo/go-vuams/internal/tui/keys"
	"github.com/nixmo/go-vuams/internal/tui/styles"
)

type tickMsg time.Time

type statusMsg struct {
	status vuams.DeviceStatus
	err    error
}

type actionMsg struct {
	event string
	err   error
}

// Monitor polls the device status on an interval and drives recording
// control from key presses. The device takes one command at a time, so
// the model keeps at most one exchange in flight and skips polls while
// an action is pending.
type Monitor struct {
	client   *vuams.Client
	interval time.Duration

	spinner spinner.Model
	help    help.Model
	keys    keys.MonitorKeys

	status     vuams.DeviceStatus
	haveStatus bool
	lastPoll   time.Time
	lastEvent  string
	err        error
	busy       bool
	quitting   bool
}

// NewMonitor creates a monitor for a connected client
func NewMonitor(client *vuams.Client, interval time.Duration) *Monitor {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.EventStyle

	return &Monitor{
		client:   client,
		interval: interval,
		spinner:  s,
		help:     help.New(),
		keys:     keys.NewMonitorKeys(),
	}
}

func (m *Monitor) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll(), m.tick())
}

func (m *Monitor) poll() tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		status, err := m.client.Status()
		return statusMsg{status: status, err: err}
	}
}

func (m *Monitor) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Monitor) action(event string, op func() error) tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		return actionMsg{event: event, err: op()}
	}
}

func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		// One exchange at a time
		if m.busy {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Refresh):
			return m, m.poll()

		case key.Matches(msg, m.keys.StartRec):
			return m, m.action("recording started", m.client.StartRecording)

		case key.Matches(msg, m.keys.StopRec):
			return m, m.action("recording stopped", m.client.StopRecording)

		case key.Matches(msg, m.keys.SyncTime):
			return m, m.action("device clock synced", m.client.SyncTime)

		case key.Matches(msg, m.keys.Marker):
			id := int(msg.String()[0] - '0')
			return m, m.action(fmt.Sprintf("marker %d sent", id), func() error {
				return m.client.SendMarker(id)
			})
		}
		return m, nil

	case tickMsg:
		if m.busy {
			return m, m.tick()
		}
		return m, tea.Batch(m.poll(), m.tick())

	case statusMsg:
		m.busy = false
		m.lastPoll = time.Now()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = msg.status
		m.haveStatus = true
		return m, nil

	case actionMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.lastEvent = fmt.Sprintf("%s %s", time.Now().Format("15:04:05"), msg.event)
		// Recording state likely changed; show it right away
		return m, m.poll()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Monitor) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("VU-AMS Monitor"))
	b.WriteString("\n\n")

	b.WriteString(styles.LabelStyle.Render("Port:   "))
	b.WriteString(styles.ValueStyle.Render(m.client.PortName()))
	b.WriteString("\n")

	b.WriteString(styles.LabelStyle.Render("Status: "))
	switch {
	case !m.haveStatus && m.err == nil:
		b.WriteString(m.spinner.View())
		b.WriteString(styles.LabelStyle.Render(" querying..."))
	case m.busy:
		b.WriteString(styles.StatusStyle(m.status).Render(m.status.String()))
		b.WriteString(" ")
		b.WriteString(m.spinner.View())
	default:
		b.WriteString(styles.StatusStyle(m.status).Render(m.status.String()))
	}
	b.WriteString("\n")

	if !m.lastPoll.IsZero() {
		b.WriteString(styles.LabelStyle.Render("Polled: "))
		b.WriteString(styles.ValueStyle.Render(m.lastPoll.Format("15:04:05")))
		b.WriteString("\n")
	}

	if m.lastEvent != "" {
		b.WriteString("\n")
		b.WriteString(styles.EventStyle.Render(m.lastEvent))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return styles.PanelStyle.Render(b.String()) + "\n"
}
