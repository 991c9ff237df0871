// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Thermoquad/zhstat/pkg/driver"
	"github.com/Thermoquad/zhstat/pkg/zh06"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Event log entry
type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// statusSource is polled by the TUI once per tick
type statusSource interface {
	Status() driver.Status
}

// TUI model
type model struct {
	connInfo      string
	mode          string
	source        statusSource
	status        driver.Status
	readings      table.Model
	lastReadingAt time.Time
	maxReadings   int
	eventLog      []eventLogEntry
	maxLogEntries int
	width         int
	height        int
	quitting      bool
}

// Messages
type statusMsg driver.Status
type eventMsg eventLogEntry

func initialModel(connInfo string, cfg driver.Config, source statusSource) model {
	columns := []table.Column{{Title: "Time", Width: 12}}
	for _, c := range driver.Channels {
		columns = append(columns, table.Column{Title: c.Label(), Width: 8})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(6),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	mode := cfg.Mode()
	if cfg.UpdateInterval > 0 {
		mode = fmt.Sprintf("%s every %s", mode, cfg.UpdateInterval)
	}

	return model{
		connInfo:      connInfo,
		mode:          mode,
		source:        source,
		readings:      t,
		maxReadings:   50,
		eventLog:      make([]eventLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.source),
		tea.EnterAltScreen,
	)
}

func tickCmd(source statusSource) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return statusMsg(source.Status())
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case statusMsg:
		m.applyStatus(driver.Status(msg))
		return m, tickCmd(m.source)

	case eventMsg:
		m.addLogEntry(msg.timestamp, msg.message, msg.isError)
	}

	return m, nil
}

// applyStatus stores the snapshot and appends a table row per new reading
func (m *model) applyStatus(st driver.Status) {
	m.status = st
	if !st.HasReading || !st.ReadingAt.After(m.lastReadingAt) {
		return
	}
	m.lastReadingAt = st.ReadingAt

	row := table.Row{st.ReadingAt.Format("15:04:05")}
	for _, c := range driver.Channels {
		row = append(row, fmt.Sprintf("%d", c.Value(st.Reading)))
	}

	// Newest first
	rows := append([]table.Row{row}, m.readings.Rows()...)
	if len(rows) > m.maxReadings {
		rows = rows[:m.maxReadings]
	}
	m.readings.SetRows(rows)
}

func (m *model) addLogEntry(at time.Time, message string, isError bool) {
	m.eventLog = append(m.eventLog, eventLogEntry{
		timestamp: at,
		message:   message,
		isError:   isError,
	})

	// Keep only last N entries
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statsLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	statsValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func (m model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("ZHSTAT - ZH06 MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Mode: %s | Press 'q' to quit", m.connInfo, m.mode)))
	s.WriteString("\n\n")

	s.WriteString(boxStyle.Render(m.stateView()))
	s.WriteString("\n")
	s.WriteString(boxStyle.Render(m.readings.View()))
	s.WriteString("\n")
	s.WriteString(boxStyle.Render(m.statsView()))
	s.WriteString("\n\n")

	s.WriteString(statsLabelStyle.Render("Recent Events:"))
	s.WriteString("\n")
	s.WriteString(boxStyle.Width(max(m.width-4, 20)).Render(m.eventsView()))

	return s.String()
}

func (m model) stateView() string {
	st := m.status

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", statsLabelStyle.Render("State:"), statsValueStyle.Render(st.State.String()))
	if st.Pending {
		b.WriteString(warningStyle.Render("  (awaiting response)"))
	}
	if st.Warning {
		b.WriteString(errorStyle.Render("  ⚠ corrupt frames"))
	}
	b.WriteString("\n")

	if st.HasReading {
		fmt.Fprintf(&b, "%s %s %s",
			statsLabelStyle.Render("Latest:"),
			statsValueStyle.Render(st.Reading.String()),
			headerStyle.Render(fmt.Sprintf("(%s ago)", time.Since(st.ReadingAt).Truncate(time.Second))),
		)
	} else {
		b.WriteString(warningStyle.Render("⏳ Waiting for first reading..."))
	}
	return b.String()
}

func (m model) statsView() string {
	stats := m.status.Statistics
	stats.CalculateRates(stats.LastUpdateTime)

	errs := stats.Errors()
	errStyle := statsValueStyle
	if errs > 0 {
		errStyle = errorStyle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s   %s %s   %s %s   %s %s\n",
		statsLabelStyle.Render("Bytes:"), statsValueStyle.Render(fmt.Sprintf("%d", stats.Bytes)),
		statsLabelStyle.Render("Frames:"), statsValueStyle.Render(fmt.Sprintf("%d", stats.Frames())),
		statsLabelStyle.Render("Readings:"), statsValueStyle.Render(fmt.Sprintf("%d", stats.Readings)),
		statsLabelStyle.Render("Errors:"), errStyle.Render(fmt.Sprintf("%d", errs)),
	)
	if errs > 0 || stats.StaleFrames > 0 {
		fmt.Fprintf(&b, "%s (%s: %d, %s: %d, %s: %d)\n",
			statsLabelStyle.Render("Detail:"),
			headerStyle.Render("checksum"), stats.ChecksumErrors,
			headerStyle.Render("length"), stats.LengthMismatches,
			headerStyle.Render("stale"), stats.StaleFrames,
		)
	}
	fmt.Fprintf(&b, "%s %s",
		statsLabelStyle.Render("Frame Rate:"), statsValueStyle.Render(fmt.Sprintf("%.2f frames/s", stats.FrameRate)),
	)
	return b.String()
}

func (m model) eventsView() string {
	// Reserve space for header, state, readings and stats
	logHeight := max(m.height-24, 5)

	if len(m.eventLog) == 0 {
		return headerStyle.Render("  (no events yet)")
	}

	var b strings.Builder
	for _, entry := range m.eventLog[max(len(m.eventLog)-logHeight, 0):] {
		timestamp := entry.timestamp.Format("01/02/06 15:04:05.000")
		if entry.isError {
			fmt.Fprintf(&b, "%s %s\n", headerStyle.Render(timestamp), errorStyle.Render("✗ "+entry.message))
		} else {
			fmt.Fprintf(&b, "%s %s\n", headerStyle.Render(timestamp), warningStyle.Render("ℹ "+entry.message))
		}
	}
	return b.String()
}

// tuiObserver turns driver traffic into event messages. It never blocks the
// driver: events are dropped when the queue is full.
type tuiObserver struct {
	events chan eventMsg
}

func newTUIObserver(size int) *tuiObserver {
	return &tuiObserver{events: make(chan eventMsg, size)}
}

func (o *tuiObserver) CommandSent(at time.Time, req zh06.Request) {
	o.push(at, "Sent "+req.String(), false)
}

func (o *tuiObserver) FrameDecoded(at time.Time, frame zh06.Frame, published bool) {
	msg := zh06.FormatFrame(frame)
	if published {
		msg += " (published)"
	}
	o.push(at, msg, false)
}

func (o *tuiObserver) Error(at time.Time, err error) {
	o.push(at, err.Error(), true)
}

func (o *tuiObserver) push(at time.Time, message string, isError bool) {
	select {
	case o.events <- eventMsg{timestamp: at, message: message, isError: isError}:
	default:
	}
}
