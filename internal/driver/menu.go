package driver

import (
	"fmt"
	"github.com/charmbracelet/lipgloss"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/patterns"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/speed"
	"strings"
)

var (
	brand       = lipgloss.Color("86")
	subtle      = lipgloss.Color("245")
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(brand)
	keyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")).Width(3).Align(lipgloss.Right)
	dimStyle    = lipgloss.NewStyle().Foreground(subtle)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(brand).Padding(0, 1)
	promptStyle = lipgloss.NewStyle().Bold(true)
)

type menuEntry struct {
	key   int
	label string
}

func (s *Session) menuEntries() []menuEntry {
	entries := make([]menuEntry, 0, OptionSwitch)
	for _, id := range patterns.IDs() {
		entries = append(entries, menuEntry{int(id), id.Title()})
	}
	other := ModeRemote
	if s.mode == ModeRemote {
		other = ModeLocal
	}
	return append(entries,
		menuEntry{OptionCalibrate, "Calibrate initial delay"},
		menuEntry{OptionReset, "Reset speeds"},
		menuEntry{OptionExit, "Exit"},
		menuEntry{OptionSwitch, fmt.Sprintf("Switch to %s mode", other)},
	)
}

func (s *Session) delayLine() string {
	return fmt.Sprintf("Initial delay: %d ms - %.2f Hz", s.initialDelay, speed.Hz(s.initialDelay))
}

func (s *Session) showMenu() {
	if s.mode == ModeRemote {
		s.say(s.link, "%s", s.remoteMenu())
		return
	}
	s.say(s.console, "%s", s.localMenu())
}

// localMenu renders for the tty in canonical mode.
func (s *Session) localMenu() string {
	rows := make([]string, 0, OptionSwitch)
	for _, e := range s.menuEntries() {
		rows = append(rows, keyStyle.Render(fmt.Sprint(e.key))+" "+e.label)
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("LED sequences")+" "+dimStyle.Render("("+string(s.mode)+")"),
		"",
		strings.Join(rows, "\n"),
		"",
		dimStyle.Render(s.delayLine()),
	)
	panel := panelStyle
	if s.width > 0 {
		panel = panel.MaxWidth(s.width)
	}
	return "\n" + panel.Render(body) + "\n" + promptStyle.Render("Option: ")
}

// remoteMenu is plain text for a serial terminal.
func (s *Session) remoteMenu() string {
	var b strings.Builder
	b.WriteString("\033[2J\033[H")
	b.WriteString("LED sequences (" + string(s.mode) + ")\r\n\r\n")
	for _, e := range s.menuEntries() {
		fmt.Fprintf(&b, "%3d) %s\r\n", e.key, e.label)
	}
	b.WriteString("\r\n" + s.delayLine() + "\r\n")
	b.WriteString("Option: ")
	return b.String()
}
