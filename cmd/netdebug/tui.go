package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/codincodee/asyncnet"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	tuiRefresh  = 100 * time.Millisecond
	tuiMaxLines = 500
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	outStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingLeft(1)

	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("57"))
)

// tickMsg triggers a poll of the inbound queue.
type tickMsg time.Time

// tuiLine is one row of the message log.
type tuiLine struct {
	stamp    time.Time
	payload  []byte
	outbound bool
}

// tuiModel is the bubbletea model of the interactive debugger. It never
// blocks: Update only calls Send and Receive on the server.
type tuiModel struct {
	srv    *asyncnet.Server
	lines  []tuiLine
	input  []rune
	hex    bool
	width  int
	height int
}

func newTUIModel(srv *asyncnet.Server) tuiModel {
	return tuiModel{srv: srv, height: 24}
}

func (m tuiModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tuiRefresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		for _, r := range m.srv.Receive() {
			m = m.appendLine(tuiLine{stamp: r.Stamp, payload: r.Payload})
		}
		return m, tick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if len(m.input) == 0 {
				return m, nil
			}
			r := m.srv.Send(string(m.input))
			m = m.appendLine(tuiLine{stamp: r.Stamp, payload: r.Payload, outbound: true})
			m.input = nil
		case tea.KeyBackspace:
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		case tea.KeyTab:
			m.hex = !m.hex
		case tea.KeySpace:
			m.input = append(m.input, ' ')
		case tea.KeyRunes:
			m.input = append(m.input, msg.Runes...)
		}
	}

	return m, nil
}

func (m tuiModel) appendLine(l tuiLine) tuiModel {
	m.lines = append(m.lines, l)
	if over := len(m.lines) - tuiMaxLines; over > 0 {
		m.lines = append([]tuiLine(nil), m.lines[over:]...)
	}
	return m
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("netdebug " + m.srv.Addr()))
	b.WriteString("\n\n")

	// title, blank line, status and prompt take four rows
	rows := m.height - 4
	if rows < 1 {
		rows = 1
	}
	start := 0
	if len(m.lines) > rows {
		start = len(m.lines) - rows
	}
	for _, l := range m.lines[start:] {
		text := string(l.payload)
		if m.hex {
			text = hex.EncodeToString(l.payload)
		}
		dir := "<"
		if l.outbound {
			dir = ">"
			text = outStyle.Render(text)
		} else {
			text = inStyle.Render(text)
		}
		fmt.Fprintf(&b, "%s %s %s\n", stampStyle.Render(l.stamp.Format("15:04:05.000")), dir, text)
	}

	st := m.srv.Stats()
	b.WriteString(statusBarStyle.Render(fmt.Sprintf(
		"%s | sent %d dropped %d | recv %d filtered %d | errors %d | tab: hex, esc: quit",
		m.srv.State(), st.Written, st.Dropped, st.Received, st.Rejected, st.TransportErrors)))
	b.WriteString("\n")
	b.WriteString(promptStyle.Render("> "))
	b.WriteString(string(m.input))

	return b.String()
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive terminal session with the peer",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// log lines would tear the screen, so the session runs silent
		zl = zerolog.Nop()

		srv, err := cfg.newServer(&loggerWrapper{l: zl})
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}
		defer srv.Stop()

		_, err = tea.NewProgram(newTUIModel(srv), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
