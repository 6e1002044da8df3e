package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alexanderramin/pulse/internal/cli/formatter"
	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/session"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// liveSession adapts a tracker to the monitor. Optional hooks left nil
// disable their key binding.
type liveSession struct {
	title   string
	tracker session.Tracker
	status  func() string

	// progress reports completion in [0,1].
	progress func() float64
	// done ends the session early, e.g. when a target is reached.
	done func() bool
	// pause toggles a pause.
	pause func()
	// next advances to the next stage.
	next func()
}

type monitorKeys struct {
	Pause key.Binding
	Next  key.Binding
	Stop  key.Binding
}

func (k monitorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Next, k.Stop}
}

func (k monitorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newMonitorKeys(s liveSession) monitorKeys {
	k := monitorKeys{
		Pause: key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "暂停/继续")),
		Next:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "切换阶段")),
		Stop:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "结束")),
	}
	k.Pause.SetEnabled(s.pause != nil)
	k.Next.SetEnabled(s.next != nil)
	return k
}

type tickMsg time.Time

// monitorModel renders a running session and advances it on every tick.
type monitorModel struct {
	s        liveSession
	interval time.Duration
	keys     monitorKeys
	help     help.Model
	bar      progress.Model
	stopped  bool
}

func newMonitorModel(s liveSession, interval time.Duration) monitorModel {
	bar := progress.New(progress.WithSolidFill(string(formatter.ColorGreen)))
	bar.Width = 40
	return monitorModel{
		s:        s,
		interval: interval,
		keys:     newMonitorKeys(s),
		help:     help.New(),
		bar:      bar,
	}
}

func (m monitorModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m monitorModel) Init() tea.Cmd {
	return m.tick()
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.stopped {
			return m, nil
		}
		m.s.tracker.Tick()
		if m.finished() {
			m.stopped = true
			return m, tea.Quit
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Stop):
			m.stopped = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.s.pause()
		case key.Matches(msg, m.keys.Next):
			m.s.next()
		}

	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(60, msg.Width-10))
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m monitorModel) finished() bool {
	return m.s.tracker.State() != domain.TrackerActive || (m.s.done != nil && m.s.done())
}

func (m monitorModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header(m.s.title))
	b.WriteString("\n\n")
	b.WriteString(m.s.status())
	b.WriteString("\n")
	if m.s.progress != nil {
		b.WriteString("\n")
		b.WriteString(m.bar.ViewAs(m.s.progress()))
		b.WriteString("\n")
	}
	if !m.stopped {
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
		b.WriteString("\n")
	}
	return b.String()
}

// runLive drives s until it finishes, the user stops it, or limit
// elapses. A terminal gets the bubbletea monitor; anything else gets one
// status line per tick.
func runLive(cmd *cobra.Command, app *App, s liveSession, limit time.Duration) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}

	if app.interactive() {
		p := tea.NewProgram(newMonitorModel(s, app.tick()),
			tea.WithContext(ctx),
			tea.WithOutput(cmd.OutOrStdout()))
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	}

	out := cmd.OutOrStdout()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	fmt.Fprintln(out, formatter.Header(s.title))
	err := session.Run(ctx, s.tracker, app.tick(), func() {
		fmt.Fprintln(out, s.status())
		if s.done != nil && s.done() {
			cancel()
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
