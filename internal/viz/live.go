package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/vortgen/internal/config"
	"github.com/san-kum/vortgen/internal/dataset"
	"github.com/san-kum/vortgen/internal/storage"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

type progressMsg dataset.Progress

type doneMsg struct {
	runID string
	err   error
}

type liveModel struct {
	cfg      *config.Config
	stop     func()
	progress dataset.Progress
	energy   []float64
	runID    string
	err      error
	done     bool
	stopping bool
}

func (m liveModel) Init() tea.Cmd { return nil }

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.done {
				return m, tea.Quit
			}
			if m.stop != nil {
				m.stop()
			}
			m.stopping = true
			return m, nil
		}
	case progressMsg:
		m.progress = dataset.Progress(msg)
		if msg.ChunkDone {
			m.energy = append(m.energy, msg.Energy)
		}
		return m, nil
	case doneMsg:
		m.runID = msg.runID
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m liveModel) View() string {
	var b strings.Builder

	b.WriteString(cyan.Render("vortgen") + dim.Render("  navier-stokes data generation") + "\n\n")
	b.WriteString(fmt.Sprintf("  grid %d²  batch %d  count %d  ν=%g  T=%g  dt=%g\n\n",
		m.cfg.GridSize, m.cfg.BatchSize, m.cfg.Count,
		m.cfg.Viscosity, m.cfg.Duration, m.cfg.Dt))

	p := m.progress
	frac := 0.0
	if p.Chunks > 0 && p.Snapshots > 0 {
		frac = (float64(p.Chunk) + float64(p.Recorded)/float64(p.Snapshots)) / float64(p.Chunks)
	}
	if m.done {
		frac = 1
	}

	const barWidth = 40
	filled := int(frac * barWidth)
	bar := green.Render(strings.Repeat("█", filled)) + dim.Render(strings.Repeat("░", barWidth-filled))
	b.WriteString(fmt.Sprintf("  %s %5.1f%%\n", bar, frac*100))
	b.WriteString(dim.Render(fmt.Sprintf("  chunk %d/%d  snapshot %d/%d  t=%.3f  elapsed %s\n",
		p.Chunk+1, max(p.Chunks, 1), p.Recorded, p.Snapshots, p.Time, p.Elapsed.Round(time.Second))))

	if len(m.energy) >= 2 {
		b.WriteString("\n" + yellow.Render("  final-snapshot energy per chunk") + "\n")
		b.WriteString(asciigraph.Plot(m.energy, asciigraph.Height(8), asciigraph.Offset(4)) + "\n")
	}

	switch {
	case m.done && m.err != nil:
		b.WriteString("\n  error: " + m.err.Error() + "\n")
	case m.done:
		b.WriteString("\n  " + green.Render("done") + "  run id: " + m.runID + "\n")
	case m.stopping:
		b.WriteString("\n" + yellow.Render("  stopping after current chunk...") + "\n")
	default:
		b.WriteString("\n" + dim.Render("  q to stop") + "\n")
	}

	return b.String()
}

// RunLive runs a generation workflow behind a live terminal view and returns
// the stored run ID.
func RunLive(cfg *config.Config, store *storage.Store) (string, error) {
	gen, err := dataset.New(cfg, store)
	if err != nil {
		return "", err
	}

	p := tea.NewProgram(liveModel{cfg: cfg, stop: gen.Stop})

	gen.OnProgress(func(pr dataset.Progress) {
		p.Send(progressMsg(pr))
	})

	go func() {
		runID, err := gen.Run()
		p.Send(doneMsg{runID: runID, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m := final.(liveModel)
	return m.runID, m.err
}
