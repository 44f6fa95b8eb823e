package ui

import (
	"context"
	"time"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"mediafetch/internal/progress"
)

const maxBarWidth = 60

// Model renders the progress of a single extraction.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	label   string
	stage   progress.Stage
	status  string
	percent float64 // -1 means unknown
	total   string
	speed   string
	eta     time.Duration
	lastLog string

	title      string
	outputPath string
	bytes      int64
	err        error
	done       bool

	spinner spinner.Model
	bar     bubblesprogress.Model
	styles  Styles

	eventCh chan tea.Msg
}

// NewModel builds a Model whose context is cancelled when the user quits.
func NewModel(ctx context.Context, label string) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()
	sp := spinner.New()
	sp.Style = sty.Spinner
	return Model{
		ctx:     c,
		cancel:  cancel,
		label:   label,
		stage:   progress.StageMetadata,
		status:  "Starting",
		percent: -1,
		spinner: sp,
		bar: bubblesprogress.New(
			bubblesprogress.WithDefaultGradient(),
			bubblesprogress.WithWidth(40),
		),
		styles:  sty,
		eventCh: make(chan tea.Msg, 256),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenEventsCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		w := msg.Width - 20
		if w > maxBarWidth {
			w = maxBarWidth
		}
		if w > 10 {
			m.bar.Width = w
		}
		return m, nil

	case jobUpdateMsg:
		m.applyUpdate(msg.U)
		return m, m.listenEventsCmd()

	case jobLogMsg:
		m.lastLog = msg.L.Line
		return m, m.listenEventsCmd()

	case jobResultMsg:
		if msg.R.Err == nil {
			m.title = msg.R.Title
			m.outputPath = msg.R.OutputPath
			m.bytes = msg.R.Bytes
		}
		return m, m.listenEventsCmd()

	case jobDoneMsg:
		m.done = true
		m.err = msg.Err
		if msg.Err != nil {
			m.stage = progress.StageError
			m.status = msg.Err.Error()
			m.percent = -1
		} else {
			m.stage = progress.StageCompleted
			m.percent = 100
			m.title = msg.Res.Title
			m.outputPath = msg.Res.Path
			m.bytes = msg.Res.Size
		}
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) applyUpdate(u progress.Update) {
	m.stage = u.Stage
	m.percent = u.Percent
	if u.Message != "" {
		m.status = u.Message
	}
	if u.Total != nil {
		m.total = *u.Total
	}
	if u.Speed != nil {
		m.speed = *u.Speed
	}
	if u.ETA != nil {
		m.eta = *u.ETA
	}
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return jobDoneMsg{Err: m.ctx.Err()}
		case ev := <-m.eventCh:
			return ev
		}
	}
}

// teaReporter feeds reporter events into the program. Progress and log
// lines are dropped when the buffer is full; stage changes and results
// block until delivered or the UI is gone.
type teaReporter struct {
	ctx context.Context
	ch  chan tea.Msg
}

func (r teaReporter) send(msg tea.Msg) {
	select {
	case r.ch <- msg:
	case <-r.ctx.Done():
	}
}

func (r teaReporter) Update(u progress.Update) {
	if u.Stage == progress.StageCompleted || u.Stage == progress.StageError {
		r.send(jobUpdateMsg{U: u})
		return
	}
	select {
	case r.ch <- jobUpdateMsg{U: u}:
	default:
	}
}

func (r teaReporter) Log(l progress.Log) {
	select {
	case r.ch <- jobLogMsg{L: l}:
	default:
	}
}

func (r teaReporter) Result(res progress.Result) {
	r.send(jobResultMsg{R: res})
}
