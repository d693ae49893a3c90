package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/yuque-export/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/yuque-export/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/yuque-export/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

// RunKind selects the pipeline operation the app drives.
type RunKind int

const (
	// RunSearch calls Pipeline.RunSearch.
	RunSearch RunKind = iota
	// RunExport calls Pipeline.RunExport.
	RunExport
)

// Request describes the run to perform.
type Request struct {
	Kind     RunKind
	Criteria domain.FilterCriteria
	Format   domain.FormatOptions
}

// maxLogLines bounds the stage history shown under the progress bar.
const maxLogLines = 6

// App is the progress view following the Elm architecture.
type App struct {
	ports   *Ports
	request Request
	events  <-chan domain.Event

	ctx    context.Context
	cancel context.CancelFunc

	styles  *styles.Styles
	keymap  *keymap.KeyMap
	spinner spinner.Model
	bar     progress.Model

	stage   domain.Stage
	message string
	percent float64
	log     []string

	cancelling bool
	finished   bool
	result     messages.RunFinished
	width      int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the progress view. events is the receive side of the
// notification channel the pipeline was built with; it may be nil.
func NewApp(ports *Ports, req Request, events <-chan domain.Event) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = s.Spinner

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		ports:   ports,
		request: req,
		events:  events,
		ctx:     ctx,
		cancel:  cancel,
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		stage:   domain.StageListing,
		message: "starting",
		width:   80,
	}, nil
}

// WithContext derives the run context from ctx.
func (a *App) WithContext(ctx context.Context) *App {
	a.cancel()
	a.ctx, a.cancel = context.WithCancel(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.waitForEvent(), a.run())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.bar.Width = min(max(msg.Width-10, 10), 60)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if a.finished {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.EventReceived:
		a.apply(msg.Event)
		return a, a.waitForEvent()

	case messages.EventsClosed:
		return a, nil

	case messages.RunFinished:
		a.finished = true
		a.result = msg
		a.cancel()
		if a.cancelling {
			return a, tea.Quit
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.finished && (key.Matches(msg, a.keymap.Quit) || key.Matches(msg, a.keymap.Cancel)):
		return a, tea.Quit
	case !a.finished && key.Matches(msg, a.keymap.Cancel):
		a.cancelling = true
		a.message = "cancelling, keeping partial results"
		a.cancel()
	}
	return a, nil
}

// apply folds a pipeline event into the view state.
func (a *App) apply(e domain.Event) {
	if e.Terminal() {
		if e.Success {
			a.percent = 1
		}
		return
	}
	if e.Stage != "" && e.Stage != a.stage {
		a.stage = e.Stage
		a.percent = 0
	}
	a.message = e.Message
	if e.Total > 0 {
		a.percent = e.Fraction()
	}

	line := fmt.Sprintf("%-10s %s", e.Stage, e.Message)
	if e.Total > 0 {
		line = fmt.Sprintf("%s (%d/%d)", line, e.Done, e.Total)
	}
	a.log = append(a.log, line)
	if len(a.log) > maxLogLines {
		a.log = a.log[len(a.log)-maxLogLines:]
	}
}

func (a *App) waitForEvent() tea.Cmd {
	if a.events == nil {
		return nil
	}
	events := a.events
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return messages.EventsClosed{}
		}
		return messages.EventReceived{Event: e}
	}
}

func (a *App) run() tea.Cmd {
	ctx := a.ctx
	req := a.request
	pipeline := a.ports.Pipeline
	return func() tea.Msg {
		if req.Kind == RunExport {
			summary, err := pipeline.RunExport(ctx, req.Criteria, req.Format)
			return messages.RunFinished{Export: summary, Err: err}
		}
		summary, err := pipeline.RunSearch(ctx, req.Criteria, req.Format)
		return messages.RunFinished{Search: summary, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	title := "Searching notes"
	if a.request.Kind == RunExport {
		title = "Exporting notes"
	}
	b.WriteString(a.styles.Title.Render(title))
	b.WriteString("\n\n")

	if a.finished {
		b.WriteString(a.renderResult())
		b.WriteString("\n\n")
		b.WriteString(a.styles.Help.Render("q quit"))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%s %s %s\n\n", a.spinner.View(), a.styles.Stage.Render(string(a.stage)), a.message)
	b.WriteString(a.bar.ViewAs(a.percent))
	b.WriteString("\n\n")
	for _, line := range a.log {
		b.WriteString(a.styles.Muted.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("ctrl+c cancel"))
	b.WriteString("\n")
	return b.String()
}

func (a *App) renderResult() string {
	r := a.result
	if r.Err != nil {
		if errors.Is(r.Err, domain.ErrNoMatchingNotes) {
			return a.styles.Warning.Render("No notes matched the selection.")
		}
		return a.styles.Error.Render("Failed: " + r.Err.Error())
	}

	var lines []string
	switch {
	case r.Export != nil:
		lines = append(lines,
			a.styles.Success.Render(fmt.Sprintf("Exported %d notes", r.Export.NoteCount)),
			"File: "+r.Export.Filename,
			"Location: "+r.Export.Location,
		)
		if r.Export.Reused {
			lines = append(lines, a.styles.Muted.Render("Reused the previous search"))
		}
	case r.Search != nil:
		s := r.Search
		lines = append(lines,
			a.styles.Success.Render(fmt.Sprintf("Matched %d of %d notes", s.Matched, s.TotalNotes)),
			fmt.Sprintf("Saved: %d", s.Saved),
		)
		if s.DetailFailures > 0 {
			lines = append(lines, a.styles.Warning.Render(fmt.Sprintf("Detail failures: %d", s.DetailFailures)))
		}
		if s.StopReason.Partial() {
			lines = append(lines, a.styles.Warning.Render("Partial listing: "+string(s.StopReason)))
		}
	}
	return a.styles.Summary.Render(strings.Join(lines, "\n"))
}

// Result returns the outcome once the run has finished.
func (a *App) Result() messages.RunFinished {
	return a.result
}

// Finished reports whether the pipeline call has returned.
func (a *App) Finished() bool {
	return a.finished
}
