package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/yuque-export/internal/adapters/driven/notify"
	"github.com/custodia-labs/yuque-export/internal/adapters/driving/tui"
	"github.com/custodia-labs/yuque-export/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/yuque-export/internal/core/ports/driving"
)

// eventBuffer bounds progress events queued for the progress view.
const eventBuffer = 64

// runTUI drives one pipeline run through the progress view and returns
// its outcome once the user leaves the view.
func runTUI(cmd *cobra.Command, pipeline driving.Pipeline, req tui.Request) (messages.RunFinished, error) {
	events := notify.NewChannel(eventBuffer)
	detach := relay.Attach(events)
	defer func() {
		detach()
		events.Close()
	}()

	app, err := tui.NewApp(&tui.Ports{Pipeline: pipeline}, req, events.Events())
	if err != nil {
		return messages.RunFinished{}, fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithContext(cmd.Context()), tea.WithOutput(cmd.ErrOrStderr()))
	if _, err := p.Run(); err != nil {
		return messages.RunFinished{}, fmt.Errorf("TUI error: %w", err)
	}
	if !app.Finished() {
		return messages.RunFinished{}, errors.New("TUI closed before the run finished")
	}
	return app.Result(), nil
}
