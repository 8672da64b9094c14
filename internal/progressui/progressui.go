// Package progressui renders a batch's in-flight ProgressEvents as a
// live terminal display, using the same bubbletea/lipgloss stack the
// interactive TUI is built on. It is a pure consumer of the engine's
// progress channel — the engine package never imports this one.
package progressui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/surge-downloader/fastdl/internal/engine/transfer"
)

// Run drives a bubbletea program off progressCh until it closes or ctx
// is cancelled, whichever comes first.
func Run(ctx context.Context, progressCh <-chan transfer.ProgressEvent) error {
	p := tea.NewProgram(newModel())

	go func() {
		for {
			select {
			case ev, ok := <-progressCh:
				if !ok {
					p.Send(doneMsg{})
					return
				}
				p.Send(progressMsg(ev))
			case <-ctx.Done():
				p.Send(doneMsg{})
				return
			}
		}
	}()

	_, err := p.Run()
	return err
}
