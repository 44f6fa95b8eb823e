package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"mediafetch/internal/model"
	"mediafetch/internal/progress"
)

// Job performs one extraction, reporting progress to rep.
type Job func(ctx context.Context, rep progress.Reporter) (model.DownloadResult, error)

// Run shows the progress of job in the terminal until it finishes or the
// user quits, and returns the job's outcome.
func Run(ctx context.Context, label string, job Job) (model.DownloadResult, error) {
	m := NewModel(ctx, label)
	rep := teaReporter{ctx: m.ctx, ch: m.eventCh}

	var (
		res    model.DownloadResult
		jobErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		res, jobErr = job(m.ctx, rep)
		rep.send(jobDoneMsg{Res: res, Err: jobErr})
	}()

	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	m.cancel()
	<-done
	if jobErr != nil {
		return res, jobErr
	}
	if err != nil {
		return res, err
	}
	return res, nil
}
