package main

import (
	"github.com/sevigo/build-warden/internal/app"
	"github.com/sevigo/build-warden/internal/core"
)

// Indicates that the core application services have been initialized.
type appInitializedMsg struct {
	app     *app.App
	cleanup func()
	err     error
}

// Sent once per poller when a manually started cycle finishes.
type cycleCompleteMsg struct {
	poller string
	report *core.CycleReport
	err    error
}

type dispatchesLoadedMsg struct {
	poller  string
	records []core.DispatchRecord
	err     error
}

type reposLoadedMsg struct {
	repos map[string]int64
	err   error
}

// Carries the rendered comment a build outcome would post.
type previewRenderedMsg struct{ content string }

// A generic error message for reporting failures from commands.
type errorMsg struct{ err error }

func (e errorMsg) Error() string {
	return e.err.Error()
}
