package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sevigo/build-warden/internal/app"
	"github.com/sevigo/build-warden/internal/core"
	"github.com/sevigo/build-warden/internal/jobs"
	"github.com/sevigo/build-warden/internal/poller"
	"github.com/sevigo/build-warden/internal/wire"
)

func initializeAppCmd() tea.Cmd {
	return func() tea.Msg {
		app, cleanup, err := wire.InitializeApp(context.Background())
		if err != nil {
			return appInitializedMsg{err: err}
		}
		return appInitializedMsg{app: app, cleanup: cleanup}
	}
}

// runCycleCmd runs one cycle per poller concurrently; each reports back on its own.
func runCycleCmd(pollers []*poller.Poller) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(pollers))
	for _, p := range pollers {
		cmds = append(cmds, func() tea.Msg {
			report, err := p.RunOnce(context.Background())
			return cycleCompleteMsg{poller: p.Name(), report: report, err: err}
		})
	}
	return tea.Batch(cmds...)
}

func loadDispatchesCmd(app *app.App, name string) tea.Cmd {
	return func() tea.Msg {
		records, err := app.Store.ListDispatches(context.Background(), name)
		return dispatchesLoadedMsg{poller: name, records: records, err: err}
	}
}

func loadReposCmd(app *app.App) tea.Cmd {
	return func() tea.Msg {
		repos, err := app.ReviewBoard.Repositories(context.Background())
		return reposLoadedMsg{repos: repos, err: err}
	}
}

// previewCmd renders the comment a build outcome would post, without posting it.
func previewCmd(app *app.App, result, buildURL string, width int) tea.Cmd {
	return func() tea.Msg {
		outcome := &core.BuildOutcome{Review: "preview", Result: result, BuildURL: buildURL}
		if err := outcome.Validate(); err != nil {
			return errorMsg{err}
		}
		message := jobs.BuildMessage(outcome, app.Cfg.Notify)
		if !app.Cfg.Notify.UseMarkdown {
			return previewRenderedMsg{content: message}
		}
		if width < 20 {
			width = 80
		}
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
		if err != nil {
			return errorMsg{fmt.Errorf("failed to create markdown renderer: %w", err)}
		}
		rendered, err := r.Render(message)
		if err != nil {
			return errorMsg{fmt.Errorf("failed to render preview: %w", err)}
		}
		return previewRenderedMsg{content: rendered}
	}
}
