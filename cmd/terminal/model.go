package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sevigo/build-warden/internal/app"
	"github.com/sevigo/build-warden/internal/core"
	"github.com/sevigo/build-warden/internal/poller"
	"github.com/sevigo/build-warden/internal/reviewboard"
)

const banner = `
╔═══════════════════════════════════════════════╗
║                                               ║
║     B U I L D   W A R D E N   C O N S O L E   ║
║                                               ║
║      review polling and build dispatch        ║
║                                               ║
╚═══════════════════════════════════════════════╝
`

type model struct {
	styles  styles
	app     *app.App
	cleanup func()

	// UI Components
	viewport  viewport.Model
	textarea  textarea.Model
	spinner   spinner.Model
	progress  progress.Model
	isLoading bool

	// Session State
	history     []string
	runTotal    int
	runDone     int
	lastCycleAt time.Time
}

func initialModel(theme ThemeName) *model {
	styles := GetTheme(theme)
	ta := textarea.New()
	ta.Placeholder = "Enter a command, /help lists them..."
	ta.Focus()
	ta.Prompt = styles.prompt.Render("► ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = styles.success
	pr := progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))

	return &model{
		styles:    styles,
		textarea:  ta,
		spinner:   sp,
		progress:  pr,
		isLoading: true,
		history:   []string{styles.banner.Render(banner), "", "⚙ CONNECTING SERVICES..."},
	}
}

// shutdown releases the services once the program has exited.
func (m *model) shutdown() {
	if m.cleanup != nil {
		m.cleanup()
		m.cleanup = nil
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(initializeAppCmd(), m.spinner.Tick)
}

func (m *model) appendLines(lines ...string) {
	m.history = append(m.history, lines...)
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m, m.processCommand(input)
		}

	case appInitializedMsg:
		m.isLoading = false
		if msg.err != nil {
			fmt.Fprintf(os.Stderr, "ERROR initializing app: %v\n", msg.err)
			m.appendLines("", m.styles.error.Render(msg.err.Error()))
			return m, nil
		}
		m.app = msg.app
		m.cleanup = msg.cleanup
		m.appendLines("", m.styles.success.Render("✓ SYSTEM ONLINE"))
		m.history = append(m.history, m.pollerLines()...)
		m.appendLines("", "Type /help for commands.")
		return m, nil

	case cycleCompleteMsg:
		m.runDone++
		m.appendLines(m.reportLines(msg.poller, msg.report, msg.err)...)
		if m.runDone >= m.runTotal {
			m.isLoading = false
			m.lastCycleAt = time.Now()
		}
		return m, nil

	case dispatchesLoadedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendLines(m.styles.error.Render(fmt.Sprintf("Could not load dispatches of %s: %v", msg.poller, msg.err)))
			return m, nil
		}
		m.appendLines(m.dispatchLines(msg.poller, msg.records)...)
		return m, nil

	case reposLoadedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendLines(m.styles.error.Render("Could not load repositories: " + msg.err.Error()))
			return m, nil
		}
		var b strings.Builder
		b.WriteString(m.styles.success.Render(fmt.Sprintf("REPOSITORIES (%d):", len(msg.repos))))
		for _, name := range reviewboard.SortedNames(msg.repos) {
			b.WriteString(fmt.Sprintf("\n  %6d  %s", msg.repos[name], m.styles.prompt.Render(name)))
		}
		m.appendLines(b.String())
		return m, nil

	case previewRenderedMsg:
		m.isLoading = false
		m.appendLines(strings.TrimRight(msg.content, "\n"))
		return m, nil

	case errorMsg:
		m.isLoading = false
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", msg.err)
		m.appendLines("", m.styles.error.Render("⚠ "+msg.err.Error()))
		return m, nil

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 10
		m.textarea.SetWidth(msg.Width - 10)
		m.viewport.SetContent(strings.Join(m.history, "\n"))
	}

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m *model) View() string {
	if m.app == nil && m.isLoading {
		return fmt.Sprintf("\n  %s BOOTING SYSTEM...\n\n", m.spinner.View())
	}

	var statusParts []string
	if m.app != nil {
		statusParts = append(statusParts, "RB: "+m.app.ReviewBoard.BaseURL())
		pollers := m.app.Pollers.Pollers()
		failed := 0
		for _, p := range pollers {
			if _, err := p.LastReport(); err != nil {
				failed++
			}
		}
		count := fmt.Sprintf("● %d POLLERS", len(pollers))
		if failed == 0 {
			statusParts = append(statusParts, m.styles.success.Render(count))
		} else {
			statusParts = append(statusParts, m.styles.warning.Render(fmt.Sprintf("%s, %d FAILED", count, failed)))
		}
		statusParts = append(statusParts, "JENKINS: "+m.app.Cfg.Jenkins.URL)
	} else {
		statusParts = append(statusParts, m.styles.error.Render("○ OFFLINE"))
	}
	if !m.lastCycleAt.IsZero() {
		statusParts = append(statusParts, "LAST RUN: "+m.lastCycleAt.Format(time.Kitchen))
	}
	status := m.styles.inactive.Render(strings.Join(statusParts, " │ "))

	var loadingIndicator string
	if m.isLoading {
		loadingIndicator = " " + m.spinner.View() + " " + m.styles.success.Render("PROCESSING...")
		if m.runTotal > 1 {
			loadingIndicator += " " + m.progress.ViewAs(float64(m.runDone)/float64(m.runTotal))
		}
	}

	return m.styles.app.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.styles.viewport.Render(m.viewport.View()),
			"",
			m.styles.footer.Render(
				lipgloss.JoinHorizontal(lipgloss.Left,
					m.textarea.View(),
					loadingIndicator,
				),
			),
			status,
		),
	)
}

func (m *model) pollerLines() []string {
	pollers := m.app.Pollers.Pollers()
	if len(pollers) == 0 {
		return []string{"", m.styles.inactive.Render("No pollers are configured. Add them to the pollers file and restart.")}
	}
	var b strings.Builder
	b.WriteString(m.styles.success.Render(fmt.Sprintf("POLLERS (%d):", len(pollers))))
	for _, p := range pollers {
		cfg := p.Config()
		state := m.styles.inactive.Render("○ not run yet")
		switch report, err := p.LastReport(); {
		case err != nil:
			state = m.styles.error.Render("✗ " + err.Error())
		case report != nil:
			state = m.styles.success.Render(fmt.Sprintf("● %d dispatched at %s", report.ReviewsDispatched, report.StartedAt.Local().Format(time.Kitchen)))
		}
		b.WriteString(fmt.Sprintf("\n  - %s -> %s [%s]", m.styles.prompt.Render(cfg.Name), cfg.TargetJob, state))
	}
	return []string{"", b.String()}
}

func (m *model) reportLines(name string, report *core.CycleReport, err error) []string {
	if report == nil {
		return []string{m.styles.error.Render(fmt.Sprintf("✗ %s: %v", name, err))}
	}
	lines := []string{m.styles.command.Render(fmt.Sprintf("→ %s: %d reviews seen, %d dispatched (cycle %s)",
		name, report.ReviewsSeen, report.ReviewsDispatched, report.CycleID))}
	for _, item := range report.Items {
		line := fmt.Sprintf("  r/%d %s", item.ReviewID, item.Status)
		if item.Reason != "" {
			line += " (" + item.Reason + ")"
		}
		switch item.Status {
		case core.ItemDispatched:
			lines = append(lines, m.styles.success.Render(line))
		case core.ItemFailed:
			lines = append(lines, m.styles.error.Render(line))
		default:
			lines = append(lines, m.styles.inactive.Render(line))
		}
	}
	if err != nil {
		lines = append(lines, m.styles.error.Render("  ✗ "+err.Error()))
	}
	return lines
}

func (m *model) dispatchLines(name string, records []core.DispatchRecord) []string {
	if len(records) == 0 {
		return []string{m.styles.inactive.Render(fmt.Sprintf("%s has not dispatched any review yet.", name))}
	}
	var b strings.Builder
	b.WriteString(m.styles.success.Render(fmt.Sprintf("DISPATCHES OF %s (%d):", name, len(records))))
	for _, r := range records {
		b.WriteString(fmt.Sprintf("\n  %s  diff %s  %s  seen %s",
			m.styles.prompt.Render(core.ReviewURL(m.app.ReviewBoard.BaseURL(), r.ReviewID)),
			r.LastUpdated.Format(time.RFC3339),
			r.Origin,
			r.UpdatedAt.Local().Format(time.RFC822),
		))
	}
	return []string{b.String()}
}

// selectPollers resolves an optional poller name; "" and "all" select every poller.
func (m *model) selectPollers(args []string) ([]*poller.Poller, error) {
	if len(args) == 0 || args[0] == "all" {
		pollers := m.app.Pollers.Pollers()
		if len(pollers) == 0 {
			return nil, fmt.Errorf("no pollers are configured")
		}
		return pollers, nil
	}
	p, ok := m.app.Pollers.Get(args[0])
	if !ok {
		return nil, fmt.Errorf("poller '%s' not found, use /pollers to list them", args[0])
	}
	return []*poller.Poller{p}, nil
}

func (m *model) processCommand(input string) tea.Cmd {
	m.appendLines(m.styles.prompt.Render("► ") + input)

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}
	command := parts[0]
	args := parts[1:]

	switch command {
	case "/help", "/h":
		helpText := m.styles.success.Render("AVAILABLE COMMANDS:") + `

  /pollers, /ls             List the configured pollers and their last run.
  /run [name|all]           Run one poll cycle now and show its report.
  /status [name]            Show the dispatch records of a poller.
  /repos                    List the repositories known to the review server.
  /preview [result] [url]   Show the comment a build outcome would post.
  /help                     Show this help message.
  /exit, /quit              Exit the console.`
		m.appendLines("", helpText)
		return nil

	case "/exit", "/quit":
		return tea.Quit
	}

	if m.app == nil {
		m.appendLines(m.styles.error.Render("Services are not available, only /help and /exit work."))
		return nil
	}
	if m.isLoading {
		m.appendLines(m.styles.inactive.Render("Still busy with the previous command."))
		return nil
	}

	switch command {
	case "/pollers", "/ls":
		m.appendLines(m.pollerLines()...)
		return nil

	case "/run":
		pollers, err := m.selectPollers(args)
		if err != nil {
			m.appendLines(m.styles.error.Render(err.Error()))
			return nil
		}
		m.isLoading = true
		m.runTotal = len(pollers)
		m.runDone = 0
		m.appendLines("", m.styles.command.Render(fmt.Sprintf("→ Running %d poller(s)...", len(pollers))))
		return tea.Batch(m.spinner.Tick, runCycleCmd(pollers))

	case "/status":
		if len(args) != 1 {
			m.appendLines(m.styles.error.Render("USAGE: /status [name]"))
			return nil
		}
		if _, ok := m.app.Pollers.Get(args[0]); !ok {
			m.appendLines(m.styles.error.Render(fmt.Sprintf("Poller '%s' not found.", args[0])))
			return nil
		}
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, loadDispatchesCmd(m.app, args[0]))

	case "/repos":
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, loadReposCmd(m.app))

	case "/preview":
		if len(args) < 1 || len(args) > 2 {
			m.appendLines(m.styles.error.Render("USAGE: /preview [SUCCESS|UNSTABLE|FAILURE|ABORTED] [build-url]"))
			return nil
		}
		buildURL := ""
		if len(args) == 2 {
			buildURL = args[1]
		}
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, previewCmd(m.app, args[0], buildURL, m.viewport.Width))

	default:
		m.appendLines("", m.styles.error.Render(fmt.Sprintf("UNKNOWN COMMAND: %s", command)), m.styles.inactive.Render("Type /help for assistance."))
		return nil
	}
}
