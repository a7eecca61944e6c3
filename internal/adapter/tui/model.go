package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	domain "user-dashboard/internal/domain/user"
	"user-dashboard/internal/usecase/dashboard"
	"user-dashboard/pkg/security"
)

// Messages shown in the view
const (
	Title          = "User Dashboard"
	LoadingMessage = "Loading users..."
	EmptyMessage   = "No users found."
)

// snapshotMsg delivers a snapshot published by the dashboard store.
type snapshotMsg struct {
	snapshot dashboard.Snapshot
}

// mountedMsg reports that the one-shot load has finished.
type mountedMsg struct{}

// Model is the bubbletea model of the terminal dashboard. It renders
// snapshots of a dashboard.Dashboard and forwards key presses to it.
type Model struct {
	ctx       context.Context
	dashboard dashboard.Dashboard
	updates   <-chan dashboard.Snapshot
	cancel    func()

	snapshot dashboard.Snapshot
	keys     KeyMap
	theme    Theme
	spinner  spinner.Model

	width  int
	height int
}

// NewModel creates a model bound to d. The subscription is registered
// before the first render so no snapshot published after NewModel is lost.
// ctx bounds the load started from Init.
func NewModel(ctx context.Context, d dashboard.Dashboard) Model {
	updates, cancel := dashboard.SubscribeLatest(d)

	indicator := spinner.New()
	indicator.Spinner = spinner.Dot
	indicator.Style = lipgloss.NewStyle().Foreground(DefaultTheme.LoadingForeground)

	return Model{
		ctx:       ctx,
		dashboard: d,
		updates:   updates,
		cancel:    cancel,
		snapshot:  d.Snapshot(),
		keys:      DefaultKeyMap,
		theme:     DefaultTheme,
		spinner:   indicator,
	}
}

// Close releases the store subscription.
func (model Model) Close() {
	model.cancel()
}

// Snapshot returns the snapshot the model currently renders.
func (model Model) Snapshot() dashboard.Snapshot {
	return model.snapshot
}

// Init implements tea.Model. Starts the load, the spinner and the
// snapshot listener.
func (model Model) Init() tea.Cmd {
	return tea.Batch(
		model.spinner.Tick,
		mountDashboard(model.ctx, model.dashboard),
		listenForSnapshot(model.updates),
	)
}

// mountDashboard returns a tea.Cmd that starts the load and blocks until
// its outcome has been applied.
func mountDashboard(ctx context.Context, d dashboard.Dashboard) tea.Cmd {
	return func() tea.Msg {
		done, _ := d.Mount(ctx)
		<-done
		return mountedMsg{}
	}
}

// listenForSnapshot returns a tea.Cmd that blocks until the store
// publishes a snapshot, then delivers it as a snapshotMsg.
func listenForSnapshot(channel <-chan dashboard.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-channel
		if !ok {
			return nil
		}
		return snapshotMsg{snapshot: snapshot}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return model.handleKeys(message)

	case snapshotMsg:
		model.accept(message.snapshot)
		return model, listenForSnapshot(model.updates)

	case mountedMsg:
		model.accept(model.dashboard.Snapshot())
		return model, nil

	case spinner.TickMsg:
		var command tea.Cmd
		model.spinner, command = model.spinner.Update(message)
		return model, command

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		return model, nil
	}

	return model, nil
}

// accept replaces the rendered snapshot unless it is older than the
// one already shown.
func (model *Model) accept(snapshot dashboard.Snapshot) {
	if snapshot.Revision < model.snapshot.Revision {
		return
	}
	model.snapshot = snapshot
}

func (model Model) handleKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(message, model.keys.Quit) {
		return model, tea.Quit
	}

	// Filter and sort controls only exist in the ready view.
	if model.snapshot.Branch != dashboard.BranchReady {
		return model, nil
	}

	current := model.snapshot.FilterLetter
	switch {
	case key.Matches(message, model.keys.All):
		model.selectLetter(dashboard.LetterAll)
	case key.Matches(message, model.keys.LetterA):
		model.selectLetter(dashboard.LetterA)
	case key.Matches(message, model.keys.LetterB):
		model.selectLetter(dashboard.LetterB)
	case key.Matches(message, model.keys.LetterC):
		model.selectLetter(dashboard.LetterC)
	case key.Matches(message, model.keys.LetterD):
		model.selectLetter(dashboard.LetterD)
	case key.Matches(message, model.keys.NextLetter):
		model.selectLetter(current.Next())
	case key.Matches(message, model.keys.PrevLetter):
		model.selectLetter(current.Prev())
	case key.Matches(message, model.keys.SortToggle):
		model.dashboard.ToggleSort()
		model.accept(model.dashboard.Snapshot())
	}

	return model, nil
}

func (model *Model) selectLetter(letter dashboard.Letter) {
	if err := model.dashboard.SelectLetter(letter); err != nil {
		return
	}
	model.accept(model.dashboard.Snapshot())
}

// View implements tea.Model. Exactly one of the loading, error and ready
// branches is rendered below the title.
func (model Model) View() string {
	var builder strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	builder.WriteString(title.Render(Title))
	builder.WriteString("\n\n")

	switch model.snapshot.Branch {
	case dashboard.BranchLoading:
		label := lipgloss.NewStyle().Foreground(model.theme.LoadingForeground)
		builder.WriteString(model.spinner.View() + " " + label.Render(LoadingMessage))
		builder.WriteString("\n")

	case dashboard.BranchError:
		alert := lipgloss.NewStyle().Bold(true).Foreground(model.theme.ErrorForeground)
		builder.WriteString(alert.Render("✖ " + security.SanitizeDisplay(model.snapshot.Error)))
		builder.WriteString("\n")

	case dashboard.BranchReady:
		builder.WriteString(model.renderControls())
		builder.WriteString("\n\n")
		builder.WriteString(model.renderTable())
	}

	builder.WriteString("\n")
	builder.WriteString(model.renderHelp())

	return model.clip(builder.String())
}

// renderControls draws the filter buttons followed by the sort toggle.
func (model Model) renderControls() string {
	button := lipgloss.NewStyle().Padding(0, 1).Foreground(model.theme.NormalText)
	active := button.Bold(true).
		Foreground(model.theme.ActiveForeground).
		Background(model.theme.ActiveBackground)

	parts := make([]string, 0, len(dashboard.Letters)+1)
	for _, letter := range dashboard.Letters {
		style := button
		if letter == model.snapshot.FilterLetter {
			style = active
		}
		parts = append(parts, style.Render(string(letter)))
	}

	icon := "▼"
	if model.snapshot.SortAscending {
		icon = "▲"
	}
	sort := lipgloss.NewStyle().
		MarginLeft(2).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(model.theme.BorderColor).
		PaddingLeft(1)
	parts = append(parts, sort.Render("Sort by Name "+icon))

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

var tableHeaders = []string{"ID", "Name", "Email", "Company", "City"}

// renderTable draws the derived rows as aligned columns.
func (model Model) renderTable() string {
	if model.snapshot.Empty() {
		faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
		return faint.Render(EmptyMessage) + "\n"
	}

	rows := make([][]string, 0, len(model.snapshot.Rows))
	for _, user := range model.snapshot.Rows {
		rows = append(rows, tableCells(user))
	}

	widths := make([]int, len(tableHeaders))
	for column, header := range tableHeaders {
		widths[column] = lipgloss.Width(header)
	}
	for _, row := range rows {
		for column, cell := range row {
			widths[column] = max(widths[column], lipgloss.Width(cell))
		}
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	rule := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	cell := lipgloss.NewStyle().Foreground(model.theme.NormalText)

	var builder strings.Builder
	builder.WriteString(header.Render(joinCells(tableHeaders, widths)))
	builder.WriteString("\n")

	total := len(widths) - 1
	for _, width := range widths {
		total += width + 1
	}
	builder.WriteString(rule.Render(strings.Repeat("─", total)))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(cell.Render(joinCells(row, widths)))
		builder.WriteString("\n")
	}

	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	builder.WriteString(faint.Render(fmt.Sprintf("%d of %d users", len(rows), model.snapshot.Total)))
	builder.WriteString("\n")

	return builder.String()
}

// tableCells returns the display cells of one user row.
func tableCells(user domain.User) []string {
	return []string{
		fmt.Sprintf("%d", user.ID),
		security.SanitizeDisplay(user.Name),
		security.SanitizeDisplay(user.Email),
		security.SanitizeDisplay(user.Company.Name),
		security.SanitizeDisplay(user.Address.City),
	}
}

// joinCells pads each cell to its column width and joins them with two spaces.
func joinCells(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for column, text := range cells {
		padded[column] = text + strings.Repeat(" ", widths[column]-lipgloss.Width(text))
	}
	return strings.TrimRight(strings.Join(padded, "  "), " ")
}

// renderHelp draws the key binding hints.
func (model Model) renderHelp() string {
	bindings := model.keys.helpBindings()
	if model.snapshot.Branch != dashboard.BranchReady {
		bindings = []key.Binding{model.keys.Quit}
	}

	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		hints = append(hints, help.Key+" "+help.Desc)
	}

	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	return faint.Render(strings.Join(hints, " · "))
}

// clip truncates every line to the terminal width once it is known.
func (model Model) clip(view string) string {
	if model.width <= 0 {
		return view
	}
	lines := strings.Split(view, "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, model.width, "…")
	}
	return strings.Join(lines, "\n")
}
