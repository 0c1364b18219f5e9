package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/astrocore-app/astrocore/internal/engine"
	"github.com/astrocore-app/astrocore/internal/model"
	"github.com/astrocore-app/astrocore/internal/output"
	"github.com/astrocore-app/astrocore/internal/service"
	"github.com/astrocore-app/astrocore/internal/store"
	"github.com/astrocore-app/astrocore/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadTasksCmd(m.svc), tickCmd()}
	if m.loop != nil {
		cmds = append(cmds, waitForFireCmd(m.loop.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case TickMsg:
		return m, tea.Batch(tickCmd(), loadTasksCmd(m.svc))
	case TasksLoadedMsg:
		m.Tasks = typed.Tasks
		m.clampCursor()
		return m, nil
	case FireMsg:
		m.Toasts = append(m.Toasts, Toast{
			Title:   typed.Event.Payload.Title,
			Message: typed.Event.Payload.Message,
			At:      typed.Event.At,
		})
		if len(m.Toasts) > 5 {
			m.Toasts = m.Toasts[len(m.Toasts)-5:]
		}
		m.Status = StatusBar{Text: typed.Event.Payload.Title}
		cmds := []tea.Cmd{loadTasksCmd(m.svc)}
		if m.loop != nil {
			cmds = append(cmds, waitForFireCmd(m.loop.C()))
		}
		return m, tea.Batch(cmds...)
	case StatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		// Status messages follow mutations, so refresh the task list.
		return m, loadTasksCmd(m.svc)
	case ErrMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.Mode {
	case ModeForm:
		return m.handleFormKey(msg)
	case ModePalette:
		return m.handlePaletteKey(msg)
	}

	if m.searchActive {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Add:
		m.Mode = ModeForm
		m.form = newFormState(m.cfg)
		return m, nil
	case m.Keys.Palette:
		m.Mode = ModePalette
		m.paletteInput.SetValue("")
		m.paletteInput.Focus()
		return m, nil
	case m.Keys.Search:
		m.searchActive = true
		m.searchInput.Focus()
		return m, nil
	case m.Keys.Filter:
		m.Filter = nextFilter(m.Filter)
		m.clampCursor()
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "j", "down":
		if m.Cursor < len(m.visibleTasks())-1 {
			m.Cursor++
		}
		return m, nil
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case m.Keys.Done:
		return m.withSelected(func(t model.Task) tea.Cmd { return completeTaskCmd(m.svc, t.ID) })
	case m.Keys.Reset:
		return m.withSelected(func(t model.Task) tea.Cmd { return resetTaskCmd(m.svc, t.ID) })
	case m.Keys.Delete:
		return m.withSelected(func(t model.Task) tea.Cmd { return deleteTaskCmd(m.svc, t.ID) })
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.clampCursor()
		return m, nil
	case "enter":
		m.searchActive = false
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.clampCursor()
	return m, cmd
}

func (m Model) withSelected(fn func(model.Task) tea.Cmd) (tea.Model, tea.Cmd) {
	visible := m.visibleTasks()
	if m.Cursor < 0 || m.Cursor >= len(visible) {
		return m, nil
	}
	return m, fn(visible[m.Cursor])
}

// visibleTasks applies the status filter and substring search, micro tasks
// first, preserving the repository's newest-first order within each section.
func (m Model) visibleTasks() []model.Task {
	query := strings.ToLower(strings.TrimSpace(m.searchInput.Value()))
	out := make([]model.Task, 0, len(m.Tasks))
	for _, kind := range []model.TaskType{model.TaskTypeMicro, model.TaskTypeFollowUp} {
		for _, t := range m.Tasks {
			if t.Type != kind {
				continue
			}
			if !matchesFilter(t, m.Filter) || !matchesSearch(t, query) {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}

func matchesFilter(t model.Task, f Filter) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

func matchesSearch(t model.Task, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), query) ||
		strings.Contains(strings.ToLower(t.Description), query)
}

func nextFilter(f Filter) Filter {
	switch f {
	case FilterAll:
		return FilterPending
	case FilterPending:
		return FilterCompleted
	default:
		return FilterAll
	}
}

func (m *Model) clampCursor() {
	visible := len(m.visibleTasks())
	if m.Cursor >= visible {
		m.Cursor = visible - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m Model) View() string {
	now := m.now()
	status := m.Status.Text
	if m.Status.IsError {
		status = "error: " + status
	}

	left := ""
	right := ""
	switch m.Mode {
	case ModeForm:
		left = views.RenderForm(m.formData())
		right = m.renderDetail(now)
	case ModePalette:
		left = m.renderDashboard(now)
		right = "command: " + m.paletteInput.View()
	default:
		left = m.renderDashboard(now)
		right = m.renderDetail(now)
	}
	if m.HelpVisible {
		right = m.renderHelp()
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("astrocore | %d tasks | filter: %s", len(m.Tasks), m.Filter),
		LeftPane:   left,
		RightPane:  right,
		StatusLine: status,
		Toasts:     m.renderToasts(),
		Footer:     fmt.Sprintf("keys: %s add | %s search | %s filter | %s done | %s reset | %s delete | %s cmd | %s help | %s quit", m.Keys.Add, m.Keys.Search, m.Keys.Filter, m.Keys.Done, m.Keys.Reset, m.Keys.Delete, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderDashboard(now time.Time) string {
	visible := m.visibleTasks()
	data := views.DashboardData{
		Filter: string(m.Filter),
		Search: m.searchInput.Value(),
	}
	if m.searchActive {
		data.Search = m.searchInput.View()
	}
	for i, t := range visible {
		card := views.TaskCardData{
			ID:        t.ID,
			Title:     t.Title,
			Schedule:  scheduleLabel(t),
			Remaining: remainingLabel(t, now),
			Completed: t.Completed,
			Repeats:   t.RepeatEnabled,
			Selected:  i == m.Cursor,
		}
		if t.Type == model.TaskTypeMicro {
			data.MicroCards = append(data.MicroCards, card)
		} else {
			data.FollowUpCards = append(data.FollowUpCards, card)
		}
	}
	return views.RenderDashboard(data)
}

func (m Model) renderDetail(now time.Time) string {
	visible := m.visibleTasks()
	if m.Cursor < 0 || m.Cursor >= len(visible) {
		return views.RenderDetail(views.DetailData{})
	}
	t := visible[m.Cursor]
	data := views.DetailData{
		Title:         t.Title,
		Schedule:      scheduleLabel(t),
		Status:        statusLabel(t, now),
		DescriptionMD: t.Description,
	}
	if t.LastTriggered != nil {
		data.LastTriggered = t.LastTriggered.Format("2006-01-02 15:04")
	}
	if t.RepeatEnabled {
		data.RepeatNote = fmt.Sprintf("repeats: reset makes it due again %d day(s) later", t.RepeatDays)
	}
	return views.RenderDetail(data)
}

func (m Model) renderToasts() string {
	data := make([]views.ToastData, 0, len(m.Toasts))
	for _, t := range m.Toasts {
		data = append(data, views.ToastData{Title: t.Title, At: t.At.Format("15:04:05")})
	}
	return views.RenderToasts(data)
}

func (m Model) renderHelp() string {
	return strings.Join([]string{
		"a      open the new-task form",
		"s      search by title or description",
		"f      cycle all / pending / completed",
		"j/k    move selection",
		"enter  mark selected task done",
		"r      reset selected task to pending",
		"d      delete selected task",
		"/      command palette",
		"q      quit",
	}, "\n")
}

func scheduleLabel(t model.Task) string {
	if t.Type == model.TaskTypeFollowUp {
		return "daily at " + t.FollowUpTime
	}
	return fmt.Sprintf("in %d min", t.ReminderMinutes)
}

func remainingLabel(t model.Task, now time.Time) string {
	if t.Completed {
		return ""
	}
	rem, err := model.Remaining(t, now)
	if err != nil {
		return "invalid schedule"
	}
	if rem <= 0 {
		return "Triggered!"
	}
	return output.FormatRemaining(rem)
}

func statusLabel(t model.Task, now time.Time) string {
	if t.Completed {
		return "completed"
	}
	return "pending, " + remainingLabel(t, now)
}

// Commands.

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func loadTasksCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		tasks, err := svc.ListTasks(context.Background(), store.ListFilter{})
		if err != nil {
			return ErrMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}

func waitForFireCmd(ch <-chan engine.FireEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return FireMsg{Event: ev}
	}
}

func completeTaskCmd(svc *service.Service, id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := svc.CompleteTask(context.Background(), id); err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsg{Text: "task completed: " + id}
	}
}

func resetTaskCmd(svc *service.Service, id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := svc.ResetTask(context.Background(), id); err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsg{Text: "task reset: " + id}
	}
}

func deleteTaskCmd(svc *service.Service, id string) tea.Cmd {
	return func() tea.Msg {
		if err := svc.DeleteTask(context.Background(), id); err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsg{Text: "task deleted: " + id}
	}
}
