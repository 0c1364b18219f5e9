package update

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/astrocore-app/astrocore/internal/config"
	"github.com/astrocore-app/astrocore/internal/model"
	"github.com/astrocore-app/astrocore/internal/service"
	"github.com/astrocore-app/astrocore/internal/views"
)

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeDashboard
		m.form = newFormState(m.cfg)
		return m, nil
	case "tab", "down":
		m.form.focusNext()
		return m, nil
	case "shift+tab", "up":
		m.form.focusPrev()
		return m, nil
	case "ctrl+t":
		m.form.toggleKind(m.cfg)
		return m, nil
	case "enter":
		draft, err := m.form.draft(m.cfg)
		if err != nil {
			m.form.errText = err.Error()
			return m, nil
		}
		m.Mode = ModeDashboard
		m.form = newFormState(m.cfg)
		return m, addTaskCmd(m.svc, draft)
	}

	var cmd tea.Cmd
	input := m.form.currentInput()
	*input, cmd = input.Update(msg)
	return m, cmd
}

func (f *formState) inputs() []*textinput.Model {
	return []*textinput.Model{&f.title, &f.desc, &f.schedule, &f.repeat}
}

func (f *formState) currentInput() *textinput.Model {
	return f.inputs()[f.focused]
}

func (f *formState) focusNext() {
	f.setFocus((f.focused + 1) % fieldCount)
}

func (f *formState) focusPrev() {
	f.setFocus((f.focused + fieldCount - 1) % fieldCount)
}

func (f *formState) setFocus(field formField) {
	for i, in := range f.inputs() {
		if formField(i) == field {
			in.Focus()
		} else {
			in.Blur()
		}
	}
	f.focused = field
}

func (f *formState) toggleKind(cfg config.Config) {
	if f.kind == model.TaskTypeMicro {
		f.kind = model.TaskTypeFollowUp
	} else {
		f.kind = model.TaskTypeMicro
	}
	f.schedule.SetValue("")
	f.applySchedulePlaceholder(cfg)
}

// draft builds a task draft from the form fields, falling back to the
// configured schedule defaults when the schedule field is left blank.
func (f *formState) draft(cfg config.Config) (service.Draft, error) {
	d := service.Draft{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: strings.TrimSpace(f.desc.Value()),
		Type:        f.kind,
	}
	if d.Title == "" {
		return service.Draft{}, errEmptyTitle
	}

	schedule := strings.TrimSpace(f.schedule.Value())
	if f.kind == model.TaskTypeFollowUp {
		if schedule == "" {
			schedule = cfg.DefaultFollowUpTime
		}
		if _, err := model.ParseClock(schedule); err != nil {
			return service.Draft{}, err
		}
		d.FollowUpTime = schedule
	} else {
		if schedule == "" {
			d.ReminderMinutes = cfg.DefaultReminderMinutes
		} else {
			minutes, err := strconv.Atoi(schedule)
			if err != nil || minutes < 1 {
				return service.Draft{}, errBadMinutes
			}
			d.ReminderMinutes = minutes
		}
	}

	if repeat := strings.TrimSpace(f.repeat.Value()); repeat != "" {
		days, err := strconv.Atoi(repeat)
		if err != nil || days < 1 || days > model.MaxRepeatDays {
			return service.Draft{}, errBadRepeat
		}
		d.RepeatEnabled = true
		d.RepeatDays = days
	}
	return d, nil
}

var (
	errEmptyTitle = &formError{"title is required"}
	errBadMinutes = &formError{"reminder minutes must be a positive number"}
	errBadRepeat  = &formError{"repeat days must be between 1 and 30"}
)

type formError struct{ msg string }

func (e *formError) Error() string { return e.msg }

func (m Model) formData() views.FormData {
	return views.FormData{
		TypeLabel:    string(m.form.kind),
		TitleView:    m.form.title.View(),
		DescView:     m.form.desc.View(),
		ScheduleView: m.form.schedule.View(),
		RepeatView:   m.form.repeat.View(),
		ErrorText:    m.form.errText,
	}
}

func addTaskCmd(svc *service.Service, draft service.Draft) tea.Cmd {
	return func() tea.Msg {
		task, err := svc.AddTask(context.Background(), draft)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsg{Text: "task added: " + task.Title}
	}
}
