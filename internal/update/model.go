package update

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/astrocore-app/astrocore/internal/config"
	"github.com/astrocore-app/astrocore/internal/engine"
	"github.com/astrocore-app/astrocore/internal/model"
	"github.com/astrocore-app/astrocore/internal/service"
)

type Mode string

const (
	ModeDashboard Mode = "dashboard"
	ModeForm      Mode = "form"
	ModePalette   Mode = "palette"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type Toast struct {
	Title   string
	Message string
	At      time.Time
}

type GlobalKeyMap struct {
	Add     string
	Search  string
	Filter  string
	Done    string
	Reset   string
	Delete  string
	Palette string
	Help    string
	Quit    string
}

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldSchedule
	fieldRepeat
	fieldCount
)

type formState struct {
	kind     model.TaskType
	focused  formField
	title    textinput.Model
	desc     textinput.Model
	schedule textinput.Model
	repeat   textinput.Model
	errText  string
}

type Model struct {
	svc  *service.Service
	loop *engine.Loop
	cfg  config.Config

	Mode   Mode
	Filter Filter

	Tasks  []model.Task
	Cursor int

	searchActive bool
	searchInput  textinput.Model
	paletteInput textinput.Model
	form         formState

	Toasts      []Toast
	Status      StatusBar
	HelpVisible bool
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	now func() time.Time
}

// Messages.

type TickMsg time.Time

type TasksLoadedMsg struct {
	Tasks []model.Task
}

type FireMsg struct {
	Event engine.FireEvent
}

type StatusMsg struct {
	Text    string
	IsError bool
}

type ErrMsg struct {
	Err error
}

func NewModel(svc *service.Service, loop *engine.Loop, cfg config.Config) Model {
	m := Model{
		svc:    svc,
		loop:   loop,
		cfg:    cfg,
		Mode:   ModeDashboard,
		Filter: FilterAll,
		Keys: GlobalKeyMap{
			Add:     "a",
			Search:  "s",
			Filter:  "f",
			Done:    "enter",
			Reset:   "r",
			Delete:  "d",
			Palette: "/",
			Help:    "?",
			Quit:    "q",
		},
		now: time.Now,
	}

	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "Search your tasks..."
	m.searchInput.CharLimit = 80

	m.paletteInput = textinput.New()
	m.paletteInput.Placeholder = "add buy milk | done <id> | reset <id> | rm <id> | show pending | find milk"
	m.paletteInput.CharLimit = 120

	m.form = newFormState(cfg)
	return m
}

func newFormState(cfg config.Config) formState {
	f := formState{kind: model.TaskTypeMicro}

	f.title = textinput.New()
	f.title.Placeholder = "Enter task title..."
	f.title.CharLimit = 80

	f.desc = textinput.New()
	f.desc.Placeholder = "Enter task description..."
	f.desc.CharLimit = 200

	f.schedule = textinput.New()
	f.schedule.CharLimit = 5
	f.applySchedulePlaceholder(cfg)

	f.repeat = textinput.New()
	f.repeat.Placeholder = "repeat after N days (blank: off)"
	f.repeat.CharLimit = 2

	f.title.Focus()
	return f
}

func (f *formState) applySchedulePlaceholder(cfg config.Config) {
	if f.kind == model.TaskTypeFollowUp {
		f.schedule.Placeholder = "daily at HH:MM, e.g. " + cfg.DefaultFollowUpTime
	} else {
		f.schedule.Placeholder = "minutes from now, e.g. 5"
	}
}
