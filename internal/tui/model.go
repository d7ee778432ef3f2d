// Package tui provides the terminal day view of the scheduler.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/logging"
	"github.com/jborjas31/my-scheduler/internal/planner"
	"github.com/jborjas31/my-scheduler/internal/scheduler"
	"github.com/jborjas31/my-scheduler/internal/summary"
	"github.com/jborjas31/my-scheduler/internal/task"
	"github.com/jborjas31/my-scheduler/internal/tui/commands"
	"github.com/jborjas31/my-scheduler/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeModal
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalTaskForm
	ModalConfirmMidnight
	ModalConfirmOverlap
	ModalConfirmDelete
	ModalHelp
)

// tickInterval is how often the dashboard is recomputed while the app is open.
const tickInterval = 30 * time.Second

// Options configures the TUI.
type Options struct {
	Clock         dateutil.Clock
	Theme         string
	SlotInterval  int // minutes between picker steps
	DefaultLength int // minutes for a new task
	UpcomingLimit int // upcoming tasks on the dashboard, 0 lists all
	Log           logrus.FieldLogger
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	planner *planner.Planner
	clock   dateutil.Clock
	slots   *scheduler.Scheduler
	log     logrus.FieldLogger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles
	keys   keyMap
	help   help.Model

	// State
	date    time.Time // day being viewed
	day     *summary.DaySummary
	cursor  int // index into day.Tasks
	mode    Mode
	loading bool

	upcomingLimit int

	// Modal state
	modalType     ModalType
	form          taskForm
	pending       *planner.Proposal // waiting for confirmation
	prompts       []ModalType       // confirmations still to ask, in order
	confirmChoice int               // 0 = yes, 1 = no
	deleteTarget  *task.Task

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string
	statusTime time.Time
	err        error
}

// New creates a new TUI model showing today.
func New(p *planner.Planner, opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = dateutil.SystemClock{}
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	upcoming := opts.UpcomingLimit
	if upcoming == 0 {
		upcoming = -1
	}

	t, err := theme.Load(opts.Theme)
	if err != nil {
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	slots := scheduler.New(opts.SlotInterval, opts.DefaultLength)

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpStyle
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.FullDesc = styles.HelpStyle

	return Model{
		planner:       p,
		clock:         opts.Clock,
		slots:         slots,
		log:           opts.Log.WithField("component", "tui"),
		theme:         t,
		styles:        styles,
		keys:          defaultKeyMap(),
		help:          h,
		date:          dateutil.TruncateToDay(opts.Clock.Now()),
		mode:          ModeNormal,
		loading:       true,
		upcomingLimit: upcoming,
		form:          newTaskForm(styles),
	}
}

// Init loads the day and starts the dashboard ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		commands.LoadDay(m.planner, m.date),
		commands.Tick(tickInterval, m.clock.Now),
	)
}

// Run starts the TUI.
func Run(p *planner.Planner, opts Options) error {
	_, err := tea.NewProgram(New(p, opts), tea.WithAltScreen()).Run()
	return err
}

// selected returns the task under the cursor, or nil.
func (m Model) selected() *task.Task {
	if m.day == nil || m.cursor < 0 || m.cursor >= len(m.day.Tasks) {
		return nil
	}
	return m.day.Tasks[m.cursor]
}

// isToday reports whether the viewed day is today.
func (m Model) isToday() bool {
	return dateutil.IsToday(m.date, m.clock.Now())
}

func (m *Model) clampCursor() {
	n := 0
	if m.day != nil {
		n = len(m.day.Tasks)
	}
	m.cursor = max(0, min(m.cursor, n-1))
}

// focusTask moves the cursor to the task with id, if it is on the day.
func (m *Model) focusTask(id string) {
	if m.day == nil {
		return
	}
	for i, t := range m.day.Tasks {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *Model) closeModal() {
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.pending = nil
	m.prompts = nil
	m.deleteTarget = nil
	m.confirmChoice = 0
}

func (m *Model) openModal(t ModalType) {
	m.mode = ModeModal
	m.modalType = t
	m.confirmChoice = 0
}
