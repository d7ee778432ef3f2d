package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jborjas31/my-scheduler/internal/planner"
	"github.com/jborjas31/my-scheduler/internal/scheduler"
	"github.com/jborjas31/my-scheduler/internal/task"
)

// Form fields, in tab order.
const (
	fieldName = iota
	fieldStart
	fieldEnd
	fieldPriority
	fieldCount
)

// taskForm holds the add/edit form state.
type taskForm struct {
	name     textinput.Model
	start    textinput.Model
	end      textinput.Model
	priority task.Priority
	focus    int
	err      string

	editing  *task.Task // nil when adding
	timesSet bool       // an edit changed start or end
}

func newTaskForm(styles *Styles) taskForm {
	newInput := func(placeholder string, limit, width int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Width = width
		ti.Prompt = ""
		ti.PlaceholderStyle = styles.ModalPlaceholderStyle
		ti.TextStyle = styles.ModalInputTextStyle
		ti.Cursor.Style = styles.ModalInputCursorStyle
		return ti
	}
	return taskForm{
		name:     newInput("Task name", task.MaxNameLength*2, 36),
		start:    newInput("9:00 AM", 10, 10),
		end:      newInput("10:00 AM", 10, 10),
		priority: task.PriorityFlexible,
	}
}

// resetForAdd clears the form and prefills the suggested slot.
func (f *taskForm) resetForAdd(slot scheduler.Slot) tea.Cmd {
	f.editing = nil
	f.err = ""
	f.priority = task.PriorityFlexible
	f.name.SetValue("")
	f.start.SetValue(task.FormatMinutes(slot.Start))
	f.end.SetValue(task.FormatMinutes(slot.End))
	return f.setFocus(fieldName)
}

// resetForEdit fills the form from an existing task.
func (f *taskForm) resetForEdit(t *task.Task) tea.Cmd {
	f.editing = t
	f.err = ""
	f.priority = t.Priority
	f.name.SetValue(t.Name)
	f.start.SetValue(task.FormatMinutes(t.StartTime))
	f.end.SetValue(task.FormatMinutes(t.EndTime))
	return f.setFocus(fieldName)
}

func (f *taskForm) setFocus(field int) tea.Cmd {
	f.focus = (field + fieldCount) % fieldCount
	f.name.Blur()
	f.start.Blur()
	f.end.Blur()
	if in := f.input(f.focus); in != nil {
		return in.Focus()
	}
	return nil
}

func (f *taskForm) input(field int) *textinput.Model {
	switch field {
	case fieldName:
		return &f.name
	case fieldStart:
		return &f.start
	case fieldEnd:
		return &f.end
	}
	return nil
}

func (f *taskForm) togglePriority() {
	if f.priority == task.PriorityFixed {
		f.priority = task.PriorityFlexible
	} else {
		f.priority = task.PriorityFixed
	}
}

// step moves the focused time field by n picker intervals. Unparseable text
// is left alone.
func (f *taskForm) step(slots *scheduler.Scheduler, n int) {
	in := f.input(f.focus)
	if in == nil || f.focus == fieldName {
		return
	}
	m, err := task.ParseManual(in.Value())
	if err != nil {
		return
	}
	in.SetValue(task.FormatMinutes(slots.Step(m, n)))
}

// update forwards a message to the focused text input.
func (f *taskForm) update(msg tea.Msg) tea.Cmd {
	in := f.input(f.focus)
	if in == nil {
		return nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd
}

// inputError is form feedback shown to the user verbatim.
type inputError string

func (e inputError) Error() string { return string(e) }

func parseField(label, value string) (int, error) {
	m, err := task.ParseManual(value)
	if errors.Is(err, task.ErrNoTimeInput) {
		return 0, inputError("Please enter a " + label + " time.")
	}
	if err != nil {
		return 0, err
	}
	return m, nil
}

// addRequest builds a planner request for a new task on the viewed day.
func (f *taskForm) addRequest(date time.Time) (planner.Request, error) {
	start, err := parseField("start", f.start.Value())
	if err != nil {
		return planner.Request{}, err
	}
	end, err := parseField("end", f.end.Value())
	if err != nil {
		return planner.Request{}, err
	}
	return planner.Request{
		Name:     f.name.Value(),
		Start:    start,
		End:      end,
		Priority: f.priority,
		Date:     date,
	}, nil
}

// editRequest builds an edit holding only the fields that changed. It also
// records whether the times changed, which decides if confirmations run.
func (f *taskForm) editRequest() (planner.EditRequest, error) {
	t := f.editing
	start, err := parseField("start", f.start.Value())
	if err != nil {
		return planner.EditRequest{}, err
	}
	end, err := parseField("end", f.end.Value())
	if err != nil {
		return planner.EditRequest{}, err
	}

	var req planner.EditRequest
	if name := f.name.Value(); name != t.Name {
		req.Name = &name
	}
	if start != t.StartTime {
		req.Start = &start
	}
	if end != t.EndTime {
		req.End = &end
	}
	if f.priority != t.Priority {
		p := f.priority
		req.Priority = &p
	}
	f.timesSet = req.Start != nil || req.End != nil
	return req, nil
}

// preview describes the span currently entered, or "" if it does not parse.
func (f taskForm) preview() string {
	start, err1 := task.ParseManual(f.start.Value())
	end, err2 := task.ParseManual(f.end.Value())
	if err1 != nil || err2 != nil {
		return ""
	}
	_, duration := task.Derive(start, end)
	return fmt.Sprintf("%s (%s)", task.FormatRange(start, end), task.FormatDuration(duration))
}
