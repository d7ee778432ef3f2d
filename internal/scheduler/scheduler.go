// Package scheduler provides time-picker slots and default spans for new tasks.
package scheduler

import (
	"time"

	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/task"
)

// Defaults used when no configuration is given.
const (
	DefaultInterval = 15
	DefaultLength   = 60
)

// Scheduler suggests start and end times on a fixed minute grid.
type Scheduler struct {
	interval int // minutes between picker options
	length   int // default task length in minutes
	options  []Option
}

// Option is one selectable time in the picker.
type Option struct {
	Minutes int
	Label   string // "h:mm AM/PM"
}

// Slot is a suggested start/end pair.
type Slot struct {
	Start int
	End   int
}

// Range returns the slot as display text.
func (s Slot) Range() string {
	return task.FormatRange(s.Start, s.End)
}

// New creates a Scheduler. Non-positive values fall back to the defaults.
func New(interval, length int) *Scheduler {
	if interval <= 0 || interval > 60 {
		interval = DefaultInterval
	}
	if length <= 0 {
		length = DefaultLength
	}
	s := &Scheduler{interval: interval, length: length}
	for m := 0; m < task.MinutesPerDay; m += interval {
		s.options = append(s.options, Option{Minutes: m, Label: task.FormatMinutes(m)})
	}
	return s
}

// Options returns every picker option from midnight to the last slot of the day.
func (s *Scheduler) Options() []Option {
	out := make([]Option, len(s.options))
	copy(out, s.options)
	return out
}

// Closest returns the option nearest to target. Ties resolve to the earlier option.
// Distance is measured within the day, not around midnight.
func (s *Scheduler) Closest(target int) Option {
	target = task.NormalizeMinutes(target)
	best := s.options[0]
	bestDiff := abs(target - best.Minutes)
	for _, opt := range s.options[1:] {
		if d := abs(target - opt.Minutes); d < bestDiff {
			best, bestDiff = opt, d
		}
	}
	return best
}

// Step moves m by n picker intervals, snapping to the grid first. The picker
// wraps around midnight in both directions.
func (s *Scheduler) Step(m, n int) int {
	return task.NormalizeMinutes(s.Closest(m).Minutes + n*s.interval)
}

// DefaultSlot returns the picker defaults for a new task: the option closest
// to now, and the option closest to now plus the default length.
func (s *Scheduler) DefaultSlot(now time.Time) Slot {
	m := dateutil.MinutesOfDay(now)
	return Slot{
		Start: s.Closest(m).Minutes,
		End:   s.Closest(m + s.length).Minutes,
	}
}

// NextFree returns the first grid-aligned slot of the default length, at or
// after now, that overlaps none of the given tasks. It looks at most one day
// ahead and falls back to DefaultSlot when the day is full.
func (s *Scheduler) NextFree(now time.Time, tasks []*task.Task) Slot {
	start := roundUp(dateutil.MinutesOfDay(now), s.interval)
	for offset := 0; offset < task.MinutesPerDay; offset += s.interval {
		candidate := task.NormalizeMinutes(start + offset)
		end := task.NormalizeMinutes(candidate + s.length)
		if len(task.FindOverlapping(task.NewInterval(candidate, end), tasks)) == 0 {
			return Slot{Start: candidate, End: end}
		}
	}
	return s.DefaultSlot(now)
}

// roundUp rounds minutes up to the next multiple of step.
func roundUp(minutes, step int) int {
	if r := minutes % step; r != 0 {
		return minutes + step - r
	}
	return minutes
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
