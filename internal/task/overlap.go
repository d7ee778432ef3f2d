package task

// Interval is a span on the 1440-minute ring. A crossing interval covers
// [Start, 1440) and [0, End].
type Interval struct {
	Start           int
	End             int
	CrossesMidnight bool
}

// NewInterval builds the interval for a candidate start/end pair.
func NewInterval(start, end int) Interval {
	crosses, _ := Derive(start, end)
	return Interval{Start: start, End: end, CrossesMidnight: crosses}
}

// Overlaps reports whether two ring intervals share time.
// The relation is symmetric, and two crossing intervals always overlap.
func Overlaps(a, b Interval) bool {
	switch {
	case !a.CrossesMidnight && !b.CrossesMidnight:
		return a.Start < b.End && a.End > b.Start
	case a.CrossesMidnight && !b.CrossesMidnight:
		return a.Start <= b.End || a.End >= b.Start
	case !a.CrossesMidnight && b.CrossesMidnight:
		return b.Start <= a.End || b.End >= a.Start
	default:
		return true
	}
}

// TasksOverlap reports whether two tasks share time on the ring.
func TasksOverlap(a, b *Task) bool {
	return Overlaps(a.Interval(), b.Interval())
}

// FindOverlapping returns the tasks that overlap candidate, in input order.
// Overlaps are advisory: callers decide whether to proceed.
func FindOverlapping(candidate Interval, tasks []*Task) []*Task {
	var result []*Task
	for _, t := range tasks {
		if Overlaps(candidate, t.Interval()) {
			result = append(result, t)
		}
	}
	return result
}

// FindOverlappingExcept is FindOverlapping ignoring the task with the given ID.
// Edits use it so a task is not reported as overlapping itself.
func FindOverlappingExcept(candidate Interval, tasks []*Task, exceptID string) []*Task {
	var result []*Task
	for _, t := range tasks {
		if t.ID == exceptID {
			continue
		}
		if Overlaps(candidate, t.Interval()) {
			result = append(result, t)
		}
	}
	return result
}
