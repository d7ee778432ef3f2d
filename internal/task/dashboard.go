package task

import "slices"

// UpcomingWindow is how far ahead, in minutes, a task counts as upcoming.
const UpcomingWindow = 3 * 60

// Bucket names a dashboard section.
type Bucket string

const (
	BucketNone      Bucket = ""
	BucketActive    Bucket = "active"
	BucketUpcoming  Bucket = "upcoming"
	BucketOverdue   Bucket = "overdue"
	BucketCompleted Bucket = "completed"
)

// UpcomingTask pairs a task with the minutes left until it starts.
type UpcomingTask struct {
	Task              *Task
	MinutesUntilStart int
}

// Dashboard groups today's tasks by where they stand relative to now.
type Dashboard struct {
	Active    []*Task
	Upcoming  []UpcomingTask // ascending by MinutesUntilStart
	Overdue   []*Task
	Completed []*Task
}

// Empty reports whether no task landed in any bucket.
func (d Dashboard) Empty() bool {
	return len(d.Active) == 0 && len(d.Upcoming) == 0 && len(d.Overdue) == 0 && len(d.Completed) == 0
}

// TopUpcoming returns at most n upcoming tasks, soonest first.
func (d Dashboard) TopUpcoming(n int) []UpcomingTask {
	if n < 0 || len(d.Upcoming) <= n {
		return d.Upcoming
	}
	return d.Upcoming[:n]
}

// Classify buckets tasks for the dashboard at minute-of-day now.
// Days other than today have an empty dashboard.
func Classify(tasks []*Task, now int, isViewingToday bool) Dashboard {
	var d Dashboard
	if !isViewingToday {
		return d
	}
	for _, t := range tasks {
		bucket, until := BucketOf(t, now)
		switch bucket {
		case BucketCompleted:
			d.Completed = append(d.Completed, t)
		case BucketActive:
			d.Active = append(d.Active, t)
		case BucketOverdue:
			d.Overdue = append(d.Overdue, t)
		case BucketUpcoming:
			d.Upcoming = append(d.Upcoming, UpcomingTask{Task: t, MinutesUntilStart: until})
		}
	}
	slices.SortStableFunc(d.Upcoming, func(a, b UpcomingTask) int {
		return a.MinutesUntilStart - b.MinutesUntilStart
	})
	return d
}

// BucketOf classifies a single task at minute-of-day now. The first matching
// rule wins: completed, active, overdue (fixed only), upcoming. For upcoming
// tasks it also returns the minutes until start.
func BucketOf(t *Task, now int) (Bucket, int) {
	if t.Completed {
		return BucketCompleted, 0
	}

	crosses := t.Crosses()
	start, end := t.StartTime, t.EndTime

	if crosses {
		if now >= start || now <= end {
			return BucketActive, 0
		}
	} else if start <= now && now < end {
		return BucketActive, 0
	}

	if t.IsFixed() {
		if crosses {
			if now > end && now < start {
				return BucketOverdue, 0
			}
		} else if now >= end {
			return BucketOverdue, 0
		}
	}

	until := start - now
	if crosses && start < now {
		until = MinutesPerDay - now + start
	}
	if until > 0 && until <= UpcomingWindow {
		return BucketUpcoming, until
	}
	return BucketNone, 0
}

// IsOverdue reports whether a task card on today's view is flagged overdue.
// A crossing task is flagged only between its end and noon.
func IsOverdue(t *Task, now int, isViewingToday bool) bool {
	if !isViewingToday || !t.IsFixed() || t.Completed {
		return false
	}
	if t.Crosses() {
		return now > t.EndTime && now < 12*60
	}
	return now > t.EndTime
}

// MinutesOverdue returns how long ago a task ended, for overdue labels.
func MinutesOverdue(t *Task, now int) int {
	if t.Crosses() {
		if now > t.EndTime {
			return now - t.EndTime
		}
		return 0
	}
	return max(now-t.EndTime, 0)
}
