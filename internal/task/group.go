package task

// MaxLayoutColumns caps how many overlapping tasks render side by side.
const MaxLayoutColumns = 4

// GroupByOverlap partitions tasks for side-by-side layout.
//
// Each unprocessed task, in input order, seeds a new group. Every later
// unprocessed task that overlaps the seed joins that group. Membership is
// decided against the seed only, so this is not a transitive closure.
func GroupByOverlap(tasks []*Task) [][]*Task {
	groups := make([][]*Task, 0, len(tasks))
	processed := make([]bool, len(tasks))

	for i, seed := range tasks {
		if processed[i] {
			continue
		}
		processed[i] = true
		group := []*Task{seed}

		for j := i + 1; j < len(tasks); j++ {
			if processed[j] {
				continue
			}
			if TasksOverlap(seed, tasks[j]) {
				group = append(group, tasks[j])
				processed[j] = true
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// Slot is a task's horizontal placement within its overlap group.
type Slot struct {
	Column int // zero-based
	Width  int // columns in the group, at most MaxLayoutColumns
}

// LayoutSlots assigns each task ID its column within its group.
// Groups wider than MaxLayoutColumns wrap back to the first column.
func LayoutSlots(groups [][]*Task) map[string]Slot {
	slots := make(map[string]Slot)
	for _, group := range groups {
		width := min(len(group), MaxLayoutColumns)
		for i, t := range group {
			slots[t.ID] = Slot{Column: i % width, Width: width}
		}
	}
	return slots
}
