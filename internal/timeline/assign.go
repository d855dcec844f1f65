package timeline

import "slices"

// Assignments maps a pomodoro ordinal (0-based, counting only pomodoro
// blocks from the start of the day) to an assigned task title.
//
// Ordinals shift whenever events or settings change the number of
// pomodoros before a given one, so a table is only meaningful against the
// block list it was derived from or applied to.
type Assignments map[int]string

// AssignmentsOf reads the assignment table back out of a block list.
// Unassigned pomodoros are left out.
func AssignmentsOf(blocks []Block) Assignments {
	table := make(Assignments)
	ordinal := 0
	for _, b := range blocks {
		p, ok := b.(PomodoroBlock)
		if !ok {
			continue
		}
		if p.Task != "" {
			table[ordinal] = p.Task
		}
		ordinal++
	}
	return table
}

// ApplyAssignments returns a copy of blocks with each pomodoro's task set
// from table. Entries for ordinals past the last pomodoro are ignored.
func ApplyAssignments(blocks []Block, table Assignments) []Block {
	out := make([]Block, len(blocks))
	ordinal := 0
	for i, b := range blocks {
		if p, ok := b.(PomodoroBlock); ok {
			p.Task = table[ordinal]
			ordinal++
			b = p
		}
		out[i] = b
	}
	return out
}

// SwapAssignments exchanges the tasks of the pomodoros at ordinals from
// and to. Timing and every other block stay as they are. If either
// ordinal is out of range the input is returned unchanged. Applying the
// same swap twice restores the original assignments.
func SwapAssignments(blocks []Block, from, to int) []Block {
	focus := focusIndices(blocks)
	if from < 0 || to < 0 || from >= len(focus) || to >= len(focus) {
		return blocks
	}
	out := slices.Clone(blocks)
	a := out[focus[from]].(PomodoroBlock)
	b := out[focus[to]].(PomodoroBlock)
	a.Task, b.Task = b.Task, a.Task
	out[focus[from]] = a
	out[focus[to]] = b
	return out
}

// FocusOrdinal returns the pomodoro ordinal of blocks[i], or false if it
// is not a pomodoro.
func FocusOrdinal(blocks []Block, i int) (int, bool) {
	if i < 0 || i >= len(blocks) || blocks[i].Kind() != KindPomodoro {
		return 0, false
	}
	ordinal := 0
	for _, b := range blocks[:i] {
		if b.Kind() == KindPomodoro {
			ordinal++
		}
	}
	return ordinal, true
}

// FocusCount returns the number of pomodoro blocks.
func FocusCount(blocks []Block) int {
	return len(focusIndices(blocks))
}

func focusIndices(blocks []Block) []int {
	var idx []int
	for i, b := range blocks {
		if b.Kind() == KindPomodoro {
			idx = append(idx, i)
		}
	}
	return idx
}
