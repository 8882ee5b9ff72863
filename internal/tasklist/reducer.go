package tasklist

// Reduce computes the next list from the current list and an action. It is a
// pure function: no I/O, no clock, no mutation of the input. Unrecognized
// kinds return the input unchanged, so every call succeeds.
func Reduce(list List, action Action) List {
	switch action.Kind {
	case KindAdd:
		next := make(List, len(list)+1)
		copy(next, list)
		next[len(list)] = action.Task
		return next

	case KindDeleteTitle:
		return deleteWhere(list, func(t Task) bool { return t.Title == action.Title })

	case KindDeleteID:
		return deleteWhere(list, func(t Task) bool { return t.ID == action.ID })

	default:
		return list
	}
}

// deleteWhere filters out every matching task, preserving relative order.
// When nothing matches it returns the input list itself rather than a copy.
func deleteWhere(list List, match func(Task) bool) List {
	removed := 0
	for _, t := range list {
		if match(t) {
			removed++
		}
	}
	if removed == 0 {
		return list
	}
	next := make(List, 0, len(list)-removed)
	for _, t := range list {
		if !match(t) {
			next = append(next, t)
		}
	}
	return next
}
