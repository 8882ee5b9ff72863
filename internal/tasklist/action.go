package tasklist

// Kind tags an Action. Reduce only recognizes the constants below; any other
// tag is a no-op transition, so the reducer stays total.
type Kind string

const (
	// KindAdd appends Action.Task to the list.
	KindAdd Kind = "task/add"
	// KindDeleteTitle removes every task whose title equals Action.Title.
	KindDeleteTitle Kind = "task/delete"
	// KindDeleteID removes the task whose id equals Action.ID.
	KindDeleteID Kind = "task/delete-id"
)

// Action is a requested state change. Exactly one payload field is meaningful
// for a given Kind; the flat shape keeps actions trivially JSON-serializable
// for the journal.
type Action struct {
	Kind  Kind   `json:"kind"`
	Task  Task   `json:"task,omitzero"`
	Title string `json:"title,omitempty"`
	ID    string `json:"id,omitempty"`
}

// Add builds an add action for a task with the given title and description.
// ID and CreatedAt are left zero; the Store stamps them at dispatch.
func Add(title, description string) Action {
	return Action{Kind: KindAdd, Task: Task{Title: title, Description: description}}
}

// DeleteTitle builds a delete action matching tasks by title.
func DeleteTitle(title string) Action {
	return Action{Kind: KindDeleteTitle, Title: title}
}

// DeleteID builds a delete action matching a task by id.
func DeleteID(id string) Action {
	return Action{Kind: KindDeleteID, ID: id}
}
