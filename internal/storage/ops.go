package storage

import "strings"

// Outcome says what a mutation did. Rejected and NotFound both leave the
// collection untouched.
type Outcome int

const (
	Applied Outcome = iota
	Rejected
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	case NotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Draft holds the fields for a new task.
type Draft struct {
	Title    string
	Category Category
	Date     string
	Time     string
}

// Patch lists the fields to overwrite on an existing task. Nil fields are
// left alone.
type Patch struct {
	Title    *string
	Category *Category
	Date     *string
	Time     *string
}

// Add appends a task built from d under id. The input slice is never
// modified.
func Add(tasks []Task, d Draft, id string) ([]Task, Outcome) {
	title := strings.TrimSpace(d.Title)
	if title == "" || id == "" || !ValidDate(d.Date) || !ValidTime(d.Time) {
		return tasks, Rejected
	}
	out := make([]Task, len(tasks), len(tasks)+1)
	copy(out, tasks)
	out = append(out, Task{
		ID:       id,
		Title:    title,
		Category: ParseCategory(string(d.Category)),
		Date:     d.Date,
		Time:     d.Time,
	})
	return out, Applied
}

// Update overwrites the patched fields of the task with the given id.
func Update(tasks []Task, id string, p Patch) ([]Task, Outcome) {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return tasks, NotFound
	}
	t := tasks[idx]
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return tasks, Rejected
		}
		t.Title = title
	}
	if p.Category != nil {
		t.Category = ParseCategory(string(*p.Category))
	}
	if p.Date != nil {
		if !ValidDate(*p.Date) {
			return tasks, Rejected
		}
		t.Date = *p.Date
	}
	if p.Time != nil {
		if !ValidTime(*p.Time) {
			return tasks, Rejected
		}
		t.Time = *p.Time
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	out[idx] = t
	return out, Applied
}

// Remove drops the task with the given id.
func Remove(tasks []Task, id string) ([]Task, Outcome) {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return tasks, NotFound
	}
	out := make([]Task, 0, len(tasks)-1)
	out = append(out, tasks[:idx]...)
	out = append(out, tasks[idx+1:]...)
	return out, Applied
}

// QueryByDate returns the tasks on date in collection order.
func QueryByDate(tasks []Task, date string) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Date == date {
			out = append(out, t)
		}
	}
	return out
}

func Find(tasks []Task, id string) (Task, bool) {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return Task{}, false
	}
	return tasks[idx], true
}

func indexOf(tasks []Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
