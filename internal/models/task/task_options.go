package task

// TaskOption mutates a task during an edit. A nil option means "leave unchanged".
type TaskOption func(*Task)

// WithTitle returns nil for an empty title, so "" never clears the field.
func WithTitle(title string) TaskOption {
	if title == "" {
		return nil
	}
	return func(task *Task) {
		task.Title = title
	}
}

func WithContent(content string) TaskOption {
	if content == "" {
		return nil
	}
	return func(task *Task) {
		task.Content = content
	}
}

// WithCompleted applies an explicit false as well as true.
func WithCompleted(completed bool) TaskOption {
	return func(task *Task) {
		task.Completed = completed
	}
}

// Apply runs every non-nil option against t.
func Apply(t *Task, options ...TaskOption) {
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
}
