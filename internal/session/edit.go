package session

import (
	"ivly-cli/internal/model"
)

// Field is an editable task field.
type Field int

const (
	FieldDescription Field = iota
	FieldNote
	FieldTags
)

func (f Field) String() string {
	switch f {
	case FieldDescription:
		return "description"
	case FieldNote:
		return "note"
	case FieldTags:
		return "tags"
	default:
		return "unknown"
	}
}

// Value returns the committed text of f on t. Tags are joined with ",".
func (f Field) Value(t model.OpenTask) string {
	switch f {
	case FieldNote:
		return t.Note
	case FieldTags:
		return model.JoinTags(t.Tags)
	default:
		return t.Description
	}
}

// Set writes text into f on t. Tags are split on "," verbatim.
func (f Field) Set(t *model.OpenTask, text string) {
	switch f {
	case FieldNote:
		t.Note = text
	case FieldTags:
		t.Tags = model.SplitTags(text)
	default:
		t.Description = text
	}
}

// Edit is the modal edit state. The zero value is Viewing; Start moves to
// Editing and Commit moves back. There is no cancel transition.
type Edit struct {
	active bool
	field  Field
	index  int
	buf    []rune
}

// Active reports whether a field is being edited.
func (e Edit) Active() bool { return e.active }

func (e Edit) Field() Field { return e.field }

// Index is the task the buffer is bound to.
func (e Edit) Index() int { return e.index }

// Buffer returns the uncommitted text.
func (e Edit) Buffer() string { return string(e.buf) }

// Editing reports whether field f of task i is under edit.
func (e Edit) Editing(i int, f Field) bool {
	return e.active && e.index == i && e.field == f
}

// Start binds a buffer to field f of task i, seeded with the committed
// value. Past the end of the list the buffer starts empty.
func (e *Edit) Start(tasks model.OpenTasks, i int, f Field) {
	e.active = true
	e.field = f
	e.index = i
	e.buf = e.buf[:0]
	if i >= 0 && i < len(tasks) {
		e.buf = append(e.buf, []rune(f.Value(tasks[i]))...)
	}
}

func (e *Edit) Char(r rune) {
	if e.active {
		e.buf = append(e.buf, r)
	}
}

// Backspace drops the last rune, if any.
func (e *Edit) Backspace() {
	if e.active && len(e.buf) > 0 {
		e.buf = e.buf[:len(e.buf)-1]
	}
}

// Commit writes the buffer into the bound task and returns to Viewing.
// Nothing is written when the bound index is no longer in the list.
func (e *Edit) Commit(tasks model.OpenTasks) {
	if !e.active {
		return
	}
	if e.index >= 0 && e.index < len(tasks) {
		e.field.Set(&tasks[e.index], string(e.buf))
	}
	*e = Edit{}
}
