// Package session holds the state of an interactive editing session over the
// open task list: the working copy, the selection cursor, the modal edit
// buffer and the final Save/Forget outcome. It has no terminal dependencies;
// the tui package feeds it keys and renders its state.
package session

import (
	"fmt"
	"time"

	"ivly-cli/internal/model"
)

// Outcome is how a session ended.
type Outcome int

const (
	Undecided Outcome = iota
	Save
	Forget
)

func (o Outcome) String() string {
	switch o {
	case Save:
		return "save"
	case Forget:
		return "forget"
	default:
		return "undecided"
	}
}

// Session is a single interactive pass over a private copy of the open list.
type Session struct {
	tasks   model.OpenTasks
	cursor  Cursor
	edit    Edit
	help    bool
	outcome Outcome

	keys     Keymap
	clock    model.Clock
	reserved func(string) bool
}

// Option configures a Session.
type Option func(*Session)

// WithKeymap replaces the default key bindings.
func WithKeymap(km Keymap) Option {
	return func(s *Session) { s.keys = km }
}

// WithClock sets the clock used to stamp added tasks.
func WithClock(c model.Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithReservedIDs marks ids outside the open list (the done archive) as
// unavailable for added tasks.
func WithReservedIDs(taken func(string) bool) Option {
	return func(s *Session) { s.reserved = taken }
}

// New starts a session over a deep copy of tasks. The caller's list is
// untouched until Apply.
func New(tasks model.OpenTasks, opts ...Option) *Session {
	s := &Session{
		tasks: tasks.Clone(),
		keys:  DefaultKeymap(),
		clock: model.SystemClock,
	}
	if s.tasks == nil {
		s.tasks = model.OpenTasks{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tasks is the working copy including every uncommitted structural change.
func (s *Session) Tasks() model.OpenTasks { return s.tasks }

func (s *Session) Cursor() int { return s.cursor.Pos() }

// Edit returns the current edit state.
func (s *Session) Edit() Edit { return s.edit }

func (s *Session) HelpVisible() bool { return s.help }

func (s *Session) Keymap() Keymap { return s.keys }

func (s *Session) Outcome() Outcome { return s.outcome }

// Done reports whether the session reached Save or Forget.
func (s *Session) Done() bool { return s.outcome != Undecided }

// Apply writes the working copy into dst when the outcome is Save and
// reports whether it did.
func (s *Session) Apply(dst *model.OpenTasks) bool {
	if s.outcome != Save || dst == nil {
		return false
	}
	*dst = s.tasks.Clone()
	return true
}

// Handle processes one key. Keys arriving after the outcome is decided are
// ignored. The only error is a failure to allocate an id for an added task.
func (s *Session) Handle(k Key) error {
	if s.Done() {
		return nil
	}
	if k.Code == KeyInterrupt {
		s.outcome = Forget
		return nil
	}
	if s.edit.Active() {
		s.handleEditing(k)
		return nil
	}
	return s.handleViewing(k)
}

func (s *Session) handleEditing(k Key) {
	switch k.Code {
	case KeyRune:
		s.edit.Char(k.Rune)
	case KeySpace:
		s.edit.Char(' ')
	case KeyBackspace:
		s.edit.Backspace()
	case KeyEnter:
		s.edit.Commit(s.tasks)
	}
}

func (s *Session) handleViewing(k Key) error {
	a := s.keys.Lookup(k)
	n := len(s.tasks)
	c := s.cursor.Pos()
	if a.structural() && c >= n {
		return nil
	}
	if slot, ok := a.priority(); ok {
		s.reposition(c, PrioritySlot(slot, n))
		return nil
	}
	switch a {
	case ActionSave:
		s.outcome = Save
	case ActionForget:
		s.outcome = Forget
	case ActionUp:
		s.cursor.MoveRelative(-1, n)
	case ActionDown:
		s.cursor.MoveRelative(1, n)
	case ActionStart:
		s.cursor.MoveToStart()
	case ActionEnd:
		s.cursor.MoveToEnd(n)
	case ActionShiftEarlier:
		s.reposition(c, max(c-1, 0))
	case ActionShiftLater:
		s.reposition(c, min(c+2, n))
	case ActionRemove:
		if _, err := s.tasks.RemoveAt(c); err == nil {
			s.cursor.Clamp(len(s.tasks))
		}
	case ActionAdd:
		return s.add()
	case ActionEditDescription:
		s.edit.Start(s.tasks, c, FieldDescription)
	case ActionEditNote:
		s.edit.Start(s.tasks, c, FieldNote)
	case ActionEditTags:
		s.edit.Start(s.tasks, c, FieldTags)
	case ActionToggleHelp:
		s.help = !s.help
	}
	return nil
}

func (s *Session) reposition(from, toBefore int) {
	idx, err := s.tasks.Reposition(from, toBefore)
	if err != nil {
		return
	}
	s.cursor.Set(idx, len(s.tasks))
}

func (s *Session) add() error {
	id, err := model.NewID(s.idTaken)
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}
	s.tasks.Append(model.NewOpenTask(id, "", s.now()))
	s.cursor.Set(len(s.tasks)-1, len(s.tasks))
	s.edit.Start(s.tasks, s.cursor.Pos(), FieldDescription)
	return nil
}

func (s *Session) idTaken(id string) bool {
	if s.tasks.IndexOf(id) >= 0 {
		return true
	}
	return s.reserved != nil && s.reserved(id)
}

func (s *Session) now() time.Time {
	return s.clock()
}
