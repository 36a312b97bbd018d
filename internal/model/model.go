package model

import (
	"slices"
	"time"
)

// Clock returns the current time. Anything that stamps or ages a task takes one.
type Clock func() time.Time

// SystemClock is the wall clock.
var SystemClock Clock = time.Now

// Completion marks when a task was finished (seconds since the UNIX epoch).
type Completion struct {
	Completed int64 `json:"completed"`
}

// Record holds the fields shared by open and done tasks.
type Record struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Note        string   `json:"note,omitempty"`
	Created     int64    `json:"created"`
	Tags        []string `json:"tags,omitempty"`
}

// OpenTask is a task on the backlog. A non-nil Marked means it is finished
// but has not been swept into the done list yet.
type OpenTask struct {
	Record
	Marked *Completion `json:"marked,omitempty"`
}

// DoneTask is an archived task.
type DoneTask struct {
	Record
	Completion
}

// NewOpenTask returns an unfinished task created at now.
func NewOpenTask(id, description string, now time.Time) OpenTask {
	return OpenTask{
		Record: Record{
			ID:          id,
			Description: description,
			Created:     now.Unix(),
		},
	}
}

// Identity returns the task id.
func (r Record) Identity() string { return r.ID }

// AddTag appends tag unless it is already present.
func (r *Record) AddTag(tag string) {
	if slices.Contains(r.Tags, tag) {
		return
	}
	r.Tags = append(r.Tags, tag)
}

// RemoveTag drops every occurrence of tag.
func (r *Record) RemoveTag(tag string) {
	r.Tags = slices.DeleteFunc(r.Tags, func(t string) bool { return t == tag })
}

// HasTag reports whether tag is present.
func (r Record) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

// SinceCreated is the age of the task, never negative.
func (r Record) SinceCreated(now time.Time) time.Duration {
	return secondsSince(r.Created, now)
}

func (r Record) clone() Record {
	out := r
	if r.Tags != nil {
		out.Tags = slices.Clone(r.Tags)
	}
	return out
}

// Finish marks the task as finished at now. Finishing twice keeps the first
// completion time.
func (t *OpenTask) Finish(now time.Time) {
	if t.Marked != nil {
		return
	}
	t.Marked = &Completion{Completed: now.Unix()}
}

// IsFinished reports whether the task carries a completion marker.
func (t OpenTask) IsFinished() bool { return t.Marked != nil }

// SinceFinished returns how long ago the task was finished.
func (t OpenTask) SinceFinished(now time.Time) (time.Duration, bool) {
	if t.Marked == nil {
		return 0, false
	}
	return secondsSince(t.Marked.Completed, now), true
}

// Complete converts the task into a done task. The completion time comes
// from the marker when the task was finished, otherwise it is now.
func (t OpenTask) Complete(now time.Time) DoneTask {
	c := Completion{Completed: now.Unix()}
	if t.Marked != nil {
		c = *t.Marked
	}
	return DoneTask{Record: t.Record.clone(), Completion: c}
}

// Clone returns a deep copy.
func (t OpenTask) Clone() OpenTask {
	out := OpenTask{Record: t.Record.clone()}
	if t.Marked != nil {
		m := *t.Marked
		out.Marked = &m
	}
	return out
}

// SinceCompleted returns how long ago the task was completed.
func (t DoneTask) SinceCompleted(now time.Time) time.Duration {
	return secondsSince(t.Completed, now)
}

// Clone returns a deep copy.
func (t DoneTask) Clone() DoneTask {
	return DoneTask{Record: t.Record.clone(), Completion: t.Completion}
}

func secondsSince(unix int64, now time.Time) time.Duration {
	secs := now.Unix() - unix
	if secs < 0 {
		secs = 0
	}
	return time.Duration(secs) * time.Second
}
