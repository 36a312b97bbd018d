package model

import (
	"fmt"
	"sort"
	"time"
)

// Element is satisfied by OpenTask and DoneTask.
type Element[T any] interface {
	Clone() T
	Identity() string
}

// Tasks is an ordered task list. For open tasks the order is the display
// priority.
type Tasks[T Element[T]] []T

type (
	OpenTasks = Tasks[OpenTask]
	DoneTasks = Tasks[DoneTask]
)

// Append adds t to the end. Callers are responsible for id uniqueness.
func (l *Tasks[T]) Append(t T) {
	*l = append(*l, t)
}

// RemoveAt removes and returns the task at i.
func (l *Tasks[T]) RemoveAt(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(*l) {
		return zero, indexError(i, len(*l))
	}
	t := (*l)[i]
	*l = append((*l)[:i], (*l)[i+1:]...)
	return t, nil
}

// Reposition moves the task at from so that it sits immediately before the
// task currently at toBefore. toBefore may equal len to move to the end. When
// from < toBefore the target shifts down by one to account for the removal.
// It returns the task's final index.
func (l *Tasks[T]) Reposition(from, toBefore int) (int, error) {
	n := len(*l)
	if from < 0 || from >= n {
		return 0, indexError(from, n)
	}
	if toBefore < 0 || toBefore > n {
		return 0, fmt.Errorf("%w: insert position %d not in [0,%d]", ErrIndex, toBefore, n)
	}
	to := toBefore
	if from < to {
		to--
	}
	if to == from {
		return from, nil
	}
	t, _ := l.RemoveAt(from)
	s := *l
	s = append(s, t)
	copy(s[to+1:], s[to:len(s)-1])
	s[to] = t
	*l = s
	return to, nil
}

// Bump moves the task at i to the end of the list.
func (l *Tasks[T]) Bump(i int) error {
	_, err := l.Reposition(i, len(*l))
	return err
}

// Clone returns a deep copy of the list.
func (l Tasks[T]) Clone() Tasks[T] {
	if l == nil {
		return nil
	}
	out := make(Tasks[T], len(l))
	for i, t := range l {
		out[i] = t.Clone()
	}
	return out
}

// IndexOf returns the index of the task with id, or -1.
func (l Tasks[T]) IndexOf(id string) int {
	for i, t := range l {
		if t.Identity() == id {
			return i
		}
	}
	return -1
}

// TaskNumber translates a 1-based task number into an index.
func (l Tasks[T]) TaskNumber(num int) (int, error) {
	if num < 1 || num > len(l) {
		return 0, fmt.Errorf("task number %d is not within task range 1..=%d", num, len(l))
	}
	return num - 1, nil
}

// FinishAt marks the open task at i as finished.
func FinishAt(l OpenTasks, i int, now time.Time) error {
	if i < 0 || i >= len(l) {
		return indexError(i, len(l))
	}
	l[i].Finish(now)
	return nil
}

// FirstUnfinished returns the index of the first unfinished task, or 0 when
// every task is finished.
func FirstUnfinished(l OpenTasks) int {
	for i, t := range l {
		if !t.IsFinished() {
			return i
		}
	}
	return 0
}

// Sweep moves every finished open task into the done list and sorts the done
// list most recently completed first.
func Sweep(open OpenTasks, done DoneTasks, now time.Time) (OpenTasks, DoneTasks) {
	kept := make(OpenTasks, 0, len(open))
	for _, t := range open {
		if t.IsFinished() {
			done = append(done, t.Complete(now))
			continue
		}
		kept = append(kept, t)
	}
	SortDone(done)
	return kept, done
}

// SortDone orders done tasks from most to least recently completed.
func SortDone(done DoneTasks) {
	sort.SliceStable(done, func(i, j int) bool {
		return done[i].Completed > done[j].Completed
	})
}
