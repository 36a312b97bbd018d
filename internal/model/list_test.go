package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func openList(descs ...string) OpenTasks {
	l := OpenTasks{}
	for _, d := range descs {
		l.Append(NewOpenTask(strings.ToLower(d), d, time.Unix(0, 0)))
	}
	return l
}

func order(l OpenTasks) string {
	var b strings.Builder
	for _, t := range l {
		b.WriteString(t.Description)
	}
	return b.String()
}

func TestReposition(t *testing.T) {
	cases := []struct {
		name     string
		from, to int
		want     string
		wantIdx  int
	}{
		{name: "earlier", from: 2, to: 1, want: "ACB", wantIdx: 1},
		{name: "later", from: 0, to: 2, want: "BAC", wantIdx: 1},
		{name: "to front", from: 2, to: 0, want: "CAB", wantIdx: 0},
		{name: "to end", from: 0, to: 3, want: "BCA", wantIdx: 2},
		{name: "same index", from: 1, to: 1, want: "ABC", wantIdx: 1},
		{name: "next neighbour", from: 1, to: 2, want: "ABC", wantIdx: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := openList("A", "B", "C")
			idx, err := l.Reposition(tc.from, tc.to)
			if err != nil {
				t.Fatalf("Reposition: %v", err)
			}
			if got := order(l); got != tc.want {
				t.Fatalf("expected %s; got %s", tc.want, got)
			}
			if idx != tc.wantIdx {
				t.Fatalf("expected final index %d; got %d", tc.wantIdx, idx)
			}
		})
	}
}

func TestRepositionSameIndexIsNoOpForEveryPosition(t *testing.T) {
	for i := 0; i < 4; i++ {
		l := openList("A", "B", "C", "D")
		idx, err := l.Reposition(i, i)
		if err != nil {
			t.Fatalf("Reposition(%d,%d): %v", i, i, err)
		}
		if idx != i || order(l) != "ABCD" {
			t.Fatalf("expected no-op at %d; got idx=%d order=%s", i, idx, order(l))
		}
	}
}

func TestRepositionRejectsInvalidIndexes(t *testing.T) {
	l := openList("A", "B")
	if _, err := l.Reposition(2, 0); !errors.Is(err, ErrIndex) {
		t.Fatalf("expected ErrIndex for from; got %v", err)
	}
	if _, err := l.Reposition(0, 3); !errors.Is(err, ErrIndex) {
		t.Fatalf("expected ErrIndex for target; got %v", err)
	}
	if order(l) != "AB" {
		t.Fatalf("expected list untouched; got %s", order(l))
	}
}

func TestRemoveAt(t *testing.T) {
	l := openList("A", "B", "C")
	got, err := l.RemoveAt(1)
	if err != nil {
		t.Fatalf("RemoveAt: %v", err)
	}
	if got.Description != "B" || order(l) != "AC" {
		t.Fatalf("expected to remove B; removed %s, left %s", got.Description, order(l))
	}
	if _, err := l.RemoveAt(2); !errors.Is(err, ErrIndex) {
		t.Fatalf("expected ErrIndex; got %v", err)
	}
	if _, err := l.RemoveAt(-1); !errors.Is(err, ErrIndex) {
		t.Fatalf("expected ErrIndex for negative index; got %v", err)
	}
}

func TestBump(t *testing.T) {
	l := openList("A", "B", "C")
	if err := l.Bump(0); err != nil {
		t.Fatalf("Bump: %v", err)
	}
	if order(l) != "BCA" {
		t.Fatalf("expected BCA; got %s", order(l))
	}
}

func TestCloneIsDeep(t *testing.T) {
	l := openList("A")
	l[0].AddTag("x")
	l[0].Finish(time.Unix(9, 0))

	c := l.Clone()
	c[0].Tags[0] = "y"
	c[0].Marked.Completed = 1
	c[0].Description = "Z"

	if l[0].Tags[0] != "x" || l[0].Marked.Completed != 9 || l[0].Description != "A" {
		t.Fatalf("expected original untouched; got %+v", l[0])
	}
}

func TestTaskNumber(t *testing.T) {
	l := openList("A", "B")
	if i, err := l.TaskNumber(2); err != nil || i != 1 {
		t.Fatalf("expected index 1; got %d, %v", i, err)
	}
	_, err := l.TaskNumber(3)
	if err == nil || !strings.Contains(err.Error(), "not within task range 1..=2") {
		t.Fatalf("expected range error; got %v", err)
	}
	if _, err := l.TaskNumber(0); err == nil {
		t.Fatalf("expected error for 0")
	}
}

func TestFirstUnfinished(t *testing.T) {
	l := openList("A", "B", "C")
	l[0].Finish(time.Unix(1, 0))
	if got := FirstUnfinished(l); got != 1 {
		t.Fatalf("expected 1; got %d", got)
	}
	l[1].Finish(time.Unix(1, 0))
	l[2].Finish(time.Unix(1, 0))
	if got := FirstUnfinished(l); got != 0 {
		t.Fatalf("expected 0 when all finished; got %d", got)
	}
}

func TestSweep(t *testing.T) {
	open := openList("A", "B", "C", "D")
	open[0].Finish(time.Unix(100, 0))
	open[2].Finish(time.Unix(300, 0))
	done := DoneTasks{{Record: Record{ID: "old", Description: "Old"}, Completion: Completion{Completed: 200}}}

	kept, done := Sweep(open, done, time.Unix(1000, 0))

	if order(kept) != "BD" {
		t.Fatalf("expected BD to stay open; got %s", order(kept))
	}
	var got []string
	for _, d := range done {
		got = append(got, d.Description)
	}
	if strings.Join(got, ",") != "C,Old,A" {
		t.Fatalf("expected done sorted by completion desc; got %v", got)
	}
}

func TestIDTaken(t *testing.T) {
	open := openList("A")
	done := DoneTasks{{Record: Record{ID: "zz"}}}
	taken := IDTaken(open, done)
	if !taken("a") || !taken("zz") || taken("q") {
		t.Fatalf("unexpected IDTaken results")
	}
}
