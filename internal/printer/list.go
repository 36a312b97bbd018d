package printer

import (
	"fmt"
	"strconv"

	"github.com/gosuri/uitable"

	"ivly-cli/internal/format"
	"ivly-cli/internal/model"
)

type Status string

const (
	StatusTodo   Status = "todo"
	StatusMarked Status = "marked"
	StatusDone   Status = "done"
)

// Row is one line of the full listing. Number is 0 for done tasks.
type Row struct {
	ID          string   `json:"id"`
	Number      int      `json:"number,omitempty"`
	Description string   `json:"description"`
	Note        string   `json:"note,omitempty"`
	Status      Status   `json:"status"`
	Created     int64    `json:"created"`
	Finished    int64    `json:"finished,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Rows flattens the open then done lists, keeping tasks that pass filters.
func Rows(open model.OpenTasks, done model.DoneTasks, filters []model.FilterTag) []Row {
	out := []Row{}
	for i, t := range open {
		if !model.MatchAll(filters, t.Tags) {
			continue
		}
		r := Row{
			ID:          t.ID,
			Number:      i + 1,
			Description: t.Description,
			Note:        t.Note,
			Status:      StatusTodo,
			Created:     t.Created,
			Tags:        t.Tags,
		}
		if t.Marked != nil {
			r.Status = StatusMarked
			r.Finished = t.Marked.Completed
		}
		out = append(out, r)
	}
	for _, t := range done {
		if !model.MatchAll(filters, t.Tags) {
			continue
		}
		out = append(out, Row{
			ID:          t.ID,
			Description: t.Description,
			Note:        t.Note,
			Status:      StatusDone,
			Created:     t.Created,
			Finished:    t.Completed,
			Tags:        t.Tags,
		})
	}
	return out
}

// Table prints rows as an aligned table.
func (p *Printer) Table(rows []Row) {
	now := p.clock()
	tbl := uitable.New()
	tbl.MaxColWidth = 40
	tbl.Wrap = true
	tbl.AddRow(
		headerColor.Sprint("ID"),
		headerColor.Sprint("Task#"),
		headerColor.Sprint("Description"),
		headerColor.Sprint("Note"),
		headerColor.Sprint("Status"),
		headerColor.Sprint("Created"),
		headerColor.Sprint("Finished"),
		headerColor.Sprint("Tags"),
	)
	for _, r := range rows {
		num := ""
		if r.Number > 0 {
			num = strconv.Itoa(r.Number)
		}
		finished := ""
		if r.Finished > 0 {
			finished = format.Since(r.Finished, now)
		}
		tags := ""
		for i, tag := range r.Tags {
			if i > 0 {
				tags += " "
			}
			tags += p.Tag(tag)
		}
		tbl.AddRow(r.ID, num, r.Description, r.Note, string(r.Status), format.Since(r.Created, now), finished, tags)
	}
	fmt.Fprintln(p.w, tbl)
}
