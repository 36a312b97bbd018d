// Package printer writes colorized, non-interactive task output.
package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"ivly-cli/internal/config"
	"ivly-cli/internal/format"
	"ivly-cli/internal/model"
)

// TopN is how many open tasks the short listing shows.
const TopN = 6

var (
	numberColor   = color.New(color.FgHiBlack, color.Bold)
	descColor     = color.New(color.Bold)
	finishedColor = color.New(color.Bold, color.CrossedOut)
	completeColor = color.New(color.FgGreen, color.Underline)
	noteColor     = color.New(color.Italic)
	ageColor      = color.New(color.FgHiBlack, color.Underline)
	headerColor   = color.New(color.Bold, color.Underline)
	faintColor    = color.New(color.Faint)
)

var fgColors = map[string]color.Attribute{
	"black":          color.FgBlack,
	"red":            color.FgRed,
	"green":          color.FgGreen,
	"yellow":         color.FgYellow,
	"blue":           color.FgBlue,
	"magenta":        color.FgMagenta,
	"cyan":           color.FgCyan,
	"white":          color.FgWhite,
	"bright black":   color.FgHiBlack,
	"bright red":     color.FgHiRed,
	"bright green":   color.FgHiGreen,
	"bright yellow":  color.FgHiYellow,
	"bright blue":    color.FgHiBlue,
	"bright magenta": color.FgHiMagenta,
	"bright cyan":    color.FgHiCyan,
	"bright white":   color.FgHiWhite,
}

// Background attributes sit 10 above their foreground.
const bgOffset = color.BgBlack - color.FgBlack

// Printer renders tasks for the terminal. Tag colors come from the config.
type Printer struct {
	w     io.Writer
	cfg   config.Config
	clock model.Clock
}

func New(w io.Writer, cfg config.Config, clock model.Clock) *Printer {
	if clock == nil {
		clock = model.SystemClock
	}
	return &Printer{w: w, cfg: cfg, clock: clock}
}

// Tag colors a tag with its configured style, or leaves it plain.
func (p *Printer) Tag(tag string) string {
	st, ok := p.cfg.TagStyle(tag)
	if !ok {
		return tag
	}
	var attrs []color.Attribute
	if fg, ok := fgColors[st.Fg]; ok {
		attrs = append(attrs, fg)
	} else {
		attrs = append(attrs, color.FgWhite)
	}
	if bg, ok := fgColors[st.Bg]; ok {
		attrs = append(attrs, bg+bgOffset)
	}
	return color.New(attrs...).Sprint(tag)
}

// OpenTask prints one task in the three-line short form:
//
//	  1. description ➡ Completed 2 hours ago
//	     note
//	     3 days ago tag tag
func (p *Printer) OpenTask(index int, t model.OpenTask) {
	now := p.clock()
	num := numberColor.Sprint(strconv.Itoa(index+1) + ".")
	desc := descColor.Sprint(t.Description)
	if t.IsFinished() {
		desc = finishedColor.Sprint(t.Description)
	}
	fmt.Fprintf(p.w, " %s %s", padLeft(num, index+1), desc)
	if d, ok := t.SinceFinished(now); ok {
		fmt.Fprintf(p.w, " ➡ %s", completeColor.Sprint("Completed "+format.Ago(d)))
	}
	fmt.Fprintln(p.w)

	if t.Note != "" {
		fmt.Fprintf(p.w, "       %s\n", noteColor.Sprint(t.Note))
	}

	fmt.Fprintf(p.w, "       %s ", ageColor.Sprint(format.Ago(t.SinceCreated(now))))
	for _, tag := range t.Tags {
		fmt.Fprintf(p.w, "%s ", p.Tag(tag))
	}
	fmt.Fprintln(p.w)
}

// padLeft right-aligns the "n." label in a four column field.
func padLeft(label string, n int) string {
	width := len(strconv.Itoa(n)) + 1
	if width >= 4 {
		return label
	}
	return strings.Repeat(" ", 4-width) + label
}

// Top prints the first TopN tasks of open that match filters and returns how
// many matched in total.
func (p *Printer) Top(open model.OpenTasks, filters []model.FilterTag) int {
	matched := 0
	for i, t := range open {
		if !model.MatchAll(filters, t.Tags) {
			continue
		}
		if matched < TopN {
			p.OpenTask(i, t)
		}
		matched++
	}
	return matched
}

// Backlog prints "N tasks in backlog" for tasks beyond the shown ones.
func (p *Printer) Backlog(matched int) {
	if matched <= TopN {
		return
	}
	faintColor.Fprintf(p.w, "%d tasks in backlog\n", matched-TopN)
}

// TagStyles prints every configured tag with its colors.
func (p *Printer) TagStyles() {
	tbl := uitable.New()
	tbl.Separator = "\t"
	for _, name := range p.cfg.TagNames() {
		st := p.cfg.Tags[name]
		tbl.AddRow(p.Tag(name), st.Fg, st.Bg)
	}
	fmt.Fprintln(p.w, tbl)
}
