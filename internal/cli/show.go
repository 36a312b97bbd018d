package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ivly-cli/internal/format"
	"ivly-cli/internal/model"
	"ivly-cli/internal/printer"
)

const noteWrapWidth = 80

func newShowCmd(app *App) *cobra.Command {
	var copyID bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task with its note rendered as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			id := args[0]
			open, done, err := app.loadLists(contextOf(cmd))
			if err != nil {
				return err
			}
			var (
				rec      model.Record
				status   printer.Status
				finished time.Duration
				isDone   bool
			)
			now := app.clock()
			if i := open.IndexOf(id); i >= 0 {
				t := open[i]
				rec, status = t.Record, printer.StatusTodo
				if d, ok := t.SinceFinished(now); ok {
					status, finished, isDone = printer.StatusMarked, d, true
				}
			} else if i := done.IndexOf(id); i >= 0 {
				t := done[i]
				rec, status = t.Record, printer.StatusDone
				finished, isDone = t.SinceCompleted(now), true
			} else {
				return taskNotFound(id)
			}

			p := app.printer(cmd)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s  %s\n", rec.ID, status, rec.Description)
			fmt.Fprintf(out, "created %s", format.Ago(rec.SinceCreated(now)))
			if isDone {
				fmt.Fprintf(out, ", finished %s", format.Ago(finished))
			}
			fmt.Fprintln(out)
			if len(rec.Tags) > 0 {
				tags := make([]string, len(rec.Tags))
				for i, tag := range rec.Tags {
					tags[i] = p.Tag(tag)
				}
				fmt.Fprintln(out, strings.Join(tags, " "))
			}
			if strings.TrimSpace(rec.Note) != "" {
				note, err := renderNote(rec.Note)
				if err != nil {
					return err
				}
				fmt.Fprint(out, note)
			}

			if copyID {
				if err := writeClipboard(rec.ID); err != nil {
					return fmt.Errorf("copy id: %w", err)
				}
				fmt.Fprintln(out, "Copied id to clipboard")
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&copyID, "copy", false, "Copy the task id to the clipboard")
	return cmd
}

func renderNote(note string) (string, error) {
	style := "dark"
	if color.NoColor {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(noteWrapWidth),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	s, err := r.Render(note)
	if err != nil {
		return "", fmt.Errorf("render note: %w", err)
	}
	return s, nil
}
