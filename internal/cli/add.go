package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ivly-cli/internal/model"
)

func newAddCmd(app *App) *cobra.Command {
	var (
		note        string
		interactive bool
	)
	cmd := &cobra.Command{
		Use:     "add [description] [+tag ...]",
		Aliases: []string{"a"},
		Short:   "Add a new task",
		Long:    "Add a new task to the end of the open list.\nWithout a description the task is read from stdin.",
		Example: strings.TrimSpace(`
  ivly add "write report" +work -n "due friday"
  ivly add
  ivly add -i
`),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			if interactive {
				return app.interactive(cmd)
			}

			desc, tags, err := splitAddArgs(args)
			if err != nil {
				return err
			}
			if desc == "" {
				desc, note, tags, err = promptTask(cmd)
				if err != nil {
					return err
				}
			}
			if desc == "" {
				return errors.New("task description must not be empty")
			}

			ctx := contextOf(cmd)
			open, done, err := app.loadLists(ctx)
			if err != nil {
				return err
			}
			id, err := model.NewID(model.IDTaken(open, done))
			if err != nil {
				return fmt.Errorf("add task: %w", err)
			}
			t := model.NewOpenTask(id, desc, app.clock())
			t.Note = note
			for _, tag := range tags {
				t.AddTag(tag)
			}
			open.Append(t)
			if err := app.store.SaveOpen(ctx, open); err != nil {
				return err
			}
			app.logger.Debug("task added", "id", id, "tasks", len(open))

			fmt.Fprintf(cmd.OutOrStdout(), "✅ Added new task! ID: %s\n", id)
			app.printer(cmd).OpenTask(len(open)-1, t)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&note, "note", "n", "", "Task note")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Open the interactive editor instead")
	return cmd
}

// splitAddArgs joins plain words into the description and collects +tags.
func splitAddArgs(args []string) (string, []string, error) {
	var words, tags []string
	for _, a := range args {
		if strings.HasPrefix(a, "+") {
			tag, err := model.ParseAddTag(a)
			if err != nil {
				return "", nil, err
			}
			tags = append(tags, tag)
			continue
		}
		words = append(words, a)
	}
	return strings.TrimSpace(strings.Join(words, " ")), tags, nil
}

func promptTask(cmd *cobra.Command) (desc, note string, tags []string, err error) {
	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	if desc, err = readLine(in, out, "Task description:"); err != nil {
		return "", "", nil, err
	}
	if note, err = readLine(in, out, "Task note:"); err != nil {
		return "", "", nil, err
	}
	line, err := readLine(in, out, "Tags:")
	if err != nil {
		return "", "", nil, err
	}
	for _, field := range strings.Fields(line) {
		tag, err := model.ParseAddTag(field)
		if err != nil {
			return "", "", nil, fmt.Errorf("%q: %w", field, err)
		}
		tags = append(tags, tag)
	}
	return desc, note, tags, nil
}
