package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ivly-cli/internal/model"
)

func newEditCmd(app *App) *cobra.Command {
	var desc, note string
	cmd := &cobra.Command{
		Use:   "edit [id] [-d description] [-n note] [+tag|/tag ...]",
		Short: "Edit a task's description, note or tags",
		Long:  "Edit the task with id, looking in the open list first and then the done list.\n+tag adds a tag and /tag removes it from an open task.\nWithout an id the interactive editor opens.",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return app.interactive(cmd)
			}
			id := args[0]
			tags, err := model.ParseFilterTags(args[1:])
			if err != nil {
				return err
			}
			setDesc := cmd.Flags().Changed("desc")
			setNote := cmd.Flags().Changed("note")
			apply := func(r *model.Record, allowRemove bool) {
				if setDesc {
					r.Description = desc
				}
				if setNote {
					r.Note = note
				}
				for _, f := range tags {
					switch {
					case !f.Negate:
						r.AddTag(f.Tag)
					case allowRemove:
						r.RemoveTag(f.Tag)
					case r.HasTag(f.Tag):
						app.logger.Warn("tag removal only applies to open tasks", "id", id, "tag", f.Tag)
					}
				}
			}

			ctx := contextOf(cmd)
			open, done, err := app.loadLists(ctx)
			if err != nil {
				return err
			}
			if i := open.IndexOf(id); i >= 0 {
				apply(&open[i].Record, true)
				if err := app.store.SaveOpen(ctx, open); err != nil {
					return err
				}
			} else if i := done.IndexOf(id); i >= 0 {
				apply(&done[i].Record, false)
				if err := app.store.SaveDone(ctx, done); err != nil {
					return err
				}
			} else {
				return taskNotFound(id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Edited task %s\n", id)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Set the description")
	cmd.Flags().StringVarP(&note, "note", "n", "", "Set the note")
	return cmd
}
