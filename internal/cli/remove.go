package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task from the open or done list",
		Args:    cobra.ExactArgs(1),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			id := args[0]
			ctx := contextOf(cmd)
			open, done, err := app.loadLists(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if i := open.IndexOf(id); i >= 0 {
				if _, err := open.RemoveAt(i); err != nil {
					return err
				}
				if err := app.store.SaveOpen(ctx, open); err != nil {
					return err
				}
				fmt.Fprintf(out, "✅ Removed task `%s` from todo task list\n", id)
				return nil
			}
			if i := done.IndexOf(id); i >= 0 {
				if _, err := done.RemoveAt(i); err != nil {
					return err
				}
				if err := app.store.SaveDone(ctx, done); err != nil {
					return err
				}
				fmt.Fprintf(out, "✅ Removed task `%s` from done task list\n", id)
				return nil
			}
			return taskNotFound(id)
		}),
	}
}
