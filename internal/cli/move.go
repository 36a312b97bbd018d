package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errMoveArgs = errors.New("please specify both a task number and the number to insert before")

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "move [num before]",
		Aliases: []string{"mv"},
		Short:   "Move a task in front of another",
		Long:    "Move task num so it sits in front of task before.\nWithout arguments the interactive editor opens.",
		Args:    cobra.MaximumNArgs(2),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			switch len(args) {
			case 0:
				return app.interactive(cmd)
			case 1:
				return errMoveArgs
			}
			nums, err := parseTaskNums(args)
			if err != nil {
				return err
			}

			ctx := contextOf(cmd)
			open, err := app.store.LoadOpen(ctx)
			if err != nil {
				return err
			}
			from, err := open.TaskNumber(nums[0])
			if err != nil {
				return err
			}
			before, err := open.TaskNumber(nums[1])
			if err != nil {
				return err
			}
			to, err := open.Reposition(from, before)
			if err != nil {
				return err
			}
			if err := app.store.SaveOpen(ctx, open); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if to+1 < len(open) {
				fmt.Fprintf(out, "✅ Moved '%s' in front of '%s'!\n", open[to].Description, open[to+1].Description)
			} else {
				fmt.Fprintf(out, "✅ Moved '%s'!\n", open[to].Description)
			}
			return nil
		}),
	}
}
