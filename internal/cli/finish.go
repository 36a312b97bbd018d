package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"ivly-cli/internal/model"
)

func newFinishCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "finish [num ...]",
		Aliases: []string{"f"},
		Short:   "Mark tasks as finished",
		Long:    "Mark the numbered tasks as finished.\nWithout a number the first unfinished task is finished.",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			nums, err := parseTaskNums(args)
			if err != nil {
				return err
			}
			ctx := contextOf(cmd)
			open, err := app.store.LoadOpen(ctx)
			if err != nil {
				return err
			}
			if len(nums) == 0 {
				nums = []int{model.FirstUnfinished(open) + 1}
			}

			now := app.clock()
			var finished []string
			for _, n := range nums {
				i, err := open.TaskNumber(n)
				if err != nil {
					return err
				}
				if err := model.FinishAt(open, i, now); err != nil {
					return err
				}
				finished = append(finished, open[i].Description)
			}
			if err := app.store.SaveOpen(ctx, open); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, desc := range finished {
				fmt.Fprintf(out, "✅ Finished '%s'!\n", desc)
			}
			app.printer(cmd).Top(open, nil)
			return nil
		}),
	}
}

func newSweepCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Move finished tasks into the done list",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			open, done, err := app.loadLists(ctx)
			if err != nil {
				return err
			}
			before := len(open)
			open, done = model.Sweep(open, done, app.clock())

			// Done first: a crash in between leaves a task in both lists
			// rather than in neither.
			if err := app.store.SaveDone(ctx, done); err != nil {
				return err
			}
			if err := app.store.SaveOpen(ctx, open); err != nil {
				return err
			}
			app.logger.Debug("swept finished tasks", "moved", before-len(open), "done", len(done))

			fmt.Fprintln(cmd.OutOrStdout(), "✅ Swept finished tasks into done list")
			app.printer(cmd).Top(open, nil)
			return nil
		}),
	}
}

func newBumpCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "bump num [num ...]",
		Short: "Move tasks to the end of the open list",
		Args:  cobra.MinimumNArgs(1),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			nums, err := parseTaskNums(args)
			if err != nil {
				return err
			}
			// Highest first so earlier numbers still point at the same task.
			slices.Sort(nums)
			nums = slices.Compact(nums)
			slices.Reverse(nums)

			ctx := contextOf(cmd)
			open, err := app.store.LoadOpen(ctx)
			if err != nil {
				return err
			}
			for _, n := range nums {
				i, err := open.TaskNumber(n)
				if err != nil {
					return err
				}
				if err := open.Bump(i); err != nil {
					return err
				}
			}
			if err := app.store.SaveOpen(ctx, open); err != nil {
				return err
			}

			p := app.printer(cmd)
			out := cmd.OutOrStdout()
			for k := len(nums); k > 0; k-- {
				i := len(open) - k
				fmt.Fprintf(out, "✅ Bumped '%s'!\n", open[i].Description)
				p.OpenTask(i, open[i])
			}
			return nil
		}),
	}
}

func parseTaskNums(args []string) ([]int, error) {
	nums := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid task number %q", a)
		}
		nums = append(nums, n)
	}
	return nums, nil
}
