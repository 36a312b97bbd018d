package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ivly-cli/internal/format"
	"ivly-cli/internal/model"
	"ivly-cli/internal/printer"
)

func newListCmd(app *App) *cobra.Command {
	var (
		onlyOpen bool
		onlyDone bool
		output   string
	)
	cmd := &cobra.Command{
		Use:     "list [+tag|/tag ...]",
		Aliases: []string{"ls"},
		Short:   "List open and done tasks",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			filters, err := model.ParseFilterTags(args)
			if err != nil {
				return err
			}
			open, done, err := app.loadLists(contextOf(cmd))
			if err != nil {
				return err
			}
			// Neither flag, or both, means everything.
			if onlyOpen != onlyDone {
				if onlyOpen {
					done = nil
				} else {
					open = nil
				}
			}
			rows := printer.Rows(open, done, filters)

			switch output {
			case "table":
				app.printer(cmd).Table(rows)
				return nil
			case "json":
				return format.WriteJSON(cmd.OutOrStdout(), rows, app.Pretty)
			default:
				return fmt.Errorf("unsupported format %q (want table or json)", output)
			}
		}),
	}
	cmd.Flags().BoolVar(&onlyOpen, "open", false, "Only show open tasks")
	cmd.Flags().BoolVar(&onlyDone, "done", false, "Only show done tasks")
	cmd.Flags().StringVar(&output, "format", "table", "Output format (table|json)")
	return cmd
}
