package cli

import (
	"github.com/spf13/cobra"
)

type pathsOutput struct {
	Dir     string   `json:"dir"`
	Config  string   `json:"config"`
	Backend string   `json:"backend"`
	Store   []string `json:"store"`
	LogFile string   `json:"logFile,omitempty"`
}

func newPathsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the resolved data, config and store paths",
		Args:  cobra.NoArgs,
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, pathsOutput{
				Dir:     app.Dir,
				Config:  app.ConfigPath,
				Backend: string(app.cfg.Store.Backend),
				Store:   app.store.Paths(),
				LogFile: app.logger.FilePath(),
			})
		}),
	}
}
