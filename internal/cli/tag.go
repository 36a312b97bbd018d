package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"ivly-cli/internal/config"
)

func newTagCmd(app *App) *cobra.Command {
	var st config.TagStyle
	cmd := &cobra.Command{
		Use:   "tag <tag>",
		Short: "Set the colors of a tag",
		Long:  "Set the foreground and background colors used when printing a tag.\nColors: " +
			strings.Join(config.Colors, ", "),
		Example: strings.TrimSpace(`
  ivly tag work --fg blue
  ivly tag urgent --fg white --bg red
`),
		Args: cobra.ExactArgs(1),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			tag := strings.TrimPrefix(strings.TrimSpace(args[0]), "+")
			if tag == "" {
				return errors.New("tag must not be empty")
			}
			cfg, err := config.UpsertTagStyle(app.ConfigPath, config.Default(), tag, st)
			if err != nil {
				return err
			}
			app.cfg.Tags = cfg.Tags
			app.logger.Debug("tag style saved", "tag", tag, "config_path", app.ConfigPath)
			app.printer(cmd).TagStyles()
			return nil
		}),
	}
	cmd.Flags().StringVar(&st.Fg, "fg", "", "Foreground color")
	cmd.Flags().StringVar(&st.Bg, "bg", "", "Background color")
	return cmd
}
