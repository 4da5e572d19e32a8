package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gauthierbraillon/skytune/pkg/browser"
)

// newOpenCmd creates the open subcommand.
func newOpenCmd(a *app) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "open <at-uri>",
		Short: "Open a post in the web browser",
		Long:  "Convert a post AT-URI, as printed by 'skytune feed --json', into a bsky.app link and open it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := browser.PostURL(args[0])
			if err != nil {
				return err
			}
			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), link)
				return nil
			}
			a.log.Debug("opening post", zap.String("url", link))
			if err := browser.New().Open(link); err != nil {
				return fmt.Errorf("failed to open browser: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened: %s\n", link)
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the link instead of opening it")

	return cmd
}
