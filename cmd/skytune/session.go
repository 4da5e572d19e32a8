package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/skytune/pkg/session"
)

// newSessionCmd creates the session subcommand.
func newSessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the stored account session",
		Long:  "Store, show or clear the access token used for authenticated feeds such as the home timeline.",
	}

	cmd.AddCommand(newSessionSetCmd(a))
	cmd.AddCommand(newSessionShowCmd(a))
	cmd.AddCommand(newSessionClearCmd(a))

	return cmd
}

func newSessionSetCmd(a *app) *cobra.Command {
	var sess session.Session

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store an access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sess.AccessJwt == "" {
				return errors.New("missing token: pass --token")
			}
			store := session.NewStore(a.cfg.Dir)
			if err := store.Save(&sess); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session saved to: %s\n", store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&sess.AccessJwt, "token", "", "Access JWT for the account")
	cmd.Flags().StringVar(&sess.Handle, "handle", "", "Account handle")
	cmd.Flags().StringVar(&sess.DID, "did", "", "Account DID")

	return cmd
}

func newSessionShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.NewStore(a.cfg.Dir).Load()
			if errors.Is(err, session.ErrSessionNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No session stored.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Handle: %s\nDID: %s\n", orDash(sess.Handle), orDash(sess.DID))
			return nil
		},
	}
}

func newSessionClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session.NewStore(a.cfg.Dir).Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
