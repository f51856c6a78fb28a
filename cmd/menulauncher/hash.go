package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnconnor-sec/menulauncher/internal/errors"
	"github.com/johnconnor-sec/menulauncher/internal/protect"
)

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Print the password hash for a \"password\" field",
		Long: `hash reads a password without echo and prints the digest to store in the
"password" field of a menu document or of a command entry.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prompter := protect.NewTerminalPrompter()
			prompter.Out = cmd.ErrOrStderr()

			password, ok, err := prompter.Prompt("")
			if err != nil {
				return errors.Wrap(err, errors.InternalError, "Cannot read the password")
			}
			if !ok {
				return errors.New(errors.ValidationFailed, "Empty password")
			}
			fmt.Fprintln(cmd.OutOrStdout(), protect.Hash(password))
			return nil
		},
	}
}
