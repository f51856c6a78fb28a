package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/johnconnor-sec/menulauncher/internal/filter"
	"github.com/johnconnor-sec/menulauncher/internal/launcher"
)

// openSession starts a session on rootPath with the mapping of opts. The
// root password, if any, is asked on the terminal.
func openSession(ctx context.Context, opts *rootOptions, rootPath string, extra ...launcher.Option) (*launcher.Session, error) {
	_, sc, err := opts.loadSystem(ctx)
	if err != nil {
		return nil, err
	}
	return launcher.New(ctx, sc, rootPath, extra...)
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		caseSensitive bool
		noTitle       bool
		matchCommand  bool
	)

	cmd := &cobra.Command{
		Use:   "search CONFIG TERM",
		Short: "List the entries of all menus that match a term",
		Long: `search flattens the menu tree of CONFIG and prints the entries matching
TERM, each labeled with the submenus leading to it. Section titles are listed
when one of their entries matches.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			options := &filter.Options{
				CaseSensitive: caseSensitive,
				MatchTitle:    !noTitle,
				MatchCommand:  matchCommand,
			}

			s, err := openSession(cmd.Context(), opts, args[0], launcher.WithOptions(options))
			if err != nil {
				return err
			}
			defer s.Close()

			m := s.SearchMenu()
			m.FilterMenu(args[1])
			if f.RenderEntries(m) == 0 {
				f.Warning("No entry matches %q", args[1])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match case")
	cmd.Flags().BoolVar(&noTitle, "no-title", false, "do not match entry texts")
	cmd.Flags().BoolVar(&matchCommand, "command", false, "match the resolved command lines")
	return cmd
}
