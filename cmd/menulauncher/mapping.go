package main

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnconnor-sec/menulauncher/internal/config"
)

func newMappingCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Manage the launcher mapping",
	}
	cmd.AddCommand(newMappingInitCmd(opts), newMappingShowCmd(opts))
	return cmd
}

func newMappingInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the default mapping for editing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)

			var path string
			if len(args) > 0 {
				path = args[0]
			} else {
				var err error
				if path, err = config.DefaultMappingPath(); err != nil {
					return err
				}
			}

			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			f.Success("Mapping written to: %s", path)
			f.Info("Add your command types, then check them with 'menulauncher mapping show'")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newMappingShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the mapping block of this system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := opts.formatter(cmd)

			mapping, sc, err := opts.loadSystem(cmd.Context())
			if err != nil {
				return err
			}

			source := mapping.Path
			if source == "" {
				source = "built-in default"
			}
			f.Header("Mapping for " + config.SystemName())
			f.Table().
				Headers("Setting", "Value").
				Row("Source", source).
				Row("Launcher base", sc.LauncherBase).
				Row("Theme base", sc.ThemeBase).
				Print()

			f.Subheader("Command types")
			table := f.Table().Headers("Type", "Command", "Arguments")
			for _, name := range sc.CommandTypeNames() {
				ct, _ := sc.CommandType(name)
				table.Row(name, ct.Command, formatArgFlags(ct.ArgFlags))
			}
			table.Print()
			return nil
		},
	}
}

func formatArgFlags(flags map[string]string) string {
	parts := make([]string, 0, len(flags))
	for name, flag := range flags {
		parts = append(parts, name+"="+flag)
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
