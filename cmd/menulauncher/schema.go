package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnconnor-sec/menulauncher/internal/config"
)

func newSchemaCmd(opts *rootOptions) *cobra.Command {
	var (
		outputPath string
		examples   bool
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of menu documents",
		Long: `schema prints a JSON schema for menu documents that knows the command types
of the launcher mapping, for editor completion and validation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := opts.formatter(cmd)

			if examples {
				data, err := json.MarshalIndent(config.GetSchemaExamples(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(f.Writer(), string(data))
				return nil
			}

			_, sc, err := opts.loadSystem(cmd.Context())
			if err != nil {
				return err
			}
			if outputPath != "" {
				if err := config.SaveDocumentSchema(sc, outputPath); err != nil {
					return err
				}
				f.Success("JSON schema saved to: %s", outputPath)
				return nil
			}

			schema, err := config.GenerateDocumentSchema(sc)
			if err != nil {
				return err
			}
			fmt.Fprintln(f.Writer(), string(schema))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the schema to this file")
	cmd.Flags().BoolVar(&examples, "examples", false, "print example menu documents instead")
	return cmd
}
